package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the default Prometheus registry. Serve mode mounts it at
// /metrics.
func Handler() http.Handler { return promhttp.Handler() }
