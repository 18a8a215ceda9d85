package connectors

import (
	"fmt"
	"net/http"

	"github.com/kilianp07/svitlo/core/logger"
	"github.com/kilianp07/svitlo/core/source"
)

// Option customizes a connector after construction.
type Option func(c source.Source) error

const ErrIncompatipleOption = "option %s is not compatible with the %s connector"

// HTTPConfigurable is implemented by connectors talking HTTP.
type HTTPConfigurable interface {
	SetHTTPClient(c *http.Client)
}

// LoggerConfigurable is implemented by connectors accepting a logger.
type LoggerConfigurable interface {
	SetLogger(l logger.Logger)
}

// WithHTTPClient replaces the connector's HTTP client. The connector keeps its
// own cookie jar on top of it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c source.Source) error {
		if h, ok := c.(HTTPConfigurable); ok {
			h.SetHTTPClient(hc)
			return nil
		}
		return fmt.Errorf(ErrIncompatipleOption, "WithHTTPClient", c.Name())
	}
}

// WithLogger replaces the connector's logger.
func WithLogger(l logger.Logger) Option {
	return func(c source.Source) error {
		if lc, ok := c.(LoggerConfigurable); ok {
			lc.SetLogger(l)
			return nil
		}
		return fmt.Errorf(ErrIncompatipleOption, "WithLogger", c.Name())
	}
}

// Apply runs opts against c in order.
func Apply(c source.Source, opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}
