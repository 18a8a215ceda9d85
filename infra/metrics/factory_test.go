package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInflux(t *testing.T) {
	c, err := decodeInflux(map[string]any{"url": "http://influx:8086", "org": "grid", "token": "t"})
	require.NoError(t, err)
	assert.Equal(t, InfluxConfig{URL: "http://influx:8086", Token: "t", Org: "grid", Bucket: "svitlo"}, c)

	c, err = decodeInflux(map[string]any{"url": "http://influx:8086", "bucket": "outages"})
	require.NoError(t, err)
	assert.Equal(t, "outages", c.Bucket)

	_, err = decodeInflux(nil)
	assert.ErrorContains(t, err, "url is required")
}
