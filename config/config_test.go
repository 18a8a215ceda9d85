package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `region:
  utc_offset_hours: 3
source:
  type: esvitlo
  esvitlo:
    login: "user@example.com"
    account: "123"
    eic:
      "1.1": "62Z0000000000001"
transform:
  boundary_rule: legacy
output:
  dir: out
  formats: [png, pdf]
  exports: [csv]
cache:
  type: sqlite
  conf:
    path: out/fp.db
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  topic_prefix: "power"
metrics:
  sinks:
    - type: "nop"
serve:
  cron: "0 * * * *"
  api_token: "secret"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"region.id", cfg.Region.ID, "vinnytsia"},
		{"region.utc_offset_hours", cfg.Region.UTCOffsetHours, 3},
		{"source.type", cfg.Source.Type, SourceESvitlo},
		{"source.esvitlo.login", cfg.Source.ESvitlo.Login, "user@example.com"},
		{"source.esvitlo.account", cfg.Source.ESvitlo.Account, "123"},
		{"source.esvitlo.eic", cfg.Source.ESvitlo.EIC["1.1"], "62Z0000000000001"},
		{"source.esvitlo.base_url", cfg.Source.ESvitlo.BaseURL, "https://vn.e-svitlo.com.ua"},
		{"transform.boundary_rule", cfg.Transform.BoundaryRule, "legacy"},
		{"output.document", cfg.Output.DocumentPath(), filepath.Join("out", "Vinnytsiaoblenerho.json")},
		{"output.formats", len(cfg.Output.Formats), 2},
		{"cache.type", cfg.Cache.Type, "sqlite"},
		{"mqtt.topic_prefix", cfg.MQTT.TopicPrefix, "power"},
		{"mqtt.lwt_topic", cfg.MQTT.LWTTopic, "power/status"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"serve.cron", cfg.Serve.Cron, "0 * * * *"},
		{"serve.addr", cfg.Serve.Addr, ":8080"},
		{"serve.api_token", cfg.Serve.APIToken, "secret"},
		{"runlog.backend", cfg.RunLog.Backend, "jsonl"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: got %v want %v", c.name, c.got, c.want)
		}
	}
	_, offset := time.Now().In(cfg.Region.Location()).Zone()
	assert.Equal(t, 3*3600, offset)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"source":{"type":"fixture","fixture":{"path":"testdata/day.yaml"}},"output":{"file":"gpv.json"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SourceFixture, cfg.Source.Type)
	assert.Equal(t, "testdata/day.yaml", cfg.Source.Fixture.Path)
	assert.Equal(t, filepath.Join("data", "gpv.json"), cfg.Output.DocumentPath())
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeFile(t, "config.yaml", "source:\n  esvitlo:\n    password: from-file\n")
	t.Setenv("SVITLO_SOURCE__ESVITLO__PASSWORD", "from-env")
	t.Setenv("SVITLO_SERVE__ADDR", ":9999")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Source.ESvitlo.Password)
	assert.Equal(t, ":9999", cfg.Serve.Addr)
}

func TestLoadLegacyEnv(t *testing.T) {
	t.Setenv("ESVITLO_LOGIN", "legacy@example.com")
	t.Setenv("ESVITLO_EIC_3_2", "62Z0000000000032")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "legacy@example.com", cfg.Source.ESvitlo.Login)
	assert.Equal(t, "62Z0000000000032", cfg.Source.ESvitlo.EIC["3.2"])
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2, cfg.Region.UTCOffsetHours)
	assert.Equal(t, "symmetric", cfg.Transform.BoundaryRule)
	assert.Equal(t, []string{"png"}, cfg.Output.Formats)
	assert.Equal(t, "file", cfg.Cache.Type)
	assert.Equal(t, filepath.Join("images", "hash"), cfg.Cache.Conf["dir"])
	assert.Equal(t, "*/30 * * * *", cfg.Serve.Cron)
	assert.False(t, cfg.MQTT.Enabled)
	assert.False(t, cfg.Storage.Enabled)
	assert.False(t, cfg.Sentry.Enabled())
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"boundary rule":  "transform:\n  boundary_rule: sideways\n",
		"source type":    "source:\n  type: carrier-pigeon\n",
		"render format":  "output:\n  formats: [gif]\n",
		"export format":  "output:\n  exports: [ods]\n",
		"document ext":   "output:\n  file: gpv.txt\n",
		"cache backend":  "cache:\n  type: memcached\n",
		"mqtt broker":    "mqtt:\n  enabled: true\n",
		"mqtt auth":      "mqtt:\n  enabled: true\n  broker: tcp://b:1883\n  auth_method: kerberos\n",
		"storage bucket": "storage:\n  enabled: true\n  endpoint: localhost:9000\n",
		"runlog backend": "runlog:\n  backend: csv\n",
		"cron":           "serve:\n  cron: every minute\n",
		"eic queue":      "source:\n  esvitlo:\n    eic:\n      \"7.1\": x\n",
		"htmlpage url":   "source:\n  type: htmlpage\n",
		"fixture path":   "source:\n  type: fixture\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", data))
			assert.Error(t, err)
		})
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", "a = 1\n"))
	assert.ErrorContains(t, err, "unsupported config format")
}
