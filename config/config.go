package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/svitlo/core/metrics"
	"github.com/kilianp07/svitlo/infra/mqtt"
)

// EnvPrefix marks environment overrides, e.g. SVITLO_SOURCE__ESVITLO__PASSWORD.
const EnvPrefix = "SVITLO_"

type Config struct {
	Region    RegionConfig    `json:"region"`
	Source    SourceConfig    `json:"source"`
	Transform TransformConfig `json:"transform"`
	Output    OutputConfig    `json:"output"`
	Cache     CacheConfig     `json:"cache"`
	Metrics   metrics.Config  `json:"metrics"`
	MQTT      mqtt.Config     `json:"mqtt"`
	Storage   StorageConfig   `json:"storage"`
	RunLog    RunLogConfig    `json:"runlog"`
	Sentry    SentryConfig    `json:"sentry"`
	Serve     ServeConfig     `json:"serve"`
}

var validate = validator.New()

// Load reads the config file at path, applies SVITLO_ environment overrides,
// fills defaults and validates the result. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Region.SetDefaults()
	c.Source.SetDefaults()
	c.Transform.SetDefaults()
	c.Output.SetDefaults()
	c.Cache.SetDefaults(c.Output.HashDir())
	c.MQTT.SetDefaults()
	c.RunLog.SetDefaults()
	c.Serve.SetDefaults()
}

// Validate runs the struct tag rules and then the per-section checks.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for _, v := range []interface{ Validate() error }{
		c.Source, c.Output, c.Cache, c.MQTT, c.Storage, c.RunLog, c.Serve,
	} {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}
