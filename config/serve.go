package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// ServeConfig configures the long running mode.
type ServeConfig struct {
	Cron       string `json:"cron"`
	Addr       string `json:"addr"`
	APIToken   string `json:"api_token"`
	RunOnStart bool   `json:"run_on_start"`
}

func (c *ServeConfig) SetDefaults() {
	if c.Cron == "" {
		c.Cron = "*/30 * * * *"
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

func (c ServeConfig) Validate() error {
	if _, err := cron.ParseStandard(c.Cron); err != nil {
		return fmt.Errorf("serve.cron: %w", err)
	}
	return nil
}
