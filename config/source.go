package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kilianp07/svitlo/auth"
	"github.com/kilianp07/svitlo/core/model"
)

// Source types.
const (
	SourceESvitlo  = "esvitlo"
	SourceHTMLPage = "htmlpage"
	SourceFixture  = "fixture"
)

// SourceConfig selects and configures the upstream connector.
type SourceConfig struct {
	Type     string         `json:"type" validate:"oneof=esvitlo htmlpage fixture"`
	ESvitlo  ESvitloConfig  `json:"esvitlo"`
	HTMLPage HTMLPageConfig `json:"htmlpage"`
	Fixture  FixtureConfig  `json:"fixture"`
}

// ESvitloConfig configures the e-svitlo household cabinet API.
type ESvitloConfig struct {
	BaseURL  string `json:"base_url"`
	Login    string `json:"login"`
	Password string `json:"password"`
	Account  string `json:"account"`
	// EIC maps a queue key ("1.1") to the metering point code used to query it.
	EIC               map[string]string `json:"eic"`
	RequestsPerSecond float64           `json:"requests_per_second"`
	TimeoutSeconds    int               `json:"timeout_seconds"`
}

// HTMLPageConfig configures the public schedule page scraper.
type HTMLPageConfig struct {
	URL            string    `json:"url"`
	Auth           auth.Conf `json:"auth"`
	TimeoutSeconds int       `json:"timeout_seconds"`
}

// FixtureConfig points at a recorded YAML or JSON interval file.
type FixtureConfig struct {
	Path string `json:"path"`
}

func (c *SourceConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = SourceESvitlo
	}
	c.ESvitlo.SetDefaults()
	if c.HTMLPage.TimeoutSeconds <= 0 {
		c.HTMLPage.TimeoutSeconds = 20
	}
}

// SetDefaults also picks up the ESVITLO_LOGIN, ESVITLO_PASSWORD and
// ESVITLO_EIC_<g>_<q> variables used by existing deployments.
func (c *ESvitloConfig) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://vn.e-svitlo.com.ua"
	}
	if c.Login == "" {
		c.Login = os.Getenv("ESVITLO_LOGIN")
	}
	if c.Password == "" {
		c.Password = os.Getenv("ESVITLO_PASSWORD")
	}
	if c.Account == "" {
		c.Account = "290637"
	}
	if c.EIC == nil {
		c.EIC = make(map[string]string)
	}
	for _, q := range model.Queues {
		if _, ok := c.EIC[string(q)]; ok {
			continue
		}
		name := "ESVITLO_EIC_" + strings.ReplaceAll(string(q), ".", "_")
		if v := os.Getenv(name); v != "" {
			c.EIC[string(q)] = v
		}
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 1
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 20
	}
}

// Timeout returns the per-request timeout.
func (c ESvitloConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c SourceConfig) Validate() error {
	switch c.Type {
	case SourceESvitlo:
		for q := range c.ESvitlo.EIC {
			if !model.QueueKey(q).Known() {
				return fmt.Errorf("source.esvitlo.eic: unknown queue %q", q)
			}
		}
	case SourceHTMLPage:
		if c.HTMLPage.URL == "" {
			return fmt.Errorf("source.htmlpage.url is required")
		}
	case SourceFixture:
		if c.Fixture.Path == "" {
			return fmt.Errorf("source.fixture.path is required")
		}
	}
	return nil
}
