package htmlpage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/svitlo/auth"
	"github.com/kilianp07/svitlo/config"
	"github.com/kilianp07/svitlo/core/logger"
	"github.com/kilianp07/svitlo/core/model"
	"github.com/kilianp07/svitlo/core/source"
	infralogger "github.com/kilianp07/svitlo/infra/logger"
)

const Name = "htmlpage"

// Client scrapes a published schedule page. When OAuth2 credentials are
// configured the request carries a bearer token.
type Client struct {
	url  string
	cred *auth.ClientCred
	loc  *time.Location
	http *http.Client
	log  logger.Logger
}

// New builds a page client from cfg.
func New(cfg config.HTMLPageConfig, loc *time.Location) *Client {
	c := &Client{
		url:  cfg.URL,
		loc:  loc,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:  infralogger.New("htmlpage"),
	}
	if cfg.Auth.Enabled() {
		c.cred = auth.NewClientCred(cfg.Auth)
	}
	return c
}

func (c *Client) Name() string { return Name }

func (c *Client) SetHTTPClient(hc *http.Client) { c.http = hc }

func (c *Client) SetLogger(l logger.Logger) { c.log = logger.OrNop(l) }

// Fetch downloads and parses the page. Queues absent from the page are left
// out of the results.
func (c *Client) Fetch(ctx context.Context) (source.Results, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	if c.cred != nil {
		if err := c.cred.SetAuthHeader(req); err != nil {
			return nil, fmt.Errorf("%w: %v", source.ErrUnauthorized, err)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w (status %d)", source.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w %d", source.ErrUnexpectedStatus, resp.StatusCode)
	}

	rows, err := parsePage(resp.Body)
	if err != nil {
		return nil, err
	}
	results := source.Results{}
	for _, q := range model.Queues {
		records, ok := rows[q]
		if !ok {
			continue
		}
		intervals, _ := source.ParseRecords(q, records, c.loc, c.log)
		results.Set(q, intervals)
	}
	c.log.Infof("page listed %d queues, %d intervals", len(results), results.Count())
	return results, nil
}
