package esvitlo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kilianp07/svitlo/auth"
	"github.com/kilianp07/svitlo/config"
	"github.com/kilianp07/svitlo/core/logger"
	"github.com/kilianp07/svitlo/core/model"
	"github.com/kilianp07/svitlo/core/source"
	infralogger "github.com/kilianp07/svitlo/infra/logger"
)

const (
	Name = "esvitlo"

	loginPath          = "/registr_all_user/login_all_user"
	cabinetPath        = "/account_household"
	disconnectionsPath = "/account_household/show_only_disconnections"
	userAgent          = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Client reads planned outages from the e-svitlo household cabinet. Every
// Fetch opens a fresh cookie session: landing page, form login, cabinet
// activation, then one request per queue paced by a rate limiter.
type Client struct {
	baseURL string
	login   auth.FormLogin
	account string
	eic     map[model.QueueKey]string
	loc     *time.Location
	limiter *rate.Limiter
	http    *http.Client
	log     logger.Logger
}

// New builds a client from cfg. Timestamps are read in loc.
func New(cfg config.ESvitloConfig, loc *time.Location) *Client {
	eic := make(map[model.QueueKey]string, len(cfg.EIC))
	for q, code := range cfg.EIC {
		eic[model.QueueKey(q)] = code
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		login:   auth.FormLogin{Email: cfg.Login, Password: cfg.Password},
		account: cfg.Account,
		eic:     eic,
		loc:     loc,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		http:    &http.Client{Timeout: cfg.Timeout()},
		log:     infralogger.New("esvitlo"),
	}
}

func (c *Client) Name() string { return Name }

func (c *Client) SetHTTPClient(hc *http.Client) { c.http = hc }

func (c *Client) SetLogger(l logger.Logger) { c.log = logger.OrNop(l) }

// Fetch logs in and downloads the outages of every queue with a known EIC.
// A queue whose request fails is left out of the results.
func (c *Client) Fetch(ctx context.Context) (source.Results, error) {
	if !c.login.Valid() {
		return nil, fmt.Errorf("%w: login and password are required", source.ErrUnauthorized)
	}
	hc, err := c.session()
	if err != nil {
		return nil, err
	}
	if err := c.authenticate(ctx, hc); err != nil {
		return nil, err
	}

	results := source.Results{}
	for _, q := range model.Queues {
		code, ok := c.eic[q]
		if !ok || code == "" {
			c.log.Warnf("%s: no EIC configured, skipping", q.DisplayID())
			continue
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return results, err
		}
		records, err := c.fetchQueue(ctx, hc, code)
		if err != nil {
			c.log.Errorf("%s: fetch failed: %v", q.DisplayID(), err)
			continue
		}
		intervals, dropped := source.ParseRecords(q, records, c.loc, c.log)
		c.log.Infof("%s: %d planned outages (%d malformed)", q.DisplayID(), len(intervals), dropped)
		results.Set(q, intervals)
	}
	return results, nil
}

// session clones the configured client with a private cookie jar.
func (c *Client) session() (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	hc := *c.http
	hc.Jar = jar
	return &hc, nil
}

func (c *Client) authenticate(ctx context.Context, hc *http.Client) error {
	if resp, err := c.do(ctx, hc, http.MethodGet, "/", nil); err != nil {
		c.log.Warnf("landing page: %v", err)
	} else {
		drain(resp)
	}

	form := c.login.Values().Encode()
	resp, err := c.do(ctx, hc, http.MethodPost, loginPath, strings.NewReader(form))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("login: %w (status %d)", source.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("login: %w %d", source.ErrUnexpectedStatus, resp.StatusCode)
	}
	text := string(body)
	if !strings.Contains(text, "Вихід") && !strings.Contains(strings.ToLower(text), "logout") {
		c.log.Warnf("login: no logout marker in response, session may be anonymous")
	}

	resp, err = c.do(ctx, hc, http.MethodGet, cabinetPath, nil)
	if err != nil {
		return fmt.Errorf("activate session: %w", err)
	}
	drain(resp)
	c.log.Debugf("session active with %d cookies", len(hc.Jar.Cookies(resp.Request.URL)))
	return nil
}

func (c *Client) fetchQueue(ctx context.Context, hc *http.Client, eic string) ([]source.Record, error) {
	q := url.Values{"eic": {eic}, "type_user": {"1"}, "a": {c.account}}
	resp, err := c.do(ctx, hc, http.MethodGet, disconnectionsPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %d", source.ErrUnexpectedStatus, resp.StatusCode)
	}
	var body disconnectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return body.records(), nil
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "uk,ru;q=0.9,en-US;q=0.8,en;q=0.7")
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Origin", c.baseURL)
		req.Header.Set("Referer", c.baseURL+"/user_register")
	} else {
		req.Header.Set("Accept", "application/json, text/html")
	}
	return hc.Do(req)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
