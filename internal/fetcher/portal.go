package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"fjacquet/betterment-ynab/internal/credentials"
	"fjacquet/betterment-ynab/internal/fileutils"
	"fjacquet/betterment-ynab/internal/logging"

	"golang.org/x/net/html"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// DefaultMaxLoginAttempts is the number of login submits tried before giving up.
const DefaultMaxLoginAttempts = 4

// PortalConfig configures a PortalFetcher.
type PortalConfig struct {
	BaseURL           string
	LoginPath         string
	AccountGroupID    string
	OutputDir         string
	MaxLoginAttempts  int
	RequestsPerSecond float64
	Timeout           time.Duration
}

// StatusError is a non-2xx portal response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// PortalFetcher drives the portal over HTTP with a cookie session.
type PortalFetcher struct {
	cfg      PortalConfig
	base     *url.URL
	client   *http.Client
	limiter  *rate.Limiter
	logger   logging.Logger
	loggedIn bool
}

// NewPortalFetcher validates cfg and prepares a client with its own cookie jar.
func NewPortalFetcher(cfg PortalConfig, logger logging.Logger) (*PortalFetcher, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid portal base URL %q", cfg.BaseURL)
	}
	if cfg.MaxLoginAttempts <= 0 {
		cfg.MaxLoginAttempts = DefaultMaxLoginAttempts
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &PortalFetcher{
		cfg:     cfg,
		base:    base,
		client:  &http.Client{Jar: jar, Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}, nil
}

// Login submits the portal login form, retrying up to MaxLoginAttempts times.
func (p *PortalFetcher) Login(ctx context.Context, creds credentials.Credentials) error {
	loginURL := p.resolve(p.cfg.LoginPath)

	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxLoginAttempts; attempt++ {
		lastErr = p.submitLogin(ctx, loginURL, creds)
		if lastErr == nil {
			p.loggedIn = true
			p.logger.Info("Logged in to portal",
				logging.Field{Key: logging.FieldURL, Value: loginURL.Redacted()},
				logging.Field{Key: logging.FieldAttempt, Value: attempt})
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.WithError(lastErr).Warn("Login submit failed, trying again",
			logging.Field{Key: logging.FieldAttempt, Value: attempt})
	}
	return fmt.Errorf("login failed after %d attempts: %w", p.cfg.MaxLoginAttempts, lastErr)
}

func (p *PortalFetcher) submitLogin(ctx context.Context, loginURL *url.URL, creds credentials.Credentials) error {
	page, finalURL, err := p.get(ctx, loginURL)
	if err != nil {
		return err
	}

	form, err := findLoginForm(page)
	if err != nil {
		return err
	}
	values := form.fill(creds)

	action := finalURL
	if form.action != "" {
		ref, err := url.Parse(form.action)
		if err != nil {
			return fmt.Errorf("invalid form action %q: %w", form.action, err)
		}
		action = finalURL.ResolveReference(ref)
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, action.String(), strings.NewReader(values.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, _, err := p.do(req)
	if err != nil {
		return err
	}
	if _, err := findLoginForm(body); err == nil {
		return fmt.Errorf("login rejected by %s", action.Redacted())
	}
	return nil
}

// FetchTransactions implements Fetcher.
func (p *PortalFetcher) FetchTransactions(ctx context.Context, account Account, sinceDays int) ([]string, error) {
	if !p.loggedIn {
		return nil, ErrNotLoggedIn
	}

	u := p.resolve("/transactions.csv")
	u.RawQuery = url.Values{
		"accountGroupId": {p.cfg.AccountGroupID},
		"account":        {account.Number},
		"startDaysAgo":   {strconv.Itoa(sinceDays)},
		"format":         {"csv"},
	}.Encode()

	body, _, err := p.get(ctx, u)
	if err != nil {
		return nil, err
	}

	if err := fileutils.EnsureDirectoryExists(p.cfg.OutputDir); err != nil {
		return nil, err
	}
	path := fileutils.DownloadPath(p.cfg.OutputDir, account.Name)
	if err := os.WriteFile(path, body, 0600); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", path, err)
	}

	p.logger.Info("Saved "+path,
		logging.Field{Key: logging.FieldAccount, Value: account.Name},
		logging.Field{Key: logging.FieldOutputFile, Value: path})
	return []string{path}, nil
}

func (p *PortalFetcher) resolve(path string) *url.URL {
	ref := &url.URL{Path: path}
	if !strings.HasPrefix(path, "/") {
		ref.Path = "/" + path
	}
	return p.base.ResolveReference(ref)
}

func (p *PortalFetcher) get(ctx context.Context, u *url.URL) ([]byte, *url.URL, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, nil, err
	}
	return p.do(req)
}

// do runs req and returns the body and the URL it was finally served from.
func (p *PortalFetcher) do(req *http.Request) ([]byte, *url.URL, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request to %s failed: %w", req.URL.Redacted(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	p.logger.Debug("Portal response",
		logging.Field{Key: logging.FieldURL, Value: resp.Request.URL.Redacted()},
		logging.Field{Key: logging.FieldStatus, Value: resp.StatusCode})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &StatusError{URL: resp.Request.URL.Redacted(), StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response from %s: %w", resp.Request.URL.Redacted(), err)
	}
	return body, resp.Request.URL, nil
}

// loginForm is the form holding a password input, as found on the page.
type loginForm struct {
	action   string
	hidden   url.Values
	userName string
	passName string
}

var errNoLoginForm = errors.New("no login form found")

func (f loginForm) fill(creds credentials.Credentials) url.Values {
	values := url.Values{}
	for k, v := range f.hidden {
		values[k] = append([]string(nil), v...)
	}
	if f.userName != "" {
		values.Set(f.userName, creds.User)
	}
	values.Set(f.passName, creds.Password)
	return values
}

// findLoginForm returns the first form in page with a password input.
func findLoginForm(page []byte) (loginForm, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return loginForm{}, fmt.Errorf("failed to parse login page: %w", err)
	}

	var found *loginForm
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "form" {
			if form, ok := inspectForm(n); ok {
				found = &form
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if found == nil {
		return loginForm{}, errNoLoginForm
	}
	return *found, nil
}

func inspectForm(form *html.Node) (loginForm, bool) {
	result := loginForm{action: attr(form, "action"), hidden: url.Values{}}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "input" {
			name := attr(n, "name")
			if name != "" {
				switch strings.ToLower(attr(n, "type")) {
				case "password":
					if result.passName == "" {
						result.passName = name
					}
				case "hidden":
					result.hidden.Add(name, attr(n, "value"))
				case "", "text", "email":
					if result.userName == "" {
						result.userName = name
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(form)

	return result, result.passName != ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
