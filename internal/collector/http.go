package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"TreasuryWatch/internal/model"
)

// HTTPOptions configures remote loaders.
type HTTPOptions struct {
	Proxy     string
	Timeout   time.Duration
	UserAgent string
	APIKey    string // sent as a bearer token when set
}

// HTTPLoader downloads an export over HTTP(S).
type HTTPLoader struct {
	URL       string
	Client    *http.Client
	UserAgent string
	APIKey    string
}

// NewHTTPLoader creates a loader with optional proxy support.
func NewHTTPLoader(rawURL string, opts HTTPOptions) *HTTPLoader {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if opts.Proxy != "" {
		if u, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "Mozilla/5.0"
	}
	return &HTTPLoader{
		URL: rawURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		UserAgent: ua,
		APIKey:    opts.APIKey,
	}
}

func (l *HTTPLoader) Name() string {
	if u, err := url.Parse(l.URL); err == nil {
		return u.Host + u.Path
	}
	return l.URL
}

func (l *HTTPLoader) Load(ctx context.Context) ([]model.RawRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", l.UserAgent)
	if l.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+l.APIKey)
	}

	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", l.Name(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d, body: %s", l.Name(), resp.StatusCode, truncate(body, 256))
	}
	return Decode(l.URL, resp.Header.Get("Content-Type"), body)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
