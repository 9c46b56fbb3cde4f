// Package steam is the Steam Community API client: paginated inventory reads
// and per-listing market price queries.
package steam

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"inv_checker/internal/config"
	"inv_checker/pkg/contextx"
	"inv_checker/pkg/httpx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Pacer brackets every upstream request: Acquire before, ReportOutcome after.
type Pacer interface {
	Acquire(ctx context.Context) error
	ReportOutcome(throttled bool)
}

type Client struct {
	httpClient *http.Client
	pacer      Pacer

	baseURL   string
	appID     int
	contextID int
	language  string
	pageSize  int
}

func NewClient(cfg config.Steam, pacer Pacer, opts ...httpx.Option) *Client {
	headers := http.Header{}
	headers.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) inv-checker")
	headers.Set("Accept", "application/json")

	transport := httpx.NewLoggingRoundTripper(
		httpx.NewHeaderRoundTripper(http.DefaultTransport, headers),
		opts...,
	)

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		pacer:     pacer,
		baseURL:   cfg.BaseURL,
		appID:     cfg.AppID,
		contextID: cfg.ContextID,
		language:  cfg.Language,
		pageSize:  cfg.PageSize,
	}
}

// WithBaseURL overrides the upstream host, for tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	return c.httpClient.Do(req)
}
