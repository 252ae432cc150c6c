// Package serpapi fetches search responses from a SerpApi-compatible endpoint.
package serpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/user/serp-visibility/internal/repository"
	"github.com/user/serp-visibility/pkg/utils"
)

const (
	DefaultBaseURL = "https://serpapi.com/"
	DefaultEngine  = "google"

	searchPath   = "search.json"
	maxBodyBytes = 32 << 20

	noResultsMarker = "hasn't returned any results"
)

var ErrMissingAPIKey = errors.New("serpapi: api key is required")

// ProviderError is returned when the provider answers with a failure status or an
// "error" field in the body (bad key, exhausted quota, unsupported parameter).
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("serpapi: provider error (status %d): %s", e.StatusCode, e.Message)
}

func (e *ProviderError) Unwrap() error { return repository.ErrProviderRejected }

// Options configures the request parameters shared by every keyword.
type Options struct {
	APIKey   string
	BaseURL  string
	Engine   string
	Location string
	HL       string
	GL       string
	Timeout  time.Duration
}

// Client implements repository.PayloadSource over HTTP.
type Client struct {
	httpClient *http.Client
	endpoint   string
	opts       Options
}

// NewClient creates a client. A nil httpClient gets one with opts.Timeout.
func NewClient(opts Options, httpClient *http.Client) (*Client, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Engine == "" {
		opts.Engine = DefaultEngine
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("serpapi: invalid base url: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	endpoint, err := utils.ToAbsoluteURL(base, searchPath)
	if err != nil {
		return nil, fmt.Errorf("serpapi: invalid base url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{httpClient: httpClient, endpoint: endpoint, opts: opts}, nil
}

func (c *Client) query(keyword string) url.Values {
	q := url.Values{}
	q.Set("engine", c.opts.Engine)
	q.Set("q", keyword)
	q.Set("api_key", c.opts.APIKey)
	if c.opts.Location != "" {
		q.Set("location", c.opts.Location)
	}
	if c.opts.HL != "" {
		q.Set("hl", c.opts.HL)
	}
	if c.opts.GL != "" {
		q.Set("gl", c.opts.GL)
	}
	return q
}

// Fetch issues one search and returns the raw JSON body.
func (c *Client) Fetch(ctx context.Context, keyword string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+c.query(keyword).Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("serpapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full URL, api_key included.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("serpapi: request for %q: %w", keyword, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("serpapi: read body for %q: %w", keyword, err)
	}

	msg, _ := jsonparser.GetString(body, "error")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: msg}
	}
	// An empty result page is reported through "error" too; it is a valid zero-match payload.
	if msg != "" && !strings.Contains(msg, noResultsMarker) {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: msg}
	}
	return body, nil
}
