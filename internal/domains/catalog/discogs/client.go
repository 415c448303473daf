package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vinyl-collection/internal/domains/catalog/model"
)

const (
	DefaultBaseURL   = "https://api.discogs.com"
	DefaultUserAgent = "VinylCollectionApp/1.0 +https://example.com"
	DefaultPageSize  = 5
)

// Result is one entry of the Discogs /database/search response
type Result struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Year    FlexYear `json:"year"`
	Country string   `json:"country"`
	Label   []string `json:"label"`
	Format  []string `json:"format"`
	Thumb   string   `json:"thumb"`
	URI     string   `json:"uri"`
	Catno   string   `json:"catno"`
}

// Response models the search payload; pagination is ignored
type Response struct {
	Results []Result `json:"results"`
}

// FlexYear accepts a year encoded as a JSON number or a numeric string
type FlexYear struct {
	Value *int
}

func (y *FlexYear) UnmarshalJSON(data []byte) error {
	y.Value = nil
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		return nil
	}
	raw = strings.Trim(raw, `"`)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return nil
	}
	y.Value = &n
	return nil
}

// Searcher defines the lookup used by the catalog service
type Searcher interface {
	Search(ctx context.Context, q model.Query) (*Response, error)
}

// Client provides access to the Discogs search API
type Client struct {
	token      string
	baseURL    string
	userAgent  string
	pageSize   int
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL points the client at another host (tests, proxies)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithUserAgent sets the User-Agent Discogs requires on every call
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout bounds each request; zero keeps no client-side timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a Discogs client. The personal access token is required.
func New(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("discogs token required")
	}
	client := &Client{
		token:      token,
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		pageSize:   DefaultPageSize,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search runs one release search. Failures come back as *model.UpstreamError.
func (c *Client) Search(ctx context.Context, q model.Query) (*Response, error) {
	if q.IsEmpty() {
		return nil, model.ErrMissingQuery
	}

	endpoint, err := url.Parse(c.baseURL + "/database/search")
	if err != nil {
		return nil, fmt.Errorf("parse discogs url: %w", err)
	}
	params := url.Values{}
	if q.Artist != "" {
		params.Set("artist", q.Artist)
	}
	if q.Title != "" {
		params.Set("release_title", q.Title)
	}
	params.Set("type", "release")
	params.Set("per_page", strconv.Itoa(c.pageSize))
	params.Set("page", "1")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Discogs token="+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, &model.UpstreamError{Err: fmt.Errorf("execute request (latency=%v): %w", latency, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.UpstreamError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("discogs search returned %d (latency=%v)", resp.StatusCode, latency),
		}
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &model.UpstreamError{Err: fmt.Errorf("decode discogs response: %w", err)}
	}
	return &payload, nil
}
