package clientview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	catalogModel "vinyl-collection/internal/domains/catalog/model"
	"vinyl-collection/internal/domains/record/model"
)

// CollectionAPI is the server surface the view talks to
type CollectionAPI interface {
	List(ctx context.Context, search string) ([]model.Record, error)
	Get(ctx context.Context, id int64) (*model.Record, error)
	Create(ctx context.Context, fields model.Fields) (*model.Record, error)
	Update(ctx context.Context, id int64, patch model.Patch) (*model.Record, error)
	Delete(ctx context.Context, id int64) (*model.Record, error)
	BulkImport(ctx context.Context, rows []json.RawMessage) (*model.BulkImportResult, error)
	Summary(ctx context.Context) (*model.Summary, error)
	SearchCatalog(ctx context.Context, artist, title string) ([]catalogModel.Hit, error)
}

// APIError is a non-2xx response from the collection server
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		return fmt.Sprintf("server responded with %d: %s", e.StatusCode, strings.Join(parts, "; "))
	}
	if e.Message != "" {
		return fmt.Sprintf("server responded with %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server responded with %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the server
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// HTTPClient implements CollectionAPI over the JSON HTTP interface
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ CollectionAPI = (*HTTPClient)(nil)

// NewHTTPClient - baseURL is the server root, e.g. http://localhost:3001
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		httpClient: httpClient,
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, data []byte) error {
	apiErr := &APIError{StatusCode: status}
	var body struct {
		Error  string            `json:"error"`
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = body.Error
		apiErr.Fields = body.Errors
	}
	return apiErr
}

func (c *HTTPClient) List(ctx context.Context, search string) ([]model.Record, error) {
	path := "/items"
	if s := strings.TrimSpace(search); s != "" {
		path += "?" + url.Values{"search": {s}}.Encode()
	}
	var records []model.Record
	if err := c.do(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.Record{}
	}
	return records, nil
}

func (c *HTTPClient) Get(ctx context.Context, id int64) (*model.Record, error) {
	var record model.Record
	if err := c.do(ctx, http.MethodGet, "/items/"+strconv.FormatInt(id, 10), nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) Create(ctx context.Context, fields model.Fields) (*model.Record, error) {
	var record model.Record
	if err := c.do(ctx, http.MethodPost, "/items", fields, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) Update(ctx context.Context, id int64, patch model.Patch) (*model.Record, error) {
	if patch == nil {
		patch = model.Patch{}
	}
	var record model.Record
	if err := c.do(ctx, http.MethodPut, "/items/"+strconv.FormatInt(id, 10), patch, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) Delete(ctx context.Context, id int64) (*model.Record, error) {
	var resp model.DeleteRecordResponse
	if err := c.do(ctx, http.MethodDelete, "/items/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Removed, nil
}

func (c *HTTPClient) BulkImport(ctx context.Context, rows []json.RawMessage) (*model.BulkImportResult, error) {
	if rows == nil {
		rows = []json.RawMessage{}
	}
	var result model.BulkImportResult
	if err := c.do(ctx, http.MethodPost, "/items/bulk", rows, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Summary(ctx context.Context) (*model.Summary, error) {
	var summary model.Summary
	if err := c.do(ctx, http.MethodGet, "/items/stats", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *HTTPClient) SearchCatalog(ctx context.Context, artist, title string) ([]catalogModel.Hit, error) {
	params := url.Values{}
	if a := strings.TrimSpace(artist); a != "" {
		params.Set("artist", a)
	}
	if t := strings.TrimSpace(title); t != "" {
		params.Set("title", t)
	}
	var resp catalogModel.SearchResponse
	if err := c.do(ctx, http.MethodGet, "/discogs/search?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []catalogModel.Hit{}
	}
	return resp.Results, nil
}
