package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/waabox/ingestwatch/internal/domain"
)

const defaultBaseURL = "http://localhost:4000/api"

// BlobStatus reports whether a named object exists in the input and output stores.
type BlobStatus struct {
	InputExists  bool
	OutputExists bool
}

// IndexerStatus reports whether the indexer exists and its last run status.
type IndexerStatus struct {
	Exists bool
	Status string
}

// Client queries the backend healthcheck endpoints. Every call is a GET.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a healthcheck client.
// baseURL is the API root that the healthcheck paths hang off; pass empty string for the local default.
// timeout of zero leaves request duration to the transport and the caller's context.
func NewClient(baseURL string, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// Blob checks the input and output stores for an object called name.
func (c *Client) Blob(ctx context.Context, name string) (BlobStatus, error) {
	var raw struct {
		InputExists  *bool `json:"inputExists"`
		OutputExists *bool `json:"outputExists"`
	}
	if err := c.get(ctx, "healthcheck/blob", url.Values{"name": {name}}, &raw); err != nil {
		return BlobStatus{}, err
	}
	if raw.InputExists == nil || raw.OutputExists == nil {
		return BlobStatus{}, fmt.Errorf("healthcheck/blob: missing inputExists or outputExists: %w", domain.ErrMalformedPayload)
	}
	return BlobStatus{InputExists: *raw.InputExists, OutputExists: *raw.OutputExists}, nil
}

// DataSourceExists reports whether the search data source has been created.
func (c *Client) DataSourceExists(ctx context.Context) (bool, error) {
	return c.exists(ctx, "healthcheck/search/datasource", "dataSourceExists")
}

// IndexExists reports whether the search index has been created.
func (c *Client) IndexExists(ctx context.Context) (bool, error) {
	return c.exists(ctx, "healthcheck/search/index", "indexExists")
}

// SkillsetExists reports whether the search skillset has been created.
func (c *Client) SkillsetExists(ctx context.Context) (bool, error) {
	return c.exists(ctx, "healthcheck/search/skillset", "skillsetExists")
}

// Indexer returns the indexer's existence and run status.
func (c *Client) Indexer(ctx context.Context) (IndexerStatus, error) {
	var raw struct {
		IndexerExists *bool  `json:"indexerExists"`
		IndexerStatus string `json:"indexerStatus"`
	}
	if err := c.get(ctx, "healthcheck/search/indexer", nil, &raw); err != nil {
		return IndexerStatus{}, err
	}
	if raw.IndexerExists == nil {
		return IndexerStatus{}, fmt.Errorf("healthcheck/search/indexer: missing indexerExists: %w", domain.ErrMalformedPayload)
	}
	return IndexerStatus{Exists: *raw.IndexerExists, Status: raw.IndexerStatus}, nil
}

// exists decodes a single boolean field from an endpoint's response.
func (c *Client) exists(ctx context.Context, endpoint string, field string) (bool, error) {
	var raw map[string]json.RawMessage
	if err := c.get(ctx, endpoint, nil, &raw); err != nil {
		return false, err
	}
	value, ok := raw[field]
	if !ok {
		return false, fmt.Errorf("%s: missing %s: %w", endpoint, field, domain.ErrMalformedPayload)
	}
	var present bool
	if err := json.Unmarshal(value, &present); err != nil {
		return false, fmt.Errorf("%s: decoding %s: %w", endpoint, field, domain.ErrMalformedPayload)
	}
	return present, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, target interface{}) error {
	apiURL := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("probe API error: %s: %w", resp.Status, domain.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("probe API error: %s: %w", resp.Status, domain.ErrUnexpectedStatus)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return nil
}
