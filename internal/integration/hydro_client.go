// Package integration handles external service interactions
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/abelzeko/hydro-dash/internal/entities"
	"go.uber.org/zap"
)

// DefaultBaseURL is the hydrology backend used when none is configured
const DefaultBaseURL = "http://localhost:5000"

// HTTPClient is the subset of *http.Client used by the clients in this package
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned when the backend answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("网络响应错误: %d", e.StatusCode)
}

// HydroClient calls the hydrology API endpoints
type HydroClient struct {
	baseURL    string
	httpClient HTTPClient
}

// NewHydroClient creates a new hydrology API client. An empty baseURL
// selects DefaultBaseURL, a nil client selects http.DefaultClient.
func NewHydroClient(baseURL string, client HTTPClient) *HydroClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HydroClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// Endpoint returns the path queried for a kind
func Endpoint(kind entities.QueryKind) (string, error) {
	switch kind {
	case entities.KindLocation:
		return "/api/stations", nil
	case entities.KindRealTime:
		return "/api/reservoir", nil
	default:
		return "", fmt.Errorf("no endpoint for query type %q", kind)
	}
}

// URL builds the full request URL for a query
func (c *HydroClient) URL(q entities.Query) (string, error) {
	path, err := Endpoint(q.Kind())
	if err != nil {
		return "", err
	}
	return c.baseURL + path + "?" + q.Params().Encode(), nil
}

// Fetch sends a single GET for the query and decodes the JSON envelope.
// It does not validate the query, retry, or time out on its own.
func (c *HydroClient) Fetch(ctx context.Context, q entities.Query) (*entities.Response, error) {
	requestURL, err := c.URL(q)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	zap.S().Debugf("Sending %s query: %s", q.Kind(), requestURL)
	res, err := c.httpClient.Do(req)
	if err != nil {
		zap.S().Warnf("Error fetching %s: %v", requestURL, err)
		return nil, fmt.Errorf("failed to fetch %s: %w", requestURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		zap.S().Warnf("Received unexpected status code: %d %s", res.StatusCode, res.Status)
		return nil, &StatusError{StatusCode: res.StatusCode, Status: res.Status}
	}

	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	var resp entities.Response
	if err := dec.Decode(&resp); err != nil {
		zap.S().Warnf("Error decoding %s response: %v", q.Kind(), err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	zap.S().Debugf("API returned %d records (errCode=%v)", len(resp.Data), errCodeString(resp.ErrCode))
	return &resp, nil
}

func errCodeString(code *int) string {
	if code == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *code)
}
