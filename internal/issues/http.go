package issues

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"issuedesk/internal/domain"
	appErrors "issuedesk/internal/errors"
)

const maxErrorBody = 4 << 10

// HTTPClient talks to the issue backend over its REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient constructs a client for the backend at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the backend root the client was built for.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// List fetches one page of issues matching q.
func (c *HTTPClient) List(ctx context.Context, q Query) ([]domain.Issue, error) {
	path := "/issues"
	if encoded := q.Values().Encode(); encoded != "" {
		path += "?" + encoded
	}
	var out []domain.Issue
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Issue{}
	}
	return out, nil
}

// Get fetches a single issue by id.
func (c *HTTPClient) Get(ctx context.Context, id string) (domain.Issue, error) {
	var out domain.Issue
	err := c.do(ctx, http.MethodGet, "/issues/"+url.PathEscape(id), nil, &out)
	return out, err
}

// Create posts a new issue and returns the server's copy.
func (c *HTTPClient) Create(ctx context.Context, in domain.IssueInput) (domain.Issue, error) {
	var out domain.Issue
	err := c.do(ctx, http.MethodPost, "/issues", in, &out)
	return out, err
}

// Update puts the set fields of in onto issue id.
func (c *HTTPClient) Update(ctx context.Context, id string, in domain.IssueInput) (domain.Issue, error) {
	var out domain.Issue
	err := c.do(ctx, http.MethodPut, "/issues/"+url.PathEscape(id), in, &out)
	return out, err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, out any) error {
	if c == nil || c.baseURL == "" {
		return appErrors.New(appErrors.CodeConfigurationError, "issue backend URL not configured", nil)
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return appErrors.New(appErrors.CodeConfigurationError, fmt.Sprintf("build request: %v", err), err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return classifyHTTPError(method, path, 0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return classifyHTTPError(method, path, resp.StatusCode, strings.TrimSpace(string(snippet)), nil)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.New(appErrors.CodeParseFailed, fmt.Sprintf("decode %s %s response: %v", method, path, err), err)
	}
	return nil
}
