package wishclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Client talks to the wishlist API. Unauthenticated public calls carry the
// viewer token header; authenticated calls additionally ride on the session
// cookie held in the client's jar. Both may be present at once.
type Client struct {
	baseURL     string
	client      *http.Client
	viewerToken func() string
}

// NewClient creates a client for the API at baseURL. viewerToken is called
// on every public request; pass the identity provider's Token method.
func NewClient(baseURL string, viewerToken func() string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		viewerToken: viewerToken,
	}
}

// SetTimeout overrides the default 30s request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// BaseURL returns the configured HTTP base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type errorBody struct {
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.viewerToken != nil {
		req.Header.Set(ViewerTokenHeader, c.viewerToken())
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &APIError{Kind: KindNetwork, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := "request failed"
		var eb errorBody
		if data, readErr := io.ReadAll(resp.Body); readErr == nil {
			if json.Unmarshal(data, &eb) == nil && eb.Detail != "" {
				detail = eb.Detail
			}
		}
		return &APIError{
			Kind:       kindFromStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Detail:     detail,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out)
}
