package paypal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/diogomassis/checkout-upsale/internal/env"
)

const maxBodySize = 1 << 20

// Response is the provider answer relayed to the browser as-is. Body is
// always valid JSON.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Client talks to the PayPal REST API. Every call acquires its own bearer
// token; nothing is shared between requests except the credentials.
type Client struct {
	credentials env.Credentials
	baseURL     string
	client      *http.Client
	logger      zerolog.Logger
}

func NewClient(credentials env.Credentials, baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   false,
	}
	return &Client{
		credentials: credentials,
		baseURL:     baseURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger.With().Str("component", "paypal").Logger(),
	}
}

func NewClientFromConfig(cfg *env.Config, logger zerolog.Logger) *Client {
	return NewClient(cfg.Credentials, cfg.BaseURL, cfg.Timeout, logger)
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// send performs req and returns the status and the raw body. Only transport
// failures are errors here.
func (c *Client) send(req *http.Request) (int, []byte, error) {
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", req.Method).Str("path", req.URL.Path).Msg("request failed")
		return 0, nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: reading response body: %w", ErrNetwork, err)
	}
	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")
	return resp.StatusCode, raw, nil
}

// toResponse keeps any JSON body whatever the status code.
func toResponse(status int, raw []byte) (*Response, error) {
	if !json.Valid(raw) {
		return nil, &InvalidResponseError{StatusCode: status, Raw: string(raw)}
	}
	return &Response{StatusCode: status, Body: raw}, nil
}

func (c *Client) postJSON(ctx context.Context, path, accessToken string, payload any, headers map[string]string) (*Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request for %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	status, raw, err := c.send(req)
	if err != nil {
		return nil, err
	}
	return toResponse(status, raw)
}
