// Package upstream is the HTTP transport to the Audiotheca REST API. It
// owns the process-wide default Authorization header: outgoing requests
// carry "Authorization: Bearer <token>" if and only if a token is
// currently attached.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/audiotheca/gateway/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	base  string
	httpc *http.Client
	log   zerolog.Logger

	mu     sync.RWMutex
	bearer string
}

// New creates a Client for the given base URL. The timeout bounds every
// request end-to-end; cancellable calls additionally honor their ctx.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{Timeout: timeout},
		log:   log,
	}
}

// SetAuthToken attaches the bearer token to all subsequent requests.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	c.bearer = token
	c.mu.Unlock()
}

// ClearAuthToken detaches the bearer token.
func (c *Client) ClearAuthToken() {
	c.mu.Lock()
	c.bearer = ""
	c.mu.Unlock()
}

// Ping reports whether the upstream answers HTTP at all; any status
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// do runs one JSON round-trip. Non-2xx responses become a
// domain.TransportError with the normalized message; transport-level
// failures (including cancellation) are returned as-is so callers can
// distinguish them.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.applyAuth(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return errorFromResponse(resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		return json.Unmarshal(data, out)
	}
	return nil
}

func (c *Client) applyAuth(req *http.Request) {
	c.mu.RLock()
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	c.mu.RUnlock()
}

// errorFromResponse extracts the payload's "message" field when present;
// NewTransportError supplies the fallbacks.
func errorFromResponse(status int, payload []byte) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(payload, &body)
	return domain.NewTransportError(status, body.Message)
}
