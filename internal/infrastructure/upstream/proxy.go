package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

// Forward relays a catalog request verbatim and returns the raw JSON
// payload with the upstream status code. Upstream error responses come
// back as a domain.TransportError so the gateway's error handler relays
// status and message unchanged.
func (c *Client) Forward(ctx context.Context, method, path string, query url.Values, body []byte) (json.RawMessage, int, error) {
	var rd io.Reader
	if len(body) > 0 {
		rd = bytes.NewReader(body)
	}

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.applyAuth(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, 0, errorFromResponse(resp.StatusCode, data)
	}
	return data, resp.StatusCode, nil
}
