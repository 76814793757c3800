package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/audiotheca/gateway/internal/core/domain"
)

// Search runs one free-text query across artists and works. The ctx is
// the cancellation handle: abandoning a stale query aborts the request.
func (c *Client) Search(ctx context.Context, query string) (*domain.SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("type", "all")

	var res domain.SearchResult
	if err := c.do(ctx, http.MethodGet, "/search", q, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
