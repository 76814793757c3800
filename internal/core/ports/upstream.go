package ports

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/audiotheca/gateway/internal/core/domain"
)

// AuthAPI is the upstream auth surface plus the transport's default
// Authorization header. The header carries the bearer token if and only
// if a token is attached.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, email, password, role string) (string, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*domain.Identity, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error

	SetAuthToken(token string)
	ClearAuthToken()
}

// SearchAPI issues one cancellable free-text search.
type SearchAPI interface {
	Search(ctx context.Context, query string) (*domain.SearchResult, error)
}

// CatalogAPI relays a catalog request verbatim and returns the raw JSON
// payload with the upstream status code.
type CatalogAPI interface {
	Forward(ctx context.Context, method, path string, query url.Values, body []byte) (json.RawMessage, int, error)
}
