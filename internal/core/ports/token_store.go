package ports

import "context"

// TokenStore is the durable credential slot. It holds at most one raw
// bearer token and survives process restarts. Only the session manager
// writes to it.
type TokenStore interface {
	// Load returns the stored token, or "" when the slot is empty.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
