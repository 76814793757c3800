package ports

import (
	"context"

	"github.com/audiotheca/gateway/internal/core/domain"
)

// SessionService owns the credential and derived identity. Logout and
// RefreshIdentity never fail: their errors degrade to a logged-out
// session.
type SessionService interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, email, password, role string) error
	Logout(ctx context.Context)
	RefreshIdentity(ctx context.Context)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error

	Snapshot() domain.Session
	Token() string
	EffectiveRole() string
}
