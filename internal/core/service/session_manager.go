package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/audiotheca/gateway/internal/core/domain"
	"github.com/audiotheca/gateway/internal/core/ports"
)

// SessionManager owns the bearer credential and the identity derived from
// it. All session mutation goes through its methods; the transport's
// default Authorization header is attached and detached here and nowhere
// else.
//
// Login and Register do not serialize overlapping calls. Instead every
// attempt is tagged with a monotonically increasing counter and only the
// latest attempt may write loading/error, so a stale completion cannot
// clobber a newer attempt's state.
type SessionManager struct {
	api   ports.AuthAPI
	store ports.TokenStore
	log   zerolog.Logger

	mu       sync.Mutex
	token    string
	identity *domain.Identity
	loading  bool
	errMsg   string
	attempt  uint64
}

func NewSessionManager(api ports.AuthAPI, store ports.TokenStore, log zerolog.Logger) *SessionManager {
	return &SessionManager{api: api, store: store, log: log}
}

// Restore seeds the session from the persisted credential slot. Called
// once at startup; a stored token is attached to the transport and
// validated against the identity endpoint immediately.
func (m *SessionManager) Restore(ctx context.Context) {
	tok, err := m.store.Load(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("credential slot unreadable, starting logged out")
		return
	}
	if tok == "" {
		return
	}
	m.mu.Lock()
	m.token = tok
	m.mu.Unlock()
	m.api.SetAuthToken(tok)
	m.RefreshIdentity(ctx)
}

// Login exchanges credentials for a token, persists it, attaches it to
// the transport, and refreshes the identity. On failure the previous
// credential and identity are left untouched.
func (m *SessionManager) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return domain.ErrValidation
	}
	seq := m.beginAttempt()
	defer m.endAttempt(seq)

	tok, err := m.api.Login(ctx, username, password)
	if err != nil {
		m.failAttempt(seq, err)
		return err
	}
	m.adopt(ctx, tok)
	return nil
}

// Register follows the same contract as Login against the registration
// endpoint. The role travels in the upstream vocabulary.
func (m *SessionManager) Register(ctx context.Context, username, email, password, role string) error {
	if username == "" || password == "" {
		return domain.ErrValidation
	}
	seq := m.beginAttempt()
	defer m.endAttempt(seq)

	tok, err := m.api.Register(ctx, username, email, password, role)
	if err != nil {
		m.failAttempt(seq, err)
		return err
	}
	m.adopt(ctx, tok)
	return nil
}

// Logout notifies the upstream best-effort, then unconditionally erases
// the persisted credential, detaches the transport header, and clears the
// in-memory session. It never fails.
func (m *SessionManager) Logout(ctx context.Context) {
	if err := m.api.Logout(ctx); err != nil {
		m.log.Debug().Err(err).Msg("logout notification failed")
	}
	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn().Err(err).Msg("failed to erase credential slot")
	}
	m.api.ClearAuthToken()
	m.mu.Lock()
	m.token = ""
	m.identity = nil
	m.errMsg = ""
	m.mu.Unlock()
}

// RefreshIdentity validates the current credential against the identity
// endpoint. With no credential in memory or in the slot it is a no-op.
// A rejected credential silently invalidates the whole session.
func (m *SessionManager) RefreshIdentity(ctx context.Context) {
	m.mu.Lock()
	tok := m.token
	m.mu.Unlock()

	if tok == "" {
		stored, err := m.store.Load(ctx)
		if err != nil || stored == "" {
			return
		}
		tok = stored
		m.mu.Lock()
		m.token = tok
		m.mu.Unlock()
	}

	m.api.SetAuthToken(tok)
	ident, err := m.api.Me(ctx)
	if err != nil {
		m.log.Debug().Err(err).Msg("identity refresh rejected, clearing session")
		m.invalidate(ctx)
		return
	}
	m.mu.Lock()
	m.identity = ident
	m.mu.Unlock()
}

// ChangePassword forwards to the upstream and propagates failure; the
// credential and identity are unaffected either way.
func (m *SessionManager) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return domain.ErrValidation
	}
	return m.api.ChangePassword(ctx, oldPassword, newPassword)
}

// Snapshot returns a copy of the current session state.
func (m *SessionManager) Snapshot() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	var user *domain.Identity
	if m.identity != nil {
		u := *m.identity
		user = &u
	}
	return domain.Session{
		Token:         m.token,
		Authenticated: m.token != "",
		User:          user,
		Loading:       m.loading,
		Error:         m.errMsg,
	}
}

// Token returns the current credential, or "" when logged out.
func (m *SessionManager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// EffectiveRole is the identity's role, or "guest" when no identity has
// been established.
func (m *SessionManager) EffectiveRole() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return domain.RoleGuest
	}
	return m.identity.Role
}

// adopt installs a freshly issued token: persist, attach, then validate.
// A failed persist is logged but does not abort the login; the session
// just won't survive a restart.
func (m *SessionManager) adopt(ctx context.Context, token string) {
	if err := m.store.Save(ctx, token); err != nil {
		m.log.Warn().Err(err).Msg("failed to persist credential")
	}
	m.api.SetAuthToken(token)
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	m.RefreshIdentity(ctx)
}

func (m *SessionManager) invalidate(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn().Err(err).Msg("failed to erase credential slot")
	}
	m.api.ClearAuthToken()
	m.mu.Lock()
	m.token = ""
	m.identity = nil
	m.mu.Unlock()
}

func (m *SessionManager) beginAttempt() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempt++
	m.loading = true
	m.errMsg = ""
	return m.attempt
}

func (m *SessionManager) endAttempt(seq uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq == m.attempt {
		m.loading = false
	}
}

func (m *SessionManager) failAttempt(seq uint64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.attempt {
		return
	}
	var te *domain.TransportError
	if errors.As(err, &te) {
		m.errMsg = te.Message
	} else {
		m.errMsg = err.Error()
	}
}
