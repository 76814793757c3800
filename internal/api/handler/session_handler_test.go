package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/audiotheca/gateway/internal/core/domain"
)

type stubSessionService struct {
	loginFn    func(ctx context.Context, username, password string) error
	registerFn func(ctx context.Context, username, email, password, role string) error
	changeFn   func(ctx context.Context, oldPassword, newPassword string) error
	snapshot   domain.Session

	loginCalls   int
	logoutCalls  int
	refreshCalls int
}

func (s *stubSessionService) Login(ctx context.Context, username, password string) error {
	s.loginCalls++
	if s.loginFn == nil {
		return nil
	}
	return s.loginFn(ctx, username, password)
}

func (s *stubSessionService) Register(ctx context.Context, username, email, password, role string) error {
	if s.registerFn == nil {
		return nil
	}
	return s.registerFn(ctx, username, email, password, role)
}

func (s *stubSessionService) Logout(context.Context) { s.logoutCalls++ }

func (s *stubSessionService) RefreshIdentity(context.Context) { s.refreshCalls++ }

func (s *stubSessionService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if s.changeFn == nil {
		return nil
	}
	return s.changeFn(ctx, oldPassword, newPassword)
}

func (s *stubSessionService) Snapshot() domain.Session { return s.snapshot }

func (s *stubSessionService) Token() string { return s.snapshot.Token }

func (s *stubSessionService) EffectiveRole() string {
	if s.snapshot.User == nil {
		return domain.RoleGuest
	}
	return s.snapshot.User.Role
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSessionHandler_Login_Success(t *testing.T) {
	stub := &stubSessionService{
		loginFn: func(_ context.Context, username, password string) error {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected credentials: %s/%s", username, password)
			}
			return nil
		},
		snapshot: domain.Session{
			Token:         "tok1",
			Authenticated: true,
			User:          domain.NewIdentity(1, "alice", "a@x.com", "producer"),
		},
	}
	h := NewSessionHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/session/login", `{"username":"alice","password":"secret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"role":"editor"`) {
		t.Fatalf("expected normalized role in snapshot: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "tok1") {
		t.Fatalf("raw credential leaked into response: %s", rec.Body.String())
	}
}

func TestSessionHandler_Login_ValidationBeforeNetwork(t *testing.T) {
	stub := &stubSessionService{}
	h := NewSessionHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/session/login", `{"username":"","password":"x"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if stub.loginCalls != 0 {
		t.Fatalf("validation failure must not reach the session manager")
	}
}

func TestSessionHandler_Login_UpstreamFailurePropagates(t *testing.T) {
	stub := &stubSessionService{
		loginFn: func(context.Context, string, string) error {
			return domain.NewTransportError(401, "Invalid credentials")
		},
	}
	h := NewSessionHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/session/login", `{"username":"alice","password":"wrong"}`)
	err := h.Login(c)
	var te *domain.TransportError
	if !errors.As(err, &te) || te.Message != "Invalid credentials" {
		t.Fatalf("expected transport error to propagate, got %v", err)
	}
}

func TestSessionHandler_Register_BadRole(t *testing.T) {
	stub := &stubSessionService{}
	h := NewSessionHandler(stub)

	body := `{"username":"bob","email":"b@x.com","password":"hunter2","role":"superuser"}`
	c, rec := newTestContext(t, http.MethodPost, "/session/register", body)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", rec.Code)
	}
}

func TestSessionHandler_Logout(t *testing.T) {
	stub := &stubSessionService{}
	h := NewSessionHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/session/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if stub.logoutCalls != 1 {
		t.Fatalf("logout not forwarded")
	}
}

func TestSessionHandler_Get_RefreshParam(t *testing.T) {
	stub := &stubSessionService{}
	h := NewSessionHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/session?refresh=1", "")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.refreshCalls != 1 {
		t.Fatalf("refresh not triggered")
	}
}

func TestSessionHandler_ChangePassword_Propagates(t *testing.T) {
	stub := &stubSessionService{
		changeFn: func(context.Context, string, string) error {
			return domain.NewTransportError(400, "old password incorrect")
		},
	}
	h := NewSessionHandler(stub)

	body := `{"old_password":"oldpass","new_password":"newpass"}`
	c, _ := newTestContext(t, http.MethodPost, "/session/change-password", body)
	err := h.ChangePassword(c)
	var te *domain.TransportError
	if !errors.As(err, &te) || te.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected upstream failure to propagate, got %v", err)
	}
}
