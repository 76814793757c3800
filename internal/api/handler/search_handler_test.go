package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/audiotheca/gateway/internal/core/domain"
	"github.com/audiotheca/gateway/internal/core/service"
)

func searchContext(t *testing.T, query string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/search?q="+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSearchHandler_ReturnsResult(t *testing.T) {
	search := func(_ context.Context, q string) (*domain.SearchResult, error) {
		return &domain.SearchResult{
			MusicalWorks: []domain.WorkRef{{ID: 3, Title: q}},
		}, nil
	}
	d := service.NewDebouncer(time.Millisecond, search, zerolog.Nop())
	defer d.Close()
	h := NewSearchHandler(d)

	c, rec := searchContext(t, "planets")
	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "planets") {
		t.Fatalf("result missing: %s", rec.Body.String())
	}
}

func TestSearchHandler_EmptyQueryClears(t *testing.T) {
	search := func(context.Context, string) (*domain.SearchResult, error) {
		t.Fatalf("empty query must not issue a request")
		return nil, nil
	}
	d := service.NewDebouncer(time.Millisecond, search, zerolog.Nop())
	defer d.Close()
	h := NewSearchHandler(d)

	c, rec := searchContext(t, "")
	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"artists":[]`) {
		t.Fatalf("expected empty result, got %s", rec.Body.String())
	}
}

func TestSearchHandler_SupersededAnswersNoContent(t *testing.T) {
	entered := make(chan struct{})
	search := func(ctx context.Context, q string) (*domain.SearchResult, error) {
		if q == "a" {
			close(entered)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return &domain.SearchResult{}, nil
	}
	d := service.NewDebouncer(time.Millisecond, search, zerolog.Nop())
	defer d.Close()
	h := NewSearchHandler(d)

	c, rec := searchContext(t, "a")
	done := make(chan error, 1)
	go func() { done <- h.Search(c) }()
	<-entered

	// A newer keystroke arrives while "a" is in flight.
	d.Submit("ab")

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("handler error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("superseded handler never returned")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for superseded query, got %d", rec.Code)
	}
}

func TestSearchHandler_ErrorPropagates(t *testing.T) {
	search := func(context.Context, string) (*domain.SearchResult, error) {
		return nil, domain.NewTransportError(500, "search exploded")
	}
	d := service.NewDebouncer(time.Millisecond, search, zerolog.Nop())
	defer d.Close()
	h := NewSearchHandler(d)

	c, _ := searchContext(t, "boom")
	err := h.Search(c)
	var te *domain.TransportError
	if !errors.As(err, &te) || te.Message != "search exploded" {
		t.Fatalf("expected transport error, got %v", err)
	}
}
