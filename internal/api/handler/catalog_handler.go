package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/audiotheca/gateway/internal/api/metrics"
	"github.com/audiotheca/gateway/internal/core/ports"
)

// CatalogHandler relays catalog CRUD to the upstream API. These routes
// have no invariants beyond call-and-relay; all gating happens in the
// guard middleware in front of them.
type CatalogHandler struct {
	upstream ports.CatalogAPI
}

func NewCatalogHandler(upstream ports.CatalogAPI) *CatalogHandler {
	return &CatalogHandler{upstream: upstream}
}

// Relay forwards method, path, query, and body verbatim and answers with
// the upstream's status and JSON payload.
func (h *CatalogHandler) Relay(c echo.Context) error {
	req := c.Request()

	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
		}
		body = b
	}

	start := time.Now()
	payload, status, err := h.upstream.Forward(req.Context(), req.Method, req.URL.Path, req.URL.Query(), body)
	metrics.UpstreamProxyDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return c.NoContent(status)
	}
	return c.JSONBlob(status, payload)
}
