package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/audiotheca/gateway/internal/api/metrics"
	"github.com/audiotheca/gateway/internal/core/domain"
	"github.com/audiotheca/gateway/internal/core/service"
)

type SearchHandler struct {
	debouncer *service.Debouncer
}

func NewSearchHandler(debouncer *service.Debouncer) *SearchHandler {
	return &SearchHandler{debouncer: debouncer}
}

// Search submits the query text to the debouncer and waits for this
// submission's outcome. A request superseded by a newer keystroke
// answers 204: the caller's displayed result must not regress, so a
// stale submission gets nothing to display.
//
// @Summary      Debounced free-text search
// @Tags         search
// @Produce      json
// @Param        q  query     string  false  "Query text; empty clears the result"
// @Success      200  {object}  domain.SearchResult
// @Success      204  "superseded by a newer query"
// @Router       /search [get]
func (h *SearchHandler) Search(c echo.Context) error {
	ch := h.debouncer.Submit(c.QueryParam("q"))

	select {
	case out, ok := <-ch:
		if !ok {
			metrics.SearchesTotal.WithLabelValues("superseded").Inc()
			return c.NoContent(http.StatusNoContent)
		}
		if out.Err != nil {
			metrics.SearchesTotal.WithLabelValues("error").Inc()
			return out.Err
		}
		if out.Result == nil {
			metrics.SearchesTotal.WithLabelValues("cleared").Inc()
			return c.JSON(http.StatusOK, domain.SearchResult{
				Artists:      []domain.ArtistRef{},
				MusicalWorks: []domain.WorkRef{},
			})
		}
		metrics.SearchesTotal.WithLabelValues("ok").Inc()
		return c.JSON(http.StatusOK, out.Result)

	case <-c.Request().Context().Done():
		// Caller gave up; the debouncer keeps running for the next
		// submission.
		return c.NoContent(http.StatusNoContent)
	}
}
