package search

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medidoc-backend/internal/shared/server/respond"
)

// Handler wires the search endpoint to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the search route to the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/search/", h.search)
}

func (h *Handler) search(c *gin.Context) {
	result, err := h.Svc.Answer(c.Request.Context(), c.Query("query"))
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyQuery):
			respond.Error(c, http.StatusBadRequest, "empty_query", ErrEmptyQuery.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "search_unavailable", ErrSearchUnavailable.Error(), nil)
		}
		return
	}
	respond.OK(c, result)
}
