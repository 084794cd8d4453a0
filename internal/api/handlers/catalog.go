package handlers

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"agrischeme-api-go/internal/gateway"
)

// Lister fetches the scheme catalogue from the backend.
type Lister interface {
	ListSchemes(ctx context.Context, schemeType string, page, limit int) (*gateway.ListResult, error)
}

// CatalogHandler handles scheme catalogue listing requests. Unlike the
// eligibility path, the listing is a straight passthrough — no cache
// fallback, a backend failure surfaces as 502.
type CatalogHandler struct {
	lister Lister
	logger *zap.Logger
}

// NewCatalogHandler creates a new catalogue handler
func NewCatalogHandler(lister Lister, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{
		lister: lister,
		logger: logger,
	}
}

// Handle handles GET /api/v1/schemes
func (h *CatalogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query()
	schemeType := q.Get("type")
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.lister.ListSchemes(ctx, schemeType, page, limit)
	if err != nil {
		h.logger.Error("scheme listing failed",
			zap.Error(err),
			zap.String("type", schemeType))
		respondWithError(w, http.StatusBadGateway, "scheme backend unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   result.Count,
		"total":   result.Total,
		"page":    result.Page,
		"limit":   result.Limit,
		"schemes": result.Schemes,
	})
}
