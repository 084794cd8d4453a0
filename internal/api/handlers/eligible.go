package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"agrischeme-api-go/internal/matcher"
	"agrischeme-api-go/internal/models"
)

// EligibleHandler handles eligibility lookup requests
type EligibleHandler struct {
	matcher matcher.Interface
	logger  *zap.Logger
}

// NewEligibleHandler creates a new eligibility handler
func NewEligibleHandler(m matcher.Interface, logger *zap.Logger) *EligibleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EligibleHandler{
		matcher: m,
		logger:  logger,
	}
}

// eligibleResponse is the JSON envelope for eligibility results.
type eligibleResponse struct {
	Success bool                  `json:"success"`
	Source  string                `json:"source"`
	Count   int                   `json:"count"`
	Schemes []models.SchemeRecord `json:"schemes"`
}

// Handle handles POST /api/v1/schemes/eligible
func (h *EligibleHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input models.FarmerInput
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("failed to decode eligibility request", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := input.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.matcher.GetEligibleSchemes(ctx, input)

	h.logger.Info("eligibility lookup",
		zap.String("state", input.State),
		zap.String("crop", input.Crop),
		zap.Float64("land_size", input.LandSize),
		zap.String("season", input.Season),
		zap.String("source", string(result.Source)),
		zap.Int("count", len(result.Schemes)),
	)

	respondWithJSON(w, http.StatusOK, eligibleResponse{
		Success: true,
		Source:  string(result.Source),
		Count:   len(result.Schemes),
		Schemes: result.Schemes,
	})
}

// HandleRefilter handles POST /api/v1/schemes/refilter — re-filters the
// cached batch against a new farmer profile without a backend round trip.
func (h *EligibleHandler) HandleRefilter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input models.FarmerInput
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("failed to decode refilter request", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := input.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	schemes := h.matcher.FilterCached(ctx, input)

	respondWithJSON(w, http.StatusOK, eligibleResponse{
		Success: true,
		Source:  string(matcher.SourceCache),
		Count:   len(schemes),
		Schemes: schemes,
	})
}
