package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/huangsam/codecritic/core"
	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/internal/logging"
	"github.com/huangsam/codecritic/schema"
)

type healthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	AIAvailable bool   `json:"ai_available"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "healthy",
		Service:     ServiceName,
		AIAvailable: s.reviewer.AIAvailable(),
	})
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req schema.AnalysisRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.reviewer.Review(r.Context(), req)
	if errors.Is(err, core.ErrEmptyCode) {
		writeError(w, http.StatusBadRequest, "No code provided")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("review failed")
		writeError(w, http.StatusInternalServerError, "Review failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := s.historyLimit(r.URL.Query().Get("limit"))
	reviews, err := s.reviews.ListReviews(r.Context(), limit)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to list reviews")
		writeError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	if reviews == nil {
		reviews = []schema.ReviewRecord{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

// historyLimit parses the limit query parameter, falling back to the
// configured default and capping at contract.MaxHistoryLimit.
func (s *Server) historyLimit(raw string) int {
	limit := s.opts.HistoryLimit
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		limit = n
	}
	return min(limit, contract.MaxHistoryLimit)
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "Review not found")
		return
	}

	review, err := s.reviews.GetReview(r.Context(), id)
	if errors.Is(err, contract.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Review not found")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int64("review_id", id).Msg("failed to load review")
		writeError(w, http.StatusInternalServerError, "Failed to load review")
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := s.reviews.GetAnalytics(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to compute analytics")
		writeError(w, http.StatusInternalServerError, "Failed to compute analytics")
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}
