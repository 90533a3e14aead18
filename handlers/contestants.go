package handlers

import (
	"net/http"

	"survivor-league/interfaces"
	"survivor-league/logging"
	"survivor-league/models"
)

// ContestantHandler serves the cast, contestant ranks and the scoring table
type ContestantHandler struct {
	contestants interfaces.ContestantService
	logger      *logging.Logger
}

func NewContestantHandler(contestants interfaces.ContestantService) *ContestantHandler {
	return &ContestantHandler{
		contestants: contestants,
		logger:      logging.WithPrefix("ContestantHandler"),
	}
}

// GetCast handles GET /api/cast/{season}
func (h *ContestantHandler) GetCast(w http.ResponseWriter, r *http.Request) {
	season, err := pathInt(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cast, err := h.contestants.GetCast(r.Context(), season)
	if err != nil {
		writeServiceError(w, h.logger, "GetCast", err)
		return
	}
	if cast == nil {
		cast = []*models.Contestant{}
	}
	writeJSON(w, http.StatusOK, cast)
}

// GetRank handles GET /api/contestant-rank/{id}
func (h *ContestantHandler) GetRank(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rank, err := h.contestants.GetRank(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "GetRank", err)
		return
	}
	writeJSON(w, http.StatusOK, rank)
}

// GetScoring handles GET /api/scoring
func (h *ContestantHandler) GetScoring(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.contestants.ScoringTable())
}

// UpdateStats handles PUT /api/admin/contestants/{id}
func (h *ContestantHandler) UpdateStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var stats models.ContestantStats
	if err := decodeJSON(r, &stats); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	contestant, err := h.contestants.UpdateStats(r.Context(), id, stats)
	if err != nil {
		writeServiceError(w, h.logger, "UpdateStats", err)
		return
	}
	h.logger.Infof("Updated stats for contestant %d (%s)", contestant.ID, contestant.Name)
	writeJSON(w, http.StatusOK, contestant)
}
