package handlers

import (
	"net/http"

	"survivor-league/interfaces"
	"survivor-league/logging"
	"survivor-league/models"
)

// TribeHandler serves rosters and player profiles
type TribeHandler struct {
	tribes interfaces.TribeService
	logger *logging.Logger
}

func NewTribeHandler(tribes interfaces.TribeService) *TribeHandler {
	return &TribeHandler{
		tribes: tribes,
		logger: logging.WithPrefix("TribeHandler"),
	}
}

// ListTribes handles GET /api/player-tribes/{season}
func (h *TribeHandler) ListTribes(w http.ResponseWriter, r *http.Request) {
	season, err := pathInt(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tribes, err := h.tribes.ListBySeason(r.Context(), season)
	if err != nil {
		writeServiceError(w, h.logger, "ListTribes", err)
		return
	}
	if tribes == nil {
		tribes = []*models.PlayerTribe{}
	}
	writeJSON(w, http.StatusOK, tribes)
}

type addPlayerResponse struct {
	TribeID string `json:"tribeId"`
}

// AddPlayer handles POST /api/add-player
func (h *TribeHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var req models.NewTribeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	tribe, err := h.tribes.AddPlayer(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, "AddPlayer", err)
		return
	}
	writeJSON(w, http.StatusCreated, addPlayerResponse{TribeID: tribe.ID.Hex()})
}

// GetPlayer handles GET /api/players/{id}
func (h *TribeHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.tribes.GetProfile(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "GetPlayer", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
