package handlers

import (
	"net/http"

	"survivor-league/interfaces"
	"survivor-league/logging"
	"survivor-league/middleware"
	"survivor-league/models"
)

// PickEmHandler serves weekly prediction markets
type PickEmHandler struct {
	pickems interfaces.PickEmService
	logger  *logging.Logger
}

func NewPickEmHandler(pickems interfaces.PickEmService) *PickEmHandler {
	return &PickEmHandler{
		pickems: pickems,
		logger:  logging.WithPrefix("PickEmHandler"),
	}
}

// seasonWeek reads the optional season and week query parameters
func seasonWeek(r *http.Request) (int, int, error) {
	season, err := queryInt(r, "season")
	if err != nil {
		return 0, 0, err
	}
	week, err := queryInt(r, "week")
	if err != nil {
		return 0, 0, err
	}
	return season, week, nil
}

// List handles GET /api/pick-ems/list. Selections are included only for an
// authenticated caller.
func (h *PickEmHandler) List(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	playerID := 0
	if player := middleware.GetPlayerFromContext(r); player != nil {
		playerID = player.ID
	}

	result, err := h.pickems.List(r.Context(), season, week, playerID)
	if err != nil {
		writeServiceError(w, h.logger, "List", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Submit handles POST /api/pick-ems/submit
func (h *PickEmHandler) Submit(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayerFromContext(r)
	if player == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.SubmitPicksRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.pickems.Submit(r.Context(), player.ID, req); err != nil {
		writeServiceError(w, h.logger, "Submit", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"saved": len(req.Picks)})
}

// Score handles GET /api/pick-ems/score. A missing week scores the whole season.
func (h *PickEmHandler) Score(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	scores, err := h.pickems.Score(r.Context(), season, week)
	if err != nil {
		writeServiceError(w, h.logger, "Score", err)
		return
	}
	if scores == nil {
		scores = []models.PlayerPickEmScore{}
	}
	writeJSON(w, http.StatusOK, scores)
}

// Leaderboard handles GET /api/pickem-leaderboard
func (h *PickEmHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	season, err := queryInt(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	board, err := h.pickems.Leaderboard(r.Context(), season)
	if err != nil {
		writeServiceError(w, h.logger, "Leaderboard", err)
		return
	}
	if board == nil {
		board = []*models.PlayerTribe{}
	}
	writeJSON(w, http.StatusOK, board)
}

// CreateMarket handles POST /api/admin/pick-ems
func (h *PickEmHandler) CreateMarket(w http.ResponseWriter, r *http.Request) {
	var market models.PickEm
	if err := decodeJSON(r, &market); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.pickems.CreateMarket(r.Context(), &market); err != nil {
		writeServiceError(w, h.logger, "CreateMarket", err)
		return
	}
	writeJSON(w, http.StatusCreated, market)
}

type answersRequest struct {
	Answers []int `json:"answers"`
}

// SetAnswers handles PUT /api/admin/pick-ems/{id}/answers
func (h *PickEmHandler) SetAnswers(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req answersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	market, err := h.pickems.SetAnswers(r.Context(), id, req.Answers)
	if err != nil {
		writeServiceError(w, h.logger, "SetAnswers", err)
		return
	}
	writeJSON(w, http.StatusOK, market)
}
