package handlers

import (
	"net/http"

	"survivor-league/middleware"

	"github.com/gorilla/mux"
)

// Handlers groups every route handler. Backups is nil when backups are disabled.
type Handlers struct {
	Contestants *ContestantHandler
	Tribes      *TribeHandler
	PickEms     *PickEmHandler
	Auth        *AuthHandler
	Backups     *BackupHandler
	Health      *HealthHandler
}

// NewRouter registers all routes on a gorilla/mux router
func NewRouter(h Handlers, auth *middleware.AuthMiddleware, behindProxy bool) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.SecurityMiddleware(behindProxy))

	r.HandleFunc("/healthz", h.Health.Healthz).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/cast/{season}", h.Contestants.GetCast).Methods(http.MethodGet)
	api.HandleFunc("/contestant-rank/{id}", h.Contestants.GetRank).Methods(http.MethodGet)
	api.HandleFunc("/scoring", h.Contestants.GetScoring).Methods(http.MethodGet)

	api.HandleFunc("/player-tribes/{season}", h.Tribes.ListTribes).Methods(http.MethodGet)
	api.HandleFunc("/add-player", h.Tribes.AddPlayer).Methods(http.MethodPost)
	api.HandleFunc("/players/{id}", h.Tribes.GetPlayer).Methods(http.MethodGet)

	api.Handle("/pick-ems/list", auth.OptionalAuth(http.HandlerFunc(h.PickEms.List))).Methods(http.MethodGet)
	api.Handle("/pick-ems/submit", auth.RequireAuth(http.HandlerFunc(h.PickEms.Submit))).Methods(http.MethodPost)
	api.HandleFunc("/pick-ems/score", h.PickEms.Score).Methods(http.MethodGet)
	api.HandleFunc("/pickem-leaderboard", h.PickEms.Leaderboard).Methods(http.MethodGet)

	api.HandleFunc("/auth/magic-link", h.Auth.RequestMagicLink).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify", h.Auth.Verify).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(auth.RequireAdmin)
	admin.HandleFunc("/contestants/{id}", h.Contestants.UpdateStats).Methods(http.MethodPut)
	admin.HandleFunc("/pick-ems", h.PickEms.CreateMarket).Methods(http.MethodPost)
	admin.HandleFunc("/pick-ems/{id}/answers", h.PickEms.SetAnswers).Methods(http.MethodPut)
	if h.Backups != nil {
		admin.HandleFunc("/backup", h.Backups.CreateBackup).Methods(http.MethodPost)
		admin.HandleFunc("/backups", h.Backups.ListBackups).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}
