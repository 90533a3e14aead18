package handlers

import (
	"net/http"

	"survivor-league/interfaces"
	"survivor-league/logging"
)

// BackupHandler lets administrators trigger and list backups
type BackupHandler struct {
	backups interfaces.BackupService
	logger  *logging.Logger
}

func NewBackupHandler(backups interfaces.BackupService) *BackupHandler {
	return &BackupHandler{
		backups: backups,
		logger:  logging.WithPrefix("BackupHandler"),
	}
}

// CreateBackup handles POST /api/admin/backup
func (h *BackupHandler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	info, err := h.backups.CreateBackup(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "CreateBackup", err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// ListBackups handles GET /api/admin/backups
func (h *BackupHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := h.backups.ListBackups()
	if err != nil {
		writeServiceError(w, h.logger, "ListBackups", err)
		return
	}
	writeJSON(w, http.StatusOK, backups)
}
