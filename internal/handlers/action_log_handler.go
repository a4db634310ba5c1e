package handlers

import (
	"net/http"
	"strconv"

	"rental-backend/internal/repositories"
	"rental-backend/pkg/utils"
)

type ActionLogHandler struct {
	Repo *repositories.ActionLogRepository
}

func NewActionLogHandler(repo *repositories.ActionLogRepository) *ActionLogHandler {
	return &ActionLogHandler{Repo: repo}
}

// ListActionLogs returns recent admin actions, newest first
func (h *ActionLogHandler) ListActionLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	logs, err := h.Repo.List(r.Context(), limit, offset)
	if err != nil {
		http.Error(w, "Failed to list action logs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.JSON(w, http.StatusOK, logs)
}
