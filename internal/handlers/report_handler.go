package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rental-backend/internal/cache"
	"rental-backend/internal/services"
	"rental-backend/internal/timeutil"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// GetFinancialSummary returns the dashboard money overview, cached for
// a few minutes since it aggregates the whole orders table
func (h *ReportHandler) GetFinancialSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if data, ok := cache.GetCached(ctx, cache.SummaryKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	summary, err := h.Service.GetFinancialSummary(ctx)
	if err != nil {
		http.Error(w, "Failed to build summary: "+err.Error(), http.StatusInternalServerError)
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	cache.SetCached(ctx, cache.SummaryKey, data, 5*time.Minute)

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// GetOrderReport returns the per-order financial rows
func (h *ReportHandler) GetOrderReport(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.GetOrderReportRows(r.Context())
	if err != nil {
		http.Error(w, "Failed to build report: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

// ExportArchive streams a zip of orders.csv, payments.csv and
// expenses.csv
func (h *ReportHandler) ExportArchive(w http.ResponseWriter, r *http.Request) {
	archive, err := h.Service.ExportArchive(r.Context())
	if err != nil {
		http.Error(w, "Failed to build export: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("rental-export-%s.zip", timeutil.FormatIST(timeutil.Now(), timeutil.DateLayout))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(archive)
}
