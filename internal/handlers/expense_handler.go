package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"rental-backend/internal/middleware"
	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/internal/timeutil"

	"github.com/gorilla/mux"
)

type ExpenseHandler struct {
	Service *services.ExpenseService
}

func NewExpenseHandler(service *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{Service: service}
}

// RecordExpense records an outgoing expense
func (h *ExpenseHandler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	expense := &models.Expense{
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
	}
	if req.Date != nil {
		expense.Date = *req.Date
	}
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		expense.RecordedByUserID = userID
	}

	if err := h.Service.RecordExpense(r.Context(), expense); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(expense)
}

// ListExpenses returns expenses, optionally bounded by from/to dates
// (YYYY-MM-DD, interpreted in IST)
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	var from, to *time.Time
	if s := r.URL.Query().Get("from"); s != "" {
		t, err := timeutil.ParseInIST(timeutil.DateLayout, s)
		if err != nil {
			http.Error(w, "Invalid from date", http.StatusBadRequest)
			return
		}
		from = &t
	}
	if s := r.URL.Query().Get("to"); s != "" {
		t, err := timeutil.ParseInIST(timeutil.DateLayout, s)
		if err != nil {
			http.Error(w, "Invalid to date", http.StatusBadRequest)
			return
		}
		end := t.AddDate(0, 0, 1) // inclusive upper bound
		to = &end
	}

	expenses, err := h.Service.ListExpenses(r.Context(), from, to)
	if err != nil {
		http.Error(w, "Failed to list expenses: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(expenses)
}

// MonthlySummary aggregates expenses per category for a month
func (h *ExpenseHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	now := timeutil.Now()
	year, month := now.Year(), now.Month()

	if s := r.URL.Query().Get("year"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			year = n
		}
	}
	if s := r.URL.Query().Get("month"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
			month = time.Month(n)
		}
	}

	summary, err := h.Service.MonthlySummary(r.Context(), year, month)
	if err != nil {
		http.Error(w, "Failed to summarize expenses: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// DeleteExpense removes an expense record
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid expense id", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteExpense(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete expense: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}
