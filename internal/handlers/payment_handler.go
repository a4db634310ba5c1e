package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"rental-backend/internal/cache"
	"rental-backend/internal/metrics"
	"rental-backend/internal/middleware"
	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
	"rental-backend/internal/services"

	"github.com/gorilla/mux"
)

type PaymentHandler struct {
	Service       *services.PaymentService
	ActionLogRepo *repositories.ActionLogRepository
}

func NewPaymentHandler(service *services.PaymentService, actionLogRepo *repositories.ActionLogRepository) *PaymentHandler {
	return &PaymentHandler{
		Service:       service,
		ActionLogRepo: actionLogRepo,
	}
}

// paymentResponse pairs a payment mutation with the order's resulting
// financial state so the frontend never recomputes totals itself.
type paymentResponse struct {
	Payment *models.Payment `json:"payment,omitempty"`
	Order   *models.Order   `json:"order"`
}

// RecordPayment records a payment against an order and returns the
// order's reconciled financials
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payment := &models.Payment{
		OrderID:        req.OrderID,
		Amount:         req.Amount,
		Method:         req.Method,
		TransactionRef: req.TransactionRef,
		Notes:          req.Notes,
	}
	if req.Date != nil {
		payment.Date = *req.Date
	}
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		payment.RecordedByUserID = userID
	}
	if name, ok := middleware.GetUserNameFromContext(r.Context()); ok {
		payment.RecordedByName = name
	}

	order, err := h.Service.RecordPayment(r.Context(), payment)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	metrics.PaymentsRecorded.Inc()
	cache.InvalidatePaymentCaches(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(paymentResponse{Payment: payment, Order: order})
}

// UpdatePayment corrects a payment record
func (h *PaymentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid payment id", http.StatusBadRequest)
		return
	}

	var req models.UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payment, order, err := h.Service.UpdatePayment(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	cache.InvalidatePaymentCaches(r.Context())
	h.logAction(r, "edit_payment", "payment", id,
		fmt.Sprintf("amount set to %.2f on order %d", payment.Amount, payment.OrderID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(paymentResponse{Payment: payment, Order: order})
}

// DeletePayment removes a payment (a reversal)
func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid payment id", http.StatusBadRequest)
		return
	}

	order, err := h.Service.DeletePayment(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	cache.InvalidatePaymentCaches(r.Context())
	h.logAction(r, "delete_payment", "payment", id,
		fmt.Sprintf("deleted payment on order %d", order.ID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(paymentResponse{Order: order})
}

// ListPaymentsForOrder returns every payment counting toward an order,
// including payments recorded against its absorbed sources
func (h *PaymentHandler) ListPaymentsForOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.Atoi(mux.Vars(r)["order_id"])
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	payments, err := h.Service.ListPaymentsForOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payments)
}

func (h *PaymentHandler) logAction(r *http.Request, action, targetType string, targetID int, details string) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	entry := &models.ActionLog{
		UserID:     userID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
	}
	if err := h.ActionLogRepo.Create(r.Context(), entry); err != nil {
		log.Printf("[Payment] Failed to record action log: %v", err)
	}
}
