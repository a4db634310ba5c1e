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

// MergeHandler exposes the merge and unmerge operations plus the
// merge-history view.
type MergeHandler struct {
	Orders        *services.OrderService
	Merges        *services.MergeService
	Payments      *services.PaymentService
	ActionLogRepo *repositories.ActionLogRepository
}

func NewMergeHandler(orders *services.OrderService, merges *services.MergeService, payments *services.PaymentService, actionLogRepo *repositories.ActionLogRepository) *MergeHandler {
	return &MergeHandler{
		Orders:        orders,
		Merges:        merges,
		Payments:      payments,
		ActionLogRepo: actionLogRepo,
	}
}

// MergeOrders combines the selected orders into one under a new display
// code. Item content is combined by schedule kind, every source is kept
// as a snapshot, and the merged order's financials are reconciled over
// the payments of all sources.
func (h *MergeHandler) MergeOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.MergeOrdersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	orders := make([]*models.Order, 0, len(req.OrderIDs))
	for _, id := range req.OrderIDs {
		order, err := h.Orders.GetOrder(ctx, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if order.MergeState == models.MergeStateAbsorbed {
			http.Error(w, fmt.Sprintf("order %d was already merged into %s", id, order.MergedInto), http.StatusConflict)
			return
		}
		orders = append(orders, order)
	}

	merged, err := h.Merges.Merge(ctx, orders, req.BaseOrderID, req.NewDisplayCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Combined item content means combined totals; payments of every
	// source now count toward the merged order.
	merged, err = h.Payments.ReconcileOrder(ctx, merged.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	metrics.OrdersMerged.Inc()
	cache.InvalidateOrderCaches(ctx)
	h.logAction(r, "merge_orders", "order", merged.ID,
		fmt.Sprintf("merged %d orders into %s", len(orders), merged.DisplayCode))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(merged)
}

// UnmergeOrder restores every order absorbed into the given merged
// order to its exact pre-merge state.
func (h *MergeHandler) UnmergeOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	merged, err := h.Orders.GetOrder(ctx, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	restored, err := h.Merges.Unmerge(ctx, merged)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	metrics.OrdersUnmerged.Inc()
	cache.InvalidateOrderCaches(ctx)
	h.logAction(r, "unmerge_order", "order", id,
		fmt.Sprintf("restored %d orders from %s", len(restored), merged.DisplayCode))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"restored": restored,
	})
}

// GetMergeHistory returns every merged order with its absorbed sources
func (h *MergeHandler) GetMergeHistory(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListMergedOrders(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	type mergeRecord struct {
		Merged  *models.Order          `json:"merged"`
		Sources []models.OrderSnapshot `json:"sources"`
	}

	records := make([]mergeRecord, 0, len(orders))
	for _, o := range orders {
		records = append(records, mergeRecord{Merged: o, Sources: o.MergedFrom})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func (h *MergeHandler) logAction(r *http.Request, action, targetType string, targetID int, details string) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	entry := &models.ActionLog{
		UserID:     userID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
	}
	if err := h.ActionLogRepo.Create(r.Context(), entry); err != nil {
		log.Printf("[Merge] Failed to record action log: %v", err)
	}
}
