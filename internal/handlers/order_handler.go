package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"rental-backend/internal/cache"
	"rental-backend/internal/models"
	"rental-backend/internal/services"

	"github.com/gorilla/mux"
)

type OrderHandler struct {
	Orders   *services.OrderService
	Payments *services.PaymentService
}

func NewOrderHandler(orders *services.OrderService, payments *services.PaymentService) *OrderHandler {
	return &OrderHandler{
		Orders:   orders,
		Payments: payments,
	}
}

// CreateOrder creates a new order
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.Orders.CreateOrder(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	cache.InvalidateOrderCaches(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

// GetOrder returns a single order. Absorbed orders are still readable
// here so the merge-history view can show them.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	order, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// ListOrders returns every visible order, served from Redis when the
// listing has not changed since the last mutation.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if data, ok := cache.GetCached(ctx, cache.ActiveOrdersKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	orders, err := h.Orders.ListActiveOrders(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	data, err := json.Marshal(orders)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	cache.SetCached(ctx, cache.ActiveOrdersKey, data, 5*time.Minute)

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// ListMergedOrders returns merge targets with their source snapshots
func (h *OrderHandler) ListMergedOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListMergedOrders(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// UpdateOrder overwrites an order's form content, re-reconciling its
// financials when the grand total changed
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, totalChanged, err := h.Orders.UpdateOrder(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if totalChanged {
		order, err = h.Payments.ReconcileOrder(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}

	cache.InvalidateOrderCaches(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// DeleteOrder removes an order
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	if err := h.Orders.DeleteOrder(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	cache.InvalidateOrderCaches(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}
