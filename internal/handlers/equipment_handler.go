package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"rental-backend/internal/models"
	"rental-backend/internal/services"

	"github.com/gorilla/mux"
)

type EquipmentHandler struct {
	Service *services.EquipmentService
}

func NewEquipmentHandler(service *services.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{Service: service}
}

// CreateEquipment adds a catalog entry
func (h *EquipmentHandler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEquipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	eq := &models.Equipment{
		Name:        req.Name,
		Category:    req.Category,
		RentalPrice: req.RentalPrice,
		QtyOwned:    req.QtyOwned,
		Notes:       req.Notes,
	}

	if err := h.Service.AddEquipment(r.Context(), eq); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(eq)
}

// GetEquipment returns a catalog entry
func (h *EquipmentHandler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid equipment id", http.StatusBadRequest)
		return
	}

	eq, err := h.Service.GetEquipment(r.Context(), id)
	if err != nil {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(eq)
}

// ListEquipment returns the catalog, optionally filtered by category
func (h *EquipmentHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	var (
		items []*models.Equipment
		err   error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		items, err = h.Service.ListByCategory(r.Context(), category)
	} else {
		items, err = h.Service.ListEquipment(r.Context())
	}
	if err != nil {
		http.Error(w, "Failed to list equipment: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

// UpdateEquipment updates a catalog entry
func (h *EquipmentHandler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid equipment id", http.StatusBadRequest)
		return
	}

	var req models.UpdateEquipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	eq, err := h.Service.UpdateEquipment(r.Context(), id, &req)
	if err != nil {
		http.Error(w, "Failed to update equipment: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(eq)
}

// DeleteEquipment removes a catalog entry
func (h *EquipmentHandler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid equipment id", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteEquipment(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete equipment: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}
