package handlers

import (
	"errors"
	"log"
	"net/http"

	"rental-backend/internal/services"
)

// writeServiceError maps service error kinds onto HTTP statuses:
// validation 400, not found 404, invalid state 409, persistence 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr   *services.ValidationError
		notFoundErr     *services.NotFoundError
		invalidStateErr *services.InvalidStateError
	)

	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	case errors.As(err, &notFoundErr):
		http.Error(w, notFoundErr.Error(), http.StatusNotFound)
	case errors.As(err, &invalidStateErr):
		http.Error(w, invalidStateErr.Error(), http.StatusConflict)
	default:
		log.Printf("[HTTP] Internal error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
