package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"rental-backend/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestWriteServiceErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", &services.ValidationError{Op: "merge", Reason: "too few orders"}, 400},
		{"not found", &services.NotFoundError{Op: "get order", Kind: "order", ID: 7}, 404},
		{"invalid state", &services.InvalidStateError{Op: "unmerge", OrderID: 7, Reason: "not merged"}, 409},
		{"persistence", &services.PersistenceError{Op: "save", Err: errors.New("pg down")}, 500},
		{"plain error", errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestWriteServiceErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	writeServiceError(rec, &services.PersistenceError{Op: "save merge", Err: errors.New("conn refused 10.0.0.3")})

	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
