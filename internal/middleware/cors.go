package middleware

import (
	"net/http"

	"rental-backend/internal/config"

	"github.com/rs/cors"
)

// NewCORS builds the cross-origin policy for the admin panel frontend.
// Origins, methods and headers come from config; credentials stay on
// because the panel sends its JWT in an Authorization header from a
// different origin during development.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
