package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sangkips/hotel-billing-api/internal/config"
)

// billingRequestHeaders are always allowed, whatever CORS_ALLOWED_HEADERS lists.
var billingRequestHeaders = []string{
	"Authorization",
	"Content-Type",
	IdempotencyKeyHeader,
	BranchHeader,
	RequestIDHeader,
}

// billingResponseHeaders are readable by the POS front end.
var billingResponseHeaders = []string{
	"Content-Length",
	"Content-Type",
	RequestIDHeader,
	ReplayedHeader,
	"X-RateLimit-Limit",
	"X-RateLimit-Remaining",
	"Retry-After",
}

// CORSMiddleware creates a CORS middleware for the billing front ends
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	return cors.New(corsConfig(cfg))
}

func corsConfig(cfg *config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     withHeaders(append([]string{"Accept", "Origin"}, cfg.AllowedHeaders...), billingRequestHeaders),
		ExposeHeaders:    billingResponseHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// POS terminals on the local network during development
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	if len(c.AllowMethods) == 0 {
		c.AllowMethods = []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}
	}
	return c
}

// withHeaders appends every required header missing from headers
func withHeaders(headers, required []string) []string {
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		seen[http.CanonicalHeaderKey(h)] = true
	}
	for _, h := range required {
		if !seen[http.CanonicalHeaderKey(h)] {
			headers = append(headers, h)
			seen[http.CanonicalHeaderKey(h)] = true
		}
	}
	return headers
}
