package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sangkips/hotel-billing-api/internal/config"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
)

func withStaff(role string, branchID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(StaffIDKey, uuid.New())
		c.Set(StaffRoleKey, role)
		c.Set(BranchIDKey, branchID)
		c.Next()
	}
}

func serve(r *gin.Engine, path string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	tests := []struct {
		role string
		want int
	}{
		{entity.RoleCashier, http.StatusNoContent},
		{entity.RoleAdmin, http.StatusNoContent},
		{entity.RoleWaiter, http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			r := gin.New()
			r.GET("/pay", withStaff(tt.role, uuid.New()), RequireRole(entity.RoleCashier), ok)
			assert.Equal(t, tt.want, serve(r, "/pay"))
		})
	}
}

func TestBranchRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewBranchRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Hour,
		EntryTTL:          time.Hour,
	})

	busy, quiet := uuid.New(), uuid.New()
	r := gin.New()
	r.GET("/busy", withStaff(entity.RoleCashier, busy), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/quiet", withStaff(entity.RoleCashier, quiet), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, "/busy"))
	assert.Equal(t, http.StatusOK, serve(r, "/busy"))
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "/busy"))
	assert.Equal(t, http.StatusOK, serve(r, "/quiet"), "branches have separate buckets")

	assert.Equal(t, 2, rl.Stats()["active_branches"])
}

func TestRequireBranch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/none", RequireBranch(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/some", withStaff(entity.RoleWaiter, uuid.New()), RequireBranch(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusBadRequest, serve(r, "/none"))
	assert.Equal(t, http.StatusOK, serve(r, "/some"))
}

func TestCORSConfigKeepsBillingHeaders(t *testing.T) {
	cfg := corsConfig(&config.CORSConfig{AllowedHeaders: []string{"idempotency-key", "X-Till-ID"}})

	count := 0
	for _, h := range cfg.AllowHeaders {
		if http.CanonicalHeaderKey(h) == IdempotencyKeyHeader {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Contains(t, cfg.AllowHeaders, "X-Till-ID")
	assert.Contains(t, cfg.AllowHeaders, BranchHeader)
	assert.Contains(t, cfg.ExposeHeaders, ReplayedHeader)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.AllowOrigins)
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(&config.CORSConfig{AllowedOrigins: []string{"http://pos.lakeside.test"}}))
	r.POST("/pay", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodOptions, "/pay", nil)
	req.Header.Set("Origin", "http://pos.lakeside.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), IdempotencyKeyHeader)

	req = httptest.NewRequest(http.MethodPost, "/pay", nil)
	req.Header.Set("Origin", "http://pos.lakeside.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), ReplayedHeader))
}
