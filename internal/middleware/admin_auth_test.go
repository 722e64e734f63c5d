package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"event-reservations/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupAuthRouter(apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin/ping", middleware.AdminAuth(apiKey), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestAdminAuth(t *testing.T) {
	router := setupAuthRouter("secret-key")

	t.Run("valid key", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/ping", nil)
		req.Header.Set(middleware.AdminKeyHeader, "secret-key")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/ping", nil)
		req.Header.Set(middleware.AdminKeyHeader, "wrong")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing key", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/ping", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAdminAuth_Unconfigured(t *testing.T) {
	router := setupAuthRouter("")

	req := httptest.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set(middleware.AdminKeyHeader, "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
