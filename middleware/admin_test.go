package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/repository"
)

type mockAdminRepo struct {
	admins map[string]*models.AdminUser
}

func (m *mockAdminRepo) FindByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	if a, ok := m.admins[strings.ToLower(email)]; ok {
		return a, nil
	}
	return nil, repository.ErrAdminNotFound
}
func (m *mockAdminRepo) ListAll(_ context.Context) ([]models.AdminUser, error) {
	return nil, nil
}

func setupRouter(repo repository.AdminRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AdminAuth(repo))
	r.GET("/admin/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAdminAuth(t *testing.T) {
	repo := &mockAdminRepo{admins: map[string]*models.AdminUser{
		"owner@example.com": {Email: "owner@example.com"},
	}}
	router := setupRouter(repo)

	t.Run("missing header - 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email - 403", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		req.Header.Set("X-Admin-Email", "stranger@example.com")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("known email - 200", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		req.Header.Set("X-Admin-Email", "owner@example.com")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("case-insensitive match - 200", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		req.Header.Set("X-Admin-Email", "Owner@Example.COM")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
