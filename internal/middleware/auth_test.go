package middleware

import (
	"apec_lms_backend/internal/config"
	"apec_lms_backend/internal/model"
	"apec_lms_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func testRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/educator", AuthMiddleware(cfg), RoleMiddleware(model.Educator), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func authConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{
		Secret:     "test-secret-with-at-least-32-characters",
		ExpireTime: time.Hour,
	}}
}

func tokenFor(t *testing.T, cfg *config.Config, role model.UserRole) string {
	t.Helper()
	token, err := util.GenerateJWT(&model.User{
		UUIDBase:      model.UUIDBase{ID: "user-1"},
		WalletAddress: "wallet-1",
		Role:          role,
	}, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	cfg := authConfig()
	router := testRouter(cfg)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"malformed token", "Bearer not.a.token", http.StatusUnauthorized},
		{"valid token", "Bearer " + tokenFor(t, cfg, model.Student), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	cfg := authConfig()
	router := testRouter(cfg)

	tests := []struct {
		name       string
		role       model.UserRole
		wantStatus int
	}{
		{"educator allowed", model.Educator, http.StatusOK},
		{"student forbidden", model.Student, http.StatusForbidden},
		{"roleless forbidden", "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/educator", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, tt.role))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
