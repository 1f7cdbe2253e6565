package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/pkg/jwthelper"
	"github.com/eventease/eventease-api/internal/repository"
)

const testSigningKey = "test-signing-key"

type stubUserFinder struct {
	users map[uint]domain.User
}

func (s *stubUserFinder) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func setAuthUser(user domain.AuthUser) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(ContextKeyAuthUser, user)
	}
}

func okHandler(ctx *gin.Context) {
	ctx.String(http.StatusOK, "ok")
}

func TestVerifyJWT(t *testing.T) {
	gin.SetMode(gin.TestMode)

	users := &stubUserFinder{users: map[uint]domain.User{
		42: {ID: 42, Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser, IsBanned: true},
	}}
	auth := NewAuthenticator(testSigningKey, users)

	router := gin.New()
	router.GET("/me", auth.VerifyJWT(), func(ctx *gin.Context) {
		user, ok := AuthUserFromContext(ctx)
		require.True(t, ok)
		ctx.JSON(http.StatusOK, user)
	})

	token, err := jwthelper.GenerateToken([]byte(testSigningKey), 42, "test-agent/1.0")
	require.NoError(t, err)

	t.Run("valid token loads fresh account state", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("User-Agent", "test-agent/1.0")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"is_banned":true`)
	})

	t.Run("missing bearer prefix", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token replayed from another client", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("User-Agent", "other-agent/2.0")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("account no longer exists", func(t *testing.T) {
		gone, err := jwthelper.GenerateToken([]byte(testSigningKey), 99, "test-agent/1.0")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+gone)
		req.Header.Set("User-Agent", "test-agent/1.0")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		role     string
		allowed  []string
		wantCode int
	}{
		{"admin on admin route", domain.RoleAdmin, []string{domain.RoleAdmin}, http.StatusOK},
		{"organiser on manager route", domain.RoleOrganiser, []string{domain.RoleAdmin, domain.RoleOrganiser}, http.StatusOK},
		{"member on admin route", domain.RoleUser, []string{domain.RoleAdmin}, http.StatusForbidden},
		{"organiser on admin route", domain.RoleOrganiser, []string{domain.RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/guarded",
				setAuthUser(domain.AuthUser{ID: 1, Role: tt.role}),
				RequireRoles(tt.allowed...),
				okHandler)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guarded", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}

	t.Run("no identity in context", func(t *testing.T) {
		router := gin.New()
		router.GET("/guarded", RequireRoles(domain.RoleAdmin), okHandler)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guarded", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGuardBanned(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(banned bool) *gin.Engine {
		router := gin.New()
		router.Use(setAuthUser(domain.AuthUser{ID: 1, Role: domain.RoleUser, IsBanned: banned}), GuardBanned())
		router.Any("/api/v1/events", okHandler)
		router.Any("/api/v1/events/1", okHandler)
		router.GET("/api/v1/users/showMe", okHandler)
		router.GET("/api/v1/notifications", okHandler)
		router.POST("/api/v1/feedback/submit/1", okHandler)
		router.GET("/api/v1/users/5", okHandler)

		return router
	}

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{"read events", http.MethodGet, "/api/v1/events", http.StatusOK, ""},
		{"read one event", http.MethodGet, "/api/v1/events/1", http.StatusOK, ""},
		{"write events", http.MethodPost, "/api/v1/events", http.StatusForbidden, "you can only view events"},
		{"own profile", http.MethodGet, "/api/v1/users/showMe", http.StatusOK, ""},
		{"notifications", http.MethodGet, "/api/v1/notifications", http.StatusOK, ""},
		{"submit feedback", http.MethodPost, "/api/v1/feedback/submit/1", http.StatusForbidden, "please contact support"},
		{"other users", http.MethodGet, "/api/v1/users/5", http.StatusForbidden, "please contact support"},
	}

	banned := newRouter(true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			banned.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}

	t.Run("unbanned accounts pass through", func(t *testing.T) {
		unbanned := newRouter(false)
		rec := httptest.NewRecorder()
		unbanned.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/feedback/submit/1", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
