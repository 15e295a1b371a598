package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	identityapp "github.com/schoolms/backend/internal/application/identity"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/auth"
	"github.com/schoolms/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Login(t *testing.T) {
	input := identityapp.LoginInput{SchoolCode: "STMARY", Username: "bursar", Password: "secret-password"}
	req := LoginRequest{SchoolCode: "STMARY", Username: "bursar", Password: "secret-password"}

	t.Run("issues tokens", func(t *testing.T) {
		svc := new(mockAuthService)
		h := NewAuthHandler(svc)
		r := newTestRouter(nil)
		r.POST("/auth/login", h.Login)

		svc.On("Login", mock.Anything, input).Return(&identityapp.LoginResult{
			AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer",
		}, nil)

		w := doJSON(r, http.MethodPost, "/auth/login", req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"access_token":"access"`)
		svc.AssertExpectations(t)
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := new(mockAuthService)
		h := NewAuthHandler(svc)
		r := newTestRouter(nil)
		r.POST("/auth/login", h.Login)

		svc.On("Login", mock.Anything, input).
			Return(nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid school code, username or password"))

		w := doJSON(r, http.MethodPost, "/auth/login", req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decode(t, w).Error.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes the presented token", func(t *testing.T) {
		svc := new(mockAuthService)
		h := NewAuthHandler(svc)
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set(middleware.JWTClaimsKey, &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
				ID:        "jti-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
			}})
			c.Next()
		})
		r.POST("/auth/logout", h.Logout)

		svc.On("Logout", mock.Anything, mock.MatchedBy(func(in identityapp.LogoutInput) bool {
			return in.TokenJTI == "jti-1" && in.ExpiresIn > 9*time.Minute && in.ExpiresIn <= 10*time.Minute
		})).Return(nil)

		w := doJSON(r, http.MethodPost, "/auth/logout", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("without claims", func(t *testing.T) {
		h := NewAuthHandler(new(mockAuthService))
		r := newTestRouter(nil)
		r.POST("/auth/logout", h.Logout)

		w := doJSON(r, http.MethodPost, "/auth/logout", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
