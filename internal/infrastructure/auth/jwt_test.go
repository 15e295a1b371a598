package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
}

func newTestJWTService() *JWTService {
	return NewJWTService(testJWTConfig())
}

func newTestInput() GenerateTokenInput {
	branch := uuid.New()
	return GenerateTokenInput{
		SchoolID:    uuid.New(),
		BranchID:    &branch,
		UserID:      uuid.New(),
		Username:    "bursar",
		Role:        "BURSAR",
		Permissions: []string{"invoice:read", "payment:create"},
	}
}

func TestNewJWTService_UsesSecretForRefreshIfNotProvided(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret"})
	assert.Equal(t, []byte("test-secret"), svc.refreshSecret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestInput())

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, input.SchoolID.String(), claims.SchoolID)
	assert.Equal(t, input.BranchID.String(), claims.BranchID)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, "BURSAR", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, input.Permissions, claims.Permissions)
}

func TestValidateAccessToken_Errors(t *testing.T) {
	expiredCfg := testJWTConfig()
	expiredCfg.AccessTokenExpiration = -time.Hour
	expired, err := NewJWTService(expiredCfg).GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	sharedCfg := testJWTConfig()
	sharedCfg.RefreshSecret = sharedCfg.Secret
	sameSecret, err := NewJWTService(sharedCfg).GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "another-secret-key-at-least-32-chars"
	foreign, err := NewJWTService(otherCfg).GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	tests := []struct {
		name  string
		svc   *JWTService
		token string
		want  error
	}{
		{"expired", NewJWTService(expiredCfg), expired.AccessToken, ErrExpiredToken},
		{"garbage", newTestJWTService(), "invalid-token", ErrInvalidToken},
		{"refresh token used as access", NewJWTService(sharedCfg), sameSecret.RefreshToken, ErrInvalidTokenType},
		{"different secret", newTestJWTService(), foreign.AccessToken, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokenPair(pair.RefreshToken, "VIEWER", []string{"report:read"})
	require.NoError(t, err)

	access, err := svc.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, input.SchoolID.String(), access.SchoolID)
	assert.Equal(t, "VIEWER", access.Role)
	assert.Equal(t, []string{"report:read"}, access.Permissions)

	refresh, err := svc.ValidateRefreshToken(refreshed.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, refresh.RefreshCount)
	assert.Empty(t, refresh.Permissions)
}

func TestRefreshTokenPair_MaxRefreshExceeded(t *testing.T) {
	cfg := testJWTConfig()
	cfg.MaxRefreshCount = 2
	svc := NewJWTService(cfg)

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)
	for range 2 {
		pair, err = svc.RefreshTokenPair(pair.RefreshToken, "BURSAR", nil)
		require.NoError(t, err)
	}

	_, err = svc.RefreshTokenPair(pair.RefreshToken, "BURSAR", nil)
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestRefreshTokenPair_RejectsAccessToken(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	_, err = svc.RefreshTokenPair(pair.AccessToken, "BURSAR", nil)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_TenantContext(t *testing.T) {
	input := newTestInput()
	claims := &Claims{SchoolID: input.SchoolID.String(), BranchID: input.BranchID.String(), UserID: input.UserID.String(), Role: "TEACHER"}

	tc, err := claims.TenantContext()
	require.NoError(t, err)
	assert.Equal(t, input.SchoolID, tc.SchoolID)
	require.True(t, tc.HasBranch())
	assert.Equal(t, *input.BranchID, *tc.BranchID)
	assert.Equal(t, input.UserID, tc.ActorID())
	assert.Equal(t, "TEACHER", tc.Role)

	claims.BranchID = ""
	tc, err = claims.TenantContext()
	require.NoError(t, err)
	assert.False(t, tc.HasBranch())

	claims.SchoolID = "not-a-uuid"
	_, err = claims.TenantContext()
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestClaims_Permissions(t *testing.T) {
	claims := &Claims{Permissions: []string{"invoice:read", "payment:create"}}

	assert.True(t, claims.HasPermission("invoice:read"))
	assert.False(t, claims.HasPermission("invoice:waive"))
	assert.True(t, claims.HasAnyPermission("invoice:waive", "payment:create"))
	assert.False(t, claims.HasAnyPermission("user:create"))
}
