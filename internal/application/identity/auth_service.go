package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/schoolms/backend/internal/domain/identity"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/auth"
	"github.com/schoolms/backend/internal/infrastructure/logger"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Authentication errors. Unknown school, unknown user and wrong password all
// collapse into ErrInvalidCredentials.
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid school, username or password")
	ErrTokenExpired       = shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	ErrTokenInvalid       = shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	ErrTokenRevoked       = shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	ErrTokenMaxRefresh    = shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
)

// AuthService handles authentication operations
type AuthService struct {
	schoolRepo identity.SchoolRepository
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	revocation auth.RevocationList
	logger     *zap.Logger
}

// AuthServiceOption configures an AuthService
type AuthServiceOption func(*AuthService)

// WithRevocationList enables logout and rejects revoked refresh tokens
func WithRevocationList(list auth.RevocationList) AuthServiceOption {
	return func(s *AuthService) {
		s.revocation = list
	}
}

// WithAuthLogger sets the base logger
func WithAuthLogger(l *zap.Logger) AuthServiceOption {
	return func(s *AuthService) {
		s.logger = l
	}
}

// NewAuthService creates a new authentication service
func NewAuthService(
	schoolRepo identity.SchoolRepository,
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	opts ...AuthServiceOption,
) *AuthService {
	s := &AuthService{
		schoolRepo: schoolRepo,
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates a user of a school and returns a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer span.End()
	log := logger.Enrich(ctx, s.logger).With(zap.String("school_code", input.SchoolCode), zap.String("username", input.Username))

	school, err := s.schoolRepo.FindByCode(ctx, input.SchoolCode)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Login for unknown school")
			return nil, ErrInvalidCredentials
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load school: %w", err)
	}
	if !school.IsActive() {
		log.Warn("Login for suspended school")
		return nil, shared.NewDomainError(shared.ErrForbidden.Code, "School is suspended")
	}
	span.SetAttributes(telemetry.SchoolAttr(school.ID))

	user, err := s.userRepo.FindByUsername(ctx, school.ID, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Login for unknown user")
			return nil, ErrInvalidCredentials
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.CanLogin() {
		log.Warn("Login attempt for locked account")
		return nil, shared.NewDomainError(shared.ErrForbidden.Code, "Account is locked. Contact your school administrator")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure()
		if err := s.userRepo.Save(ctx, user); err != nil {
			log.Error("Failed to update user after login failure", zap.Error(err))
		}
		if locked {
			log.Warn("Account locked after too many failed attempts", zap.Int("attempts", user.FailedAttempts))
			return nil, shared.NewDomainError(shared.ErrForbidden.Code, "Too many failed login attempts. Account has been locked")
		}
		log.Warn("Invalid password attempt", zap.Int("failed_attempts", user.FailedAttempts))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		SchoolID:    user.SchoolID,
		BranchID:    user.BranchID,
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role.String(),
		Permissions: user.Role.Permissions(),
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// the login itself succeeded
		log.Error("Failed to update user after successful login", zap.Error(err))
	}

	log.Info("User logged in", zap.String("user_id", user.ID.String()))
	telemetry.SetOK(span)
	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserInfo(user),
	}, nil
}

// Refresh rotates a refresh token. The user's current role is re-read so a
// role change or lock takes effect on the next rotation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshTokenResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "refresh")
	defer span.End()

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	tc, err := claims.TenantContext()
	if err != nil {
		return nil, ErrTokenInvalid
	}
	span.SetAttributes(telemetry.SchoolAttr(tc.SchoolID))

	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	school, err := s.schoolRepo.FindByID(ctx, tc.SchoolID)
	if err != nil {
		return nil, err
	}
	if !school.IsActive() {
		return nil, shared.NewDomainError(shared.ErrForbidden.Code, "School is suspended")
	}
	user, err := s.userRepo.FindByID(ctx, tc, tc.ActorID())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError(shared.ErrForbidden.Code, "Account is locked")
	}

	pair, err := s.jwtService.RefreshTokenPair(refreshToken, user.Role.String(), user.Role.Permissions())
	if err != nil {
		return nil, mapTokenError(err)
	}

	// a refresh token is single use
	if s.revocation != nil {
		if err := s.revocation.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			logger.Enrich(ctx, s.logger).Error("Failed to revoke rotated refresh token", zap.Error(err))
		}
	}

	telemetry.SetOK(span)
	return &RefreshTokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Me returns the authenticated user
func (s *AuthService) Me(ctx context.Context, tc shared.TenantContext) (*UserInfo, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, tc, tc.ActorID())
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// Logout revokes the presented access token until it would have expired
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if s.revocation == nil || input.TokenJTI == "" || input.ExpiresIn <= 0 {
		return nil
	}
	if err := s.revocation.Revoke(ctx, input.TokenJTI, input.ExpiresIn); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	if s.revocation == nil {
		return nil
	}
	revoked, err := s.revocation.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	revoked, err = s.revocation.IsUserRevoked(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return ErrTokenExpired
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return ErrTokenMaxRefresh
	default:
		return ErrTokenInvalid
	}
}
