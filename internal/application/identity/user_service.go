package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/identity"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/auth"
	"github.com/schoolms/backend/internal/infrastructure/logger"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// UserService manages the staff accounts of a school
type UserService struct {
	userRepo   identity.UserRepository
	schoolRepo identity.SchoolRepository
	publisher  shared.EventPublisher
	revocation auth.RevocationList
	revokeTTL  time.Duration
	logger     *zap.Logger
}

// UserServiceOption configures a UserService
type UserServiceOption func(*UserService)

// WithUserEventPublisher publishes user events after save
func WithUserEventPublisher(p shared.EventPublisher) UserServiceOption {
	return func(s *UserService) {
		s.publisher = p
	}
}

// WithPasswordChangeRevocation revokes every token of a user whose password
// changed. ttl should cover the refresh token lifetime.
func WithPasswordChangeRevocation(list auth.RevocationList, ttl time.Duration) UserServiceOption {
	return func(s *UserService) {
		s.revocation = list
		s.revokeTTL = ttl
	}
}

// WithUserLogger sets the base logger
func WithUserLogger(l *zap.Logger) UserServiceOption {
	return func(s *UserService) {
		s.logger = l
	}
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, schoolRepo identity.SchoolRepository, opts ...UserServiceOption) *UserService {
	s := &UserService{
		userRepo:   userRepo,
		schoolRepo: schoolRepo,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds a user to the caller's school. A branch-scoped caller can only
// create users of its own branch.
func (s *UserService) Create(ctx context.Context, tc shared.TenantContext, input CreateUserInput) (*UserInfo, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "user", "create", telemetry.SchoolAttr(tc.SchoolID))
	defer span.End()

	if err := tc.Validate(); err != nil {
		return nil, err
	}
	branchID := input.BranchID
	if tc.HasBranch() {
		if branchID == nil {
			branchID = tc.BranchID
		} else if *branchID != *tc.BranchID {
			return nil, shared.NewDomainError(shared.ErrForbidden.Code, "Cannot create users for another branch")
		}
	}
	if branchID != nil {
		if _, err := s.schoolRepo.FindBranch(ctx, tc.SchoolID, *branchID); err != nil {
			return nil, err
		}
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, tc.SchoolID, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Username already exists")
	}

	user, err := identity.NewUser(tc.SchoolID, branchID, input.Username, input.Password, identity.Role(strings.ToUpper(input.Role)))
	if err != nil {
		return nil, err
	}
	if err := user.SetEmail(input.Email); err != nil {
		return nil, err
	}
	if err := user.SetDisplayName(input.DisplayName); err != nil {
		return nil, err
	}
	if tc.UserID != nil {
		user.SetCreatedBy(*tc.UserID)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publish(ctx, user)

	info := ToUserInfo(user)
	return &info, nil
}

// List returns the users of the caller's school
func (s *UserService) List(ctx context.Context, tc shared.TenantContext, filter UserListFilter) (*shared.Paginated[UserInfo], error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	f := identity.UserFilter{Filter: shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  "username",
		OrderDir: "asc",
	}}
	f.Normalize()
	if filter.Role != "" {
		role := identity.Role(strings.ToUpper(filter.Role))
		if !role.IsValid() {
			return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
		}
		f.Role = &role
	}
	if filter.Status != "" {
		status := identity.UserStatus(strings.ToUpper(filter.Status))
		f.Status = &status
	}

	users, total, err := s.userRepo.FindAll(ctx, tc, f)
	if err != nil {
		return nil, err
	}
	items := make([]UserInfo, len(users))
	for i := range users {
		items[i] = ToUserInfo(&users[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Get returns one user of the caller's school
func (s *UserService) Get(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*UserInfo, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// ChangePassword changes the caller's own password and revokes its tokens
func (s *UserService) ChangePassword(ctx context.Context, tc shared.TenantContext, input ChangePasswordInput) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "user", "change_password", telemetry.SchoolAttr(tc.SchoolID))
	defer span.End()

	if err := tc.Validate(); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, tc, tc.ActorID())
	if err != nil {
		return err
	}
	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	if s.revocation != nil {
		if err := s.revocation.RevokeUser(ctx, user.ID.String(), s.revokeTTL); err != nil {
			logger.Enrich(ctx, s.logger).Error("Failed to revoke tokens after password change",
				zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}
	s.publish(ctx, user)
	return nil
}

// Unlock re-enables an account locked after failed logins
func (s *UserService) Unlock(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*UserInfo, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	user.Unlock()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

func (s *UserService) publish(ctx context.Context, user *identity.User) {
	events := user.GetDomainEvents()
	user.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to publish user events", zap.Error(err))
	}
}
