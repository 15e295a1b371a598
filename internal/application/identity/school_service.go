package identity

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/schoolms/backend/internal/domain/identity"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/domain/shared/valueobject"
	"github.com/schoolms/backend/internal/infrastructure/logger"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SchoolService onboards tenants and manages their branches
type SchoolService struct {
	schoolRepo     identity.SchoolRepository
	bootstrapToken string
	publisher      shared.EventPublisher
	logger         *zap.Logger
}

// SchoolServiceOption configures a SchoolService
type SchoolServiceOption func(*SchoolService)

// WithSchoolEventPublisher publishes registration events
func WithSchoolEventPublisher(p shared.EventPublisher) SchoolServiceOption {
	return func(s *SchoolService) {
		s.publisher = p
	}
}

// WithSchoolLogger sets the base logger
func WithSchoolLogger(l *zap.Logger) SchoolServiceOption {
	return func(s *SchoolService) {
		s.logger = l
	}
}

// NewSchoolService creates a SchoolService. An empty bootstrapToken disables registration.
func NewSchoolService(schoolRepo identity.SchoolRepository, bootstrapToken string, opts ...SchoolServiceOption) *SchoolService {
	s := &SchoolService{
		schoolRepo:     schoolRepo,
		bootstrapToken: bootstrapToken,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a school with its first SCHOOL_ADMIN user. It is a
// platform operation guarded by the bootstrap token.
func (s *SchoolService) Register(ctx context.Context, input RegisterSchoolInput) (*RegisterSchoolResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "school", "register")
	defer span.End()
	log := logger.Enrich(ctx, s.logger)

	if s.bootstrapToken == "" {
		return nil, shared.NewDomainError(shared.ErrForbidden.Code, "School registration is disabled")
	}
	if subtle.ConstantTimeCompare([]byte(input.BootstrapToken), []byte(s.bootstrapToken)) != 1 {
		log.Warn("School registration with invalid bootstrap token", zap.String("code", input.Code))
		return nil, shared.NewDomainError(shared.ErrForbidden.Code, "Invalid bootstrap token")
	}

	exists, err := s.schoolRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "School code already exists")
	}

	school, err := identity.NewSchool(input.Code, input.Name, valueobject.Currency(strings.ToUpper(input.Currency)))
	if err != nil {
		return nil, err
	}
	admin, err := identity.NewUser(school.ID, nil, input.AdminUsername, input.AdminPassword, identity.RoleSchoolAdmin)
	if err != nil {
		return nil, err
	}
	if err := admin.SetEmail(input.AdminEmail); err != nil {
		return nil, err
	}

	if err := s.schoolRepo.Register(ctx, school, admin); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(telemetry.SchoolAttr(school.ID))
	log.Info("School registered", zap.String("school_id", school.ID.String()), zap.String("code", school.Code))

	events := append(school.GetDomainEvents(), admin.GetDomainEvents()...)
	school.ClearDomainEvents()
	admin.ClearDomainEvents()
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			log.Warn("Failed to publish registration events", zap.Error(err))
		}
	}

	telemetry.SetOK(span)
	return &RegisterSchoolResult{
		School: toSchoolInfo(school, nil),
		Admin:  ToUserInfo(admin),
	}, nil
}

// Get returns the caller's school with its branches
func (s *SchoolService) Get(ctx context.Context, tc shared.TenantContext) (*SchoolInfo, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	school, err := s.schoolRepo.FindByID(ctx, tc.SchoolID)
	if err != nil {
		return nil, err
	}
	branches, err := s.schoolRepo.FindBranches(ctx, tc.SchoolID)
	if err != nil {
		return nil, err
	}
	info := toSchoolInfo(school, branches)
	return &info, nil
}

// AddBranch adds a campus to the caller's school. Branch-scoped callers cannot add branches.
func (s *SchoolService) AddBranch(ctx context.Context, tc shared.TenantContext, input AddBranchInput) (*BranchInfo, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if tc.HasBranch() {
		return nil, shared.NewDomainError(shared.ErrForbidden.Code, "Branch-scoped users cannot add branches")
	}
	branch, err := identity.NewBranch(tc.SchoolID, input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	if err := s.schoolRepo.SaveBranch(ctx, branch); err != nil {
		return nil, err
	}
	info := toBranchInfo(branch)
	return &info, nil
}

// ListBranches returns the branches of the caller's school
func (s *SchoolService) ListBranches(ctx context.Context, tc shared.TenantContext) ([]BranchInfo, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	branches, err := s.schoolRepo.FindBranches(ctx, tc.SchoolID)
	if err != nil {
		return nil, err
	}
	infos := make([]BranchInfo, len(branches))
	for i := range branches {
		infos[i] = toBranchInfo(&branches[i])
	}
	return infos, nil
}

// ListRoles returns the static role catalogue
func ListRoles() []RoleInfo {
	roles := make([]RoleInfo, len(identity.AllRoles))
	for i, r := range identity.AllRoles {
		roles[i] = RoleInfo{Code: r.String(), Permissions: r.Permissions()}
	}
	return roles
}
