package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/identity"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockSchoolRepository is a mock implementation of identity.SchoolRepository
type MockSchoolRepository struct {
	mock.Mock
}

func (m *MockSchoolRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.School, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.School), args.Error(1)
}

func (m *MockSchoolRepository) FindByCode(ctx context.Context, code string) (*identity.School, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.School), args.Error(1)
}

func (m *MockSchoolRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockSchoolRepository) Save(ctx context.Context, school *identity.School) error {
	return m.Called(ctx, school).Error(0)
}

func (m *MockSchoolRepository) Register(ctx context.Context, school *identity.School, admin *identity.User) error {
	return m.Called(ctx, school, admin).Error(0)
}

func (m *MockSchoolRepository) SaveBranch(ctx context.Context, branch *identity.Branch) error {
	return m.Called(ctx, branch).Error(0)
}

func (m *MockSchoolRepository) FindBranches(ctx context.Context, schoolID uuid.UUID) ([]identity.Branch, error) {
	args := m.Called(ctx, schoolID)
	return args.Get(0).([]identity.Branch), args.Error(1)
}

func (m *MockSchoolRepository) FindBranch(ctx context.Context, schoolID, branchID uuid.UUID) (*identity.Branch, error) {
	args := m.Called(ctx, schoolID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Branch), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, schoolID uuid.UUID, username string) (*identity.User, error) {
	args := m.Called(ctx, schoolID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter identity.UserFilter) ([]identity.User, int64, error) {
	args := m.Called(ctx, tc, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, schoolID uuid.UUID, username string) (bool, error) {
	args := m.Called(ctx, schoolID, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}
