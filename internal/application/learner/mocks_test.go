package learner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockLearnerRepository is a mock implementation of learner.LearnerRepository
type MockLearnerRepository struct {
	mock.Mock
}

func (m *MockLearnerRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*learner.Learner, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*learner.Learner), args.Error(1)
}

func (m *MockLearnerRepository) FindByIDs(ctx context.Context, tc shared.TenantContext, ids []uuid.UUID) ([]learner.Learner, error) {
	args := m.Called(ctx, tc, ids)
	return args.Get(0).([]learner.Learner), args.Error(1)
}

func (m *MockLearnerRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter learner.Filter) ([]learner.Learner, int64, error) {
	args := m.Called(ctx, tc, filter)
	return args.Get(0).([]learner.Learner), args.Get(1).(int64), args.Error(2)
}

func (m *MockLearnerRepository) FindActiveByGrade(ctx context.Context, tc shared.TenantContext, grade, stream string) ([]learner.Learner, error) {
	args := m.Called(ctx, tc, grade, stream)
	return args.Get(0).([]learner.Learner), args.Error(1)
}

func (m *MockLearnerRepository) ExistsByAdmissionNumber(ctx context.Context, tc shared.TenantContext, admissionNumber string) (bool, error) {
	args := m.Called(ctx, tc, admissionNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockLearnerRepository) Save(ctx context.Context, l *learner.Learner) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLearnerRepository) ExistingAdmissionNumbers(ctx context.Context, tc shared.TenantContext, numbers []string) ([]string, error) {
	args := m.Called(ctx, tc, numbers)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLearnerRepository) CreateBatch(ctx context.Context, learners []*learner.Learner) error {
	return m.Called(ctx, learners).Error(0)
}

// MockAttendanceRepository is a mock implementation of learner.AttendanceRepository
type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Upsert(ctx context.Context, tc shared.TenantContext, records []learner.AttendanceRecord) error {
	return m.Called(ctx, tc, records).Error(0)
}

func (m *MockAttendanceRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter learner.AttendanceFilter) ([]learner.AttendanceRecord, int64, error) {
	args := m.Called(ctx, tc, filter)
	return args.Get(0).([]learner.AttendanceRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttendanceRepository) FindByLearnerAndDate(ctx context.Context, tc shared.TenantContext, learnerID uuid.UUID, date time.Time) (*learner.AttendanceRecord, error) {
	args := m.Called(ctx, tc, learnerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*learner.AttendanceRecord), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}
