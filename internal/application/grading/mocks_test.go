package grading

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/grading"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockGradingSystemRepository is a mock implementation of grading.GradingSystemRepository
type MockGradingSystemRepository struct {
	mock.Mock
}

func (m *MockGradingSystemRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*grading.GradingSystem, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*grading.GradingSystem), args.Error(1)
}

func (m *MockGradingSystemRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter grading.GradingSystemFilter) ([]grading.GradingSystem, int64, error) {
	args := m.Called(ctx, tc, filter)
	return args.Get(0).([]grading.GradingSystem), args.Get(1).(int64), args.Error(2)
}

func (m *MockGradingSystemRepository) FindDefault(ctx context.Context, tc shared.TenantContext, typ grading.AssessmentType) (*grading.GradingSystem, error) {
	args := m.Called(ctx, tc, typ)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*grading.GradingSystem), args.Error(1)
}

func (m *MockGradingSystemRepository) Save(ctx context.Context, gs *grading.GradingSystem) error {
	return m.Called(ctx, gs).Error(0)
}

func (m *MockGradingSystemRepository) SetDefault(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*grading.GradingSystem, error) {
	args := m.Called(ctx, tc, id)
	if fn, ok := args.Get(0).(func(uuid.UUID) *grading.GradingSystem); ok {
		return fn(id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*grading.GradingSystem), args.Error(1)
}

// MockAggregationConfigRepository is a mock implementation of grading.AggregationConfigRepository
type MockAggregationConfigRepository struct {
	mock.Mock
}

func (m *MockAggregationConfigRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*grading.AggregationConfig, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*grading.AggregationConfig), args.Error(1)
}

func (m *MockAggregationConfigRepository) FindAll(ctx context.Context, tc shared.TenantContext) ([]grading.AggregationConfig, error) {
	args := m.Called(ctx, tc)
	return args.Get(0).([]grading.AggregationConfig), args.Error(1)
}

func (m *MockAggregationConfigRepository) Save(ctx context.Context, cfg *grading.AggregationConfig) error {
	return m.Called(ctx, cfg).Error(0)
}

func (m *MockAggregationConfigRepository) Delete(ctx context.Context, tc shared.TenantContext, id uuid.UUID) error {
	return m.Called(ctx, tc, id).Error(0)
}

// MockScoreRepository is a mock implementation of grading.ScoreRepository
type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) Save(ctx context.Context, score *grading.AssessmentScore) error {
	return m.Called(ctx, score).Error(0)
}

func (m *MockScoreRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter grading.ScoreFilter) ([]grading.AssessmentScore, int64, error) {
	args := m.Called(ctx, tc, filter)
	return args.Get(0).([]grading.AssessmentScore), args.Get(1).(int64), args.Error(2)
}

func (m *MockScoreRepository) FindForResult(ctx context.Context, tc shared.TenantContext, learnerID uuid.UUID, learningArea string, typ grading.AssessmentType, term, academicYear int) ([]grading.AssessmentScore, error) {
	args := m.Called(ctx, tc, learnerID, learningArea, typ, term, academicYear)
	return args.Get(0).([]grading.AssessmentScore), args.Error(1)
}

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
