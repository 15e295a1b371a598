package grading

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
)

// GradingSystemRepository persists grading systems with their ranges
type GradingSystemRepository interface {
	FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*GradingSystem, error)
	FindAll(ctx context.Context, tc shared.TenantContext, filter GradingSystemFilter) ([]GradingSystem, int64, error)
	FindDefault(ctx context.Context, tc shared.TenantContext, typ AssessmentType) (*GradingSystem, error)
	// Save upserts the system and replaces its ranges
	Save(ctx context.Context, gs *GradingSystem) error
	// SetDefault marks one system default and clears the flag on the others of its type
	SetDefault(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*GradingSystem, error)
}

// AggregationConfigRepository persists aggregation rules
type AggregationConfigRepository interface {
	FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*AggregationConfig, error)
	FindAll(ctx context.Context, tc shared.TenantContext) ([]AggregationConfig, error)
	Save(ctx context.Context, cfg *AggregationConfig) error
	Delete(ctx context.Context, tc shared.TenantContext, id uuid.UUID) error
}

// ScoreRepository persists assessment scores
type ScoreRepository interface {
	Save(ctx context.Context, score *AssessmentScore) error
	FindAll(ctx context.Context, tc shared.TenantContext, filter ScoreFilter) ([]AssessmentScore, int64, error)
	FindForResult(ctx context.Context, tc shared.TenantContext, learnerID uuid.UUID, learningArea string, typ AssessmentType, term, academicYear int) ([]AssessmentScore, error)
}
