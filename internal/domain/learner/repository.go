package learner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
)

// LearnerRepository persists learners
type LearnerRepository interface {
	FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*Learner, error)
	FindByIDs(ctx context.Context, tc shared.TenantContext, ids []uuid.UUID) ([]Learner, error)
	FindAll(ctx context.Context, tc shared.TenantContext, filter Filter) ([]Learner, int64, error)
	// FindActiveByGrade returns ACTIVE learners of a grade, optionally narrowed to one stream
	FindActiveByGrade(ctx context.Context, tc shared.TenantContext, grade, stream string) ([]Learner, error)
	ExistsByAdmissionNumber(ctx context.Context, tc shared.TenantContext, admissionNumber string) (bool, error)
	// ExistingAdmissionNumbers returns which of numbers are already taken in the school
	ExistingAdmissionNumbers(ctx context.Context, tc shared.TenantContext, numbers []string) ([]string, error)
	Save(ctx context.Context, l *Learner) error
	// CreateBatch inserts every learner or none
	CreateBatch(ctx context.Context, learners []*Learner) error
}

// AttendanceRepository persists attendance records
type AttendanceRepository interface {
	// Upsert writes all records atomically, replacing any existing (learner, date) rows
	Upsert(ctx context.Context, tc shared.TenantContext, records []AttendanceRecord) error
	FindAll(ctx context.Context, tc shared.TenantContext, filter AttendanceFilter) ([]AttendanceRecord, int64, error)
	FindByLearnerAndDate(ctx context.Context, tc shared.TenantContext, learnerID uuid.UUID, date time.Time) (*AttendanceRecord, error)
}
