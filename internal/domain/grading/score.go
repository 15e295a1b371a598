package grading

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
)

// AssessmentScore is one recorded percentage for a learner in a learning area
type AssessmentScore struct {
	shared.BaseEntity
	SchoolID       uuid.UUID
	BranchID       *uuid.UUID
	LearnerID      uuid.UUID
	LearningArea   string
	AssessmentType AssessmentType
	Term           int
	AcademicYear   int
	Score          float64
	AssessedAt     time.Time
	RecordedBy     *uuid.UUID
}

// NewAssessmentScore validates and creates a score for an active learner
func NewAssessmentScore(tc shared.TenantContext, l *learner.Learner, learningArea string, typ AssessmentType, term, academicYear int, score float64, assessedAt time.Time) (*AssessmentScore, error) {
	if l == nil {
		return nil, shared.NewValidationError("Learner is required")
	}
	if !l.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Scores can only be recorded for active learners")
	}
	area := NormalizeLearningArea(learningArea)
	if area == "" || len(area) > 100 {
		return nil, shared.NewDomainError("INVALID_LEARNING_AREA", "Learning area must be 1-100 characters")
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError("INVALID_ASSESSMENT_TYPE", "Assessment type must be FORMATIVE or SUMMATIVE")
	}
	if err := fee.ValidateTerm(term); err != nil {
		return nil, err
	}
	if err := fee.ValidateAcademicYear(academicYear); err != nil {
		return nil, err
	}
	if !validPercentage(score) {
		return nil, ErrInvalidPercentage
	}
	if assessedAt.IsZero() {
		assessedAt = time.Now()
	}

	return &AssessmentScore{
		BaseEntity:     shared.NewBaseEntity(),
		SchoolID:       l.SchoolID,
		BranchID:       l.BranchID,
		LearnerID:      l.ID,
		LearningArea:   area,
		AssessmentType: typ,
		Term:           term,
		AcademicYear:   academicYear,
		Score:          score,
		AssessedAt:     assessedAt,
		RecordedBy:     tc.UserID,
	}, nil
}

// Values extracts the raw percentages
func Values(scores []AssessmentScore) []float64 {
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = s.Score
	}
	return out
}

// LearnerResult is the aggregated and graded outcome for one learning area
type LearnerResult struct {
	LearnerID    uuid.UUID
	LearningArea string
	Type         AssessmentType
	Term         int
	AcademicYear int
	Score        float64
	Label        string
	Points       *float64
	MappedGrade  string
	Strategy     Strategy
	Count        int
}

// ComputeResult aggregates the scores under the resolved config and grades the result
func ComputeResult(scores []AssessmentScore, cfg AggregationConfig, system *GradingSystem) (float64, GradingRange, error) {
	value, err := Aggregate(Values(scores), cfg)
	if err != nil {
		return 0, GradingRange{}, err
	}
	value = RoundScore(value)
	// weighted averages may exceed 100; grade the capped value
	band, err := system.ResolveGrade(math.Min(value, 100))
	if err != nil {
		return value, GradingRange{}, err
	}
	return value, band, nil
}

// RoundScore rounds to two decimal places
func RoundScore(v float64) float64 {
	return math.Round(v*100) / 100
}

// ScoreFilter narrows score queries
type ScoreFilter struct {
	shared.Filter
	LearnerID      *uuid.UUID
	LearningArea   string
	AssessmentType *AssessmentType
	Term           *int
	AcademicYear   *int
}
