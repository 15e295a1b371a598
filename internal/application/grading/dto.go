package grading

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/grading"
)

// RangeInput is one band of a grading system
type RangeInput struct {
	MinPercentage float64  `json:"min_percentage" binding:"min=0,max=100"`
	MaxPercentage float64  `json:"max_percentage" binding:"min=0,max=100"`
	Label         string   `json:"label" binding:"required,max=50"`
	Points        *float64 `json:"points"`
	MappedGrade   string   `json:"mapped_grade" binding:"max=20"`
}

// CreateSystemInput defines a grading system
type CreateSystemInput struct {
	Name      string       `json:"name" binding:"required,max=100"`
	Type      string       `json:"type" binding:"required"`
	IsDefault bool         `json:"is_default"`
	Ranges    []RangeInput `json:"ranges" binding:"required,min=1,dive"`
}

// UpdateRangesInput replaces the bands of a grading system
type UpdateRangesInput struct {
	Ranges []RangeInput `json:"ranges" binding:"required,min=1,dive"`
}

// SystemListFilter narrows the system list
type SystemListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Type     string `form:"type"`
}

// ResolveGradeInput asks which band a percentage falls in. Without a
// system id the school default for Type is used.
type ResolveGradeInput struct {
	Percentage float64    `json:"percentage"`
	SystemID   *uuid.UUID `json:"system_id"`
	Type       string     `json:"type"`
}

// RangeResponse represents a grading band
type RangeResponse struct {
	ID            uuid.UUID `json:"id"`
	MinPercentage float64   `json:"min_percentage"`
	MaxPercentage float64   `json:"max_percentage"`
	Label         string    `json:"label"`
	Points        *float64  `json:"points,omitempty"`
	MappedGrade   string    `json:"mapped_grade,omitempty"`
}

// SystemResponse represents a grading system
type SystemResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	IsDefault bool            `json:"is_default"`
	Ranges    []RangeResponse `json:"ranges"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToSystemResponse converts a grading system
func ToSystemResponse(gs *grading.GradingSystem) SystemResponse {
	ranges := make([]RangeResponse, len(gs.Ranges))
	for i, r := range gs.Ranges {
		ranges[i] = toRangeResponse(r)
	}
	return SystemResponse{
		ID:        gs.ID,
		Name:      gs.Name,
		Type:      string(gs.Type),
		IsDefault: gs.IsDefault,
		Ranges:    ranges,
		Version:   gs.Version,
		CreatedAt: gs.CreatedAt,
		UpdatedAt: gs.UpdatedAt,
	}
}

func toRangeResponse(r grading.GradingRange) RangeResponse {
	return RangeResponse{
		ID:            r.ID,
		MinPercentage: r.MinPercentage,
		MaxPercentage: r.MaxPercentage,
		Label:         r.Label,
		Points:        r.Points,
		MappedGrade:   r.MappedGrade,
	}
}

func toRanges(in []RangeInput) []grading.GradingRange {
	out := make([]grading.GradingRange, len(in))
	for i, r := range in {
		out[i] = grading.GradingRange{
			MinPercentage: r.MinPercentage,
			MaxPercentage: r.MaxPercentage,
			Label:         r.Label,
			Points:        r.Points,
			MappedGrade:   r.MappedGrade,
		}
	}
	return out
}

// GradeResponse is a resolved band
type GradeResponse struct {
	Percentage float64       `json:"percentage"`
	SystemID   uuid.UUID     `json:"system_id"`
	Range      RangeResponse `json:"range"`
}

// CreateConfigInput defines an aggregation rule. Omitted keys are wildcards.
type CreateConfigInput struct {
	AssessmentType *string  `json:"assessment_type"`
	Grade          *string  `json:"grade"`
	LearningArea   *string  `json:"learning_area"`
	Strategy       string   `json:"strategy" binding:"required"`
	NValue         *int     `json:"n_value"`
	Weight         *float64 `json:"weight"`
}

// ResolveConfigInput names the key a rule is looked up by
type ResolveConfigInput struct {
	AssessmentType string `form:"assessment_type" binding:"required"`
	Grade          string `form:"grade"`
	LearningArea   string `form:"learning_area"`
}

// PreviewInput aggregates ad-hoc scores under a stored rule or an inline strategy
type PreviewInput struct {
	Scores   []float64  `json:"scores" binding:"required,min=1"`
	ConfigID *uuid.UUID `json:"config_id"`
	Strategy string     `json:"strategy"`
	NValue   *int       `json:"n_value"`
	Weight   *float64   `json:"weight"`
}

// ConfigResponse represents an aggregation rule. Default is true for the
// built-in fallback that no stored rule backs.
type ConfigResponse struct {
	ID             *uuid.UUID `json:"id,omitempty"`
	AssessmentType *string    `json:"assessment_type"`
	Grade          *string    `json:"grade"`
	LearningArea   *string    `json:"learning_area"`
	Strategy       string     `json:"strategy"`
	NValue         *int       `json:"n_value,omitempty"`
	Weight         *float64   `json:"weight,omitempty"`
	Specificity    int        `json:"specificity"`
	Default        bool       `json:"default"`
}

// ToConfigResponse converts an aggregation rule
func ToConfigResponse(c grading.AggregationConfig) ConfigResponse {
	resp := ConfigResponse{
		Grade:        c.Grade,
		LearningArea: c.LearningArea,
		Strategy:     string(c.Strategy),
		NValue:       c.NValue,
		Weight:       c.Weight,
		Specificity:  c.Specificity(),
	}
	if c.ID != uuid.Nil {
		id := c.ID
		resp.ID = &id
	} else {
		resp.Default = true
	}
	if c.AssessmentType != nil {
		t := string(*c.AssessmentType)
		resp.AssessmentType = &t
	}
	return resp
}

// PreviewResponse is the result of an aggregation preview
type PreviewResponse struct {
	Strategy string  `json:"strategy"`
	Count    int     `json:"count"`
	Score    float64 `json:"score"`
}

// RecordScoreInput records one assessment score
type RecordScoreInput struct {
	LearnerID      uuid.UUID  `json:"learner_id" binding:"required"`
	LearningArea   string     `json:"learning_area" binding:"required,max=100"`
	AssessmentType string     `json:"assessment_type" binding:"required"`
	Term           int        `json:"term" binding:"required,min=1,max=3"`
	AcademicYear   int        `json:"academic_year" binding:"required"`
	Score          float64    `json:"score" binding:"min=0,max=100"`
	AssessedAt     *time.Time `json:"assessed_at"`
}

// ScoreListFilter narrows the score list
type ScoreListFilter struct {
	Page           int        `form:"page"`
	PageSize       int        `form:"page_size"`
	LearnerID      *uuid.UUID `form:"learner_id"`
	LearningArea   string     `form:"learning_area"`
	AssessmentType string     `form:"assessment_type"`
	Term           *int       `form:"term"`
	AcademicYear   *int       `form:"academic_year"`
}

// ScoreResponse represents a recorded score
type ScoreResponse struct {
	ID             uuid.UUID  `json:"id"`
	LearnerID      uuid.UUID  `json:"learner_id"`
	LearningArea   string     `json:"learning_area"`
	AssessmentType string     `json:"assessment_type"`
	Term           int        `json:"term"`
	AcademicYear   int        `json:"academic_year"`
	Score          float64    `json:"score"`
	AssessedAt     time.Time  `json:"assessed_at"`
	RecordedBy     *uuid.UUID `json:"recorded_by,omitempty"`
}

// ToScoreResponse converts a score
func ToScoreResponse(s *grading.AssessmentScore) ScoreResponse {
	return ScoreResponse{
		ID:             s.ID,
		LearnerID:      s.LearnerID,
		LearningArea:   s.LearningArea,
		AssessmentType: string(s.AssessmentType),
		Term:           s.Term,
		AcademicYear:   s.AcademicYear,
		Score:          s.Score,
		AssessedAt:     s.AssessedAt,
		RecordedBy:     s.RecordedBy,
	}
}

// ResultQuery selects the scores a learner result aggregates
type ResultQuery struct {
	LearnerID      uuid.UUID `form:"learner_id" binding:"required"`
	LearningArea   string    `form:"learning_area" binding:"required"`
	AssessmentType string    `form:"assessment_type" binding:"required"`
	Term           int       `form:"term" binding:"required,min=1,max=3"`
	AcademicYear   int       `form:"academic_year" binding:"required"`
}

// ReportCardQuery selects one learner's term
type ReportCardQuery struct {
	LearnerID    uuid.UUID `form:"learner_id" binding:"required"`
	Term         int       `form:"term" binding:"required,min=1,max=3"`
	AcademicYear int       `form:"academic_year" binding:"required"`
}

// ResultResponse is an aggregated and graded learning area result
type ResultResponse struct {
	LearnerID      uuid.UUID `json:"learner_id"`
	LearningArea   string    `json:"learning_area"`
	AssessmentType string    `json:"assessment_type"`
	Term           int       `json:"term"`
	AcademicYear   int       `json:"academic_year"`
	Score          float64   `json:"score"`
	Label          string    `json:"label"`
	Points         *float64  `json:"points,omitempty"`
	MappedGrade    string    `json:"mapped_grade,omitempty"`
	Strategy       string    `json:"strategy"`
	Count          int       `json:"count"`
}

func toResultResponse(r grading.LearnerResult) ResultResponse {
	return ResultResponse{
		LearnerID:      r.LearnerID,
		LearningArea:   r.LearningArea,
		AssessmentType: string(r.Type),
		Term:           r.Term,
		AcademicYear:   r.AcademicYear,
		Score:          r.Score,
		Label:          r.Label,
		Points:         r.Points,
		MappedGrade:    r.MappedGrade,
		Strategy:       string(r.Strategy),
		Count:          r.Count,
	}
}

// ReportCardResponse lists every learning area result of a learner's term
type ReportCardResponse struct {
	LearnerID       uuid.UUID        `json:"learner_id"`
	AdmissionNumber string           `json:"admission_number"`
	LearnerName     string           `json:"learner_name"`
	Grade           string           `json:"grade"`
	Term            int              `json:"term"`
	AcademicYear    int              `json:"academic_year"`
	Results         []ResultResponse `json:"results"`
}
