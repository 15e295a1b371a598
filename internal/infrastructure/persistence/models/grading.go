package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/grading"
)

// GradingSystemModel is the persistence model for the GradingSystem aggregate
type GradingSystemModel struct {
	TenantAggregateModel
	Name      string                 `gorm:"type:varchar(100);not null"`
	Type      grading.AssessmentType `gorm:"type:varchar(20);not null;index"`
	IsDefault bool                   `gorm:"not null;default:false"`
	Ranges    []GradingRangeModel    `gorm:"foreignKey:GradingSystemID;references:ID"`
}

// TableName returns the table name for GORM
func (GradingSystemModel) TableName() string {
	return "grading_systems"
}

// GradingRangeModel is one percentage band
type GradingRangeModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	GradingSystemID uuid.UUID `gorm:"type:uuid;not null;index"`
	MinPercentage   float64   `gorm:"type:decimal(5,2);not null"`
	MaxPercentage   float64   `gorm:"type:decimal(5,2);not null"`
	Label           string    `gorm:"type:varchar(50);not null"`
	Points          *float64  `gorm:"type:decimal(6,2)"`
	MappedGrade     string    `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (GradingRangeModel) TableName() string {
	return "grading_ranges"
}

// ToDomain converts the persistence model to a domain GradingSystem
func (m *GradingSystemModel) ToDomain() *grading.GradingSystem {
	ranges := make([]grading.GradingRange, len(m.Ranges))
	for i, r := range m.Ranges {
		ranges[i] = grading.GradingRange{
			ID:            r.ID,
			MinPercentage: r.MinPercentage,
			MaxPercentage: r.MaxPercentage,
			Label:         r.Label,
			Points:        r.Points,
			MappedGrade:   r.MappedGrade,
		}
	}
	return &grading.GradingSystem{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Type:                m.Type,
		IsDefault:           m.IsDefault,
		Ranges:              ranges,
	}
}

// GradingSystemModelFromDomain creates a persistence model from a domain GradingSystem
func GradingSystemModelFromDomain(gs *grading.GradingSystem) *GradingSystemModel {
	m := &GradingSystemModel{
		Name:      gs.Name,
		Type:      gs.Type,
		IsDefault: gs.IsDefault,
		Ranges:    make([]GradingRangeModel, len(gs.Ranges)),
	}
	m.FromDomainTenantAggregateRoot(gs.TenantAggregateRoot)
	for i, r := range gs.Ranges {
		m.Ranges[i] = GradingRangeModel{
			ID:              r.ID,
			GradingSystemID: gs.ID,
			MinPercentage:   r.MinPercentage,
			MaxPercentage:   r.MaxPercentage,
			Label:           r.Label,
			Points:          r.Points,
			MappedGrade:     r.MappedGrade,
		}
	}
	return m
}

// AggregationConfigModel is the persistence model for an aggregation rule
type AggregationConfigModel struct {
	BaseModel
	SchoolID       uuid.UUID               `gorm:"type:uuid;not null;index"`
	AssessmentType *grading.AssessmentType `gorm:"type:varchar(20)"`
	Grade          *string                 `gorm:"type:varchar(50)"`
	LearningArea   *string                 `gorm:"type:varchar(100)"`
	Strategy       grading.Strategy        `gorm:"type:varchar(30);not null"`
	NValue         *int
	Weight         *float64 `gorm:"type:decimal(8,4)"`
}

// TableName returns the table name for GORM
func (AggregationConfigModel) TableName() string {
	return "aggregation_configs"
}

// ToDomain converts the persistence model to a domain AggregationConfig
func (m *AggregationConfigModel) ToDomain() *grading.AggregationConfig {
	return &grading.AggregationConfig{
		BaseEntity:     m.BaseModel.ToDomain(),
		SchoolID:       m.SchoolID,
		AssessmentType: m.AssessmentType,
		Grade:          m.Grade,
		LearningArea:   m.LearningArea,
		Strategy:       m.Strategy,
		NValue:         m.NValue,
		Weight:         m.Weight,
	}
}

// AggregationConfigModelFromDomain creates a persistence model from a domain AggregationConfig
func AggregationConfigModelFromDomain(c *grading.AggregationConfig) *AggregationConfigModel {
	m := &AggregationConfigModel{
		SchoolID:       c.SchoolID,
		AssessmentType: c.AssessmentType,
		Grade:          c.Grade,
		LearningArea:   c.LearningArea,
		Strategy:       c.Strategy,
		NValue:         c.NValue,
		Weight:         c.Weight,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// AssessmentScoreModel is the persistence model for a recorded score
type AssessmentScoreModel struct {
	BaseModel
	SchoolID       uuid.UUID              `gorm:"type:uuid;not null;index:idx_score_lookup,priority:1"`
	BranchID       *uuid.UUID             `gorm:"type:uuid"`
	LearnerID      uuid.UUID              `gorm:"type:uuid;not null;index:idx_score_lookup,priority:2"`
	LearningArea   string                 `gorm:"type:varchar(100);not null;index:idx_score_lookup,priority:3"`
	AssessmentType grading.AssessmentType `gorm:"type:varchar(20);not null"`
	Term           int                    `gorm:"not null"`
	AcademicYear   int                    `gorm:"not null"`
	Score          float64                `gorm:"type:decimal(5,2);not null"`
	AssessedAt     time.Time              `gorm:"not null"`
	RecordedBy     *uuid.UUID             `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (AssessmentScoreModel) TableName() string {
	return "assessment_scores"
}

// ToDomain converts the persistence model to a domain AssessmentScore
func (m *AssessmentScoreModel) ToDomain() *grading.AssessmentScore {
	return &grading.AssessmentScore{
		BaseEntity:     m.BaseModel.ToDomain(),
		SchoolID:       m.SchoolID,
		BranchID:       m.BranchID,
		LearnerID:      m.LearnerID,
		LearningArea:   m.LearningArea,
		AssessmentType: m.AssessmentType,
		Term:           m.Term,
		AcademicYear:   m.AcademicYear,
		Score:          m.Score,
		AssessedAt:     m.AssessedAt,
		RecordedBy:     m.RecordedBy,
	}
}

// AssessmentScoreModelFromDomain creates a persistence model from a domain AssessmentScore
func AssessmentScoreModelFromDomain(s *grading.AssessmentScore) *AssessmentScoreModel {
	m := &AssessmentScoreModel{
		SchoolID:       s.SchoolID,
		BranchID:       s.BranchID,
		LearnerID:      s.LearnerID,
		LearningArea:   s.LearningArea,
		AssessmentType: s.AssessmentType,
		Term:           s.Term,
		AcademicYear:   s.AcademicYear,
		Score:          s.Score,
		AssessedAt:     s.AssessedAt,
		RecordedBy:     s.RecordedBy,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// AllModels lists every persistence model, in dependency order, for AutoMigrate in tests
func AllModels() []any {
	return []any{
		&SchoolModel{}, &BranchModel{}, &UserModel{},
		&LearnerModel{}, &AttendanceModel{},
		&FeeTypeModel{}, &FeeStructureModel{}, &FeeStructureItemModel{},
		&FeeInvoiceModel{}, &FeePaymentModel{}, &DocumentSequenceModel{},
		&GradingSystemModel{}, &GradingRangeModel{}, &AggregationConfigModel{}, &AssessmentScoreModel{},
	}
}
