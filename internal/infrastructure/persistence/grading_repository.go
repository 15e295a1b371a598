package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/grading"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormGradingSystemRepository implements GradingSystemRepository using GORM
type GormGradingSystemRepository struct {
	db *gorm.DB
}

// NewGormGradingSystemRepository creates a new GormGradingSystemRepository
func NewGormGradingSystemRepository(db *gorm.DB) *GormGradingSystemRepository {
	return &GormGradingSystemRepository{db: db}
}

func preloadRanges(db *gorm.DB) *gorm.DB {
	return db.Order("min_percentage DESC")
}

// FindByID finds a grading system with its ranges
func (r *GormGradingSystemRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*grading.GradingSystem, error) {
	var model models.GradingSystemModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantSchool(tc.SchoolID)).
		Preload("Ranges", preloadRanges).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Grading system")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists grading systems with their ranges
func (r *GormGradingSystemRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter grading.GradingSystemFilter) ([]grading.GradingSystem, int64, error) {
	var rows []models.GradingSystemModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.GradingSystemModel{}).Scopes(tenantSchool(tc.SchoolID))
	if pattern := searchPattern(filter.Search); pattern != "" {
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.IsDefault != nil {
		query = query.Where("is_default = ?", *filter.IsDefault)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := orderAndPage(query.Preload("Ranges", preloadRanges), filter.Filter, GradingSortFields, "created_at").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	systems := make([]grading.GradingSystem, len(rows))
	for i, m := range rows {
		systems[i] = *m.ToDomain()
	}
	return systems, total, nil
}

// FindDefault returns the school's default system for an assessment type
func (r *GormGradingSystemRepository) FindDefault(ctx context.Context, tc shared.TenantContext, typ grading.AssessmentType) (*grading.GradingSystem, error) {
	var model models.GradingSystemModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantSchool(tc.SchoolID)).
		Preload("Ranges", preloadRanges).
		Where("type = ? AND is_default = ?", typ, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "No default grading system for "+string(typ))
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts the system and replaces its ranges in one transaction.
// Saving a default system clears the flag on the other systems of its type.
func (r *GormGradingSystemRepository) Save(ctx context.Context, gs *grading.GradingSystem) error {
	model := models.GradingSystemModelFromDomain(gs)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if gs.IsDefault {
			if err := clearDefaults(tx, gs.SchoolID, gs.Type, gs.ID); err != nil {
				return err
			}
		}
		if err := tx.Omit("Ranges").Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("grading_system_id = ?", gs.ID).Delete(&models.GradingRangeModel{}).Error; err != nil {
			return err
		}
		if len(model.Ranges) == 0 {
			return nil
		}
		return tx.Create(&model.Ranges).Error
	})
}

// SetDefault marks one system default and clears the others of its type atomically
func (r *GormGradingSystemRepository) SetDefault(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*grading.GradingSystem, error) {
	var gs *grading.GradingSystem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.GradingSystemModel
		if err := tx.Scopes(tenantSchool(tc.SchoolID)).
			Preload("Ranges", preloadRanges).
			First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NewNotFoundError("Grading system")
			}
			return err
		}
		gs = model.ToDomain()
		if err := clearDefaults(tx, gs.SchoolID, gs.Type, gs.ID); err != nil {
			return err
		}
		gs.MarkDefault()
		return tx.Model(&models.GradingSystemModel{}).
			Where("id = ?", gs.ID).
			Updates(map[string]any{"is_default": true, "version": gs.Version, "updated_at": gs.UpdatedAt}).Error
	})
	if err != nil {
		return nil, err
	}
	return gs, nil
}

func clearDefaults(tx *gorm.DB, schoolID uuid.UUID, typ grading.AssessmentType, keepID uuid.UUID) error {
	return tx.Model(&models.GradingSystemModel{}).
		Where("school_id = ? AND type = ? AND is_default = ? AND id <> ?", schoolID, typ, true, keepID).
		Update("is_default", false).Error
}

// Ensure GormGradingSystemRepository implements GradingSystemRepository
var _ grading.GradingSystemRepository = (*GormGradingSystemRepository)(nil)

// GormAggregationConfigRepository implements AggregationConfigRepository using GORM
type GormAggregationConfigRepository struct {
	db *gorm.DB
}

// NewGormAggregationConfigRepository creates a new GormAggregationConfigRepository
func NewGormAggregationConfigRepository(db *gorm.DB) *GormAggregationConfigRepository {
	return &GormAggregationConfigRepository{db: db}
}

// FindByID finds one aggregation rule of the school
func (r *GormAggregationConfigRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*grading.AggregationConfig, error) {
	var model models.AggregationConfigModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantSchool(tc.SchoolID)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Aggregation config")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every aggregation rule of the school
func (r *GormAggregationConfigRepository) FindAll(ctx context.Context, tc shared.TenantContext) ([]grading.AggregationConfig, error) {
	return findConfigs(r.db.WithContext(ctx), tc.SchoolID)
}

// Save upserts a rule, rejecting a second rule with the same key set
func (r *GormAggregationConfigRepository) Save(ctx context.Context, cfg *grading.AggregationConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findConfigs(tx, cfg.SchoolID)
		if err != nil {
			return err
		}
		for _, other := range existing {
			if other.ID != cfg.ID && other.SameKey(*cfg) {
				return grading.ErrDuplicateConfig
			}
		}
		return tx.Save(models.AggregationConfigModelFromDomain(cfg)).Error
	})
}

// Delete removes a rule
func (r *GormAggregationConfigRepository) Delete(ctx context.Context, tc shared.TenantContext, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenantSchool(tc.SchoolID)).
		Delete(&models.AggregationConfigModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Aggregation config")
	}
	return nil
}

func findConfigs(db *gorm.DB, schoolID uuid.UUID) ([]grading.AggregationConfig, error) {
	var rows []models.AggregationConfigModel
	if err := db.Scopes(tenantSchool(schoolID)).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	configs := make([]grading.AggregationConfig, len(rows))
	for i, m := range rows {
		configs[i] = *m.ToDomain()
	}
	return configs, nil
}

// Ensure GormAggregationConfigRepository implements AggregationConfigRepository
var _ grading.AggregationConfigRepository = (*GormAggregationConfigRepository)(nil)

// GormScoreRepository implements ScoreRepository using GORM
type GormScoreRepository struct {
	db *gorm.DB
}

// NewGormScoreRepository creates a new GormScoreRepository
func NewGormScoreRepository(db *gorm.DB) *GormScoreRepository {
	return &GormScoreRepository{db: db}
}

// Save creates or updates a score
func (r *GormScoreRepository) Save(ctx context.Context, score *grading.AssessmentScore) error {
	return r.db.WithContext(ctx).Save(models.AssessmentScoreModelFromDomain(score)).Error
}

// FindAll lists scores with filtering and pagination
func (r *GormScoreRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter grading.ScoreFilter) ([]grading.AssessmentScore, int64, error) {
	var rows []models.AssessmentScoreModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AssessmentScoreModel{}).Scopes(tenantScope(tc))
	if filter.LearnerID != nil {
		query = query.Where("learner_id = ?", *filter.LearnerID)
	}
	if area := grading.NormalizeLearningArea(filter.LearningArea); area != "" {
		query = query.Where("learning_area = ?", area)
	}
	if filter.AssessmentType != nil {
		query = query.Where("assessment_type = ?", *filter.AssessmentType)
	}
	if filter.Term != nil {
		query = query.Where("term = ?", *filter.Term)
	}
	if filter.AcademicYear != nil {
		query = query.Where("academic_year = ?", *filter.AcademicYear)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := orderAndPage(query, filter.Filter, ScoreSortFields, "assessed_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toScores(rows), total, nil
}

// FindForResult returns every score feeding one learner's result for an area, type and term
func (r *GormScoreRepository) FindForResult(ctx context.Context, tc shared.TenantContext, learnerID uuid.UUID, learningArea string, typ grading.AssessmentType, term, academicYear int) ([]grading.AssessmentScore, error) {
	var rows []models.AssessmentScoreModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tc)).
		Where("learner_id = ? AND learning_area = ? AND assessment_type = ? AND term = ? AND academic_year = ?",
			learnerID, grading.NormalizeLearningArea(learningArea), typ, term, academicYear).
		Order("assessed_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toScores(rows), nil
}

func toScores(rows []models.AssessmentScoreModel) []grading.AssessmentScore {
	scores := make([]grading.AssessmentScore, len(rows))
	for i, m := range rows {
		scores[i] = *m.ToDomain()
	}
	return scores
}

// Ensure GormScoreRepository implements ScoreRepository
var _ grading.ScoreRepository = (*GormScoreRepository)(nil)
