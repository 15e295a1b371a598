package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFeeTypeRepository implements FeeTypeRepository using GORM
type GormFeeTypeRepository struct {
	db *gorm.DB
}

// NewGormFeeTypeRepository creates a new GormFeeTypeRepository
func NewGormFeeTypeRepository(db *gorm.DB) *GormFeeTypeRepository {
	return &GormFeeTypeRepository{db: db}
}

// FindByID finds a fee type of the tenant's school
func (r *GormFeeTypeRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*fee.FeeType, error) {
	var model models.FeeTypeModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantSchool(tc.SchoolID)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Fee type")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the fee types among ids that belong to the tenant's school
func (r *GormFeeTypeRepository) FindByIDs(ctx context.Context, tc shared.TenantContext, ids []uuid.UUID) ([]fee.FeeType, error) {
	if len(ids) == 0 {
		return []fee.FeeType{}, nil
	}
	var rows []models.FeeTypeModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantSchool(tc.SchoolID)).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	types := make([]fee.FeeType, len(rows))
	for i, m := range rows {
		types[i] = *m.ToDomain()
	}
	return types, nil
}

// FindAll lists fee types with pagination
func (r *GormFeeTypeRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter shared.Filter) ([]fee.FeeType, int64, error) {
	var rows []models.FeeTypeModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.FeeTypeModel{}).Scopes(tenantSchool(tc.SchoolID))
	if pattern := searchPattern(filter.Search); pattern != "" {
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := orderAndPage(query, filter, FeeSortFields, "code").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	types := make([]fee.FeeType, len(rows))
	for i, m := range rows {
		types[i] = *m.ToDomain()
	}
	return types, total, nil
}

// ExistsByCode checks fee type code uniqueness within the school
func (r *GormFeeTypeRepository) ExistsByCode(ctx context.Context, tc shared.TenantContext, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.FeeTypeModel{}).
		Scopes(tenantSchool(tc.SchoolID)).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a fee type
func (r *GormFeeTypeRepository) Save(ctx context.Context, ft *fee.FeeType) error {
	if err := r.db.WithContext(ctx).Save(models.FeeTypeModelFromDomain(ft)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainError(shared.ErrAlreadyExists.Code, "Fee type code already exists")
		}
		return err
	}
	return nil
}

// Ensure GormFeeTypeRepository implements FeeTypeRepository
var _ fee.FeeTypeRepository = (*GormFeeTypeRepository)(nil)

// GormFeeStructureRepository implements FeeStructureRepository using GORM
type GormFeeStructureRepository struct {
	db *gorm.DB
}

// NewGormFeeStructureRepository creates a new GormFeeStructureRepository
func NewGormFeeStructureRepository(db *gorm.DB) *GormFeeStructureRepository {
	return &GormFeeStructureRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

// FindByID finds a fee structure with its items
func (r *GormFeeStructureRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*fee.FeeStructure, error) {
	var model models.FeeStructureModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tc)).
		Preload("Items", preloadItems).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Fee structure")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists fee structures with their items
func (r *GormFeeStructureRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter fee.FeeStructureFilter) ([]fee.FeeStructure, int64, error) {
	var rows []models.FeeStructureModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.FeeStructureModel{}).Scopes(tenantScope(tc))
	if pattern := searchPattern(filter.Search); pattern != "" {
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}
	if grade := learner.NormalizeGrade(filter.Grade); grade != "" {
		query = query.Where("grade = ? OR grade = ''", grade)
	}
	if filter.Term != nil {
		query = query.Where("term = ? OR term = 0", *filter.Term)
	}
	if filter.AcademicYear != nil {
		query = query.Where("academic_year = ?", *filter.AcademicYear)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := orderAndPage(query.Preload("Items", preloadItems), filter.Filter, FeeSortFields, "created_at").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	structures := make([]fee.FeeStructure, len(rows))
	for i, m := range rows {
		structures[i] = *m.ToDomain()
	}
	return structures, total, nil
}

// ExistsByName checks structure name uniqueness within a school and academic year
func (r *GormFeeStructureRepository) ExistsByName(ctx context.Context, tc shared.TenantContext, name string, academicYear int, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.FeeStructureModel{}).
		Scopes(tenantSchool(tc.SchoolID)).
		Where("LOWER(name) = ? AND academic_year = ?", strings.ToLower(strings.TrimSpace(name)), academicYear)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save upserts the structure and replaces its items in one transaction
func (r *GormFeeStructureRepository) Save(ctx context.Context, fs *fee.FeeStructure) error {
	model := models.FeeStructureModelFromDomain(fs)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("fee_structure_id = ?", fs.ID).Delete(&models.FeeStructureItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

// Delete removes an unreferenced structure and its items
func (r *GormFeeStructureRepository) Delete(ctx context.Context, tc shared.TenantContext, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var referenced int64
		if err := tx.Model(&models.FeeInvoiceModel{}).
			Where("school_id = ? AND fee_structure_id = ?", tc.SchoolID, id).
			Count(&referenced).Error; err != nil {
			return err
		}
		if referenced > 0 {
			return fee.ErrFeeStructureInUse
		}
		if err := tx.Where("fee_structure_id = ?", id).Delete(&models.FeeStructureItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Scopes(tenantScope(tc)).Delete(&models.FeeStructureModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("Fee structure")
		}
		return nil
	})
}

// Ensure GormFeeStructureRepository implements FeeStructureRepository
var _ fee.FeeStructureRepository = (*GormFeeStructureRepository)(nil)
