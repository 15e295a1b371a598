package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/identity"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSchoolRepository implements SchoolRepository using GORM
type GormSchoolRepository struct {
	db *gorm.DB
}

// NewGormSchoolRepository creates a new GormSchoolRepository
func NewGormSchoolRepository(db *gorm.DB) *GormSchoolRepository {
	return &GormSchoolRepository{db: db}
}

// FindByID finds a school by its ID
func (r *GormSchoolRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.School, error) {
	var model models.SchoolModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("School")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a school by its login code
func (r *GormSchoolRepository) FindByCode(ctx context.Context, code string) (*identity.School, error) {
	var model models.SchoolModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToLower(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("School")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByCode checks if a school code is taken
func (r *GormSchoolRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SchoolModel{}).
		Where("code = ?", strings.ToLower(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a school
func (r *GormSchoolRepository) Save(ctx context.Context, school *identity.School) error {
	model := models.SchoolModelFromDomain(school)
	return r.db.WithContext(ctx).Omit("Branches").Save(model).Error
}

// Register inserts the school and its administrator in one transaction
func (r *GormSchoolRepository) Register(ctx context.Context, school *identity.School, admin *identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Branches").Create(models.SchoolModelFromDomain(school)).Error; err != nil {
			if isUniqueViolation(err) {
				return shared.NewDomainError(shared.ErrAlreadyExists.Code, "School code already exists")
			}
			return err
		}
		if err := tx.Create(models.UserModelFromDomain(admin)).Error; err != nil {
			if isUniqueViolation(err) {
				return shared.NewDomainError(shared.ErrAlreadyExists.Code, "Username already exists")
			}
			return err
		}
		return nil
	})
}

// SaveBranch creates or updates a branch
func (r *GormSchoolRepository) SaveBranch(ctx context.Context, branch *identity.Branch) error {
	model := models.BranchModelFromDomain(branch)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainError(shared.ErrAlreadyExists.Code, "Branch code already exists")
		}
		return err
	}
	return nil
}

// FindBranches lists the branches of a school ordered by code
func (r *GormSchoolRepository) FindBranches(ctx context.Context, schoolID uuid.UUID) ([]identity.Branch, error) {
	var branchModels []models.BranchModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantSchool(schoolID)).
		Order("code ASC").
		Find(&branchModels).Error; err != nil {
		return nil, err
	}
	branches := make([]identity.Branch, len(branchModels))
	for i, m := range branchModels {
		branches[i] = *m.ToDomain()
	}
	return branches, nil
}

// FindBranch finds one branch of a school
func (r *GormSchoolRepository) FindBranch(ctx context.Context, schoolID, branchID uuid.UUID) (*identity.Branch, error) {
	var model models.BranchModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantSchool(schoolID)).
		First(&model, "id = ?", branchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Branch")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormSchoolRepository implements SchoolRepository
var _ identity.SchoolRepository = (*GormSchoolRepository)(nil)
