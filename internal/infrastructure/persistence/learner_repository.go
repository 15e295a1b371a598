package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/persistence/models"
	"github.com/schoolms/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLearnerRepository implements LearnerRepository using GORM
type GormLearnerRepository struct {
	db *gorm.DB
}

// NewGormLearnerRepository creates a new GormLearnerRepository
func NewGormLearnerRepository(db *gorm.DB) *GormLearnerRepository {
	return &GormLearnerRepository{db: db}
}

// FindByID finds a learner visible to the tenant context
func (r *GormLearnerRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*learner.Learner, error) {
	var model models.LearnerModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tc)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Learner")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the learners among ids that are visible to the tenant context
func (r *GormLearnerRepository) FindByIDs(ctx context.Context, tc shared.TenantContext, ids []uuid.UUID) ([]learner.Learner, error) {
	if len(ids) == 0 {
		return []learner.Learner{}, nil
	}
	var learnerModels []models.LearnerModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tc)).
		Where("id IN ?", ids).
		Find(&learnerModels).Error; err != nil {
		return nil, err
	}
	return toLearners(learnerModels), nil
}

// FindAll returns learners with filtering and pagination
func (r *GormLearnerRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter learner.Filter) ([]learner.Learner, int64, error) {
	var learnerModels []models.LearnerModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.LearnerModel{}).Scopes(tenantScope(tc))
	if pattern := searchPattern(filter.Search); pattern != "" {
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(admission_number) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if grade := learner.NormalizeGrade(filter.Grade); grade != "" {
		query = query.Where("grade = ?", grade)
	}
	if stream := learner.NormalizeStream(filter.Stream); stream != "" {
		query = query.Where("stream = ?", stream)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := orderAndPage(query, filter.Filter, LearnerSortFields, "admission_number").Find(&learnerModels).Error; err != nil {
		return nil, 0, err
	}
	return toLearners(learnerModels), total, nil
}

// FindActiveByGrade returns active learners of a grade ordered by admission number
func (r *GormLearnerRepository) FindActiveByGrade(ctx context.Context, tc shared.TenantContext, grade, stream string) ([]learner.Learner, error) {
	var learnerModels []models.LearnerModel
	query := r.db.WithContext(ctx).
		Scopes(tenantScope(tc)).
		Where("grade = ? AND status = ?", learner.NormalizeGrade(grade), learner.StatusActive)
	if stream = learner.NormalizeStream(stream); stream != "" {
		query = query.Where("stream = ?", stream)
	}
	if err := query.Order("admission_number ASC").Find(&learnerModels).Error; err != nil {
		return nil, err
	}
	return toLearners(learnerModels), nil
}

// ExistsByAdmissionNumber checks admission number uniqueness across the whole school
func (r *GormLearnerRepository) ExistsByAdmissionNumber(ctx context.Context, tc shared.TenantContext, admissionNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.LearnerModel{}).
		Scopes(tenantSchool(tc.SchoolID)).
		Where("admission_number = ?", strings.ToUpper(strings.TrimSpace(admissionNumber))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistingAdmissionNumbers returns which of numbers are already taken anywhere in the school
func (r *GormLearnerRepository) ExistingAdmissionNumbers(ctx context.Context, tc shared.TenantContext, numbers []string) ([]string, error) {
	if len(numbers) == 0 {
		return []string{}, nil
	}
	normalized := make([]string, len(numbers))
	for i, n := range numbers {
		normalized[i] = strings.ToUpper(strings.TrimSpace(n))
	}
	var taken []string
	if err := r.db.WithContext(ctx).Model(&models.LearnerModel{}).
		Scopes(tenantSchool(tc.SchoolID)).
		Where("admission_number IN ?", normalized).
		Pluck("admission_number", &taken).Error; err != nil {
		return nil, err
	}
	return taken, nil
}

// CreateBatch inserts learners in one transaction
func (r *GormLearnerRepository) CreateBatch(ctx context.Context, learners []*learner.Learner) error {
	if len(learners) == 0 {
		return nil
	}
	batch := make([]*models.LearnerModel, len(learners))
	for i, l := range learners {
		batch[i] = models.LearnerModelFromDomain(l)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(batch, 200).Error; err != nil {
			if isUniqueViolation(err) {
				return shared.NewDomainError(shared.ErrAlreadyExists.Code, "Admission number already exists")
			}
			return err
		}
		return nil
	})
}

// Save creates or updates a learner
func (r *GormLearnerRepository) Save(ctx context.Context, l *learner.Learner) error {
	model := models.LearnerModelFromDomain(l)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainError(shared.ErrAlreadyExists.Code, "Admission number already exists")
		}
		return err
	}
	return nil
}

func toLearners(learnerModels []models.LearnerModel) []learner.Learner {
	learners := make([]learner.Learner, len(learnerModels))
	for i, m := range learnerModels {
		learners[i] = *m.ToDomain()
	}
	return learners
}

// Ensure GormLearnerRepository implements LearnerRepository
var _ learner.LearnerRepository = (*GormLearnerRepository)(nil)

// GormAttendanceRepository implements AttendanceRepository using GORM
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository creates a new GormAttendanceRepository
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// Upsert writes the records in one transaction. An existing (learner, date)
// row keeps its ID and takes the new status, remarks and recorder.
func (r *GormAttendanceRepository) Upsert(ctx context.Context, tc shared.TenantContext, records []learner.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]models.AttendanceModel, len(records))
	for i := range records {
		if records[i].SchoolID != tc.SchoolID {
			return shared.ErrForbidden
		}
		rows[i] = *models.AttendanceModelFromDomain(&records[i])
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "learner_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "remarks", "recorded_by", "updated_at"}),
		}).CreateInBatches(&rows, 500).Error
	})
}

// FindAll returns attendance records with filtering and pagination
func (r *GormAttendanceRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter learner.AttendanceFilter) ([]learner.AttendanceRecord, int64, error) {
	var rows []models.AttendanceModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AttendanceModel{}).
		Scopes(tenant.QualifiedScope("attendance_records", tc))
	if filter.LearnerID != nil {
		query = query.Where("attendance_records.learner_id = ?", *filter.LearnerID)
	}
	if grade := learner.NormalizeGrade(filter.Grade); grade != "" {
		query = query.Joins("JOIN learners ON learners.id = attendance_records.learner_id").
			Where("learners.grade = ?", grade)
	}
	if filter.Status != nil {
		query = query.Where("attendance_records.status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("attendance_records.date >= ?", learner.TruncateToDay(*filter.FromDate))
	}
	if filter.ToDate != nil {
		query = query.Where("attendance_records.date <= ?", learner.TruncateToDay(*filter.ToDate))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	f := filter.Filter
	f.OrderBy = "attendance_records." + f.OrderBy
	if err := orderAndPage(query.Select("attendance_records.*"), f, qualifiedFields("attendance_records", AttendanceSortFields), "attendance_records.date").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	records := make([]learner.AttendanceRecord, len(rows))
	for i, m := range rows {
		records[i] = *m.ToDomain()
	}
	return records, total, nil
}

// FindByLearnerAndDate finds the record for a learner on one day
func (r *GormAttendanceRepository) FindByLearnerAndDate(ctx context.Context, tc shared.TenantContext, learnerID uuid.UUID, date time.Time) (*learner.AttendanceRecord, error) {
	var model models.AttendanceModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tc)).
		Where("learner_id = ? AND date = ?", learnerID, learner.TruncateToDay(date)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Attendance record")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func qualifiedFields(table string, fields map[string]bool) map[string]bool {
	out := make(map[string]bool, len(fields))
	for f := range fields {
		out[table+"."+f] = true
	}
	return out
}

// Ensure GormAttendanceRepository implements AttendanceRepository
var _ learner.AttendanceRepository = (*GormAttendanceRepository)(nil)
