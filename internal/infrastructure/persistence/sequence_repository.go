package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequenceRepository hands out gap-free document numbers from counter rows
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next allocates the next number in its own transaction
func (r *GormSequenceRepository) Next(ctx context.Context, schoolID uuid.UUID, kind fee.DocumentKind, year int) (string, error) {
	var number string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		number, err = allocateDocumentNumber(tx, schoolID, kind, year)
		return err
	})
	return number, err
}

// Current returns the last number handed out, or 0 when the series is unused
func (r *GormSequenceRepository) Current(ctx context.Context, schoolID uuid.UUID, kind fee.DocumentKind, year int) (int64, error) {
	var row models.DocumentSequenceModel
	err := r.db.WithContext(ctx).
		Where("school_id = ? AND kind = ? AND year = ?", schoolID, string(kind), year).
		Limit(1).Find(&row).Error
	return row.LastValue, err
}

// allocateDocumentNumber increments the (school, kind, year) counter inside tx.
// The UPDATE holds the row lock until tx ends, so concurrent writers queue and
// a rolled back transaction leaves no gap.
func allocateDocumentNumber(tx *gorm.DB, schoolID uuid.UUID, kind fee.DocumentKind, year int) (string, error) {
	now := time.Now()
	seed := models.DocumentSequenceModel{SchoolID: schoolID, Kind: string(kind), Year: year, UpdatedAt: now}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return "", fmt.Errorf("seed %s sequence: %w", kind, err)
	}

	counter := tx.Model(&models.DocumentSequenceModel{}).
		Where("school_id = ? AND kind = ? AND year = ?", schoolID, string(kind), year).
		Session(&gorm.Session{})
	if err := counter.
		Updates(map[string]any{"last_value": gorm.Expr("last_value + 1"), "updated_at": now}).Error; err != nil {
		return "", fmt.Errorf("increment %s sequence: %w", kind, err)
	}

	var row models.DocumentSequenceModel
	if err := counter.First(&row).Error; err != nil {
		return "", fmt.Errorf("read %s sequence: %w", kind, err)
	}
	return fee.FormatDocumentNumber(kind, year, row.LastValue), nil
}
