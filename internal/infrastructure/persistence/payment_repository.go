package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM.
// Payments are inserted by GormInvoiceRepository.ApplyPayment.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment visible to the tenant context
func (r *GormPaymentRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*fee.FeePayment, error) {
	var model models.FeePaymentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tc)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Payment")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists payments with filtering and pagination
func (r *GormPaymentRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter fee.PaymentFilter) ([]fee.FeePayment, int64, error) {
	var rows []models.FeePaymentModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.FeePaymentModel{}).Scopes(tenantScope(tc))
	if pattern := searchPattern(filter.Search); pattern != "" {
		query = query.Where("LOWER(receipt_number) LIKE ? OR LOWER(reference) LIKE ?", pattern, pattern)
	}
	if filter.InvoiceID != nil {
		query = query.Where("invoice_id = ?", *filter.InvoiceID)
	}
	if filter.LearnerID != nil {
		query = query.Where("learner_id = ?", *filter.LearnerID)
	}
	if filter.Method != nil {
		query = query.Where("method = ?", *filter.Method)
	}
	if filter.FromDate != nil {
		query = query.Where("paid_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("paid_at <= ?", *filter.ToDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := orderAndPage(query, filter.Filter, PaymentSortFields, "paid_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toPayments(rows), total, nil
}

// FindByInvoice lists the payments of one invoice in the order they were received
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, tc shared.TenantContext, invoiceID uuid.UUID) ([]fee.FeePayment, error) {
	var rows []models.FeePaymentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tc)).
		Where("invoice_id = ?", invoiceID).
		Order("paid_at ASC, receipt_number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPayments(rows), nil
}

// SetReceiptKey records where the rendered receipt is stored
func (r *GormPaymentRepository) SetReceiptKey(ctx context.Context, schoolID, paymentID uuid.UUID, key string) error {
	result := r.db.WithContext(ctx).Model(&models.FeePaymentModel{}).
		Scopes(tenantSchool(schoolID)).
		Where("id = ?", paymentID).
		Update("receipt_key", key)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Payment")
	}
	return nil
}

func toPayments(rows []models.FeePaymentModel) []fee.FeePayment {
	payments := make([]fee.FeePayment, len(rows))
	for i, m := range rows {
		payments[i] = *m.ToDomain()
	}
	return payments
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ fee.PaymentRepository = (*GormPaymentRepository)(nil)
