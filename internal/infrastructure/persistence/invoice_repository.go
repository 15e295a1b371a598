package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db, now: time.Now}
}

// FindByID finds an invoice visible to the tenant context
func (r *GormInvoiceRepository) FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*fee.FeeInvoice, error) {
	var model models.FeeInvoiceModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tc)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Invoice")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists invoices with filtering and pagination
func (r *GormInvoiceRepository) FindAll(ctx context.Context, tc shared.TenantContext, filter fee.InvoiceFilter) ([]fee.FeeInvoice, int64, error) {
	var rows []models.FeeInvoiceModel
	var total int64

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.FeeInvoiceModel{}).Scopes(tenantScope(tc)), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := orderAndPage(query, filter.Filter, InvoiceSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toInvoices(rows), total, nil
}

// FindByLearner lists every invoice of a learner, oldest first
func (r *GormInvoiceRepository) FindByLearner(ctx context.Context, tc shared.TenantContext, learnerID uuid.UUID) ([]fee.FeeInvoice, error) {
	var rows []models.FeeInvoiceModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tc)).
		Where("learner_id = ?", learnerID).
		Order("academic_year ASC, term ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// ExistsForLearner checks the (learner, structure, term, year) natural key
func (r *GormInvoiceRepository) ExistsForLearner(ctx context.Context, tc shared.TenantContext, learnerID, feeStructureID uuid.UUID, term, academicYear int) (bool, error) {
	return existsNaturalKey(r.db.WithContext(ctx), tc.SchoolID, learnerID, feeStructureID, term, academicYear)
}

// ExistsForStructure reports whether any invoice references the structure
func (r *GormInvoiceRepository) ExistsForStructure(ctx context.Context, tc shared.TenantContext, feeStructureID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.FeeInvoiceModel{}).
		Scopes(tenantSchool(tc.SchoolID)).
		Where("fee_structure_id = ?", feeStructureID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create numbers and inserts a single invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, inv *fee.FeeInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := existsNaturalKey(tx, inv.SchoolID, inv.LearnerID, inv.FeeStructureID, inv.Term, inv.AcademicYear)
		if err != nil {
			return err
		}
		if exists {
			return fee.ErrDuplicateInvoice
		}
		return insertInvoice(tx, inv)
	})
}

const batchSavePoint = "invoice_batch_row"

// CreateBatch numbers and inserts invoices in one transaction. Invoices whose
// natural key already exists are skipped; any other failure rolls back the batch.
func (r *GormInvoiceRepository) CreateBatch(ctx context.Context, invoices []*fee.FeeInvoice) ([]*fee.FeeInvoice, int, error) {
	if len(invoices) == 0 {
		return []*fee.FeeInvoice{}, 0, nil
	}
	created := make([]*fee.FeeInvoice, 0, len(invoices))
	skipped := 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoiced, err := invoicedLearners(tx, invoices[0])
		if err != nil {
			return err
		}
		for _, inv := range invoices {
			if invoiced[inv.LearnerID] {
				skipped++
				continue
			}
			// A concurrent run may invoice the learner after the pre-check;
			// the savepoint keeps the rest of the batch alive.
			if err := tx.SavePoint(batchSavePoint).Error; err != nil {
				return err
			}
			if err := insertInvoice(tx, inv); err != nil {
				if !errors.Is(err, fee.ErrDuplicateInvoice) {
					return err
				}
				if err := tx.RollbackTo(batchSavePoint).Error; err != nil {
					return err
				}
				skipped++
				continue
			}
			invoiced[inv.LearnerID] = true
			created = append(created, inv)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return created, skipped, nil
}

// SaveWithLock updates an invoice only if nobody else changed it since it was read
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, inv *fee.FeeInvoice) error {
	return saveInvoiceWithLock(r.db.WithContext(ctx), inv)
}

// ApplyPayment locks the invoice row, allocates a receipt number, lets fn build
// and apply the payment, then inserts the payment and saves the invoice.
// Receipt numbers carry the year the payment is recorded in, whatever date
// the payment itself was made.
func (r *GormInvoiceRepository) ApplyPayment(ctx context.Context, tc shared.TenantContext, invoiceID uuid.UUID, fn fee.PaymentFunc) (*fee.FeeInvoice, *fee.FeePayment, error) {
	var (
		invoice *fee.FeeInvoice
		payment *fee.FeePayment
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.FeeInvoiceModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(tenantScope(tc)).
			First(&model, "id = ?", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NewNotFoundError("Invoice")
			}
			return err
		}
		inv := model.ToDomain()
		if !inv.Status.CanApplyPayment() {
			return fee.ErrInvoiceNotPayable
		}

		receiptNumber, err := allocateDocumentNumber(tx, inv.SchoolID, fee.DocumentReceipt, r.now().Year())
		if err != nil {
			return err
		}

		p, err := fn(inv, receiptNumber)
		if err != nil {
			return err
		}
		if err := tx.Create(models.FeePaymentModelFromDomain(p)).Error; err != nil {
			return err
		}
		if err := saveInvoiceWithLock(tx, inv); err != nil {
			return err
		}
		invoice, payment = inv, p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return invoice, payment, nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter fee.InvoiceFilter) *gorm.DB {
	if pattern := searchPattern(filter.Search); pattern != "" {
		query = query.Where("LOWER(invoice_number) LIKE ?", pattern)
	}
	if filter.LearnerID != nil {
		query = query.Where("learner_id = ?", *filter.LearnerID)
	}
	if filter.FeeStructureID != nil {
		query = query.Where("fee_structure_id = ?", *filter.FeeStructureID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if grade := learner.NormalizeGrade(filter.Grade); grade != "" {
		query = query.Where("grade = ?", grade)
	}
	if filter.Term != nil {
		query = query.Where("term = ?", *filter.Term)
	}
	if filter.AcademicYear != nil {
		query = query.Where("academic_year = ?", *filter.AcademicYear)
	}
	if filter.OverdueAt != nil {
		query = query.Where("due_date < ? AND balance > 0 AND status <> ?", *filter.OverdueAt, fee.InvoiceStatusWaived)
	}
	return query
}

func existsNaturalKey(db *gorm.DB, schoolID, learnerID, feeStructureID uuid.UUID, term, academicYear int) (bool, error) {
	var count int64
	if err := db.Model(&models.FeeInvoiceModel{}).
		Where("school_id = ? AND learner_id = ? AND fee_structure_id = ? AND term = ? AND academic_year = ?",
			schoolID, learnerID, feeStructureID, term, academicYear).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// invoicedLearners returns the learners already billed for the batch's structure, term and year
func invoicedLearners(tx *gorm.DB, sample *fee.FeeInvoice) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	if err := tx.Model(&models.FeeInvoiceModel{}).
		Where("school_id = ? AND fee_structure_id = ? AND term = ? AND academic_year = ?",
			sample.SchoolID, sample.FeeStructureID, sample.Term, sample.AcademicYear).
		Pluck("learner_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func insertInvoice(tx *gorm.DB, inv *fee.FeeInvoice) error {
	number, err := allocateDocumentNumber(tx, inv.SchoolID, fee.DocumentInvoice, inv.AcademicYear)
	if err != nil {
		return err
	}
	inv.AssignNumber(number)
	if err := tx.Create(models.FeeInvoiceModelFromDomain(inv)).Error; err != nil {
		if isUniqueViolation(err) {
			return fee.ErrDuplicateInvoice
		}
		return err
	}
	return nil
}

// saveInvoiceWithLock writes the mutable invoice columns where the stored
// version is the one the aggregate was loaded at.
func saveInvoiceWithLock(db *gorm.DB, inv *fee.FeeInvoice) error {
	model := models.FeeInvoiceModelFromDomain(inv)
	result := db.Model(&models.FeeInvoiceModel{}).
		Where("id = ? AND school_id = ? AND version = ?", inv.ID, inv.SchoolID, inv.Version-1).
		Select("paid_amount", "balance", "status", "due_date", "waived_reason", "waived_by", "waived_at", "version", "updated_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func toInvoices(rows []models.FeeInvoiceModel) []fee.FeeInvoice {
	invoices := make([]fee.FeeInvoice, len(rows))
	for i, m := range rows {
		invoices[i] = *m.ToDomain()
	}
	return invoices
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ fee.InvoiceRepository = (*GormInvoiceRepository)(nil)
