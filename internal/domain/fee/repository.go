package fee

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
)

// FeeTypeRepository persists fee types
type FeeTypeRepository interface {
	FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*FeeType, error)
	FindByIDs(ctx context.Context, tc shared.TenantContext, ids []uuid.UUID) ([]FeeType, error)
	FindAll(ctx context.Context, tc shared.TenantContext, filter shared.Filter) ([]FeeType, int64, error)
	ExistsByCode(ctx context.Context, tc shared.TenantContext, code string) (bool, error)
	Save(ctx context.Context, ft *FeeType) error
}

// FeeStructureRepository persists fee structures together with their items
type FeeStructureRepository interface {
	FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*FeeStructure, error)
	FindAll(ctx context.Context, tc shared.TenantContext, filter FeeStructureFilter) ([]FeeStructure, int64, error)
	ExistsByName(ctx context.Context, tc shared.TenantContext, name string, academicYear int, excludeID *uuid.UUID) (bool, error)
	// Save upserts the structure and replaces its items
	Save(ctx context.Context, fs *FeeStructure) error
	Delete(ctx context.Context, tc shared.TenantContext, id uuid.UUID) error
}

// PaymentFunc builds and applies a payment to a locked invoice once a receipt number is allocated
type PaymentFunc func(inv *FeeInvoice, receiptNumber string) (*FeePayment, error)

// InvoiceRepository persists invoices. Create and ApplyPayment allocate document
// numbers inside the same transaction as the write they number.
type InvoiceRepository interface {
	FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*FeeInvoice, error)
	FindAll(ctx context.Context, tc shared.TenantContext, filter InvoiceFilter) ([]FeeInvoice, int64, error)
	FindByLearner(ctx context.Context, tc shared.TenantContext, learnerID uuid.UUID) ([]FeeInvoice, error)
	ExistsForLearner(ctx context.Context, tc shared.TenantContext, learnerID, feeStructureID uuid.UUID, term, academicYear int) (bool, error)
	ExistsForStructure(ctx context.Context, tc shared.TenantContext, feeStructureID uuid.UUID) (bool, error)

	// Create numbers and inserts one invoice; returns ErrDuplicateInvoice on a repeat.
	Create(ctx context.Context, inv *FeeInvoice) error
	// CreateBatch numbers and inserts invoices in one transaction, skipping
	// learners that are already invoiced.
	CreateBatch(ctx context.Context, invoices []*FeeInvoice) (created []*FeeInvoice, skipped int, err error)
	// SaveWithLock updates an invoice under an optimistic version check.
	SaveWithLock(ctx context.Context, inv *FeeInvoice) error
	// ApplyPayment locks the invoice, allocates a receipt number in the current
	// calendar year, runs fn and persists the payment and invoice atomically.
	ApplyPayment(ctx context.Context, tc shared.TenantContext, invoiceID uuid.UUID, fn PaymentFunc) (*FeeInvoice, *FeePayment, error)
}

// PaymentRepository reads payments and records receipt artefacts
type PaymentRepository interface {
	FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*FeePayment, error)
	FindAll(ctx context.Context, tc shared.TenantContext, filter PaymentFilter) ([]FeePayment, int64, error)
	FindByInvoice(ctx context.Context, tc shared.TenantContext, invoiceID uuid.UUID) ([]FeePayment, error)
	SetReceiptKey(ctx context.Context, schoolID, paymentID uuid.UUID, key string) error
}
