package fee

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the settlement state of a fee invoice
type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "PENDING"
	InvoiceStatusPartial  InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid     InvoiceStatus = "PAID"
	InvoiceStatusOverpaid InvoiceStatus = "OVERPAID"
	InvoiceStatusWaived   InvoiceStatus = "WAIVED"
)

// IsValid checks if the status is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusOverpaid, InvoiceStatusWaived:
		return true
	}
	return false
}

// String returns the string representation
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanApplyPayment returns true unless the invoice is PAID or WAIVED.
// OVERPAID invoices keep accepting payments (advance payments).
func (s InvoiceStatus) CanApplyPayment() bool {
	return s != InvoiceStatusPaid && s != InvoiceStatusWaived
}

// ErrInvoiceNotPayable is returned for payments against PAID or WAIVED invoices
var ErrInvoiceNotPayable = shared.NewDomainError("INVOICE_NOT_PAYABLE", "Invoice does not accept further payments")

// ErrDuplicateInvoice is returned when a (learner, structure, term, year) invoice already exists
var ErrDuplicateInvoice = shared.NewDomainError("DUPLICATE_INVOICE", "An invoice already exists for this learner, fee structure, term and year")

// FeeInvoice bills one learner against one fee structure for one term of a year.
// Invariant: Balance == TotalAmount - PaidAmount.
type FeeInvoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber  string
	LearnerID      uuid.UUID
	FeeStructureID uuid.UUID
	Grade          string
	Term           int
	AcademicYear   int
	DueDate        time.Time
	Currency       valueobject.Currency
	TotalAmount    decimal.Decimal
	PaidAmount     decimal.Decimal
	Balance        decimal.Decimal
	Status         InvoiceStatus
	WaivedReason   string
	WaivedBy       *uuid.UUID
	WaivedAt       *time.Time
}

// NewFeeInvoice prepares a PENDING invoice whose total is frozen from the
// structure's items. The invoice number is assigned by the repository when
// the invoice is persisted.
func NewFeeInvoice(tc shared.TenantContext, l *learner.Learner, fs *FeeStructure, term, academicYear int, dueDate time.Time, currency valueobject.Currency) (*FeeInvoice, error) {
	if l == nil || fs == nil {
		return nil, shared.NewValidationError("Learner and fee structure are required")
	}
	if err := ValidateTerm(term); err != nil {
		return nil, err
	}
	if err := ValidateAcademicYear(academicYear); err != nil {
		return nil, err
	}
	if l.SchoolID != tc.SchoolID || fs.SchoolID != tc.SchoolID {
		return nil, shared.ErrForbidden
	}
	if err := fs.CanInvoice(); err != nil {
		return nil, err
	}
	if err := fs.AppliesTo(l.Grade, term, academicYear); err != nil {
		return nil, err
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	total := fs.Total()
	root := shared.NewTenantAggregateRoot(tc)
	root.BranchID = l.BranchID

	inv := &FeeInvoice{
		TenantAggregateRoot: root,
		LearnerID:           l.ID,
		FeeStructureID:      fs.ID,
		Grade:               l.Grade,
		Term:                term,
		AcademicYear:        academicYear,
		DueDate:             dueDate,
		Currency:            currency,
		TotalAmount:         total,
		PaidAmount:          decimal.Zero,
		Balance:             total,
		Status:              InvoiceStatusPending,
	}
	return inv, nil
}

// AssignNumber sets the invoice number allocated by the sequence and records the creation event
func (i *FeeInvoice) AssignNumber(number string) {
	i.InvoiceNumber = number
	i.AddDomainEvent(NewFeeInvoiceCreatedEvent(i))
}

// ApplyPayment adds the payment to the paid amount and recomputes balance and status.
// Overpayment is permitted and leaves the invoice OVERPAID.
func (i *FeeInvoice) ApplyPayment(p *FeePayment) error {
	if p == nil {
		return shared.NewValidationError("Payment is required")
	}
	if !i.Status.CanApplyPayment() {
		return ErrInvoiceNotPayable
	}
	if p.InvoiceID != i.ID {
		return shared.NewValidationError("Payment does not belong to this invoice")
	}
	if err := ValidateAmount(p.Amount); err != nil {
		return err
	}

	i.PaidAmount = i.PaidAmount.Add(p.Amount)
	i.Balance = i.TotalAmount.Sub(i.PaidAmount)
	i.recomputeStatus()
	i.Touch()
	i.IncrementVersion()

	i.AddDomainEvent(NewPaymentRecordedEvent(i, p))
	if i.Status == InvoiceStatusPaid || i.Status == InvoiceStatusOverpaid {
		i.AddDomainEvent(NewFeeInvoicePaidEvent(i))
	}
	return nil
}

func (i *FeeInvoice) recomputeStatus() {
	switch {
	case i.Balance.IsNegative():
		i.Status = InvoiceStatusOverpaid
	case i.Balance.IsZero():
		i.Status = InvoiceStatusPaid
	case i.PaidAmount.IsPositive():
		i.Status = InvoiceStatusPartial
	}
}

// Waive administratively closes an unsettled invoice. Amounts are left untouched.
func (i *FeeInvoice) Waive(reason string, by uuid.UUID) error {
	if i.Status == InvoiceStatusWaived {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already waived")
	}
	if !i.Balance.IsPositive() {
		return shared.NewDomainError("INVALID_STATE", "Settled invoices cannot be waived")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" || len(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Waiver reason must be 1-500 characters")
	}

	now := time.Now()
	i.Status = InvoiceStatusWaived
	i.WaivedReason = reason
	i.WaivedAt = &now
	if by != uuid.Nil {
		i.WaivedBy = &by
	}
	i.UpdatedAt = now
	i.IncrementVersion()
	i.AddDomainEvent(NewFeeInvoiceWaivedEvent(i))
	return nil
}

// IsOverdue returns true when an unsettled invoice is past its due date
func (i *FeeInvoice) IsOverdue(now time.Time) bool {
	if i.Status == InvoiceStatusWaived || !i.Balance.IsPositive() {
		return false
	}
	return now.After(i.DueDate)
}

// Outstanding returns the balance as money in the invoice currency
func (i *FeeInvoice) Outstanding() valueobject.Money {
	return valueobject.MustMoney(i.Balance, i.Currency)
}

// InvoiceFilter narrows invoice queries
type InvoiceFilter struct {
	shared.Filter
	LearnerID      *uuid.UUID
	FeeStructureID *uuid.UUID
	Status         *InvoiceStatus
	Grade          string
	Term           *int
	AcademicYear   *int
	OverdueAt      *time.Time
}
