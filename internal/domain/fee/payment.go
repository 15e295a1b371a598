package fee

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod is the channel a payment was received through
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodMpesa  PaymentMethod = "MPESA"
	PaymentMethodBank   PaymentMethod = "BANK"
	PaymentMethodCheque PaymentMethod = "CHEQUE"
	PaymentMethodCard   PaymentMethod = "CARD"
)

// IsValid checks if the method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMpesa, PaymentMethodBank, PaymentMethodCheque, PaymentMethodCard:
		return true
	}
	return false
}

// RequiresReference is true for channels that always produce a transaction reference
func (m PaymentMethod) RequiresReference() bool {
	return m == PaymentMethodMpesa || m == PaymentMethodBank || m == PaymentMethodCheque
}

// FeePayment is an append-only record of money received against one invoice
type FeePayment struct {
	shared.BaseEntity
	SchoolID      uuid.UUID
	BranchID      *uuid.UUID
	InvoiceID     uuid.UUID
	LearnerID     uuid.UUID
	ReceiptNumber string
	Amount        decimal.Decimal
	Method        PaymentMethod
	Reference     string
	Notes         string
	PaidAt        time.Time
	RecordedBy    *uuid.UUID
	ReceiptKey    string
}

// PaymentInput carries the caller-supplied payment fields
type PaymentInput struct {
	Amount    decimal.Decimal
	Method    PaymentMethod
	Reference string
	Notes     string
	PaidAt    time.Time
}

// Validate checks the input independently of any invoice
func (in PaymentInput) Validate() error {
	if err := ValidateAmount(in.Amount); err != nil {
		return err
	}
	if !in.Method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be CASH, MPESA, BANK, CHEQUE or CARD")
	}
	if in.Method.RequiresReference() && strings.TrimSpace(in.Reference) == "" {
		return shared.NewDomainError("REFERENCE_REQUIRED", "A transaction reference is required for "+string(in.Method)+" payments")
	}
	if len(in.Reference) > 100 {
		return shared.NewDomainError("INVALID_REFERENCE", "Reference cannot exceed 100 characters")
	}
	if len(in.Notes) > 500 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 500 characters")
	}
	if in.PaidAt.After(time.Now().Add(5 * time.Minute)) {
		return shared.NewDomainError("INVALID_PAID_AT", "Payment time cannot be in the future")
	}
	return nil
}

// NewFeePayment builds the payment row for an invoice with an allocated receipt number
func NewFeePayment(tc shared.TenantContext, inv *FeeInvoice, receiptNumber string, in PaymentInput) (*FeePayment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if receiptNumber == "" {
		return nil, shared.NewValidationError("Receipt number is required")
	}
	paidAt := in.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	return &FeePayment{
		BaseEntity:    shared.NewBaseEntity(),
		SchoolID:      inv.SchoolID,
		BranchID:      inv.BranchID,
		InvoiceID:     inv.ID,
		LearnerID:     inv.LearnerID,
		ReceiptNumber: receiptNumber,
		Amount:        in.Amount,
		Method:        in.Method,
		Reference:     strings.TrimSpace(in.Reference),
		Notes:         strings.TrimSpace(in.Notes),
		PaidAt:        paidAt,
		RecordedBy:    tc.UserID,
	}, nil
}

// ReceiptStorageKey is where the rendered receipt PDF lives in object storage
func (p *FeePayment) ReceiptStorageKey() string {
	return "receipts/" + p.SchoolID.String() + "/" + p.ReceiptNumber + ".pdf"
}

// PaymentFilter narrows payment queries
type PaymentFilter struct {
	shared.Filter
	InvoiceID *uuid.UUID
	LearnerID *uuid.UUID
	Method    *PaymentMethod
	FromDate  *time.Time
	ToDate    *time.Time
}
