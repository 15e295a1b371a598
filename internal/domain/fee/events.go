package fee

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate types
const (
	AggregateTypeFeeInvoice   = "FeeInvoice"
	AggregateTypeFeeStructure = "FeeStructure"
)

// Fee domain event types
const (
	EventTypeFeeInvoiceCreated = "FeeInvoiceCreated"
	EventTypeFeeInvoicePaid    = "FeeInvoicePaid"
	EventTypeFeeInvoiceWaived  = "FeeInvoiceWaived"
	EventTypePaymentRecorded   = "PaymentRecorded"
)

// FeeInvoiceCreatedEvent is published when an invoice is numbered and persisted
type FeeInvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	LearnerID     uuid.UUID       `json:"learner_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Term          int             `json:"term"`
	AcademicYear  int             `json:"academic_year"`
}

// NewFeeInvoiceCreatedEvent creates a new FeeInvoiceCreatedEvent
func NewFeeInvoiceCreatedEvent(i *FeeInvoice) *FeeInvoiceCreatedEvent {
	return &FeeInvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeeInvoiceCreated, AggregateTypeFeeInvoice, i.ID, i.SchoolID),
		InvoiceNumber:   i.InvoiceNumber,
		LearnerID:       i.LearnerID,
		TotalAmount:     i.TotalAmount,
		Term:            i.Term,
		AcademicYear:    i.AcademicYear,
	}
}

// PaymentRecordedEvent is published for every payment applied to an invoice
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	ReceiptNumber string          `json:"receipt_number"`
	InvoiceNumber string          `json:"invoice_number"`
	LearnerID     uuid.UUID       `json:"learner_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	Balance       decimal.Decimal `json:"balance"`
	Status        InvoiceStatus   `json:"status"`
	PaidAt        time.Time       `json:"paid_at"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(i *FeeInvoice, p *FeePayment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypeFeeInvoice, i.ID, i.SchoolID),
		PaymentID:       p.ID,
		ReceiptNumber:   p.ReceiptNumber,
		InvoiceNumber:   i.InvoiceNumber,
		LearnerID:       i.LearnerID,
		Amount:          p.Amount,
		Method:          p.Method,
		Balance:         i.Balance,
		Status:          i.Status,
		PaidAt:          p.PaidAt,
	}
}

// FeeInvoicePaidEvent is published when an invoice reaches PAID or OVERPAID
type FeeInvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Status        InvoiceStatus   `json:"status"`
}

// NewFeeInvoicePaidEvent creates a new FeeInvoicePaidEvent
func NewFeeInvoicePaidEvent(i *FeeInvoice) *FeeInvoicePaidEvent {
	return &FeeInvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeeInvoicePaid, AggregateTypeFeeInvoice, i.ID, i.SchoolID),
		InvoiceNumber:   i.InvoiceNumber,
		PaidAmount:      i.PaidAmount,
		Status:          i.Status,
	}
}

// FeeInvoiceWaivedEvent is published when an invoice is waived
type FeeInvoiceWaivedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	WaivedAmount  decimal.Decimal `json:"waived_amount"`
	Reason        string          `json:"reason"`
}

// NewFeeInvoiceWaivedEvent creates a new FeeInvoiceWaivedEvent
func NewFeeInvoiceWaivedEvent(i *FeeInvoice) *FeeInvoiceWaivedEvent {
	return &FeeInvoiceWaivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeeInvoiceWaived, AggregateTypeFeeInvoice, i.ID, i.SchoolID),
		InvoiceNumber:   i.InvoiceNumber,
		WaivedAmount:    i.Balance,
		Reason:          i.WaivedReason,
	}
}
