package fee

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/shopspring/decimal"
)

// CreateFeeTypeInput defines a new kind of charge
type CreateFeeTypeInput struct {
	Code        string `json:"code" binding:"required,max=30"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// FeeTypeResponse represents a fee type
type FeeTypeResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToFeeTypeResponse converts a fee type
func ToFeeTypeResponse(ft *fee.FeeType) FeeTypeResponse {
	return FeeTypeResponse{
		ID:          ft.ID,
		Code:        ft.Code,
		Name:        ft.Name,
		Description: ft.Description,
		CreatedAt:   ft.CreatedAt,
	}
}

// FeeItemInput is one line of a fee structure
type FeeItemInput struct {
	FeeTypeID uuid.UUID       `json:"fee_type_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Mandatory *bool           `json:"mandatory"`
}

func (in FeeItemInput) mandatory() bool {
	return in.Mandatory == nil || *in.Mandatory
}

// CreateFeeStructureInput defines a fee structure with its items
type CreateFeeStructureInput struct {
	Name         string         `json:"name" binding:"required,max=150"`
	Description  string         `json:"description" binding:"max=500"`
	Grade        string         `json:"grade"`
	Term         int            `json:"term" binding:"min=0,max=3"`
	AcademicYear int            `json:"academic_year" binding:"required"`
	Items        []FeeItemInput `json:"items" binding:"required,min=1,dive"`
}

// ReplaceItemsInput swaps every item of a structure
type ReplaceItemsInput struct {
	Items []FeeItemInput `json:"items" binding:"required,min=1,dive"`
}

// FeeStructureListFilter narrows the structure list
type FeeStructureListFilter struct {
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	Search       string `form:"search"`
	Grade        string `form:"grade"`
	Term         *int   `form:"term"`
	AcademicYear *int   `form:"academic_year"`
	Active       *bool  `form:"active"`
}

// FeeItemResponse represents a structure line
type FeeItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	FeeTypeID uuid.UUID       `json:"fee_type_id"`
	Amount    decimal.Decimal `json:"amount"`
	Mandatory bool            `json:"mandatory"`
}

// FeeStructureResponse represents a fee structure
type FeeStructureResponse struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Grade        string            `json:"grade,omitempty"`
	Term         int               `json:"term,omitempty"`
	AcademicYear int               `json:"academic_year"`
	Items        []FeeItemResponse `json:"items"`
	Total        decimal.Decimal   `json:"total"`
	Active       bool              `json:"active"`
	Archived     bool              `json:"archived"`
	Version      int               `json:"version"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ToFeeStructureResponse converts a fee structure
func ToFeeStructureResponse(fs *fee.FeeStructure) FeeStructureResponse {
	items := make([]FeeItemResponse, len(fs.Items))
	for i, item := range fs.Items {
		items[i] = FeeItemResponse{
			ID:        item.ID,
			FeeTypeID: item.FeeTypeID,
			Amount:    item.Amount,
			Mandatory: item.Mandatory,
		}
	}
	return FeeStructureResponse{
		ID:           fs.ID,
		Name:         fs.Name,
		Description:  fs.Description,
		Grade:        fs.Grade,
		Term:         fs.Term,
		AcademicYear: fs.AcademicYear,
		Items:        items,
		Total:        fs.Total(),
		Active:       fs.Active,
		Archived:     fs.Archived,
		Version:      fs.Version,
		CreatedAt:    fs.CreatedAt,
		UpdatedAt:    fs.UpdatedAt,
	}
}

// CreateInvoiceInput bills one learner
type CreateInvoiceInput struct {
	LearnerID      uuid.UUID `json:"learner_id" binding:"required"`
	FeeStructureID uuid.UUID `json:"fee_structure_id" binding:"required"`
	Term           int       `json:"term" binding:"required,min=1,max=3"`
	AcademicYear   int       `json:"academic_year" binding:"required"`
	DueDate        time.Time `json:"due_date" binding:"required"`
}

// BulkGenerateInput bills every active learner of a grade (and optionally a stream)
type BulkGenerateInput struct {
	FeeStructureID uuid.UUID `json:"fee_structure_id" binding:"required"`
	Grade          string    `json:"grade"`
	Stream         string    `json:"stream"`
	Term           int       `json:"term" binding:"required,min=1,max=3"`
	AcademicYear   int       `json:"academic_year" binding:"required"`
	DueDate        time.Time `json:"due_date" binding:"required"`
}

// BulkGenerateResult summarises a bulk run
type BulkGenerateResult struct {
	Grade          string   `json:"grade"`
	Eligible       int      `json:"eligible"`
	Created        int      `json:"created"`
	Skipped        int      `json:"skipped"`
	InvoiceNumbers []string `json:"invoice_numbers"`
}

// InvoiceListFilter narrows the invoice list
type InvoiceListFilter struct {
	Page           int        `form:"page"`
	PageSize       int        `form:"page_size"`
	Search         string     `form:"search"`
	LearnerID      *uuid.UUID `form:"learner_id"`
	FeeStructureID *uuid.UUID `form:"fee_structure_id"`
	Status         string     `form:"status"`
	Grade          string     `form:"grade"`
	Term           *int       `form:"term"`
	AcademicYear   *int       `form:"academic_year"`
	Overdue        bool       `form:"overdue"`
}

// WaiveInvoiceInput closes an invoice without payment
type WaiveInvoiceInput struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// InvoiceResponse represents an invoice
type InvoiceResponse struct {
	ID             uuid.UUID       `json:"id"`
	InvoiceNumber  string          `json:"invoice_number"`
	BranchID       *uuid.UUID      `json:"branch_id,omitempty"`
	LearnerID      uuid.UUID       `json:"learner_id"`
	FeeStructureID uuid.UUID       `json:"fee_structure_id"`
	Grade          string          `json:"grade"`
	Term           int             `json:"term"`
	AcademicYear   int             `json:"academic_year"`
	DueDate        time.Time       `json:"due_date"`
	Currency       string          `json:"currency"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	Balance        decimal.Decimal `json:"balance"`
	Status         string          `json:"status"`
	Overdue        bool            `json:"overdue"`
	WaivedReason   string          `json:"waived_reason,omitempty"`
	WaivedAt       *time.Time      `json:"waived_at,omitempty"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToInvoiceResponse converts an invoice, evaluating overdue at now
func ToInvoiceResponse(inv *fee.FeeInvoice, now time.Time) InvoiceResponse {
	return InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		BranchID:       inv.BranchID,
		LearnerID:      inv.LearnerID,
		FeeStructureID: inv.FeeStructureID,
		Grade:          inv.Grade,
		Term:           inv.Term,
		AcademicYear:   inv.AcademicYear,
		DueDate:        inv.DueDate,
		Currency:       string(inv.Currency),
		TotalAmount:    inv.TotalAmount,
		PaidAmount:     inv.PaidAmount,
		Balance:        inv.Balance,
		Status:         inv.Status.String(),
		Overdue:        inv.IsOverdue(now),
		WaivedReason:   inv.WaivedReason,
		WaivedAt:       inv.WaivedAt,
		Version:        inv.Version,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

// InvoiceDetailResponse is an invoice with its payments
type InvoiceDetailResponse struct {
	InvoiceResponse
	Payments []PaymentResponse `json:"payments"`
}

// StatementResponse is a learner's fee position across all invoices
type StatementResponse struct {
	LearnerID        uuid.UUID         `json:"learner_id"`
	AdmissionNumber  string            `json:"admission_number"`
	LearnerName      string            `json:"learner_name"`
	Grade            string            `json:"grade"`
	Invoices         []InvoiceResponse `json:"invoices"`
	TotalBilled      decimal.Decimal   `json:"total_billed"`
	TotalPaid        decimal.Decimal   `json:"total_paid"`
	TotalWaived      decimal.Decimal   `json:"total_waived"`
	TotalOutstanding decimal.Decimal   `json:"total_outstanding"`
	Credit           decimal.Decimal   `json:"credit"`
}

// RecordPaymentInput is a payment against one invoice
type RecordPaymentInput struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Method         string          `json:"method" binding:"required"`
	Reference      string          `json:"reference" binding:"max=100"`
	Notes          string          `json:"notes" binding:"max=500"`
	PaidAt         *time.Time      `json:"paid_at"`
	IdempotencyKey string          `json:"-"`
}

// PaymentListFilter narrows the payment list
type PaymentListFilter struct {
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
	Search    string     `form:"search"`
	InvoiceID *uuid.UUID `form:"invoice_id"`
	LearnerID *uuid.UUID `form:"learner_id"`
	Method    string     `form:"method"`
	FromDate  *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// PaymentResponse represents a payment
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	ReceiptNumber string          `json:"receipt_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	LearnerID     uuid.UUID       `json:"learner_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	PaidAt        time.Time       `json:"paid_at"`
	RecordedBy    *uuid.UUID      `json:"recorded_by,omitempty"`
	HasReceipt    bool            `json:"has_receipt"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToPaymentResponse converts a payment
func ToPaymentResponse(p *fee.FeePayment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		ReceiptNumber: p.ReceiptNumber,
		InvoiceID:     p.InvoiceID,
		LearnerID:     p.LearnerID,
		Amount:        p.Amount,
		Method:        string(p.Method),
		Reference:     p.Reference,
		Notes:         p.Notes,
		PaidAt:        p.PaidAt,
		RecordedBy:    p.RecordedBy,
		HasReceipt:    p.ReceiptKey != "",
		CreatedAt:     p.CreatedAt,
	}
}

// PaymentResult is a recorded payment with the invoice state after it
type PaymentResult struct {
	Payment PaymentResponse `json:"payment"`
	Invoice InvoiceResponse `json:"invoice"`
}

// ReceiptResponse points at a rendered receipt
type ReceiptResponse struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	ReceiptNumber string    `json:"receipt_number"`
	URL           string    `json:"url"`
	ExpiresAt     time.Time `json:"expires_at"`
}
