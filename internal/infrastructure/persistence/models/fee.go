package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// FeeTypeModel is the persistence model for a fee type
type FeeTypeModel struct {
	BaseModel
	SchoolID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_fee_type_school_code,priority:1"`
	Code        string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_fee_type_school_code,priority:2"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (FeeTypeModel) TableName() string {
	return "fee_types"
}

// ToDomain converts the persistence model to a domain FeeType
func (m *FeeTypeModel) ToDomain() *fee.FeeType {
	return &fee.FeeType{
		BaseEntity:  m.BaseModel.ToDomain(),
		SchoolID:    m.SchoolID,
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
	}
}

// FeeTypeModelFromDomain creates a persistence model from a domain FeeType
func FeeTypeModelFromDomain(ft *fee.FeeType) *FeeTypeModel {
	m := &FeeTypeModel{SchoolID: ft.SchoolID, Code: ft.Code, Name: ft.Name, Description: ft.Description}
	m.FromDomainBaseEntity(ft.BaseEntity)
	return m
}

// FeeStructureModel is the persistence model for the FeeStructure aggregate
type FeeStructureModel struct {
	TenantAggregateModel
	Name         string                  `gorm:"type:varchar(150);not null"`
	Description  string                  `gorm:"type:text"`
	Grade        string                  `gorm:"type:varchar(50);index"`
	Term         int                     `gorm:"not null;default:0"`
	AcademicYear int                     `gorm:"not null;index"`
	Active       bool                    `gorm:"not null;default:true"`
	Archived     bool                    `gorm:"not null;default:false"`
	Items        []FeeStructureItemModel `gorm:"foreignKey:FeeStructureID;references:ID"`
}

// TableName returns the table name for GORM
func (FeeStructureModel) TableName() string {
	return "fee_structures"
}

// FeeStructureItemModel is one fee line of a structure
type FeeStructureItemModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	FeeStructureID uuid.UUID       `gorm:"type:uuid;not null;index"`
	FeeTypeID      uuid.UUID       `gorm:"type:uuid;not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Mandatory      bool            `gorm:"not null;default:true"`
	SortOrder      int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (FeeStructureItemModel) TableName() string {
	return "fee_structure_items"
}

// ToDomain converts the persistence model to a domain FeeStructure
func (m *FeeStructureModel) ToDomain() *fee.FeeStructure {
	items := make([]fee.FeeStructureItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = fee.FeeStructureItem{ID: it.ID, FeeTypeID: it.FeeTypeID, Amount: it.Amount, Mandatory: it.Mandatory}
	}
	return &fee.FeeStructure{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Description:         m.Description,
		Grade:               m.Grade,
		Term:                m.Term,
		AcademicYear:        m.AcademicYear,
		Items:               items,
		Active:              m.Active,
		Archived:            m.Archived,
	}
}

// FeeStructureModelFromDomain creates a persistence model from a domain FeeStructure
func FeeStructureModelFromDomain(fs *fee.FeeStructure) *FeeStructureModel {
	m := &FeeStructureModel{
		Name:         fs.Name,
		Description:  fs.Description,
		Grade:        fs.Grade,
		Term:         fs.Term,
		AcademicYear: fs.AcademicYear,
		Active:       fs.Active,
		Archived:     fs.Archived,
		Items:        make([]FeeStructureItemModel, len(fs.Items)),
	}
	m.FromDomainTenantAggregateRoot(fs.TenantAggregateRoot)
	for i, it := range fs.Items {
		m.Items[i] = FeeStructureItemModel{
			ID:             it.ID,
			FeeStructureID: fs.ID,
			FeeTypeID:      it.FeeTypeID,
			Amount:         it.Amount,
			Mandatory:      it.Mandatory,
			SortOrder:      i,
		}
	}
	return m
}

// FeeInvoiceModel is the persistence model for the FeeInvoice aggregate.
// The natural key index enforces one invoice per learner, structure, term and year.
type FeeInvoiceModel struct {
	AggregateModel
	SchoolID       uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_natural_key,priority:1;uniqueIndex:idx_invoice_school_number,priority:1"`
	BranchID       *uuid.UUID           `gorm:"type:uuid;index"`
	CreatedBy      *uuid.UUID           `gorm:"type:uuid"`
	InvoiceNumber  string               `gorm:"type:varchar(30);not null;uniqueIndex:idx_invoice_school_number,priority:2"`
	LearnerID      uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_natural_key,priority:2;index"`
	FeeStructureID uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_natural_key,priority:3;index"`
	Term           int                  `gorm:"not null;uniqueIndex:idx_invoice_natural_key,priority:4"`
	AcademicYear   int                  `gorm:"not null;uniqueIndex:idx_invoice_natural_key,priority:5"`
	Grade          string               `gorm:"type:varchar(50);not null;index"`
	DueDate        time.Time            `gorm:"type:date;not null;index"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null;default:'KES'"`
	TotalAmount    decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	PaidAmount     decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Balance        decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Status         fee.InvoiceStatus    `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	WaivedReason   string               `gorm:"type:varchar(500)"`
	WaivedBy       *uuid.UUID           `gorm:"type:uuid"`
	WaivedAt       *time.Time
}

// TableName returns the table name for GORM
func (FeeInvoiceModel) TableName() string {
	return "fee_invoices"
}

// ToDomain converts the persistence model to a domain FeeInvoice
func (m *FeeInvoiceModel) ToDomain() *fee.FeeInvoice {
	return &fee.FeeInvoice{
		TenantAggregateRoot: tenantRoot(m.AggregateModel, m.SchoolID, m.BranchID, m.CreatedBy),
		InvoiceNumber:       m.InvoiceNumber,
		LearnerID:           m.LearnerID,
		FeeStructureID:      m.FeeStructureID,
		Grade:               m.Grade,
		Term:                m.Term,
		AcademicYear:        m.AcademicYear,
		DueDate:             m.DueDate,
		Currency:            m.Currency,
		TotalAmount:         m.TotalAmount,
		PaidAmount:          m.PaidAmount,
		Balance:             m.Balance,
		Status:              m.Status,
		WaivedReason:        m.WaivedReason,
		WaivedBy:            m.WaivedBy,
		WaivedAt:            m.WaivedAt,
	}
}

// FeeInvoiceModelFromDomain creates a persistence model from a domain FeeInvoice
func FeeInvoiceModelFromDomain(i *fee.FeeInvoice) *FeeInvoiceModel {
	m := &FeeInvoiceModel{
		SchoolID:       i.SchoolID,
		BranchID:       i.BranchID,
		CreatedBy:      i.CreatedBy,
		InvoiceNumber:  i.InvoiceNumber,
		LearnerID:      i.LearnerID,
		FeeStructureID: i.FeeStructureID,
		Term:           i.Term,
		AcademicYear:   i.AcademicYear,
		Grade:          i.Grade,
		DueDate:        i.DueDate,
		Currency:       i.Currency,
		TotalAmount:    i.TotalAmount,
		PaidAmount:     i.PaidAmount,
		Balance:        i.Balance,
		Status:         i.Status,
		WaivedReason:   i.WaivedReason,
		WaivedBy:       i.WaivedBy,
		WaivedAt:       i.WaivedAt,
	}
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	return m
}

// FeePaymentModel is the append-only persistence model for a payment
type FeePaymentModel struct {
	BaseModel
	SchoolID      uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_payment_school_receipt,priority:1"`
	BranchID      *uuid.UUID        `gorm:"type:uuid;index"`
	InvoiceID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	LearnerID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	ReceiptNumber string            `gorm:"type:varchar(30);not null;uniqueIndex:idx_payment_school_receipt,priority:2"`
	Amount        decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Method        fee.PaymentMethod `gorm:"type:varchar(10);not null;index"`
	Reference     string            `gorm:"type:varchar(100)"`
	Notes         string            `gorm:"type:varchar(500)"`
	PaidAt        time.Time         `gorm:"not null;index"`
	RecordedBy    *uuid.UUID        `gorm:"type:uuid"`
	ReceiptKey    string            `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (FeePaymentModel) TableName() string {
	return "fee_payments"
}

// ToDomain converts the persistence model to a domain FeePayment
func (m *FeePaymentModel) ToDomain() *fee.FeePayment {
	return &fee.FeePayment{
		BaseEntity:    m.BaseModel.ToDomain(),
		SchoolID:      m.SchoolID,
		BranchID:      m.BranchID,
		InvoiceID:     m.InvoiceID,
		LearnerID:     m.LearnerID,
		ReceiptNumber: m.ReceiptNumber,
		Amount:        m.Amount,
		Method:        m.Method,
		Reference:     m.Reference,
		Notes:         m.Notes,
		PaidAt:        m.PaidAt,
		RecordedBy:    m.RecordedBy,
		ReceiptKey:    m.ReceiptKey,
	}
}

// FeePaymentModelFromDomain creates a persistence model from a domain FeePayment
func FeePaymentModelFromDomain(p *fee.FeePayment) *FeePaymentModel {
	m := &FeePaymentModel{
		SchoolID:      p.SchoolID,
		BranchID:      p.BranchID,
		InvoiceID:     p.InvoiceID,
		LearnerID:     p.LearnerID,
		ReceiptNumber: p.ReceiptNumber,
		Amount:        p.Amount,
		Method:        p.Method,
		Reference:     p.Reference,
		Notes:         p.Notes,
		PaidAt:        p.PaidAt,
		RecordedBy:    p.RecordedBy,
		ReceiptKey:    p.ReceiptKey,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// DocumentSequenceModel is the per-school, per-kind, per-year counter row
// that numbers invoices and receipts.
type DocumentSequenceModel struct {
	SchoolID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind      string    `gorm:"type:varchar(10);primaryKey"`
	Year      int       `gorm:"primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
