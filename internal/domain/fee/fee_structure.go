package fee

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Academic calendar bounds
const (
	MinTerm = 1
	MaxTerm = 3
	MinYear = 2000
	MaxYear = 2100
)

// ValidateTerm checks a term number
func ValidateTerm(term int) error {
	if term < MinTerm || term > MaxTerm {
		return shared.NewDomainError("INVALID_TERM", "Term must be between 1 and 3")
	}
	return nil
}

// ValidateAcademicYear checks an academic year
func ValidateAcademicYear(year int) error {
	if year < MinYear || year > MaxYear {
		return shared.NewDomainError("INVALID_ACADEMIC_YEAR", "Academic year must be between 2000 and 2100")
	}
	return nil
}

// ErrFeeStructureInUse is returned when mutating a structure that invoices reference
var ErrFeeStructureInUse = shared.NewDomainError("FEE_STRUCTURE_IN_USE", "Fee structure is referenced by invoices and can only be archived")

// FeeStructureItem is one fee line within a structure
type FeeStructureItem struct {
	ID        uuid.UUID
	FeeTypeID uuid.UUID
	Amount    decimal.Decimal
	Mandatory bool
}

// FeeStructure is a named bundle of fee items for a school, optionally
// narrowed to one grade and/or term of an academic year.
type FeeStructure struct {
	shared.TenantAggregateRoot
	Name         string
	Description  string
	Grade        string // empty applies to every grade
	Term         int    // 0 applies to every term
	AcademicYear int
	Items        []FeeStructureItem
	Active       bool
	Archived     bool
}

// NewFeeStructure creates an active, empty fee structure. Fee structures are
// always school-wide, even when created by a branch-scoped user.
func NewFeeStructure(tc shared.TenantContext, name, grade string, term, academicYear int) (*FeeStructure, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 150 {
		return nil, shared.NewDomainError("INVALID_NAME", "Fee structure name must be 1-150 characters")
	}
	if term != 0 {
		if err := ValidateTerm(term); err != nil {
			return nil, err
		}
	}
	if err := ValidateAcademicYear(academicYear); err != nil {
		return nil, err
	}

	root := shared.NewTenantAggregateRoot(tc)
	root.BranchID = nil

	fs := &FeeStructure{
		TenantAggregateRoot: root,
		Name:                name,
		Grade:               learner.NormalizeGrade(grade),
		Term:                term,
		AcademicYear:        academicYear,
		Items:               make([]FeeStructureItem, 0),
		Active:              true,
	}
	return fs, nil
}

// AddItem appends a fee line. Amounts must be positive with at most two decimal places.
func (fs *FeeStructure) AddItem(feeTypeID uuid.UUID, amount decimal.Decimal, mandatory bool) error {
	if fs.Archived {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify an archived fee structure")
	}
	if feeTypeID == uuid.Nil {
		return shared.NewDomainError("INVALID_FEE_TYPE", "Fee type is required")
	}
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	for _, item := range fs.Items {
		if item.FeeTypeID == feeTypeID {
			return shared.NewDomainError("DUPLICATE_FEE_TYPE", "Fee type already present in this structure")
		}
	}

	fs.Items = append(fs.Items, FeeStructureItem{
		ID:        uuid.New(),
		FeeTypeID: feeTypeID,
		Amount:    amount,
		Mandatory: mandatory,
	})
	fs.Touch()
	return nil
}

// ClearItems removes all fee lines; callers must first confirm no invoice references the structure
func (fs *FeeStructure) ClearItems() error {
	if fs.Archived {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify an archived fee structure")
	}
	fs.Items = make([]FeeStructureItem, 0)
	fs.Touch()
	fs.IncrementVersion()
	return nil
}

// Total is the sum of all item amounts
func (fs *FeeStructure) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range fs.Items {
		total = total.Add(item.Amount)
	}
	return total
}

// Archive retires the structure; it stays readable but cannot be invoiced
func (fs *FeeStructure) Archive() error {
	if fs.Archived {
		return shared.NewDomainError("INVALID_STATE", "Fee structure is already archived")
	}
	fs.Archived = true
	fs.Active = false
	fs.Touch()
	fs.IncrementVersion()
	return nil
}

// CanInvoice reports whether new invoices may reference this structure
func (fs *FeeStructure) CanInvoice() error {
	if fs.Archived || !fs.Active {
		return shared.NewDomainError("INVALID_STATE", "Fee structure is not active")
	}
	if len(fs.Items) == 0 || !fs.Total().IsPositive() {
		return shared.NewDomainError("INVALID_STATE", "Fee structure has no billable items")
	}
	return nil
}

// AppliesTo checks that the structure may bill the given grade, term and year
func (fs *FeeStructure) AppliesTo(grade string, term, academicYear int) error {
	if fs.AcademicYear != academicYear {
		return shared.NewValidationError("Fee structure is for academic year " + strconv.Itoa(fs.AcademicYear))
	}
	if fs.Term != 0 && fs.Term != term {
		return shared.NewValidationError("Fee structure is for term " + strconv.Itoa(fs.Term))
	}
	if fs.Grade != "" && fs.Grade != learner.NormalizeGrade(grade) {
		return shared.NewValidationError("Fee structure does not apply to " + learner.NormalizeGrade(grade))
	}
	return nil
}

// ValidateAmount checks a monetary amount is positive with at most two decimal places
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot have more than two decimal places")
	}
	return nil
}

// FeeStructureFilter narrows fee structure queries
type FeeStructureFilter struct {
	shared.Filter
	Grade        string
	Term         *int
	AcademicYear *int
	Active       *bool
}
