package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/domain/shared/valueobject"
)

// SchoolStatus represents the lifecycle state of a school (tenant)
type SchoolStatus string

const (
	SchoolStatusActive    SchoolStatus = "ACTIVE"
	SchoolStatusSuspended SchoolStatus = "SUSPENDED"
)

var schoolCodePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,49}$`)

// School is the tenant. Every other aggregate is owned by exactly one school.
type School struct {
	shared.BaseAggregateRoot
	Code     string
	Name     string
	Status   SchoolStatus
	Currency valueobject.Currency
}

// NewSchool creates an active school
func NewSchool(code, name string, currency valueobject.Currency) (*School, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !schoolCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_SCHOOL_CODE", "School code must be 2-50 lowercase letters, digits, '-' or '_'")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_SCHOOL_NAME", "School name must be 1-200 characters")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency")
	}

	school := &School{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Status:            SchoolStatusActive,
		Currency:          currency,
	}
	school.AddDomainEvent(NewSchoolRegisteredEvent(school))
	return school, nil
}

// Suspend blocks logins for the school
func (s *School) Suspend() error {
	if s.Status == SchoolStatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "School is already suspended")
	}
	s.Status = SchoolStatusSuspended
	s.Touch()
	s.IncrementVersion()
	return nil
}

// IsActive returns true if users of the school may sign in
func (s *School) IsActive() bool {
	return s.Status == SchoolStatusActive
}

// Branch is a campus of a school
type Branch struct {
	shared.BaseEntity
	SchoolID uuid.UUID
	Code     string
	Name     string
}

// NewBranch creates a branch of the given school
func NewBranch(schoolID uuid.UUID, code, name string) (*Branch, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_BRANCH_CODE", "Branch code must be 1-20 characters")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_BRANCH_NAME", "Branch name is required")
	}
	return &Branch{
		BaseEntity: shared.NewBaseEntity(),
		SchoolID:   schoolID,
		Code:       code,
		Name:       name,
	}, nil
}
