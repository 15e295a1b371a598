package fee

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
)

var feeTypeCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{0,29}$`)

// FeeType is a named kind of charge, e.g. TUITION or TRANSPORT
type FeeType struct {
	shared.BaseEntity
	SchoolID    uuid.UUID
	Code        string
	Name        string
	Description string
}

// NewFeeType creates a school-wide fee type
func NewFeeType(tc shared.TenantContext, code, name, description string) (*FeeType, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !feeTypeCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_FEE_TYPE_CODE", "Fee type code must be 1-30 uppercase letters, digits, '-' or '_'")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_FEE_TYPE_NAME", "Fee type name must be 1-100 characters")
	}
	return &FeeType{
		BaseEntity:  shared.NewBaseEntity(),
		SchoolID:    tc.SchoolID,
		Code:        code,
		Name:        name,
		Description: strings.TrimSpace(description),
	}, nil
}
