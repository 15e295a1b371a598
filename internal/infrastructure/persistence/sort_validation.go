package persistence

import (
	"strings"

	"github.com/schoolms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"display_name":  true,
	"role":          true,
	"last_login_at": true,
}

// LearnerSortFields contains allowed sort fields for learners
var LearnerSortFields = map[string]bool{
	"created_at":       true,
	"admission_number": true,
	"first_name":       true,
	"last_name":        true,
	"grade":            true,
	"enrolled_at":      true,
}

// AttendanceSortFields contains allowed sort fields for attendance records
var AttendanceSortFields = map[string]bool{
	"date":       true,
	"created_at": true,
	"status":     true,
}

// FeeSortFields contains allowed sort fields for fee types and structures
var FeeSortFields = map[string]bool{
	"created_at":    true,
	"name":          true,
	"code":          true,
	"academic_year": true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"created_at":     true,
	"invoice_number": true,
	"due_date":       true,
	"balance":        true,
	"total_amount":   true,
	"status":         true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"paid_at":        true,
	"created_at":     true,
	"amount":         true,
	"receipt_number": true,
}

// GradingSortFields contains allowed sort fields for grading systems
var GradingSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"type":       true,
}

// ScoreSortFields contains allowed sort fields for assessment scores
var ScoreSortFields = map[string]bool{
	"assessed_at":   true,
	"created_at":    true,
	"score":         true,
	"learning_area": true,
}

// orderAndPage applies a whitelisted ORDER BY plus OFFSET/LIMIT for filter
func orderAndPage(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	filter.Normalize()
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	return query.
		Order(field + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)
}

// searchPattern builds a case-insensitive LIKE pattern, or "" for a blank search
func searchPattern(search string) string {
	search = strings.TrimSpace(search)
	if search == "" {
		return ""
	}
	return "%" + strings.ToLower(search) + "%"
}
