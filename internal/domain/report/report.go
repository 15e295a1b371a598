package report

import (
	"context"
	"time"

	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Filter scopes every report to a tenant and an optional inclusive date range
type Filter struct {
	Tenant shared.TenantContext `json:"-"`
	From   *time.Time           `json:"from,omitempty"`
	To     *time.Time           `json:"to,omitempty"`
}

// Validate checks the tenant and the date range ordering
func (f Filter) Validate() error {
	if err := f.Tenant.Validate(); err != nil {
		return err
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "from must not be after to")
	}
	return nil
}

// CountByKey is one group-by bucket
type CountByKey struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// LearnerSummary counts learners by status, grade and gender
type LearnerSummary struct {
	Total    int64        `json:"total"`
	Active   int64        `json:"active"`
	ByStatus []CountByKey `json:"by_status"`
	ByGrade  []CountByKey `json:"by_grade"`
	ByGender []CountByKey `json:"by_gender"`
}

// DailyAttendance is one day of the attendance trend
type DailyAttendance struct {
	Date    time.Time `json:"date"`
	Present int64     `json:"present"`
	Absent  int64     `json:"absent"`
	Late    int64     `json:"late"`
	Excused int64     `json:"excused"`
}

// AttendanceSummary aggregates attendance marks
type AttendanceSummary struct {
	TotalMarked    int64             `json:"total_marked"`
	ByStatus       []CountByKey      `json:"by_status"`
	AttendanceRate decimal.Decimal   `json:"attendance_rate"` // (present + late) / marked * 100
	Daily          []DailyAttendance `json:"daily"`
}

// InvoiceStatusTotal groups invoices by status
type InvoiceStatusTotal struct {
	Status  string          `json:"status"`
	Count   int64           `json:"count"`
	Billed  decimal.Decimal `json:"billed"`
	Balance decimal.Decimal `json:"balance"`
}

// PaymentMethodTotal groups payments by method
type PaymentMethodTotal struct {
	Method string          `json:"method"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// DailyCollection is one day of collected payments
type DailyCollection struct {
	Date   time.Time       `json:"date"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// InvoiceTotals are the headline ledger sums
type InvoiceTotals struct {
	InvoiceCount int64           `json:"invoice_count"`
	Billed       decimal.Decimal `json:"billed"`
	Collected    decimal.Decimal `json:"collected"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	Waived       decimal.Decimal `json:"waived"`
}

// FinanceSummary aggregates invoices and payments
type FinanceSummary struct {
	InvoiceTotals
	CollectionRate   decimal.Decimal      `json:"collection_rate"` // collected / billed * 100
	ByStatus         []InvoiceStatusTotal `json:"by_status"`
	ByMethod         []PaymentMethodTotal `json:"by_method"`
	DailyCollections []DailyCollection    `json:"daily_collections"`
}

// Overview combines the dashboard summaries
type Overview struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Learners    LearnerSummary    `json:"learners"`
	Attendance  AttendanceSummary `json:"attendance"`
	Finance     FinanceSummary    `json:"finance"`
}

// Rate returns numerator/denominator as a percentage rounded to two places, or zero
func Rate(numerator, denominator decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		return decimal.Zero
	}
	return numerator.Div(denominator).Mul(decimal.NewFromInt(100)).Round(2)
}

// AttendanceRate counts PRESENT and LATE as attended
func AttendanceRate(byStatus []CountByKey) (int64, decimal.Decimal) {
	var total, attended int64
	for _, c := range byStatus {
		total += c.Count
		if c.Key == "PRESENT" || c.Key == "LATE" {
			attended += c.Count
		}
	}
	return total, Rate(decimal.NewFromInt(attended), decimal.NewFromInt(total))
}

// Repository answers the read-side group-by queries
type Repository interface {
	LearnerCounts(ctx context.Context, filter Filter) (*LearnerSummary, error)
	AttendanceByStatus(ctx context.Context, filter Filter) ([]CountByKey, error)
	AttendanceTrend(ctx context.Context, filter Filter) ([]DailyAttendance, error)
	InvoiceTotals(ctx context.Context, filter Filter) (*InvoiceTotals, error)
	InvoicesByStatus(ctx context.Context, filter Filter) ([]InvoiceStatusTotal, error)
	PaymentsByMethod(ctx context.Context, filter Filter) ([]PaymentMethodTotal, error)
	DailyCollections(ctx context.Context, filter Filter) ([]DailyCollection, error)
}
