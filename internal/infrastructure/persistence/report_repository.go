package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/report"
	"github.com/schoolms/backend/internal/infrastructure/persistence/tenant"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository with group-by queries
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// LearnerCounts counts learners enrolled up to filter.To by status, grade and gender
func (r *GormReportRepository) LearnerCounts(ctx context.Context, filter report.Filter) (*report.LearnerSummary, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Table("learners").Scopes(tenant.Scope(filter.Tenant))
		if filter.To != nil {
			q = q.Where("enrolled_at <= ?", *filter.To)
		}
		return q
	}

	summary := &report.LearnerSummary{}
	for _, group := range []struct {
		column string
		dest   *[]report.CountByKey
	}{
		{"status", &summary.ByStatus},
		{"grade", &summary.ByGrade},
		{"gender", &summary.ByGender},
	} {
		if err := base().
			Select(group.column + " AS key, COUNT(*) AS count").
			Group(group.column).
			Order(group.column + " ASC").
			Scan(group.dest).Error; err != nil {
			return nil, fmt.Errorf("count learners by %s: %w", group.column, err)
		}
	}

	for _, c := range summary.ByStatus {
		summary.Total += c.Count
		if c.Key == string(learner.StatusActive) {
			summary.Active = c.Count
		}
	}
	return summary, nil
}

// AttendanceByStatus counts attendance marks in the range by status
func (r *GormReportRepository) AttendanceByStatus(ctx context.Context, filter report.Filter) ([]report.CountByKey, error) {
	var rows []report.CountByKey
	err := r.attendance(ctx, filter).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&rows).Error
	return rows, err
}

// AttendanceTrend returns one row per marked day with a count per status
func (r *GormReportRepository) AttendanceTrend(ctx context.Context, filter report.Filter) ([]report.DailyAttendance, error) {
	var rows []struct {
		Day     string
		Present int64
		Absent  int64
		Late    int64
		Excused int64
	}
	day := dayExpr(r.db, "date")
	err := r.attendance(ctx, filter).
		Select(day+" AS day, "+
			"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS present, "+
			"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS absent, "+
			"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS late, "+
			"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS excused",
			learner.AttendancePresent, learner.AttendanceAbsent, learner.AttendanceLate, learner.AttendanceExcused).
		Group(day).
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	trend := make([]report.DailyAttendance, 0, len(rows))
	for _, row := range rows {
		d, err := parseDay(row.Day)
		if err != nil {
			return nil, err
		}
		trend = append(trend, report.DailyAttendance{
			Date: d, Present: row.Present, Absent: row.Absent, Late: row.Late, Excused: row.Excused,
		})
	}
	return trend, nil
}

// InvoiceTotals sums invoices created in the range
func (r *GormReportRepository) InvoiceTotals(ctx context.Context, filter report.Filter) (*report.InvoiceTotals, error) {
	var totals report.InvoiceTotals
	err := r.invoices(ctx, filter).
		Select("COUNT(*) AS invoice_count, "+
			"COALESCE(SUM(total_amount), 0) AS billed, "+
			"COALESCE(SUM(paid_amount), 0) AS collected, "+
			"COALESCE(SUM(CASE WHEN status <> ? AND balance > 0 THEN balance ELSE 0 END), 0) AS outstanding, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN balance ELSE 0 END), 0) AS waived",
			fee.InvoiceStatusWaived, fee.InvoiceStatusWaived).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// InvoicesByStatus groups invoices created in the range by status
func (r *GormReportRepository) InvoicesByStatus(ctx context.Context, filter report.Filter) ([]report.InvoiceStatusTotal, error) {
	var rows []report.InvoiceStatusTotal
	err := r.invoices(ctx, filter).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS billed, COALESCE(SUM(balance), 0) AS balance").
		Group("status").
		Order("status ASC").
		Scan(&rows).Error
	return rows, err
}

// PaymentsByMethod groups payments received in the range by method
func (r *GormReportRepository) PaymentsByMethod(ctx context.Context, filter report.Filter) ([]report.PaymentMethodTotal, error) {
	var rows []report.PaymentMethodTotal
	err := r.payments(ctx, filter).
		Select("method, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Group("method").
		Order("method ASC").
		Scan(&rows).Error
	return rows, err
}

// DailyCollections sums payments per calendar day (UTC)
func (r *GormReportRepository) DailyCollections(ctx context.Context, filter report.Filter) ([]report.DailyCollection, error) {
	var rows []struct {
		Day    string
		Count  int64
		Amount decimal.Decimal
	}
	day := dayExpr(r.db, "paid_at")
	err := r.payments(ctx, filter).
		Select(day + " AS day, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Group(day).
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.DailyCollection, 0, len(rows))
	for _, row := range rows {
		d, err := parseDay(row.Day)
		if err != nil {
			return nil, err
		}
		out = append(out, report.DailyCollection{Date: d, Count: row.Count, Amount: row.Amount})
	}
	return out, nil
}

func (r *GormReportRepository) attendance(ctx context.Context, filter report.Filter) *gorm.DB {
	return withRange(r.db.WithContext(ctx).Table("attendance_records").Scopes(tenant.Scope(filter.Tenant)), "date", filter)
}

func (r *GormReportRepository) invoices(ctx context.Context, filter report.Filter) *gorm.DB {
	return withRange(r.db.WithContext(ctx).Table("fee_invoices").Scopes(tenant.Scope(filter.Tenant)), "created_at", filter)
}

func (r *GormReportRepository) payments(ctx context.Context, filter report.Filter) *gorm.DB {
	return withRange(r.db.WithContext(ctx).Table("fee_payments").Scopes(tenant.Scope(filter.Tenant)), "paid_at", filter)
}

func withRange(q *gorm.DB, column string, filter report.Filter) *gorm.DB {
	if filter.From != nil {
		q = q.Where(column+" >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where(column+" <= ?", *filter.To)
	}
	return q
}

// dayExpr renders column as a YYYY-MM-DD string in the connected dialect
func dayExpr(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "sqlite" {
		return "strftime('%Y-%m-%d', " + column + ")"
	}
	return "TO_CHAR(" + column + ", 'YYYY-MM-DD')"
}

func parseDay(s string) (time.Time, error) {
	if len(s) < 10 {
		return time.Time{}, fmt.Errorf("unexpected day bucket %q", s)
	}
	return time.Parse(time.DateOnly, s[:10])
}

// Ensure GormReportRepository implements report.Repository
var _ report.Repository = (*GormReportRepository)(nil)
