package report

import (
	"context"
	"time"

	"github.com/schoolms/backend/internal/domain/report"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
	"golang.org/x/sync/errgroup"
)

// DashboardService answers the read-side summaries. Nothing is cached; every
// call goes to the database.
type DashboardService struct {
	repo report.Repository
	now  func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repo report.Repository) *DashboardService {
	return &DashboardService{repo: repo, now: time.Now}
}

// Overview runs the three summaries concurrently and combines them
func (s *DashboardService) Overview(ctx context.Context, tc shared.TenantContext, q Query) (*report.Overview, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "overview", telemetry.SchoolAttr(tc.SchoolID))
	defer span.End()

	filter := q.filter(tc)
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	out := &report.Overview{GeneratedAt: s.now()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		learners, err := s.learnerSummary(gctx, filter)
		if err == nil {
			out.Learners = *learners
		}
		return err
	})
	g.Go(func() error {
		attendance, err := s.attendanceSummary(gctx, filter)
		if err == nil {
			out.Attendance = *attendance
		}
		return err
	})
	g.Go(func() error {
		finance, err := s.financeSummary(gctx, filter)
		if err == nil {
			out.Finance = *finance
		}
		return err
	})
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	return out, nil
}

// LearnerSummary counts learners by status, grade and gender
func (s *DashboardService) LearnerSummary(ctx context.Context, tc shared.TenantContext, q Query) (*report.LearnerSummary, error) {
	filter := q.filter(tc)
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.learnerSummary(ctx, filter)
}

// AttendanceSummary counts marks by status with the daily trend
func (s *DashboardService) AttendanceSummary(ctx context.Context, tc shared.TenantContext, q Query) (*report.AttendanceSummary, error) {
	filter := q.filter(tc)
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.attendanceSummary(ctx, filter)
}

// FinanceSummary reports billed, collected and outstanding amounts
func (s *DashboardService) FinanceSummary(ctx context.Context, tc shared.TenantContext, q Query) (*report.FinanceSummary, error) {
	filter := q.filter(tc)
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.financeSummary(ctx, filter)
}

func (s *DashboardService) learnerSummary(ctx context.Context, filter report.Filter) (*report.LearnerSummary, error) {
	summary, err := s.repo.LearnerCounts(ctx, filter)
	if err != nil {
		return nil, err
	}
	summary.ByStatus = nonNil(summary.ByStatus)
	summary.ByGrade = nonNil(summary.ByGrade)
	summary.ByGender = nonNil(summary.ByGender)
	return summary, nil
}

func (s *DashboardService) attendanceSummary(ctx context.Context, filter report.Filter) (*report.AttendanceSummary, error) {
	byStatus, err := s.repo.AttendanceByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}
	daily, err := s.repo.AttendanceTrend(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, rate := report.AttendanceRate(byStatus)
	return &report.AttendanceSummary{
		TotalMarked:    total,
		ByStatus:       nonNil(byStatus),
		AttendanceRate: rate,
		Daily:          nonNil(daily),
	}, nil
}

func (s *DashboardService) financeSummary(ctx context.Context, filter report.Filter) (*report.FinanceSummary, error) {
	totals, err := s.repo.InvoiceTotals(ctx, filter)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.InvoicesByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}
	byMethod, err := s.repo.PaymentsByMethod(ctx, filter)
	if err != nil {
		return nil, err
	}
	daily, err := s.repo.DailyCollections(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &report.FinanceSummary{
		InvoiceTotals:    *totals,
		CollectionRate:   report.Rate(totals.Collected, totals.Billed),
		ByStatus:         nonNil(byStatus),
		ByMethod:         nonNil(byMethod),
		DailyCollections: nonNil(daily),
	}, nil
}

// nonNil keeps empty groups rendering as [] rather than null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
