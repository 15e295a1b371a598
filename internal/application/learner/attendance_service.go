package learner

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// maxRegisterSize bounds one Mark call
const maxRegisterSize = 500

// AttendanceService records and queries daily attendance
type AttendanceService struct {
	learners   learner.LearnerRepository
	attendance learner.AttendanceRepository
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(learners learner.LearnerRepository, attendance learner.AttendanceRepository) *AttendanceService {
	return &AttendanceService{learners: learners, attendance: attendance}
}

// Mark saves a register for one day. Every learner must exist in the
// caller's tenant; the whole register is written in one transaction and
// re-marking a learner updates the existing record.
func (s *AttendanceService) Mark(ctx context.Context, tc shared.TenantContext, input MarkAttendanceInput) (*MarkAttendanceResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "attendance", "mark",
		telemetry.SchoolAttr(tc.SchoolID), attribute.Int(telemetry.AttrCount, len(input.Entries)))
	defer span.End()

	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if len(input.Entries) == 0 {
		return nil, shared.NewValidationError("At least one attendance entry is required")
	}
	if len(input.Entries) > maxRegisterSize {
		return nil, shared.NewValidationError(fmt.Sprintf("A register cannot exceed %d entries", maxRegisterSize))
	}

	ids := make([]uuid.UUID, 0, len(input.Entries))
	seen := make(map[uuid.UUID]bool, len(input.Entries))
	for _, e := range input.Entries {
		if seen[e.LearnerID] {
			return nil, shared.NewValidationError("Learner " + e.LearnerID.String() + " appears more than once")
		}
		seen[e.LearnerID] = true
		ids = append(ids, e.LearnerID)
	}

	found, err := s.learners.FindByIDs(ctx, tc, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*learner.Learner, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	records := make([]learner.AttendanceRecord, 0, len(input.Entries))
	byStatus := make(map[string]int)
	for _, e := range input.Entries {
		l, ok := byID[e.LearnerID]
		if !ok {
			return nil, shared.NewNotFoundError("Learner " + e.LearnerID.String())
		}
		rec, err := learner.NewAttendanceRecord(tc, l, input.Date, learner.AttendanceStatus(strings.ToUpper(e.Status)), e.Remarks)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
		byStatus[string(rec.Status)]++
	}

	if err := s.attendance.Upsert(ctx, tc, records); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	return &MarkAttendanceResult{
		Date:     learner.TruncateToDay(input.Date),
		Recorded: len(records),
		ByStatus: byStatus,
	}, nil
}

// List returns attendance records in a date range
func (s *AttendanceService) List(ctx context.Context, tc shared.TenantContext, filter AttendanceListFilter) (*shared.Paginated[AttendanceResponse], error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if filter.FromDate != nil && filter.ToDate != nil && filter.ToDate.Before(*filter.FromDate) {
		return nil, shared.NewValidationError("to_date must not be before from_date")
	}
	f := learner.AttendanceFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "date",
			OrderDir: "desc",
		},
		LearnerID: filter.LearnerID,
		Grade:     learner.NormalizeGrade(filter.Grade),
		FromDate:  filter.FromDate,
		ToDate:    filter.ToDate,
	}
	f.Normalize()
	if filter.Status != "" {
		status := learner.AttendanceStatus(strings.ToUpper(filter.Status))
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_ATTENDANCE_STATUS", "Invalid attendance status")
		}
		f.Status = &status
	}

	records, total, err := s.attendance.FindAll(ctx, tc, f)
	if err != nil {
		return nil, err
	}
	items := make([]AttendanceResponse, len(records))
	for i := range records {
		items[i] = ToAttendanceResponse(&records[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}
