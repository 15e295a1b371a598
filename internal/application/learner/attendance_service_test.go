package learner

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAttendanceService_Mark(t *testing.T) {
	ctx := context.Background()
	tc := testTenant()
	today := time.Now().UTC()
	a := newLearner(t, tc, "ADM-010", "Grade 3")
	b := newLearner(t, tc, "ADM-011", "Grade 3")

	t.Run("saves the register in one upsert", func(t *testing.T) {
		learners := new(MockLearnerRepository)
		attendance := new(MockAttendanceRepository)
		svc := NewAttendanceService(learners, attendance)

		learners.On("FindByIDs", mock.Anything, tc, []uuid.UUID{a.ID, b.ID}).Return([]learner.Learner{*a, *b}, nil)
		attendance.On("Upsert", mock.Anything, tc, mock.MatchedBy(func(records []learner.AttendanceRecord) bool {
			return len(records) == 2 &&
				records[0].Status == learner.AttendancePresent &&
				records[1].Status == learner.AttendanceLate &&
				records[0].Date.Equal(learner.TruncateToDay(today))
		})).Return(nil).Once()

		result, err := svc.Mark(ctx, tc, MarkAttendanceInput{
			Date: today,
			Entries: []AttendanceEntry{
				{LearnerID: a.ID, Status: "present"},
				{LearnerID: b.ID, Status: "LATE", Remarks: "bus delay"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Recorded)
		assert.Equal(t, map[string]int{"PRESENT": 1, "LATE": 1}, result.ByStatus)
		attendance.AssertExpectations(t)
	})

	t.Run("unknown learner aborts the whole register", func(t *testing.T) {
		learners := new(MockLearnerRepository)
		attendance := new(MockAttendanceRepository)
		svc := NewAttendanceService(learners, attendance)
		stranger := uuid.New()

		learners.On("FindByIDs", mock.Anything, tc, []uuid.UUID{a.ID, stranger}).Return([]learner.Learner{*a}, nil)

		_, err := svc.Mark(ctx, tc, MarkAttendanceInput{
			Date: today,
			Entries: []AttendanceEntry{
				{LearnerID: a.ID, Status: "PRESENT"},
				{LearnerID: stranger, Status: "PRESENT"},
			},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		attendance.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicates, empty registers and bad statuses", func(t *testing.T) {
		learners := new(MockLearnerRepository)
		svc := NewAttendanceService(learners, new(MockAttendanceRepository))

		_, err := svc.Mark(ctx, tc, MarkAttendanceInput{Date: today})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		_, err = svc.Mark(ctx, tc, MarkAttendanceInput{Date: today, Entries: []AttendanceEntry{
			{LearnerID: a.ID, Status: "PRESENT"},
			{LearnerID: a.ID, Status: "ABSENT"},
		}})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		learners.On("FindByIDs", mock.Anything, tc, []uuid.UUID{a.ID}).Return([]learner.Learner{*a}, nil)
		_, err = svc.Mark(ctx, tc, MarkAttendanceInput{Date: today, Entries: []AttendanceEntry{{LearnerID: a.ID, Status: "SICK"}}})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_ATTENDANCE_STATUS", de.Code)

		_, err = svc.Mark(ctx, tc, MarkAttendanceInput{Date: today.AddDate(0, 0, 2), Entries: []AttendanceEntry{{LearnerID: a.ID, Status: "PRESENT"}}})
		de, ok = shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_DATE", de.Code)
	})
}

func TestAttendanceService_List(t *testing.T) {
	ctx := context.Background()
	tc := testTenant()
	attendance := new(MockAttendanceRepository)
	svc := NewAttendanceService(new(MockLearnerRepository), attendance)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	record := learner.AttendanceRecord{LearnerID: uuid.New(), Date: from, Status: learner.AttendanceAbsent}

	attendance.On("FindAll", mock.Anything, tc, mock.MatchedBy(func(f learner.AttendanceFilter) bool {
		return f.Grade == "GRADE 3" && f.FromDate.Equal(from) && f.Status != nil
	})).Return([]learner.AttendanceRecord{record}, int64(1), nil)

	page, err := svc.List(ctx, tc, AttendanceListFilter{Grade: "grade 3", Status: "absent", FromDate: &from, ToDate: &to})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "2025-03-01", page.Items[0].Date)

	_, err = svc.List(ctx, tc, AttendanceListFilter{FromDate: &to, ToDate: &from})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
