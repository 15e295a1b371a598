package learner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
)

// AttendanceStatus represents a learner's presence on a given day
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

// IsValid checks if the status is valid
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// CountsAsAttended reports whether the status counts towards the attendance rate
func (s AttendanceStatus) CountsAsAttended() bool {
	return s == AttendancePresent || s == AttendanceLate
}

// AttendanceRecord is one learner's attendance for one day. Re-marking the
// same (learner, date) updates the record in place.
type AttendanceRecord struct {
	shared.BaseEntity
	SchoolID   uuid.UUID
	BranchID   *uuid.UUID
	LearnerID  uuid.UUID
	Date       time.Time
	Status     AttendanceStatus
	Remarks    string
	RecordedBy *uuid.UUID
}

// NewAttendanceRecord creates a record for the learner on the given day
func NewAttendanceRecord(tc shared.TenantContext, l *Learner, date time.Time, status AttendanceStatus, remarks string) (*AttendanceRecord, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_ATTENDANCE_STATUS", "Attendance status must be PRESENT, ABSENT, LATE or EXCUSED")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Attendance date is required")
	}
	day := TruncateToDay(date)
	if day.After(TruncateToDay(time.Now())) {
		return nil, shared.NewDomainError("INVALID_DATE", "Attendance cannot be marked for a future date")
	}
	if !l.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Attendance can only be marked for active learners")
	}
	remarks = strings.TrimSpace(remarks)
	if len(remarks) > 500 {
		return nil, shared.NewDomainError("INVALID_REMARKS", "Remarks cannot exceed 500 characters")
	}

	return &AttendanceRecord{
		BaseEntity: shared.NewBaseEntity(),
		SchoolID:   l.SchoolID,
		BranchID:   l.BranchID,
		LearnerID:  l.ID,
		Date:       day,
		Status:     status,
		Remarks:    remarks,
		RecordedBy: tc.UserID,
	}, nil
}

// TruncateToDay drops the time-of-day component in UTC
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AttendanceFilter narrows attendance queries
type AttendanceFilter struct {
	shared.Filter
	LearnerID *uuid.UUID
	Grade     string
	Status    *AttendanceStatus
	FromDate  *time.Time
	ToDate    *time.Time
}
