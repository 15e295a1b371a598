package learner

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/learner"
	csvimport "github.com/schoolms/backend/internal/infrastructure/import"
)

// CreateLearnerInput contains the fields of a new enrolment
type CreateLearnerInput struct {
	AdmissionNumber string
	FirstName       string
	LastName        string
	Gender          string
	Grade           string
	Stream          string
	GuardianPhone   string
}

// UpdateLearnerInput contains the editable profile fields
type UpdateLearnerInput struct {
	FirstName     string
	LastName      string
	Grade         string
	Stream        string
	GuardianPhone string
}

// LearnerListFilter contains the query options for listing learners
type LearnerListFilter struct {
	Page     int
	PageSize int
	Search   string
	Grade    string
	Stream   string
	Status   string
}

// LearnerResponse is the public view of a learner
type LearnerResponse struct {
	ID              uuid.UUID  `json:"id"`
	SchoolID        uuid.UUID  `json:"school_id"`
	BranchID        *uuid.UUID `json:"branch_id,omitempty"`
	AdmissionNumber string     `json:"admission_number"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	FullName        string     `json:"full_name"`
	Gender          string     `json:"gender"`
	Grade           string     `json:"grade"`
	Stream          string     `json:"stream,omitempty"`
	Status          string     `json:"status"`
	GuardianPhone   string     `json:"guardian_phone,omitempty"`
	EnrolledAt      time.Time  `json:"enrolled_at"`
	Version         int        `json:"version"`
}

// ToLearnerResponse maps a learner aggregate to its public view
func ToLearnerResponse(l *learner.Learner) LearnerResponse {
	return LearnerResponse{
		ID:              l.ID,
		SchoolID:        l.SchoolID,
		BranchID:        l.BranchID,
		AdmissionNumber: l.AdmissionNumber,
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		FullName:        l.FullName(),
		Gender:          string(l.Gender),
		Grade:           l.Grade,
		Stream:          l.Stream,
		Status:          string(l.Status),
		GuardianPhone:   l.GuardianPhone,
		EnrolledAt:      l.EnrolledAt,
		Version:         l.GetVersion(),
	}
}

// AttendanceEntry is one learner's mark in a register
type AttendanceEntry struct {
	LearnerID uuid.UUID
	Status    string
	Remarks   string
}

// MarkAttendanceInput is a class register for one day
type MarkAttendanceInput struct {
	Date    time.Time
	Entries []AttendanceEntry
}

// MarkAttendanceResult summarises a saved register
type MarkAttendanceResult struct {
	Date     time.Time      `json:"date"`
	Recorded int            `json:"recorded"`
	ByStatus map[string]int `json:"by_status"`
}

// AttendanceListFilter contains the query options for listing attendance
type AttendanceListFilter struct {
	Page      int
	PageSize  int
	LearnerID *uuid.UUID
	Grade     string
	Status    string
	FromDate  *time.Time
	ToDate    *time.Time
}

// AttendanceResponse is the public view of an attendance record
type AttendanceResponse struct {
	ID         uuid.UUID  `json:"id"`
	LearnerID  uuid.UUID  `json:"learner_id"`
	Date       string     `json:"date"`
	Status     string     `json:"status"`
	Remarks    string     `json:"remarks,omitempty"`
	RecordedBy *uuid.UUID `json:"recorded_by,omitempty"`
}

// ToAttendanceResponse maps an attendance record to its public view
func ToAttendanceResponse(r *learner.AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:         r.ID,
		LearnerID:  r.LearnerID,
		Date:       r.Date.Format(time.DateOnly),
		Status:     string(r.Status),
		Remarks:    r.Remarks,
		RecordedBy: r.RecordedBy,
	}
}

// ImportOptions controls a learner CSV import
type ImportOptions struct {
	DryRun bool
}

// ImportResult reports what a learner import found and did
type ImportResult struct {
	TotalRows  int                  `json:"total_rows"`
	ValidRows  int                  `json:"valid_rows"`
	Created    int                  `json:"created"`
	DryRun     bool                 `json:"dry_run"`
	Errors     []csvimport.RowError `json:"errors"`
	ErrorCount int                  `json:"error_count"`
	Truncated  bool                 `json:"truncated"`
}
