package learner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status represents the enrolment status of a learner
type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusInactive    Status = "INACTIVE"
	StatusGraduated   Status = "GRADUATED"
	StatusTransferred Status = "TRANSFERRED"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusGraduated, StatusTransferred:
		return true
	}
	return false
}

// Gender of a learner
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// IsValid checks if the gender is valid
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// Learner is an enrolled student of a school
type Learner struct {
	shared.TenantAggregateRoot
	AdmissionNumber string
	FirstName       string
	LastName        string
	Gender          Gender
	Grade           string
	Stream          string
	Status          Status
	GuardianPhone   string
	EnrolledAt      time.Time
}

// NewLearner enrols a learner in the context's school (and branch, if scoped)
func NewLearner(tc shared.TenantContext, admissionNumber, firstName, lastName string, gender Gender, grade, stream string) (*Learner, error) {
	admissionNumber = strings.ToUpper(strings.TrimSpace(admissionNumber))
	if admissionNumber == "" || len(admissionNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ADMISSION_NUMBER", "Admission number must be 1-50 characters")
	}
	firstName, lastName = normalizeName(firstName), normalizeName(lastName)
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if !gender.IsValid() {
		return nil, shared.NewDomainError("INVALID_GENDER", "Gender must be MALE, FEMALE or OTHER")
	}
	grade = NormalizeGrade(grade)
	if grade == "" {
		return nil, shared.NewDomainError("INVALID_GRADE", "Grade is required")
	}

	l := &Learner{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tc),
		AdmissionNumber:     admissionNumber,
		FirstName:           firstName,
		LastName:            lastName,
		Gender:              gender,
		Grade:               grade,
		Stream:              NormalizeStream(stream),
		Status:              StatusActive,
		EnrolledAt:          time.Now(),
	}
	l.AddDomainEvent(NewLearnerEnrolledEvent(l))
	return l, nil
}

// FullName returns "First Last"
func (l *Learner) FullName() string {
	return l.FirstName + " " + l.LastName
}

// Update changes the editable profile fields
func (l *Learner) Update(firstName, lastName, grade, stream, guardianPhone string) error {
	if firstName = normalizeName(firstName); firstName != "" {
		l.FirstName = firstName
	}
	if lastName = normalizeName(lastName); lastName != "" {
		l.LastName = lastName
	}
	if grade = NormalizeGrade(grade); grade != "" {
		l.Grade = grade
	}
	l.Stream = NormalizeStream(stream)
	if len(guardianPhone) > 30 {
		return shared.NewDomainError("INVALID_PHONE", "Guardian phone cannot exceed 30 characters")
	}
	l.GuardianPhone = strings.TrimSpace(guardianPhone)
	l.Touch()
	l.IncrementVersion()
	return nil
}

// ChangeStatus moves the learner to a new enrolment status
func (l *Learner) ChangeStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid learner status")
	}
	if l.Status == status {
		return shared.NewDomainError("INVALID_STATE", "Learner already has status "+string(status))
	}
	if l.Status == StatusGraduated {
		return shared.NewDomainError("INVALID_STATE", "Graduated learners cannot change status")
	}
	old := l.Status
	l.Status = status
	l.Touch()
	l.IncrementVersion()
	l.AddDomainEvent(NewLearnerStatusChangedEvent(l, old))
	return nil
}

// Deactivate suspends enrolment
func (l *Learner) Deactivate() error { return l.ChangeStatus(StatusInactive) }

// Graduate marks the learner as having completed school
func (l *Learner) Graduate() error { return l.ChangeStatus(StatusGraduated) }

// Transfer marks the learner as having left for another school
func (l *Learner) Transfer() error { return l.ChangeStatus(StatusTransferred) }

// IsActive returns true if the learner is currently enrolled
func (l *Learner) IsActive() bool {
	return l.Status == StatusActive
}

// NormalizeGrade canonicalises grade labels, e.g. " grade 4 " -> "GRADE 4"
func NormalizeGrade(grade string) string {
	return strings.ToUpper(strings.Join(strings.Fields(grade), " "))
}

// NormalizeStream canonicalises stream labels, e.g. "east" -> "EAST"
func NormalizeStream(stream string) string {
	return strings.ToUpper(strings.TrimSpace(stream))
}

func normalizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	// Casers are stateful, so one is built per call.
	return cases.Title(language.English).String(strings.ToLower(name))
}

// Filter narrows learner queries
type Filter struct {
	shared.Filter
	Grade  string
	Stream string
	Status *Status
	IDs    []uuid.UUID
}
