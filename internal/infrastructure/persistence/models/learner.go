package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/learner"
)

// LearnerModel is the persistence model for the Learner aggregate
type LearnerModel struct {
	AggregateModel
	SchoolID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_learner_school_admission,priority:1;index:idx_learner_school_grade,priority:1"`
	BranchID        *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedBy       *uuid.UUID     `gorm:"type:uuid"`
	AdmissionNumber string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_learner_school_admission,priority:2"`
	FirstName       string         `gorm:"type:varchar(100);not null"`
	LastName        string         `gorm:"type:varchar(100);not null"`
	Gender          learner.Gender `gorm:"type:varchar(10);not null"`
	Grade           string         `gorm:"type:varchar(50);not null;index:idx_learner_school_grade,priority:2"`
	Stream          string         `gorm:"type:varchar(50)"`
	Status          learner.Status `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	GuardianPhone   string         `gorm:"type:varchar(30)"`
	EnrolledAt      time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LearnerModel) TableName() string {
	return "learners"
}

// ToDomain converts the persistence model to a domain Learner
func (m *LearnerModel) ToDomain() *learner.Learner {
	return &learner.Learner{
		TenantAggregateRoot: tenantRoot(m.AggregateModel, m.SchoolID, m.BranchID, m.CreatedBy),
		AdmissionNumber:     m.AdmissionNumber,
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		Gender:              m.Gender,
		Grade:               m.Grade,
		Stream:              m.Stream,
		Status:              m.Status,
		GuardianPhone:       m.GuardianPhone,
		EnrolledAt:          m.EnrolledAt,
	}
}

// LearnerModelFromDomain creates a persistence model from a domain Learner
func LearnerModelFromDomain(l *learner.Learner) *LearnerModel {
	m := &LearnerModel{
		SchoolID:        l.SchoolID,
		BranchID:        l.BranchID,
		CreatedBy:       l.CreatedBy,
		AdmissionNumber: l.AdmissionNumber,
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		Gender:          l.Gender,
		Grade:           l.Grade,
		Stream:          l.Stream,
		Status:          l.Status,
		GuardianPhone:   l.GuardianPhone,
		EnrolledAt:      l.EnrolledAt,
	}
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	return m
}

// AttendanceModel is the persistence model for one learner's attendance on one day
type AttendanceModel struct {
	BaseModel
	SchoolID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	BranchID   *uuid.UUID               `gorm:"type:uuid;index"`
	LearnerID  uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_learner_date,priority:1"`
	Date       time.Time                `gorm:"type:date;not null;uniqueIndex:idx_attendance_learner_date,priority:2;index"`
	Status     learner.AttendanceStatus `gorm:"type:varchar(10);not null"`
	Remarks    string                   `gorm:"type:varchar(500)"`
	RecordedBy *uuid.UUID               `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (AttendanceModel) TableName() string {
	return "attendance_records"
}

// ToDomain converts the persistence model to a domain AttendanceRecord
func (m *AttendanceModel) ToDomain() *learner.AttendanceRecord {
	return &learner.AttendanceRecord{
		BaseEntity: m.BaseModel.ToDomain(),
		SchoolID:   m.SchoolID,
		BranchID:   m.BranchID,
		LearnerID:  m.LearnerID,
		Date:       m.Date,
		Status:     m.Status,
		Remarks:    m.Remarks,
		RecordedBy: m.RecordedBy,
	}
}

// AttendanceModelFromDomain creates a persistence model from a domain AttendanceRecord
func AttendanceModelFromDomain(a *learner.AttendanceRecord) *AttendanceModel {
	m := &AttendanceModel{
		SchoolID:   a.SchoolID,
		BranchID:   a.BranchID,
		LearnerID:  a.LearnerID,
		Date:       a.Date,
		Status:     a.Status,
		Remarks:    a.Remarks,
		RecordedBy: a.RecordedBy,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}
