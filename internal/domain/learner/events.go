package learner

import "github.com/schoolms/backend/internal/domain/shared"

// AggregateTypeLearner is the aggregate type for learners
const AggregateTypeLearner = "Learner"

// Learner domain event types
const (
	EventTypeLearnerEnrolled      = "LearnerEnrolled"
	EventTypeLearnerStatusChanged = "LearnerStatusChanged"
)

// LearnerEnrolledEvent is published when a learner is enrolled
type LearnerEnrolledEvent struct {
	shared.BaseDomainEvent
	AdmissionNumber string `json:"admission_number"`
	Grade           string `json:"grade"`
}

// NewLearnerEnrolledEvent creates a new LearnerEnrolledEvent
func NewLearnerEnrolledEvent(l *Learner) *LearnerEnrolledEvent {
	return &LearnerEnrolledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLearnerEnrolled, AggregateTypeLearner, l.ID, l.SchoolID),
		AdmissionNumber: l.AdmissionNumber,
		Grade:           l.Grade,
	}
}

// LearnerStatusChangedEvent is published when enrolment status changes
type LearnerStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus Status `json:"old_status"`
	NewStatus Status `json:"new_status"`
}

// NewLearnerStatusChangedEvent creates a new LearnerStatusChangedEvent
func NewLearnerStatusChangedEvent(l *Learner, old Status) *LearnerStatusChangedEvent {
	return &LearnerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLearnerStatusChanged, AggregateTypeLearner, l.ID, l.SchoolID),
		OldStatus:       old,
		NewStatus:       l.Status,
	}
}
