package identity

import (
	"github.com/schoolms/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeSchool = "School"
	AggregateTypeUser   = "User"
)

// Identity domain event types
const (
	EventTypeSchoolRegistered    = "SchoolRegistered"
	EventTypeUserCreated         = "UserCreated"
	EventTypeUserPasswordChanged = "UserPasswordChanged"
)

// SchoolRegisteredEvent is published when a new tenant is bootstrapped
type SchoolRegisteredEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewSchoolRegisteredEvent creates a new SchoolRegisteredEvent
func NewSchoolRegisteredEvent(s *School) *SchoolRegisteredEvent {
	return &SchoolRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSchoolRegistered, AggregateTypeSchool, s.ID, s.ID),
		Code:            s.Code,
		Name:            s.Name,
	}
}

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID, u.SchoolID),
		Username:        u.Username,
		Role:            u.Role,
	}
}

// UserPasswordChangedEvent is published after a password change
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(u *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, AggregateTypeUser, u.ID, u.SchoolID),
	}
}
