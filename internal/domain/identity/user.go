package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive UserStatus = "ACTIVE"
	UserStatusLocked UserStatus = "LOCKED"
)

// Password cost for bcrypt
const bcryptCost = 12

// MaxFailedAttempts locks the account after this many consecutive bad passwords
const MaxFailedAttempts = 5

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{2,49}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// User is a staff account belonging to one school
type User struct {
	shared.TenantAggregateRoot
	Username       string
	Email          string
	DisplayName    string
	PasswordHash   string
	Role           Role
	Status         UserStatus
	FailedAttempts int
	LastLoginAt    *time.Time
}

// NewUser creates an active user. branchID nil makes the user school-wide.
func NewUser(schoolID uuid.UUID, branchID *uuid.UUID, username, password string, role Role) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username must be 3-50 characters of lowercase letters, digits, '.', '_' or '-'")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	tc := shared.NewTenantContext(schoolID, role.String())
	if branchID != nil {
		tc = tc.WithBranch(*branchID)
	}

	user := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tc),
		Username:            username,
		PasswordHash:        hash,
		Role:                role,
		Status:              UserStatusActive,
	}
	user.AddDomainEvent(NewUserCreatedEvent(user))
	return user, nil
}

// SetEmail sets the user's email
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	u.Email = email
	u.Touch()
	return nil
}

// SetDisplayName sets the user's display name
func (u *User) SetDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}
	u.DisplayName = name
	u.Touch()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password after verifying the old one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserPasswordChangedEvent(u))
	return nil
}

// RecordLoginSuccess resets the failure counter
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	u.UpdatedAt = now
}

// RecordLoginFailure counts a bad password and locks the account at the limit.
// Returns true when this failure locked the account.
func (u *User) RecordLoginFailure() bool {
	u.FailedAttempts++
	u.Touch()
	if u.FailedAttempts >= MaxFailedAttempts && u.Status == UserStatusActive {
		u.Status = UserStatusLocked
		return true
	}
	return false
}

// Unlock re-enables a locked account
func (u *User) Unlock() {
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.Touch()
	u.IncrementVersion()
}

// CanLogin returns true if the account is usable
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive
}

// TenantContext builds the request context this user acts under
func (u *User) TenantContext() shared.TenantContext {
	tc := shared.NewTenantContext(u.SchoolID, u.Role.String()).WithUser(u.ID)
	if u.BranchID != nil {
		tc = tc.WithBranch(*u.BranchID)
	}
	return tc
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
