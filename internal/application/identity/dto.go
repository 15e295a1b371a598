package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	SchoolCode string
	Username   string
	Password   string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenResult contains the rotated token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput identifies the token to revoke
type LogoutInput struct {
	TokenJTI  string
	ExpiresIn time.Duration
}

// UserInfo is the public view of a user
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	SchoolID    uuid.UUID  `json:"school_id"`
	BranchID    *uuid.UUID `json:"branch_id,omitempty"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name,omitempty"`
	Email       string     `json:"email,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Permissions []string   `json:"permissions"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserInfo maps a user aggregate to its public view
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		SchoolID:    u.SchoolID,
		BranchID:    u.BranchID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        u.Role.String(),
		Status:      string(u.Status),
		Permissions: u.Role.Permissions(),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// CreateUserInput contains the fields of a new staff account
type CreateUserInput struct {
	BranchID    *uuid.UUID
	Username    string
	Password    string
	Email       string
	DisplayName string
	Role        string
}

// UserListFilter contains the query options for listing users
type UserListFilter struct {
	Page     int
	PageSize int
	Search   string
	Role     string
	Status   string
}

// ChangePasswordInput contains the input for a password change
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// SchoolInfo is the public view of a school
type SchoolInfo struct {
	ID       uuid.UUID    `json:"id"`
	Code     string       `json:"code"`
	Name     string       `json:"name"`
	Status   string       `json:"status"`
	Currency string       `json:"currency"`
	Branches []BranchInfo `json:"branches,omitempty"`
}

// BranchInfo is the public view of a branch
type BranchInfo struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}

func toSchoolInfo(s *identity.School, branches []identity.Branch) SchoolInfo {
	info := SchoolInfo{
		ID:       s.ID,
		Code:     s.Code,
		Name:     s.Name,
		Status:   string(s.Status),
		Currency: string(s.Currency),
	}
	for i := range branches {
		info.Branches = append(info.Branches, toBranchInfo(&branches[i]))
	}
	return info
}

func toBranchInfo(b *identity.Branch) BranchInfo {
	return BranchInfo{ID: b.ID, Code: b.Code, Name: b.Name}
}

// RegisterSchoolInput bootstraps a tenant and its first administrator
type RegisterSchoolInput struct {
	BootstrapToken string
	Code           string
	Name           string
	Currency       string
	AdminUsername  string
	AdminPassword  string
	AdminEmail     string
}

// RegisterSchoolResult contains the created school and administrator
type RegisterSchoolResult struct {
	School SchoolInfo `json:"school"`
	Admin  UserInfo   `json:"admin"`
}

// AddBranchInput contains the fields of a new branch
type AddBranchInput struct {
	Code string
	Name string
}

// RoleInfo describes a role and the permissions it grants
type RoleInfo struct {
	Code        string   `json:"code"`
	Permissions []string `json:"permissions"`
}
