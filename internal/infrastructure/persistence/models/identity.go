package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/identity"
	"github.com/schoolms/backend/internal/domain/shared/valueobject"
)

// SchoolModel is the persistence model for the School (tenant) aggregate
type SchoolModel struct {
	AggregateModel
	Code     string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string                `gorm:"type:varchar(200);not null"`
	Status   identity.SchoolStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	Currency valueobject.Currency  `gorm:"type:varchar(3);not null;default:'KES'"`
	Branches []BranchModel         `gorm:"foreignKey:SchoolID;references:ID"`
}

// TableName returns the table name for GORM
func (SchoolModel) TableName() string {
	return "schools"
}

// ToDomain converts the persistence model to a domain School
func (m *SchoolModel) ToDomain() *identity.School {
	return &identity.School{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Status:            m.Status,
		Currency:          m.Currency,
	}
}

// SchoolModelFromDomain creates a persistence model from a domain School
func SchoolModelFromDomain(s *identity.School) *SchoolModel {
	m := &SchoolModel{Code: s.Code, Name: s.Name, Status: s.Status, Currency: s.Currency}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// BranchModel is the persistence model for a school branch
type BranchModel struct {
	BaseModel
	SchoolID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_branch_school_code,priority:1"`
	Code     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_branch_school_code,priority:2"`
	Name     string    `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (BranchModel) TableName() string {
	return "branches"
}

// ToDomain converts the persistence model to a domain Branch
func (m *BranchModel) ToDomain() *identity.Branch {
	return &identity.Branch{BaseEntity: m.BaseModel.ToDomain(), SchoolID: m.SchoolID, Code: m.Code, Name: m.Name}
}

// BranchModelFromDomain creates a persistence model from a domain Branch
func BranchModelFromDomain(b *identity.Branch) *BranchModel {
	m := &BranchModel{SchoolID: b.SchoolID, Code: b.Code, Name: b.Name}
	m.FromDomainBaseEntity(b.BaseEntity)
	return m
}

// UserModel is the persistence model for the User aggregate
type UserModel struct {
	AggregateModel
	SchoolID       uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_user_school_username,priority:1"`
	BranchID       *uuid.UUID          `gorm:"type:uuid;index"`
	CreatedBy      *uuid.UUID          `gorm:"type:uuid"`
	Username       string              `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_school_username,priority:2"`
	Email          string              `gorm:"type:varchar(200)"`
	DisplayName    string              `gorm:"type:varchar(200)"`
	PasswordHash   string              `gorm:"type:varchar(255);not null"`
	Role           identity.Role       `gorm:"type:varchar(30);not null;index"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	FailedAttempts int                 `gorm:"not null;default:0"`
	LastLoginAt    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: tenantRoot(m.AggregateModel, m.SchoolID, m.BranchID, m.CreatedBy),
		Username:            m.Username,
		Email:               m.Email,
		DisplayName:         m.DisplayName,
		PasswordHash:        m.PasswordHash,
		Role:                m.Role,
		Status:              m.Status,
		FailedAttempts:      m.FailedAttempts,
		LastLoginAt:         m.LastLoginAt,
	}
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:       u.Username,
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		PasswordHash:   u.PasswordHash,
		Role:           u.Role,
		Status:         u.Status,
		FailedAttempts: u.FailedAttempts,
		LastLoginAt:    u.LastLoginAt,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.SchoolID, m.BranchID, m.CreatedBy = u.SchoolID, u.BranchID, u.CreatedBy
	return m
}
