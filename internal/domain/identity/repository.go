package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
)

// SchoolRepository persists schools and their branches
type SchoolRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*School, error)
	FindByCode(ctx context.Context, code string) (*School, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, school *School) error
	// Register inserts a new school together with its first administrator
	Register(ctx context.Context, school *School, admin *User) error

	SaveBranch(ctx context.Context, branch *Branch) error
	FindBranches(ctx context.Context, schoolID uuid.UUID) ([]Branch, error)
	FindBranch(ctx context.Context, schoolID, branchID uuid.UUID) (*Branch, error)
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	shared.Filter
	Role   *Role
	Status *UserStatus
}

// UserRepository persists users. Every lookup except FindByUsername is tenant-scoped.
type UserRepository interface {
	FindByID(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*User, error)
	// FindByUsername resolves a login within a school before any tenant context exists
	FindByUsername(ctx context.Context, schoolID uuid.UUID, username string) (*User, error)
	FindAll(ctx context.Context, tc shared.TenantContext, filter UserFilter) ([]User, int64, error)
	ExistsByUsername(ctx context.Context, schoolID uuid.UUID, username string) (bool, error)
	Save(ctx context.Context, user *User) error
}
