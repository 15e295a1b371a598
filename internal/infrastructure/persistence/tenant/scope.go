// Package tenant provides school and branch scoping for GORM queries.
//
// Every repository query is narrowed with the caller's TenantContext:
//
//	db.WithContext(ctx).Scopes(tenant.Scope(tc)).Find(&learners)
//	// WHERE school_id = ? AND (branch_id IS NULL OR branch_id = ?)
//
// Records with no branch belong to the whole school and stay visible to every branch.
package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ErrSchoolRequired is returned when a query is issued without a school
var ErrSchoolRequired = errors.New("school_id is required but not present in tenant context")

// SchoolScope restricts rows to one school
func SchoolScope(schoolID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return QualifiedSchoolScope("", schoolID)
}

// QualifiedSchoolScope restricts rows of the given table (or alias) to one school
func QualifiedSchoolScope(table string, schoolID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if schoolID == uuid.Nil {
			_ = db.AddError(ErrSchoolRequired)
			return db
		}
		return db.Where(column(table, "school_id")+" = ?", schoolID)
	}
}

// Scope restricts rows to the context's school and, when branch-scoped, to
// school-wide rows plus rows pinned to that branch.
func Scope(tc shared.TenantContext) func(db *gorm.DB) *gorm.DB {
	return QualifiedScope("", tc)
}

// QualifiedScope is Scope for queries that join several tenant tables
func QualifiedScope(table string, tc shared.TenantContext) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = QualifiedSchoolScope(table, tc.SchoolID)(db)
		if tc.HasBranch() {
			branch := column(table, "branch_id")
			db = db.Where("("+branch+" IS NULL OR "+branch+" = ?)", *tc.BranchID)
		}
		return db
	}
}

func column(table, name string) string {
	if table == "" {
		return name
	}
	return table + "." + name
}

// TenantDB wraps GORM DB with scoping from a TenantContext
type TenantDB struct {
	db *gorm.DB
}

// NewTenantDB creates a new TenantDB
func NewTenantDB(db *gorm.DB) *TenantDB {
	return &TenantDB{db: db}
}

// DB returns the underlying GORM DB without tenant scoping.
// Use only for lookups that precede a tenant context, such as login.
func (t *TenantDB) DB() *gorm.DB {
	return t.db
}

// WithContext returns a GORM DB scoped to the tenant stored on ctx.
// Without a tenant on ctx the returned DB errors on execution.
func (t *TenantDB) WithContext(ctx context.Context) *gorm.DB {
	tc, ok := shared.TenantFromContext(ctx)
	if !ok {
		db := t.db.WithContext(ctx)
		_ = db.AddError(ErrSchoolRequired)
		return db
	}
	return t.ForTenant(ctx, tc)
}

// ForTenant returns a GORM DB scoped to tc
func (t *TenantDB) ForTenant(ctx context.Context, tc shared.TenantContext) *gorm.DB {
	return t.db.WithContext(ctx).Scopes(Scope(tc))
}

// Transaction executes fn in a transaction; tx is not pre-scoped because
// inserts inside fn carry their own school_id.
func (t *TenantDB) Transaction(ctx context.Context, tc shared.TenantContext, fn func(tx *gorm.DB) error) error {
	if tc.SchoolID == uuid.Nil {
		return ErrSchoolRequired
	}
	return t.db.WithContext(ctx).Transaction(fn)
}
