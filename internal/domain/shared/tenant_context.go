package shared

import (
	"context"

	"github.com/google/uuid"
)

// TenantContext identifies the school (and optionally branch) a caller acts for.
// It is passed explicitly into every repository call.
type TenantContext struct {
	SchoolID uuid.UUID
	BranchID *uuid.UUID
	UserID   *uuid.UUID
	Role     string
}

// NewTenantContext builds a school-wide context
func NewTenantContext(schoolID uuid.UUID, role string) TenantContext {
	return TenantContext{SchoolID: schoolID, Role: role}
}

// WithBranch returns a copy scoped to the given branch
func (tc TenantContext) WithBranch(branchID uuid.UUID) TenantContext {
	tc.BranchID = &branchID
	return tc
}

// WithUser returns a copy carrying the acting user
func (tc TenantContext) WithUser(userID uuid.UUID) TenantContext {
	tc.UserID = &userID
	return tc
}

// Validate rejects contexts without a school
func (tc TenantContext) Validate() error {
	if tc.SchoolID == uuid.Nil {
		return NewDomainError(ErrForbidden.Code, "Tenant context is required")
	}
	return nil
}

// HasBranch reports whether the context is restricted to a single branch
func (tc TenantContext) HasBranch() bool {
	return tc.BranchID != nil && *tc.BranchID != uuid.Nil
}

// CanAccess reports whether a record owned by schoolID/branchID is visible.
// School-wide records (nil branch) are visible to every branch of the school.
func (tc TenantContext) CanAccess(schoolID uuid.UUID, branchID *uuid.UUID) bool {
	if tc.SchoolID == uuid.Nil || tc.SchoolID != schoolID {
		return false
	}
	if !tc.HasBranch() || branchID == nil {
		return true
	}
	return *tc.BranchID == *branchID
}

// ActorID returns the acting user or uuid.Nil
func (tc TenantContext) ActorID() uuid.UUID {
	if tc.UserID == nil {
		return uuid.Nil
	}
	return *tc.UserID
}

type tenantContextKey struct{}

// ContextWithTenant stores the tenant context on ctx
func ContextWithTenant(ctx context.Context, tc TenantContext) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tc)
}

// TenantFromContext reads a tenant context stored by ContextWithTenant
func TenantFromContext(ctx context.Context) (TenantContext, bool) {
	tc, ok := ctx.Value(tenantContextKey{}).(TenantContext)
	return tc, ok
}
