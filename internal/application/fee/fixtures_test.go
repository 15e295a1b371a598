package fee

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/identity"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var dueDate = time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)

func testTenant() shared.TenantContext {
	return shared.NewTenantContext(uuid.New(), "BURSAR").WithUser(uuid.New())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newSchool(t *testing.T, tc shared.TenantContext) *identity.School {
	t.Helper()
	s, err := identity.NewSchool("greenhill", "Greenhill Academy", valueobject.KES)
	require.NoError(t, err)
	s.ID = tc.SchoolID
	s.ClearDomainEvents()
	return s
}

func newLearner(t *testing.T, tc shared.TenantContext, admission, grade string) *learner.Learner {
	t.Helper()
	l, err := learner.NewLearner(tc, admission, "amani", "otieno", learner.GenderFemale, grade, "")
	require.NoError(t, err)
	l.ClearDomainEvents()
	return l
}

func newStructure(t *testing.T, tc shared.TenantContext, grade string, amounts ...string) *fee.FeeStructure {
	t.Helper()
	fs, err := fee.NewFeeStructure(tc, grade+" Term 1", grade, 1, 2025)
	require.NoError(t, err)
	for _, a := range amounts {
		require.NoError(t, fs.AddItem(uuid.New(), dec(a), true))
	}
	return fs
}

func newInvoice(t *testing.T, tc shared.TenantContext, l *learner.Learner, fs *fee.FeeStructure, seq int64) *fee.FeeInvoice {
	t.Helper()
	inv, err := fee.NewFeeInvoice(tc, l, fs, 1, 2025, dueDate, valueobject.KES)
	require.NoError(t, err)
	inv.AssignNumber(fee.FormatDocumentNumber(fee.DocumentInvoice, 2025, seq))
	inv.ClearDomainEvents()
	return inv
}

func eventTypes(events []shared.DomainEvent) []string {
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType()
	}
	return types
}
