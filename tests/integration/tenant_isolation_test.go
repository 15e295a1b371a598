package integration

import (
	"testing"
	"time"

	feeapp "github.com/schoolms/backend/internal/application/fee"
	learnerapp "github.com/schoolms/backend/internal/application/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantIsolation_OtherSchoolSeesNothing(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := t.Context()
	learners := learnerapp.NewLearnerService(persistence.NewGormLearnerRepository(tdb.DB))
	fees := newFeeServices(tdb)

	_, schoolA := tdb.CreateSchool("isolation-a")
	_, schoolB := tdb.CreateSchool("isolation-b")

	l := tdb.CreateLearner(schoolA, "ADM-1", "Grade 3")
	fs := tdb.CreateStructure(schoolA, "Grade 3", 1, 2025, 2500)
	inv, err := fees.invoices.Create(ctx, schoolA, feeapp.CreateInvoiceInput{
		LearnerID: l.ID, FeeStructureID: fs.ID, Term: 1, AcademicYear: 2025,
		DueDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// the same admission number is free in another school
	tdb.CreateLearner(schoolB, "ADM-1", "Grade 3")

	_, err = learners.Get(ctx, schoolB, l.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = fees.invoices.Get(ctx, schoolB, inv.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = fees.payments.Record(ctx, schoolB, inv.ID, feeapp.RecordPaymentInput{Method: "cash"})
	assert.Error(t, err)

	page, err := learners.List(ctx, schoolB, learnerapp.LearnerListFilter{Page: 1, PageSize: 50})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.NotEqual(t, l.ID, page.Items[0].ID)

	invoices, err := fees.invoices.List(ctx, schoolB, feeapp.InvoiceListFilter{Page: 1, PageSize: 50})
	require.NoError(t, err)
	assert.Empty(t, invoices.Items)

	got, err := fees.invoices.Get(ctx, schoolA, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceNumber, got.InvoiceNumber)
}

func TestTenantIsolation_InvoiceNumbersArePerSchool(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := t.Context()
	fees := newFeeServices(tdb)

	for _, code := range []string{"numbering-a", "numbering-b"} {
		_, tc := tdb.CreateSchool(code)
		l := tdb.CreateLearner(tc, "ADM-9", "Grade 1")
		fs := tdb.CreateStructure(tc, "Grade 1", 2, 2026, 800)
		inv, err := fees.invoices.Create(ctx, tc, feeapp.CreateInvoiceInput{
			LearnerID: l.ID, FeeStructureID: fs.ID, Term: 2, AcademicYear: 2026,
			DueDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Equal(t, "INV-2026-000001", inv.InvoiceNumber, code)
	}
}
