package fee

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type invoiceFixture struct {
	invoices   *MockInvoiceRepository
	payments   *MockPaymentRepository
	structures *MockFeeStructureRepository
	learners   *MockLearnerRepository
	schools    *MockSchoolRepository
	publisher  *MockEventPublisher
	svc        *InvoiceService
}

func newInvoiceFixture() *invoiceFixture {
	f := &invoiceFixture{
		invoices:   new(MockInvoiceRepository),
		payments:   new(MockPaymentRepository),
		structures: new(MockFeeStructureRepository),
		learners:   new(MockLearnerRepository),
		schools:    new(MockSchoolRepository),
		publisher:  new(MockEventPublisher),
	}
	f.svc = NewInvoiceService(f.invoices, f.payments, f.structures, f.learners, f.schools,
		WithInvoiceEventPublisher(f.publisher))
	return f
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()
	tc := testTenant()
	l := newLearner(t, tc, "ADM-010", "Grade 4")
	fs := newStructure(t, tc, "Grade 4", "3500", "1500")

	t.Run("bills the structure total in the school currency", func(t *testing.T) {
		f := newInvoiceFixture()
		f.learners.On("FindByID", mock.Anything, tc, l.ID).Return(l, nil)
		f.structures.On("FindByID", mock.Anything, tc, fs.ID).Return(fs, nil)
		f.schools.On("FindByID", mock.Anything, tc.SchoolID).Return(newSchool(t, tc), nil)
		f.invoices.On("Create", mock.Anything, mock.AnythingOfType("*fee.FeeInvoice")).Run(func(args mock.Arguments) {
			args.Get(1).(*fee.FeeInvoice).AssignNumber("INV-2025-000001")
		}).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == fee.EventTypeFeeInvoiceCreated
		})).Return(nil)

		resp, err := f.svc.Create(ctx, tc, CreateInvoiceInput{
			LearnerID: l.ID, FeeStructureID: fs.ID, Term: 1, AcademicYear: 2025, DueDate: dueDate,
		})
		require.NoError(t, err)
		assert.Equal(t, "INV-2025-000001", resp.InvoiceNumber)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "KES", resp.Currency)
		assert.True(t, resp.TotalAmount.Equal(dec("5000")))
		assert.True(t, resp.Balance.Equal(dec("5000")))
		f.publisher.AssertExpectations(t)
	})

	t.Run("duplicate natural key is rejected", func(t *testing.T) {
		f := newInvoiceFixture()
		f.learners.On("FindByID", mock.Anything, tc, l.ID).Return(l, nil)
		f.structures.On("FindByID", mock.Anything, tc, fs.ID).Return(fs, nil)
		f.schools.On("FindByID", mock.Anything, tc.SchoolID).Return(newSchool(t, tc), nil)
		f.invoices.On("Create", mock.Anything, mock.Anything).Return(fee.ErrDuplicateInvoice)

		_, err := f.svc.Create(ctx, tc, CreateInvoiceInput{
			LearnerID: l.ID, FeeStructureID: fs.ID, Term: 1, AcademicYear: 2025, DueDate: dueDate,
		})
		assert.ErrorIs(t, err, fee.ErrDuplicateInvoice)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("structure for another year is rejected", func(t *testing.T) {
		f := newInvoiceFixture()
		f.learners.On("FindByID", mock.Anything, tc, l.ID).Return(l, nil)
		f.structures.On("FindByID", mock.Anything, tc, fs.ID).Return(fs, nil)
		f.schools.On("FindByID", mock.Anything, tc.SchoolID).Return(newSchool(t, tc), nil)

		_, err := f.svc.Create(ctx, tc, CreateInvoiceInput{
			LearnerID: l.ID, FeeStructureID: fs.ID, Term: 1, AcademicYear: 2026, DueDate: dueDate,
		})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		f.invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestInvoiceService_BulkGenerate(t *testing.T) {
	ctx := context.Background()
	tc := testTenant()
	fs := newStructure(t, tc, "Grade 5", "4000")
	learners := []learner.Learner{
		*newLearner(t, tc, "ADM-020", "Grade 5"),
		*newLearner(t, tc, "ADM-021", "Grade 5"),
		*newLearner(t, tc, "ADM-022", "Grade 5"),
	}

	f := newInvoiceFixture()
	f.structures.On("FindByID", mock.Anything, tc, fs.ID).Return(fs, nil)
	f.schools.On("FindByID", mock.Anything, tc.SchoolID).Return(newSchool(t, tc), nil)
	f.learners.On("FindActiveByGrade", mock.Anything, tc, "GRADE 5", "").Return(learners, nil)
	// the first learner was invoiced by an earlier run
	f.invoices.On("CreateBatch", mock.Anything, mock.MatchedBy(func(invs []*fee.FeeInvoice) bool {
		return len(invs) == 3
	})).Return(func(invs []*fee.FeeInvoice) ([]*fee.FeeInvoice, int) {
		created := invs[1:]
		for i, inv := range created {
			inv.AssignNumber(fmt.Sprintf("INV-2025-%06d", i+7))
		}
		return created, 1
	}, 0, nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.BulkGenerate(ctx, tc, BulkGenerateInput{
		FeeStructureID: fs.ID, Term: 1, AcademicYear: 2025, DueDate: dueDate,
	})
	require.NoError(t, err)
	assert.Equal(t, "GRADE 5", result.Grade)
	assert.Equal(t, 3, result.Eligible)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []string{"INV-2025-000007", "INV-2025-000008"}, result.InvoiceNumbers)
	f.publisher.AssertNumberOfCalls(t, "Publish", 2)
}

func TestInvoiceService_BulkGenerateNeedsGrade(t *testing.T) {
	tc := testTenant()
	fs := newStructure(t, tc, "", "1000")
	f := newInvoiceFixture()
	f.structures.On("FindByID", mock.Anything, tc, fs.ID).Return(fs, nil)

	_, err := f.svc.BulkGenerate(context.Background(), tc, BulkGenerateInput{
		FeeStructureID: fs.ID, Term: 1, AcademicYear: 2025, DueDate: dueDate,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestInvoiceService_Waive(t *testing.T) {
	ctx := context.Background()
	tc := testTenant()
	inv := newInvoice(t, tc, newLearner(t, tc, "ADM-030", "Grade 4"), newStructure(t, tc, "Grade 4", "2000"), 1)

	f := newInvoiceFixture()
	f.invoices.On("FindByID", mock.Anything, tc, inv.ID).Return(inv, nil)
	f.invoices.On("SaveWithLock", mock.Anything, inv).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == fee.EventTypeFeeInvoiceWaived
	})).Return(nil)

	resp, err := f.svc.Waive(ctx, tc, inv.ID, WaiveInvoiceInput{Reason: "bursary"})
	require.NoError(t, err)
	assert.Equal(t, "WAIVED", resp.Status)
	assert.False(t, resp.Overdue)
	assert.Equal(t, *tc.UserID, *inv.WaivedBy)

	_, err = f.svc.Waive(ctx, tc, inv.ID, WaiveInvoiceInput{Reason: "again"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.invoices.AssertNumberOfCalls(t, "SaveWithLock", 1)
}

func TestInvoiceService_ListOverdue(t *testing.T) {
	tc := testTenant()
	inv := newInvoice(t, tc, newLearner(t, tc, "ADM-040", "Grade 4"), newStructure(t, tc, "Grade 4", "2000"), 1)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	f := newInvoiceFixture()
	f.svc.now = func() time.Time { return now }
	f.invoices.On("FindAll", mock.Anything, tc, mock.MatchedBy(func(filter fee.InvoiceFilter) bool {
		return filter.OverdueAt != nil && filter.OverdueAt.Equal(now) && filter.Status == nil
	})).Return([]fee.FeeInvoice{*inv}, int64(1), nil)

	page, err := f.svc.List(context.Background(), tc, InvoiceListFilter{Overdue: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].Overdue)

	_, err = f.svc.List(context.Background(), tc, InvoiceListFilter{Status: "settled"})
	assert.Error(t, err)
}

func TestInvoiceService_LearnerStatement(t *testing.T) {
	tc := testTenant()
	l := newLearner(t, tc, "ADM-050", "Grade 4")

	partial := newInvoice(t, tc, l, newStructure(t, tc, "Grade 4", "5000"), 1)
	applyCash(t, tc, partial, "3000")
	waived := newInvoice(t, tc, l, newStructure(t, tc, "Grade 4", "1000"), 2)
	require.NoError(t, waived.Waive("hardship", uuid.Nil))
	overpaid := newInvoice(t, tc, l, newStructure(t, tc, "Grade 4", "1500"), 3)
	applyCash(t, tc, overpaid, "2000")

	f := newInvoiceFixture()
	f.learners.On("FindByID", mock.Anything, tc, l.ID).Return(l, nil)
	f.invoices.On("FindByLearner", mock.Anything, tc, l.ID).Return([]fee.FeeInvoice{*partial, *waived, *overpaid}, nil)

	st, err := f.svc.LearnerStatement(context.Background(), tc, l.ID)
	require.NoError(t, err)
	assert.Len(t, st.Invoices, 3)
	assert.True(t, st.TotalBilled.Equal(dec("7500")), st.TotalBilled.String())
	assert.True(t, st.TotalPaid.Equal(dec("5000")), st.TotalPaid.String())
	assert.True(t, st.TotalOutstanding.Equal(dec("2000")), st.TotalOutstanding.String())
	assert.True(t, st.TotalWaived.Equal(dec("1000")), st.TotalWaived.String())
	assert.True(t, st.Credit.Equal(dec("500")), st.Credit.String())
}

func applyCash(t *testing.T, tc shared.TenantContext, inv *fee.FeeInvoice, amount string) {
	t.Helper()
	p, err := fee.NewFeePayment(tc, inv, "RCP-2025-999999", fee.PaymentInput{Amount: dec(amount), Method: fee.PaymentMethodCash})
	require.NoError(t, err)
	require.NoError(t, inv.ApplyPayment(p))
	inv.ClearDomainEvents()
}
