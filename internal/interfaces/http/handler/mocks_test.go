package handler

import (
	"context"
	"io"

	"github.com/google/uuid"
	feeapp "github.com/schoolms/backend/internal/application/fee"
	gradingapp "github.com/schoolms/backend/internal/application/grading"
	identityapp "github.com/schoolms/backend/internal/application/identity"
	learnerapp "github.com/schoolms/backend/internal/application/learner"
	reportapp "github.com/schoolms/backend/internal/application/report"
	"github.com/schoolms/backend/internal/domain/report"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.LoginResult), args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*identityapp.RefreshTokenResult, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.RefreshTokenResult), args.Error(1)
}

func (m *mockAuthService) Me(ctx context.Context, tc shared.TenantContext) (*identityapp.UserInfo, error) {
	args := m.Called(ctx, tc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.UserInfo), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, input identityapp.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

type mockLearnerService struct{ mock.Mock }

func (m *mockLearnerService) Create(ctx context.Context, tc shared.TenantContext, input learnerapp.CreateLearnerInput) (*learnerapp.LearnerResponse, error) {
	args := m.Called(ctx, tc, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*learnerapp.LearnerResponse), args.Error(1)
}

func (m *mockLearnerService) Get(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*learnerapp.LearnerResponse, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*learnerapp.LearnerResponse), args.Error(1)
}

func (m *mockLearnerService) List(ctx context.Context, tc shared.TenantContext, filter learnerapp.LearnerListFilter) (*shared.Paginated[learnerapp.LearnerResponse], error) {
	args := m.Called(ctx, tc, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[learnerapp.LearnerResponse]), args.Error(1)
}

func (m *mockLearnerService) Update(ctx context.Context, tc shared.TenantContext, id uuid.UUID, input learnerapp.UpdateLearnerInput) (*learnerapp.LearnerResponse, error) {
	args := m.Called(ctx, tc, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*learnerapp.LearnerResponse), args.Error(1)
}

func (m *mockLearnerService) ChangeStatus(ctx context.Context, tc shared.TenantContext, id uuid.UUID, status string) (*learnerapp.LearnerResponse, error) {
	args := m.Called(ctx, tc, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*learnerapp.LearnerResponse), args.Error(1)
}

func (m *mockLearnerService) Import(ctx context.Context, tc shared.TenantContext, r io.Reader, opts learnerapp.ImportOptions) (*learnerapp.ImportResult, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, tc, string(body), opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*learnerapp.ImportResult), args.Error(1)
}

type mockAttendanceService struct{ mock.Mock }

func (m *mockAttendanceService) Mark(ctx context.Context, tc shared.TenantContext, input learnerapp.MarkAttendanceInput) (*learnerapp.MarkAttendanceResult, error) {
	args := m.Called(ctx, tc, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*learnerapp.MarkAttendanceResult), args.Error(1)
}

func (m *mockAttendanceService) List(ctx context.Context, tc shared.TenantContext, filter learnerapp.AttendanceListFilter) (*shared.Paginated[learnerapp.AttendanceResponse], error) {
	args := m.Called(ctx, tc, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[learnerapp.AttendanceResponse]), args.Error(1)
}

type mockInvoiceService struct{ mock.Mock }

func (m *mockInvoiceService) Create(ctx context.Context, tc shared.TenantContext, input feeapp.CreateInvoiceInput) (*feeapp.InvoiceResponse, error) {
	args := m.Called(ctx, tc, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.InvoiceResponse), args.Error(1)
}

func (m *mockInvoiceService) BulkGenerate(ctx context.Context, tc shared.TenantContext, input feeapp.BulkGenerateInput) (*feeapp.BulkGenerateResult, error) {
	args := m.Called(ctx, tc, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.BulkGenerateResult), args.Error(1)
}

func (m *mockInvoiceService) Get(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*feeapp.InvoiceDetailResponse, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.InvoiceDetailResponse), args.Error(1)
}

func (m *mockInvoiceService) List(ctx context.Context, tc shared.TenantContext, filter feeapp.InvoiceListFilter) (*shared.Paginated[feeapp.InvoiceResponse], error) {
	args := m.Called(ctx, tc, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[feeapp.InvoiceResponse]), args.Error(1)
}

func (m *mockInvoiceService) Waive(ctx context.Context, tc shared.TenantContext, id uuid.UUID, input feeapp.WaiveInvoiceInput) (*feeapp.InvoiceResponse, error) {
	args := m.Called(ctx, tc, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.InvoiceResponse), args.Error(1)
}

func (m *mockInvoiceService) LearnerStatement(ctx context.Context, tc shared.TenantContext, learnerID uuid.UUID) (*feeapp.StatementResponse, error) {
	args := m.Called(ctx, tc, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.StatementResponse), args.Error(1)
}

type mockPaymentService struct{ mock.Mock }

func (m *mockPaymentService) Record(ctx context.Context, tc shared.TenantContext, invoiceID uuid.UUID, input feeapp.RecordPaymentInput) (*feeapp.PaymentResult, error) {
	args := m.Called(ctx, tc, invoiceID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.PaymentResult), args.Error(1)
}

func (m *mockPaymentService) Get(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*feeapp.PaymentResponse, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.PaymentResponse), args.Error(1)
}

func (m *mockPaymentService) List(ctx context.Context, tc shared.TenantContext, filter feeapp.PaymentListFilter) (*shared.Paginated[feeapp.PaymentResponse], error) {
	args := m.Called(ctx, tc, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[feeapp.PaymentResponse]), args.Error(1)
}

type mockReceiptService struct{ mock.Mock }

func (m *mockReceiptService) Download(ctx context.Context, tc shared.TenantContext, paymentID uuid.UUID) (*feeapp.ReceiptResponse, error) {
	args := m.Called(ctx, tc, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeapp.ReceiptResponse), args.Error(1)
}

func (m *mockReceiptService) HTML(ctx context.Context, tc shared.TenantContext, paymentID uuid.UUID) (string, error) {
	args := m.Called(ctx, tc, paymentID)
	return args.String(0), args.Error(1)
}

type mockScoreService struct{ mock.Mock }

func (m *mockScoreService) Record(ctx context.Context, tc shared.TenantContext, input gradingapp.RecordScoreInput) (*gradingapp.ScoreResponse, error) {
	args := m.Called(ctx, tc, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gradingapp.ScoreResponse), args.Error(1)
}

func (m *mockScoreService) List(ctx context.Context, tc shared.TenantContext, filter gradingapp.ScoreListFilter) (*shared.Paginated[gradingapp.ScoreResponse], error) {
	args := m.Called(ctx, tc, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[gradingapp.ScoreResponse]), args.Error(1)
}

func (m *mockScoreService) ComputeLearnerResult(ctx context.Context, tc shared.TenantContext, q gradingapp.ResultQuery) (*gradingapp.ResultResponse, error) {
	args := m.Called(ctx, tc, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gradingapp.ResultResponse), args.Error(1)
}

func (m *mockScoreService) ReportCard(ctx context.Context, tc shared.TenantContext, q gradingapp.ReportCardQuery) (*gradingapp.ReportCardResponse, error) {
	args := m.Called(ctx, tc, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gradingapp.ReportCardResponse), args.Error(1)
}

type mockDashboardService struct{ mock.Mock }

func (m *mockDashboardService) Overview(ctx context.Context, tc shared.TenantContext, q reportapp.Query) (*report.Overview, error) {
	args := m.Called(ctx, tc, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Overview), args.Error(1)
}

func (m *mockDashboardService) LearnerSummary(ctx context.Context, tc shared.TenantContext, q reportapp.Query) (*report.LearnerSummary, error) {
	args := m.Called(ctx, tc, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.LearnerSummary), args.Error(1)
}

func (m *mockDashboardService) AttendanceSummary(ctx context.Context, tc shared.TenantContext, q reportapp.Query) (*report.AttendanceSummary, error) {
	args := m.Called(ctx, tc, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.AttendanceSummary), args.Error(1)
}

func (m *mockDashboardService) FinanceSummary(ctx context.Context, tc shared.TenantContext, q reportapp.Query) (*report.FinanceSummary, error) {
	args := m.Called(ctx, tc, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.FinanceSummary), args.Error(1)
}

type mockExportService struct{ mock.Mock }

func (m *mockExportService) ExportFinance(ctx context.Context, tc shared.TenantContext, q reportapp.Query) (*reportapp.ExportResponse, error) {
	args := m.Called(ctx, tc, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportapp.ExportResponse), args.Error(1)
}

var (
	_ AuthService       = (*mockAuthService)(nil)
	_ LearnerService    = (*mockLearnerService)(nil)
	_ AttendanceService = (*mockAttendanceService)(nil)
	_ InvoiceService    = (*mockInvoiceService)(nil)
	_ PaymentService    = (*mockPaymentService)(nil)
	_ ReceiptService    = (*mockReceiptService)(nil)
	_ ScoreService      = (*mockScoreService)(nil)
	_ DashboardService  = (*mockDashboardService)(nil)
	_ ExportService     = (*mockExportService)(nil)
)
