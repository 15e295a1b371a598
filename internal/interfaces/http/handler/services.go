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
)

// The interfaces below are the slices of the application services each
// handler calls. The concrete services satisfy them.

// AuthService authenticates staff accounts
type AuthService interface {
	Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*identityapp.RefreshTokenResult, error)
	Me(ctx context.Context, tc shared.TenantContext) (*identityapp.UserInfo, error)
	Logout(ctx context.Context, input identityapp.LogoutInput) error
}

// SchoolService manages the tenant and its branches
type SchoolService interface {
	Register(ctx context.Context, input identityapp.RegisterSchoolInput) (*identityapp.RegisterSchoolResult, error)
	Get(ctx context.Context, tc shared.TenantContext) (*identityapp.SchoolInfo, error)
	AddBranch(ctx context.Context, tc shared.TenantContext, input identityapp.AddBranchInput) (*identityapp.BranchInfo, error)
	ListBranches(ctx context.Context, tc shared.TenantContext) ([]identityapp.BranchInfo, error)
}

// UserService manages staff accounts
type UserService interface {
	Create(ctx context.Context, tc shared.TenantContext, input identityapp.CreateUserInput) (*identityapp.UserInfo, error)
	List(ctx context.Context, tc shared.TenantContext, filter identityapp.UserListFilter) (*shared.Paginated[identityapp.UserInfo], error)
	Get(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*identityapp.UserInfo, error)
	ChangePassword(ctx context.Context, tc shared.TenantContext, input identityapp.ChangePasswordInput) error
	Unlock(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*identityapp.UserInfo, error)
}

// LearnerService manages enrolments
type LearnerService interface {
	Create(ctx context.Context, tc shared.TenantContext, input learnerapp.CreateLearnerInput) (*learnerapp.LearnerResponse, error)
	Get(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*learnerapp.LearnerResponse, error)
	List(ctx context.Context, tc shared.TenantContext, filter learnerapp.LearnerListFilter) (*shared.Paginated[learnerapp.LearnerResponse], error)
	Update(ctx context.Context, tc shared.TenantContext, id uuid.UUID, input learnerapp.UpdateLearnerInput) (*learnerapp.LearnerResponse, error)
	ChangeStatus(ctx context.Context, tc shared.TenantContext, id uuid.UUID, status string) (*learnerapp.LearnerResponse, error)
	Import(ctx context.Context, tc shared.TenantContext, r io.Reader, opts learnerapp.ImportOptions) (*learnerapp.ImportResult, error)
}

// AttendanceService records class registers
type AttendanceService interface {
	Mark(ctx context.Context, tc shared.TenantContext, input learnerapp.MarkAttendanceInput) (*learnerapp.MarkAttendanceResult, error)
	List(ctx context.Context, tc shared.TenantContext, filter learnerapp.AttendanceListFilter) (*shared.Paginated[learnerapp.AttendanceResponse], error)
}

// FeeTypeService manages the charge catalog
type FeeTypeService interface {
	Create(ctx context.Context, tc shared.TenantContext, input feeapp.CreateFeeTypeInput) (*feeapp.FeeTypeResponse, error)
	List(ctx context.Context, tc shared.TenantContext, page, pageSize int, search string) (*shared.Paginated[feeapp.FeeTypeResponse], error)
}

// FeeStructureService manages fee structures
type FeeStructureService interface {
	Create(ctx context.Context, tc shared.TenantContext, input feeapp.CreateFeeStructureInput) (*feeapp.FeeStructureResponse, error)
	Get(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*feeapp.FeeStructureResponse, error)
	List(ctx context.Context, tc shared.TenantContext, filter feeapp.FeeStructureListFilter) (*shared.Paginated[feeapp.FeeStructureResponse], error)
	ReplaceItems(ctx context.Context, tc shared.TenantContext, id uuid.UUID, input feeapp.ReplaceItemsInput) (*feeapp.FeeStructureResponse, error)
	Archive(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*feeapp.FeeStructureResponse, error)
	Delete(ctx context.Context, tc shared.TenantContext, id uuid.UUID) error
}

// InvoiceService manages the invoice ledger
type InvoiceService interface {
	Create(ctx context.Context, tc shared.TenantContext, input feeapp.CreateInvoiceInput) (*feeapp.InvoiceResponse, error)
	BulkGenerate(ctx context.Context, tc shared.TenantContext, input feeapp.BulkGenerateInput) (*feeapp.BulkGenerateResult, error)
	Get(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*feeapp.InvoiceDetailResponse, error)
	List(ctx context.Context, tc shared.TenantContext, filter feeapp.InvoiceListFilter) (*shared.Paginated[feeapp.InvoiceResponse], error)
	Waive(ctx context.Context, tc shared.TenantContext, id uuid.UUID, input feeapp.WaiveInvoiceInput) (*feeapp.InvoiceResponse, error)
	LearnerStatement(ctx context.Context, tc shared.TenantContext, learnerID uuid.UUID) (*feeapp.StatementResponse, error)
}

// PaymentService records payments against invoices
type PaymentService interface {
	Record(ctx context.Context, tc shared.TenantContext, invoiceID uuid.UUID, input feeapp.RecordPaymentInput) (*feeapp.PaymentResult, error)
	Get(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*feeapp.PaymentResponse, error)
	List(ctx context.Context, tc shared.TenantContext, filter feeapp.PaymentListFilter) (*shared.Paginated[feeapp.PaymentResponse], error)
}

// ReceiptService serves payment receipts
type ReceiptService interface {
	Download(ctx context.Context, tc shared.TenantContext, paymentID uuid.UUID) (*feeapp.ReceiptResponse, error)
	HTML(ctx context.Context, tc shared.TenantContext, paymentID uuid.UUID) (string, error)
}

// GradingService manages grading systems
type GradingService interface {
	CreateSystem(ctx context.Context, tc shared.TenantContext, input gradingapp.CreateSystemInput) (*gradingapp.SystemResponse, error)
	GetSystem(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*gradingapp.SystemResponse, error)
	ListSystems(ctx context.Context, tc shared.TenantContext, filter gradingapp.SystemListFilter) (*shared.Paginated[gradingapp.SystemResponse], error)
	UpdateRanges(ctx context.Context, tc shared.TenantContext, id uuid.UUID, input gradingapp.UpdateRangesInput) (*gradingapp.SystemResponse, error)
	SetDefault(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*gradingapp.SystemResponse, error)
	ResolveGrade(ctx context.Context, tc shared.TenantContext, input gradingapp.ResolveGradeInput) (*gradingapp.GradeResponse, error)
}

// AggregationConfigService manages aggregation rules
type AggregationConfigService interface {
	Create(ctx context.Context, tc shared.TenantContext, input gradingapp.CreateConfigInput) (*gradingapp.ConfigResponse, error)
	List(ctx context.Context, tc shared.TenantContext) ([]gradingapp.ConfigResponse, error)
	Delete(ctx context.Context, tc shared.TenantContext, id uuid.UUID) error
	Resolve(ctx context.Context, tc shared.TenantContext, input gradingapp.ResolveConfigInput) (*gradingapp.ConfigResponse, error)
	Preview(ctx context.Context, tc shared.TenantContext, input gradingapp.PreviewInput) (*gradingapp.PreviewResponse, error)
}

// ScoreService records scores and computes results
type ScoreService interface {
	Record(ctx context.Context, tc shared.TenantContext, input gradingapp.RecordScoreInput) (*gradingapp.ScoreResponse, error)
	List(ctx context.Context, tc shared.TenantContext, filter gradingapp.ScoreListFilter) (*shared.Paginated[gradingapp.ScoreResponse], error)
	ComputeLearnerResult(ctx context.Context, tc shared.TenantContext, q gradingapp.ResultQuery) (*gradingapp.ResultResponse, error)
	ReportCard(ctx context.Context, tc shared.TenantContext, q gradingapp.ReportCardQuery) (*gradingapp.ReportCardResponse, error)
}

// DashboardService computes dashboard figures
type DashboardService interface {
	Overview(ctx context.Context, tc shared.TenantContext, q reportapp.Query) (*report.Overview, error)
	LearnerSummary(ctx context.Context, tc shared.TenantContext, q reportapp.Query) (*report.LearnerSummary, error)
	AttendanceSummary(ctx context.Context, tc shared.TenantContext, q reportapp.Query) (*report.AttendanceSummary, error)
	FinanceSummary(ctx context.Context, tc shared.TenantContext, q reportapp.Query) (*report.FinanceSummary, error)
}

// ExportService writes report exports
type ExportService interface {
	ExportFinance(ctx context.Context, tc shared.TenantContext, q reportapp.Query) (*reportapp.ExportResponse, error)
}

var (
	_ AuthService              = (*identityapp.AuthService)(nil)
	_ SchoolService            = (*identityapp.SchoolService)(nil)
	_ UserService              = (*identityapp.UserService)(nil)
	_ LearnerService           = (*learnerapp.LearnerService)(nil)
	_ AttendanceService        = (*learnerapp.AttendanceService)(nil)
	_ FeeTypeService           = (*feeapp.FeeTypeService)(nil)
	_ FeeStructureService      = (*feeapp.FeeStructureService)(nil)
	_ InvoiceService           = (*feeapp.InvoiceService)(nil)
	_ PaymentService           = (*feeapp.PaymentService)(nil)
	_ ReceiptService           = (*feeapp.ReceiptService)(nil)
	_ GradingService           = (*gradingapp.GradingService)(nil)
	_ AggregationConfigService = (*gradingapp.AggregationConfigService)(nil)
	_ ScoreService             = (*gradingapp.ScoreService)(nil)
	_ DashboardService         = (*reportapp.DashboardService)(nil)
	_ ExportService            = (*reportapp.ExportService)(nil)
)
