package fee

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/identity"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/domain/shared/valueobject"
	"github.com/schoolms/backend/internal/infrastructure/logger"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// InvoiceService bills learners and manages the invoice ledger
type InvoiceService struct {
	invoices   fee.InvoiceRepository
	payments   fee.PaymentRepository
	structures fee.FeeStructureRepository
	learners   learner.LearnerRepository
	schools    identity.SchoolRepository
	publisher  shared.EventPublisher
	metrics    *telemetry.BusinessMetrics
	logger     *zap.Logger
	now        func() time.Time
}

// InvoiceServiceOption configures an InvoiceService
type InvoiceServiceOption func(*InvoiceService)

// WithInvoiceEventPublisher publishes invoice events after commit
func WithInvoiceEventPublisher(p shared.EventPublisher) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.publisher = p
	}
}

// WithInvoiceMetrics records invoicing metrics
func WithInvoiceMetrics(m *telemetry.BusinessMetrics) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.metrics = m
	}
}

// WithInvoiceLogger sets the base logger
func WithInvoiceLogger(l *zap.Logger) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.logger = l
	}
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoices fee.InvoiceRepository,
	payments fee.PaymentRepository,
	structures fee.FeeStructureRepository,
	learners learner.LearnerRepository,
	schools identity.SchoolRepository,
	opts ...InvoiceServiceOption,
) *InvoiceService {
	s := &InvoiceService{
		invoices:   invoices,
		payments:   payments,
		structures: structures,
		learners:   learners,
		schools:    schools,
		metrics:    telemetry.NewNoopBusinessMetrics(),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create bills one learner against a fee structure for a term
func (s *InvoiceService) Create(ctx context.Context, tc shared.TenantContext, input CreateInvoiceInput) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create",
		telemetry.SchoolAttr(tc.SchoolID), telemetry.IDAttr(telemetry.AttrLearnerID, input.LearnerID))
	defer span.End()

	if err := tc.Validate(); err != nil {
		return nil, err
	}
	l, err := s.learners.FindByID(ctx, tc, input.LearnerID)
	if err != nil {
		return nil, err
	}
	fs, err := s.structures.FindByID(ctx, tc, input.FeeStructureID)
	if err != nil {
		return nil, err
	}
	currency, err := s.currency(ctx, tc)
	if err != nil {
		return nil, err
	}

	inv, err := fee.NewFeeInvoice(tc, l, fs, input.Term, input.AcademicYear, input.DueDate, currency)
	if err != nil {
		return nil, err
	}
	if tc.UserID != nil {
		inv.SetCreatedBy(*tc.UserID)
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String(telemetry.AttrInvoiceNumber, inv.InvoiceNumber))
	telemetry.SetOK(span)
	s.metrics.InvoicesCreated(ctx, tc.SchoolID, "single", 1)
	s.publish(ctx, inv)

	resp := ToInvoiceResponse(inv, s.now())
	return &resp, nil
}

// BulkGenerate bills every active learner of a grade. Learners already
// invoiced for the structure, term and year are skipped, so a run can be
// repeated safely.
func (s *InvoiceService) BulkGenerate(ctx context.Context, tc shared.TenantContext, input BulkGenerateInput) (*BulkGenerateResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "bulk_generate",
		telemetry.SchoolAttr(tc.SchoolID), telemetry.IDAttr("fee_structure.id", input.FeeStructureID))
	defer span.End()
	started := s.now()

	if err := tc.Validate(); err != nil {
		return nil, err
	}
	fs, err := s.structures.FindByID(ctx, tc, input.FeeStructureID)
	if err != nil {
		return nil, err
	}
	if err := fs.CanInvoice(); err != nil {
		return nil, err
	}
	grade := learner.NormalizeGrade(input.Grade)
	if grade == "" {
		grade = fs.Grade
	}
	if grade == "" {
		return nil, shared.NewValidationError("Grade is required when the fee structure applies to every grade")
	}
	if err := fs.AppliesTo(grade, input.Term, input.AcademicYear); err != nil {
		return nil, err
	}
	currency, err := s.currency(ctx, tc)
	if err != nil {
		return nil, err
	}

	learners, err := s.learners.FindActiveByGrade(ctx, tc, grade, learner.NormalizeStream(input.Stream))
	if err != nil {
		return nil, err
	}
	pending := make([]*fee.FeeInvoice, 0, len(learners))
	for i := range learners {
		inv, err := fee.NewFeeInvoice(tc, &learners[i], fs, input.Term, input.AcademicYear, input.DueDate, currency)
		if err != nil {
			return nil, err
		}
		if tc.UserID != nil {
			inv.SetCreatedBy(*tc.UserID)
		}
		pending = append(pending, inv)
	}

	result := &BulkGenerateResult{Grade: grade, Eligible: len(learners), InvoiceNumbers: make([]string, 0)}
	if len(pending) > 0 {
		created, skipped, err := s.invoices.CreateBatch(ctx, pending)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		result.Created = len(created)
		result.Skipped = skipped
		for _, inv := range created {
			result.InvoiceNumbers = append(result.InvoiceNumbers, inv.InvoiceNumber)
			s.publish(ctx, inv)
		}
	}

	span.SetAttributes(attribute.Int(telemetry.AttrCount, result.Created))
	telemetry.SetOK(span)
	s.metrics.InvoicesCreated(ctx, tc.SchoolID, "bulk", result.Created)
	s.metrics.BulkGenerationFinished(ctx, tc.SchoolID, s.now().Sub(started))
	logger.Enrich(ctx, s.logger).Info("Bulk invoice generation finished",
		zap.String("grade", grade),
		zap.Int("eligible", result.Eligible),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// Get returns an invoice with its payments
func (s *InvoiceService) Get(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*InvoiceDetailResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	inv, err := s.invoices.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.FindByInvoice(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	detail := &InvoiceDetailResponse{
		InvoiceResponse: ToInvoiceResponse(inv, s.now()),
		Payments:        make([]PaymentResponse, len(payments)),
	}
	for i := range payments {
		detail.Payments[i] = ToPaymentResponse(&payments[i])
	}
	return detail, nil
}

// List returns invoices, newest first
func (s *InvoiceService) List(ctx context.Context, tc shared.TenantContext, filter InvoiceListFilter) (*shared.Paginated[InvoiceResponse], error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	now := s.now()
	f := fee.InvoiceFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   strings.TrimSpace(filter.Search),
			OrderBy:  "created_at",
			OrderDir: "desc",
		},
		LearnerID:      filter.LearnerID,
		FeeStructureID: filter.FeeStructureID,
		Grade:          learner.NormalizeGrade(filter.Grade),
		Term:           filter.Term,
		AcademicYear:   filter.AcademicYear,
	}
	f.Normalize()
	if filter.Status != "" {
		status := fee.InvoiceStatus(strings.ToUpper(filter.Status))
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Invalid invoice status")
		}
		f.Status = &status
	}
	if filter.Overdue {
		f.OverdueAt = &now
	}

	invoices, total, err := s.invoices.FindAll(ctx, tc, f)
	if err != nil {
		return nil, err
	}
	items := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		items[i] = ToInvoiceResponse(&invoices[i], now)
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Waive closes an unsettled invoice without payment
func (s *InvoiceService) Waive(ctx context.Context, tc shared.TenantContext, id uuid.UUID, input WaiveInvoiceInput) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "waive",
		telemetry.SchoolAttr(tc.SchoolID), telemetry.IDAttr(telemetry.AttrInvoiceID, id))
	defer span.End()

	if err := tc.Validate(); err != nil {
		return nil, err
	}
	inv, err := s.invoices.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if err := inv.Waive(input.Reason, tc.ActorID()); err != nil {
		return nil, err
	}
	if err := s.invoices.SaveWithLock(ctx, inv); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	s.publish(ctx, inv)

	resp := ToInvoiceResponse(inv, s.now())
	return &resp, nil
}

// LearnerStatement totals a learner's invoices. Waived invoices count
// towards TotalWaived instead of the outstanding balance; negative balances
// are reported as credit.
func (s *InvoiceService) LearnerStatement(ctx context.Context, tc shared.TenantContext, learnerID uuid.UUID) (*StatementResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	l, err := s.learners.FindByID(ctx, tc, learnerID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.FindByLearner(ctx, tc, learnerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	st := &StatementResponse{
		LearnerID:        l.ID,
		AdmissionNumber:  l.AdmissionNumber,
		LearnerName:      l.FullName(),
		Grade:            l.Grade,
		Invoices:         make([]InvoiceResponse, len(invoices)),
		TotalBilled:      decimal.Zero,
		TotalPaid:        decimal.Zero,
		TotalWaived:      decimal.Zero,
		TotalOutstanding: decimal.Zero,
		Credit:           decimal.Zero,
	}
	for i := range invoices {
		inv := &invoices[i]
		st.Invoices[i] = ToInvoiceResponse(inv, now)
		st.TotalBilled = st.TotalBilled.Add(inv.TotalAmount)
		st.TotalPaid = st.TotalPaid.Add(inv.PaidAmount)
		switch {
		case inv.Status == fee.InvoiceStatusWaived:
			st.TotalWaived = st.TotalWaived.Add(inv.Balance)
		case inv.Balance.IsNegative():
			st.Credit = st.Credit.Add(inv.Balance.Abs())
		default:
			st.TotalOutstanding = st.TotalOutstanding.Add(inv.Balance)
		}
	}
	return st, nil
}

func (s *InvoiceService) currency(ctx context.Context, tc shared.TenantContext) (valueobject.Currency, error) {
	school, err := s.schools.FindByID(ctx, tc.SchoolID)
	if err != nil {
		return "", err
	}
	return school.Currency, nil
}

func (s *InvoiceService) publish(ctx context.Context, inv *fee.FeeInvoice) {
	events := inv.GetDomainEvents()
	inv.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to publish invoice events",
			zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
	}
}
