package fee

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/identity"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/logger"
	"github.com/schoolms/backend/internal/infrastructure/printing"
	"github.com/schoolms/backend/internal/infrastructure/storage"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const defaultReceiptLinkExpiry = 15 * time.Minute

// systemRole is the role of tenant contexts built for background work
const systemRole = "SYSTEM"

// ReceiptService renders payment receipts to PDF and serves them from object storage
type ReceiptService struct {
	payments   fee.PaymentRepository
	invoices   fee.InvoiceRepository
	learners   learner.LearnerRepository
	schools    identity.SchoolRepository
	users      identity.UserRepository
	renderer   printing.PDFRenderer
	storage    storage.ObjectStorage
	linkExpiry time.Duration
	metrics    *telemetry.BusinessMetrics
	logger     *zap.Logger
}

// ReceiptServiceOption configures a ReceiptService
type ReceiptServiceOption func(*ReceiptService)

// WithReceiptLinkExpiry sets how long download links stay valid
func WithReceiptLinkExpiry(d time.Duration) ReceiptServiceOption {
	return func(s *ReceiptService) {
		if d > 0 {
			s.linkExpiry = d
		}
	}
}

// WithReceiptMetrics records render outcomes
func WithReceiptMetrics(m *telemetry.BusinessMetrics) ReceiptServiceOption {
	return func(s *ReceiptService) {
		s.metrics = m
	}
}

// WithReceiptLogger sets the base logger
func WithReceiptLogger(l *zap.Logger) ReceiptServiceOption {
	return func(s *ReceiptService) {
		s.logger = l
	}
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	payments fee.PaymentRepository,
	invoices fee.InvoiceRepository,
	learners learner.LearnerRepository,
	schools identity.SchoolRepository,
	users identity.UserRepository,
	renderer printing.PDFRenderer,
	store storage.ObjectStorage,
	opts ...ReceiptServiceOption,
) *ReceiptService {
	s := &ReceiptService{
		payments:   payments,
		invoices:   invoices,
		learners:   learners,
		schools:    schools,
		users:      users,
		renderer:   renderer,
		storage:    store,
		linkExpiry: defaultReceiptLinkExpiry,
		metrics:    telemetry.NewNoopBusinessMetrics(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Download returns a time-limited link to the receipt PDF, rendering it
// first if it has not been stored yet.
func (s *ReceiptService) Download(ctx context.Context, tc shared.TenantContext, paymentID uuid.UUID) (*ReceiptResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "receipt", "download",
		telemetry.SchoolAttr(tc.SchoolID), telemetry.IDAttr("payment.id", paymentID))
	defer span.End()

	if err := tc.Validate(); err != nil {
		return nil, err
	}
	p, err := s.payments.FindByID(ctx, tc, paymentID)
	if err != nil {
		return nil, err
	}
	key, err := s.ensureRendered(ctx, tc, p)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.linkExpiry)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	return &ReceiptResponse{
		PaymentID:     p.ID,
		ReceiptNumber: p.ReceiptNumber,
		URL:           url,
		ExpiresAt:     expiresAt,
	}, nil
}

// HTML renders the receipt as an HTML page. It works when PDF printing is disabled.
func (s *ReceiptService) HTML(ctx context.Context, tc shared.TenantContext, paymentID uuid.UUID) (string, error) {
	if err := tc.Validate(); err != nil {
		return "", err
	}
	p, err := s.payments.FindByID(ctx, tc, paymentID)
	if err != nil {
		return "", err
	}
	data, err := s.receiptData(ctx, tc, p)
	if err != nil {
		return "", err
	}
	return printing.ReceiptHTML(*data)
}

// Prerender renders and stores the receipt of a freshly recorded payment
func (s *ReceiptService) Prerender(ctx context.Context, schoolID, paymentID uuid.UUID) error {
	tc := shared.NewTenantContext(schoolID, systemRole)
	p, err := s.payments.FindByID(ctx, tc, paymentID)
	if err != nil {
		return err
	}
	_, err = s.ensureRendered(ctx, tc, p)
	return err
}

func (s *ReceiptService) ensureRendered(ctx context.Context, tc shared.TenantContext, p *fee.FeePayment) (string, error) {
	if p.ReceiptKey != "" {
		exists, err := s.storage.ObjectExists(ctx, p.ReceiptKey)
		if err != nil {
			return "", err
		}
		if exists {
			return p.ReceiptKey, nil
		}
	}

	data, err := s.receiptData(ctx, tc, p)
	if err != nil {
		return "", err
	}
	pdf, err := printing.RenderReceipt(ctx, s.renderer, *data)
	if err != nil {
		s.metrics.ReceiptRendered(ctx, p.SchoolID, false)
		return "", err
	}
	s.metrics.ReceiptRendered(ctx, p.SchoolID, true)

	key := storage.ReceiptKey(p.SchoolID, p.ReceiptNumber)
	if err := s.storage.Upload(ctx, key, pdf, storage.ContentTypePDF); err != nil {
		return "", err
	}
	if err := s.payments.SetReceiptKey(ctx, p.SchoolID, p.ID, key); err != nil {
		return "", err
	}
	p.ReceiptKey = key
	logger.Enrich(ctx, s.logger).Debug("Receipt stored",
		zap.String("receipt_number", p.ReceiptNumber), zap.Int("bytes", len(pdf)))
	return key, nil
}

// receiptData assembles what the receipt prints. The balance shown is the
// balance right after this payment, not the invoice's current balance.
func (s *ReceiptService) receiptData(ctx context.Context, tc shared.TenantContext, p *fee.FeePayment) (*printing.ReceiptData, error) {
	inv, err := s.invoices.FindByID(ctx, tc, p.InvoiceID)
	if err != nil {
		return nil, err
	}
	l, err := s.learners.FindByID(ctx, tc, p.LearnerID)
	if err != nil {
		return nil, err
	}
	school, err := s.schools.FindByID(ctx, p.SchoolID)
	if err != nil {
		return nil, err
	}
	history, err := s.payments.FindByInvoice(ctx, tc, p.InvoiceID)
	if err != nil {
		return nil, err
	}

	paid := decimal.Zero
	for _, h := range history {
		paid = paid.Add(h.Amount)
		if h.ID == p.ID {
			break
		}
	}
	balance := inv.TotalAmount.Sub(paid)

	data := &printing.ReceiptData{
		SchoolName:      school.Name,
		ReceiptNumber:   p.ReceiptNumber,
		InvoiceNumber:   inv.InvoiceNumber,
		LearnerName:     l.FullName(),
		AdmissionNumber: l.AdmissionNumber,
		Grade:           inv.Grade,
		Currency:        string(inv.Currency),
		Amount:          p.Amount,
		Method:          string(p.Method),
		Reference:       p.Reference,
		PaidAt:          p.PaidAt,
		InvoiceTotal:    inv.TotalAmount,
		TotalPaid:       paid,
		BalanceAfter:    balance,
		Status:          statusAfter(balance, paid).String(),
	}
	if p.BranchID != nil {
		if branch, err := s.schools.FindBranch(ctx, p.SchoolID, *p.BranchID); err == nil {
			data.BranchName = branch.Name
		}
	}
	if p.RecordedBy != nil && s.users != nil {
		user, err := s.users.FindByID(ctx, tc, *p.RecordedBy)
		switch {
		case err == nil:
			data.RecordedBy = user.DisplayName
			if data.RecordedBy == "" {
				data.RecordedBy = user.Username
			}
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
	}
	return data, nil
}

func statusAfter(balance, paid decimal.Decimal) fee.InvoiceStatus {
	switch {
	case balance.IsNegative():
		return fee.InvoiceStatusOverpaid
	case balance.IsZero():
		return fee.InvoiceStatusPaid
	case paid.IsPositive():
		return fee.InvoiceStatusPartial
	}
	return fee.InvoiceStatusPending
}

// ReceiptPrerenderHandler renders receipts in the background as payments are recorded
type ReceiptPrerenderHandler struct {
	receipts *ReceiptService
	logger   *zap.Logger
}

// NewReceiptPrerenderHandler creates a new ReceiptPrerenderHandler
func NewReceiptPrerenderHandler(receipts *ReceiptService, logger *zap.Logger) *ReceiptPrerenderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptPrerenderHandler{receipts: receipts, logger: logger}
}

// EventTypes returns the events this handler consumes
func (h *ReceiptPrerenderHandler) EventTypes() []string {
	return []string{fee.EventTypePaymentRecorded}
}

// Async keeps rendering off the request path
func (h *ReceiptPrerenderHandler) Async() bool {
	return true
}

// Handle renders the receipt of a PaymentRecorded event. A disabled
// renderer is not an error; the receipt can still be viewed as HTML.
func (h *ReceiptPrerenderHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*fee.PaymentRecordedEvent)
	if !ok {
		return nil
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "receipt", "prerender",
		telemetry.SchoolAttr(e.SchoolID()), attribute.String(telemetry.AttrReceiptNumber, e.ReceiptNumber))
	defer span.End()

	err := h.receipts.Prerender(ctx, e.SchoolID(), e.PaymentID)
	if errors.Is(err, shared.ErrFeatureDisabled) {
		return nil
	}
	if err != nil {
		telemetry.RecordError(span, err)
		h.logger.Warn("Failed to prerender receipt",
			zap.String("receipt_number", e.ReceiptNumber), zap.Error(err))
		return err
	}
	telemetry.SetOK(span)
	return nil
}

var _ shared.EventHandler = (*ReceiptPrerenderHandler)(nil)
