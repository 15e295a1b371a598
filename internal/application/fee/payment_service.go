package fee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/logger"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PaymentService records payments against invoices
type PaymentService struct {
	invoices       fee.InvoiceRepository
	payments       fee.PaymentRepository
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	publisher      shared.EventPublisher
	metrics        *telemetry.BusinessMetrics
	logger         *zap.Logger
}

// PaymentServiceOption configures a PaymentService
type PaymentServiceOption func(*PaymentService)

// WithIdempotencyStore deduplicates payments that carry an idempotency key
func WithIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) PaymentServiceOption {
	return func(s *PaymentService) {
		s.idempotency = store
		if ttl > 0 {
			s.idempotencyTTL = ttl
		}
	}
}

// WithPaymentEventPublisher publishes payment events after commit
func WithPaymentEventPublisher(p shared.EventPublisher) PaymentServiceOption {
	return func(s *PaymentService) {
		s.publisher = p
	}
}

// WithPaymentMetrics records payment metrics
func WithPaymentMetrics(m *telemetry.BusinessMetrics) PaymentServiceOption {
	return func(s *PaymentService) {
		s.metrics = m
	}
}

// WithPaymentLogger sets the base logger
func WithPaymentLogger(l *zap.Logger) PaymentServiceOption {
	return func(s *PaymentService) {
		s.logger = l
	}
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(invoices fee.InvoiceRepository, payments fee.PaymentRepository, opts ...PaymentServiceOption) *PaymentService {
	s := &PaymentService{
		invoices:       invoices,
		payments:       payments,
		idempotencyTTL: shared.DefaultIdempotencyTTL,
		metrics:        telemetry.NewNoopBusinessMetrics(),
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record applies a payment to an invoice. The invoice row is locked while the
// receipt number is allocated and the balance updated, so concurrent payments
// against one invoice serialise. A repeated idempotency key is rejected with
// ErrDuplicateRequest; the key is released again if the payment fails.
func (s *PaymentService) Record(ctx context.Context, tc shared.TenantContext, invoiceID uuid.UUID, input RecordPaymentInput) (*PaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "record",
		telemetry.SchoolAttr(tc.SchoolID),
		telemetry.IDAttr(telemetry.AttrInvoiceID, invoiceID),
		attribute.String(telemetry.AttrPaymentMethod, strings.ToUpper(input.Method)),
	)
	defer span.End()
	log := logger.Enrich(ctx, s.logger)

	if err := tc.Validate(); err != nil {
		return nil, err
	}
	in := fee.PaymentInput{
		Amount:    input.Amount,
		Method:    fee.PaymentMethod(strings.ToUpper(strings.TrimSpace(input.Method))),
		Reference: input.Reference,
		Notes:     input.Notes,
	}
	if input.PaidAt != nil {
		in.PaidAt = *input.PaidAt
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	claimKey, err := s.claim(ctx, tc, input.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	if in.PaidAt.IsZero() {
		in.PaidAt = time.Now()
	}
	inv, payment, err := s.invoices.ApplyPayment(ctx, tc, invoiceID, func(inv *fee.FeeInvoice, receiptNumber string) (*fee.FeePayment, error) {
		p, err := fee.NewFeePayment(tc, inv, receiptNumber, in)
		if err != nil {
			return nil, err
		}
		if err := inv.ApplyPayment(p); err != nil {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.release(ctx, claimKey)
		return nil, err
	}

	span.SetAttributes(attribute.String(telemetry.AttrReceiptNumber, payment.ReceiptNumber))
	telemetry.SetOK(span)
	s.metrics.PaymentRecorded(ctx, tc.SchoolID, string(payment.Method), payment.Amount)
	log.Info("Payment recorded",
		zap.String("receipt_number", payment.ReceiptNumber),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("status", inv.Status.String()),
	)

	events := inv.GetDomainEvents()
	inv.ClearDomainEvents()
	if s.publisher != nil && len(events) > 0 {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			log.Warn("Failed to publish payment events", zap.String("receipt_number", payment.ReceiptNumber), zap.Error(err))
		}
	}

	return &PaymentResult{
		Payment: ToPaymentResponse(payment),
		Invoice: ToInvoiceResponse(inv, time.Now()),
	}, nil
}

// Get returns one payment
func (s *PaymentService) Get(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*PaymentResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	p, err := s.payments.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// List returns payments, most recent first
func (s *PaymentService) List(ctx context.Context, tc shared.TenantContext, filter PaymentListFilter) (*shared.Paginated[PaymentResponse], error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if filter.FromDate != nil && filter.ToDate != nil && filter.ToDate.Before(*filter.FromDate) {
		return nil, shared.NewValidationError("to_date must not be before from_date")
	}
	f := fee.PaymentFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   strings.TrimSpace(filter.Search),
			OrderBy:  "paid_at",
			OrderDir: "desc",
		},
		InvoiceID: filter.InvoiceID,
		LearnerID: filter.LearnerID,
		FromDate:  filter.FromDate,
		ToDate:    filter.ToDate,
	}
	f.Normalize()
	if filter.Method != "" {
		method := fee.PaymentMethod(strings.ToUpper(filter.Method))
		if !method.IsValid() {
			return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
		}
		f.Method = &method
	}

	payments, total, err := s.payments.FindAll(ctx, tc, f)
	if err != nil {
		return nil, err
	}
	items := make([]PaymentResponse, len(payments))
	for i := range payments {
		items[i] = ToPaymentResponse(&payments[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// claim returns the store key for an idempotency key, or "" when the request carries none
func (s *PaymentService) claim(ctx context.Context, tc shared.TenantContext, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || s.idempotency == nil {
		return "", nil
	}
	if len(key) > 255 {
		return "", shared.NewDomainError("INVALID_IDEMPOTENCY_KEY", "Idempotency key cannot exceed 255 characters")
	}
	claimKey := fmt.Sprintf("payment:%s:%s", tc.SchoolID, key)
	ok, err := s.idempotency.MarkProcessed(ctx, claimKey, s.idempotencyTTL)
	if err != nil {
		return "", fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	if !ok {
		s.metrics.DuplicateRequest(ctx, tc.SchoolID)
		return "", shared.ErrDuplicateRequest
	}
	return claimKey, nil
}

func (s *PaymentService) release(ctx context.Context, claimKey string) {
	if claimKey == "" {
		return
	}
	// the request context may already be cancelled
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.idempotency.Release(releaseCtx, claimKey); err != nil && !errors.Is(err, context.Canceled) {
		logger.Enrich(ctx, s.logger).Warn("Failed to release idempotency key", zap.String("key", claimKey), zap.Error(err))
	}
}
