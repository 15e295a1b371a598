package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const businessMeterName = "schoolms-backend/business"

// BusinessMetrics records fee ledger activity per school
type BusinessMetrics struct {
	invoicesCreated   metric.Int64Counter
	paymentsRecorded  metric.Int64Counter
	paymentAmount     metric.Float64Histogram
	bulkGeneration    metric.Float64Histogram
	receiptsRendered  metric.Int64Counter
	duplicateRequests metric.Int64Counter
}

// NewBusinessMetrics registers the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		bm  BusinessMetrics
		err error
	)
	if bm.invoicesCreated, err = meter.Int64Counter("invoices_created",
		metric.WithDescription("Fee invoices created"), metric.WithUnit("{invoice}")); err != nil {
		return nil, fmt.Errorf("invoices_created: %w", err)
	}
	if bm.paymentsRecorded, err = meter.Int64Counter("payments_recorded",
		metric.WithDescription("Fee payments recorded"), metric.WithUnit("{payment}")); err != nil {
		return nil, fmt.Errorf("payments_recorded: %w", err)
	}
	if bm.paymentAmount, err = meter.Float64Histogram("payment_amount",
		metric.WithDescription("Recorded payment amounts"),
		metric.WithExplicitBucketBoundaries(500, 1000, 5000, 10000, 25000, 50000, 100000, 250000)); err != nil {
		return nil, fmt.Errorf("payment_amount: %w", err)
	}
	if bm.bulkGeneration, err = meter.Float64Histogram("bulk_generation_duration",
		metric.WithDescription("Time to bulk generate invoices"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("bulk_generation_duration: %w", err)
	}
	if bm.receiptsRendered, err = meter.Int64Counter("receipts_rendered",
		metric.WithDescription("Receipt PDFs rendered"), metric.WithUnit("{receipt}")); err != nil {
		return nil, fmt.Errorf("receipts_rendered: %w", err)
	}
	if bm.duplicateRequests, err = meter.Int64Counter("payment_duplicate_requests",
		metric.WithDescription("Payment requests rejected by idempotency key")); err != nil {
		return nil, fmt.Errorf("payment_duplicate_requests: %w", err)
	}
	return &bm, nil
}

// NewNoopBusinessMetrics returns metrics that record nothing
func NewNoopBusinessMetrics() *BusinessMetrics {
	bm, _ := NewBusinessMetrics((*MeterProvider)(nil).Meter(businessMeterName))
	return bm
}

// BusinessMeter returns the meter business metrics are registered on
func (mp *MeterProvider) BusinessMeter() metric.Meter {
	return mp.Meter(businessMeterName)
}

func schoolAttrs(schoolID uuid.UUID, extra ...attribute.KeyValue) metric.MeasurementOption {
	return metric.WithAttributes(append([]attribute.KeyValue{attribute.String(AttrSchoolID, schoolID.String())}, extra...)...)
}

// InvoicesCreated counts n new invoices; source is "single" or "bulk"
func (bm *BusinessMetrics) InvoicesCreated(ctx context.Context, schoolID uuid.UUID, source string, n int) {
	if n <= 0 {
		return
	}
	bm.invoicesCreated.Add(ctx, int64(n), schoolAttrs(schoolID, attribute.String("source", source)))
}

// PaymentRecorded counts a payment and records its amount
func (bm *BusinessMetrics) PaymentRecorded(ctx context.Context, schoolID uuid.UUID, method string, amount decimal.Decimal) {
	opt := schoolAttrs(schoolID, attribute.String(AttrPaymentMethod, method))
	bm.paymentsRecorded.Add(ctx, 1, opt)
	bm.paymentAmount.Record(ctx, amount.InexactFloat64(), opt)
}

// BulkGenerationFinished records how long a bulk run took
func (bm *BusinessMetrics) BulkGenerationFinished(ctx context.Context, schoolID uuid.UUID, d time.Duration) {
	bm.bulkGeneration.Record(ctx, d.Seconds(), schoolAttrs(schoolID))
}

// ReceiptRendered counts a receipt render attempt
func (bm *BusinessMetrics) ReceiptRendered(ctx context.Context, schoolID uuid.UUID, ok bool) {
	bm.receiptsRendered.Add(ctx, 1, schoolAttrs(schoolID, attribute.Bool("success", ok)))
}

// DuplicateRequest counts a rejected idempotency key
func (bm *BusinessMetrics) DuplicateRequest(ctx context.Context, schoolID uuid.UUID) {
	bm.duplicateRequests.Add(ctx, 1, schoolAttrs(schoolID))
}
