package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/schoolms/backend/internal/domain/report"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/logger"
	"github.com/schoolms/backend/internal/infrastructure/storage"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const defaultExportLinkExpiry = 15 * time.Minute

// ExportService writes report CSVs to object storage and hands back a presigned link
type ExportService struct {
	dashboard  *DashboardService
	store      storage.ObjectStorage
	linkExpiry time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// ExportServiceOption configures an ExportService
type ExportServiceOption func(*ExportService)

// WithExportLinkExpiry sets how long download links stay valid
func WithExportLinkExpiry(d time.Duration) ExportServiceOption {
	return func(s *ExportService) {
		if d > 0 {
			s.linkExpiry = d
		}
	}
}

// WithExportLogger sets the logger
func WithExportLogger(l *zap.Logger) ExportServiceOption {
	return func(s *ExportService) {
		s.logger = l
	}
}

// NewExportService creates a new ExportService
func NewExportService(dashboard *DashboardService, store storage.ObjectStorage, opts ...ExportServiceOption) *ExportService {
	s := &ExportService{
		dashboard:  dashboard,
		store:      store,
		linkExpiry: defaultExportLinkExpiry,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExportFinance stores the finance summary as CSV under exports/<school>/
func (s *ExportService) ExportFinance(ctx context.Context, tc shared.TenantContext, q Query) (*ExportResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "export_finance", telemetry.SchoolAttr(tc.SchoolID))
	defer span.End()

	summary, err := s.dashboard.FinanceSummary(ctx, tc, q)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	data, rows, err := FinanceCSV(summary)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int(telemetry.AttrCount, rows))

	key := storage.ExportKey(tc.SchoolID, "finance", s.now())
	if err := s.store.Upload(ctx, key, data, storage.ContentTypeCSV); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	url, expiresAt, err := s.store.GenerateDownloadURL(ctx, key, s.linkExpiry)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Finance export stored",
		zap.String("key", key),
		zap.Int("rows", rows),
	)
	telemetry.SetOK(span)
	return &ExportResponse{Key: key, URL: url, ExpiresAt: expiresAt, Rows: rows}, nil
}

// FinanceCSV flattens a finance summary into section,key,count,amount,balance
// rows. It returns the encoded bytes and the number of data rows.
func FinanceCSV(summary *report.FinanceSummary) ([]byte, int, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"section", "key", "count", "amount", "balance"},
		{"totals", "billed", strconv.FormatInt(summary.InvoiceCount, 10), summary.Billed.StringFixed(2), ""},
		{"totals", "collected", "", summary.Collected.StringFixed(2), ""},
		{"totals", "outstanding", "", "", summary.Outstanding.StringFixed(2)},
		{"totals", "waived", "", summary.Waived.StringFixed(2), ""},
		{"totals", "collection_rate", "", summary.CollectionRate.StringFixed(2), ""},
	}
	for _, st := range summary.ByStatus {
		records = append(records, []string{"invoice_status", st.Status, strconv.FormatInt(st.Count, 10), st.Billed.StringFixed(2), st.Balance.StringFixed(2)})
	}
	for _, m := range summary.ByMethod {
		records = append(records, []string{"payment_method", m.Method, strconv.FormatInt(m.Count, 10), m.Amount.StringFixed(2), ""})
	}
	for _, d := range summary.DailyCollections {
		records = append(records, []string{"daily_collection", d.Date.Format("2006-01-02"), strconv.FormatInt(d.Count, 10), d.Amount.StringFixed(2), ""})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, 0, fmt.Errorf("failed to encode finance csv: %w", err)
	}
	return buf.Bytes(), len(records) - 1, nil
}
