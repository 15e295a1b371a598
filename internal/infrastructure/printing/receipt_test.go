package printing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	last *RenderRequest
}

func (f *fakeRenderer) Render(_ context.Context, req *RenderRequest) (*RenderResult, error) {
	f.last = req
	return &RenderResult{PDFData: []byte("%PDF-1.7")}, nil
}

func (f *fakeRenderer) Close() error { return nil }

func sampleReceipt() ReceiptData {
	return ReceiptData{
		SchoolName:      "Greenhill Academy",
		ReceiptNumber:   "RCP-2025-000007",
		InvoiceNumber:   "INV-2025-000003",
		LearnerName:     "Amani Otieno",
		AdmissionNumber: "ADM-001",
		Grade:           "GRADE 4",
		Currency:        "KES",
		Amount:          decimal.NewFromInt(12500),
		Method:          "MPESA",
		Reference:       "QWE123RTY",
		PaidAt:          time.Date(2025, 1, 20, 9, 30, 0, 0, time.UTC),
		InvoiceTotal:    decimal.NewFromInt(15000),
		TotalPaid:       decimal.NewFromInt(12500),
		BalanceAfter:    decimal.NewFromInt(2500),
		Status:          "PARTIAL",
		RecordedBy:      "bursar",
	}
}

func TestReceiptHTML(t *testing.T) {
	doc, err := ReceiptHTML(sampleReceipt())
	require.NoError(t, err)

	assert.Contains(t, doc, "RCP-2025-000007")
	assert.Contains(t, doc, "Amani Otieno (ADM-001)")
	assert.Contains(t, doc, "Grade 4")
	assert.Contains(t, doc, "Mpesa &middot; QWE123RTY")
	assert.Contains(t, doc, "KES 12,500.00")
	assert.Contains(t, doc, "20 Jan 2025 09:30")
	assert.Contains(t, doc, "Balance")
	assert.NotContains(t, doc, "Credit carried forward")
}

func TestReceiptHTML_OverpaidAndEscaping(t *testing.T) {
	data := sampleReceipt()
	data.BalanceAfter = decimal.NewFromInt(-100)
	data.LearnerName = "<script>x</script>"

	doc, err := ReceiptHTML(data)
	require.NoError(t, err)
	assert.Contains(t, doc, "Credit carried forward")
	assert.Contains(t, doc, "KES 100.00")
	assert.NotContains(t, doc, "<script>x")
}

func TestRenderReceipt(t *testing.T) {
	r := &fakeRenderer{}
	pdf, err := RenderReceipt(context.Background(), r, sampleReceipt())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), pdf)
	assert.Equal(t, PaperSizeA5, r.last.PaperSize)
	assert.Equal(t, "RCP-2025-000007", r.last.Title)
}

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":         "0.00",
		"999.5":     "999.50",
		"1000":      "1,000.00",
		"1234567.8": "1,234,567.80",
		"-2500":     "-2,500.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}
