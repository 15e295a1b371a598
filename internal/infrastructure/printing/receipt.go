package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ReceiptData is everything printed on a payment receipt
type ReceiptData struct {
	SchoolName      string
	BranchName      string
	ReceiptNumber   string
	InvoiceNumber   string
	LearnerName     string
	AdmissionNumber string
	Grade           string
	Currency        string
	Amount          decimal.Decimal
	Method          string
	Reference       string
	PaidAt          time.Time
	RecordedBy      string
	InvoiceTotal    decimal.Decimal
	TotalPaid       decimal.Decimal
	BalanceAfter    decimal.Decimal
	Status          string
}

var titleCaser = cases.Title(language.English)

var receiptFuncs = template.FuncMap{
	"money": formatMoney,
	"datetime": func(t time.Time) string {
		return t.Format("02 Jan 2006 15:04")
	},
	"title": func(s string) string {
		return titleCaser.String(strings.ReplaceAll(s, "_", " "))
	},
	"credit": func(d decimal.Decimal) bool { return d.IsNegative() },
	"abs":    func(d decimal.Decimal) decimal.Decimal { return d.Abs() },
}

var receiptTemplate = template.Must(template.New("receipt").Funcs(receiptFuncs).Parse(`<!DOCTYPE html>
<html><head><meta charset="UTF-8"><title>{{.ReceiptNumber}}</title>
<style>
body { font-family: "DejaVu Sans", Arial, sans-serif; font-size: 12px; color: #222; }
h1 { font-size: 18px; margin: 0; }
.muted { color: #666; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
td { padding: 4px 0; }
td.amount { text-align: right; }
.total td { border-top: 1px solid #222; font-weight: bold; }
</style></head>
<body>
<h1>{{.SchoolName}}</h1>
{{- if .BranchName}}<div class="muted">{{.BranchName}}</div>{{end}}
<h2>Official Receipt</h2>
<table>
<tr><td>Receipt No.</td><td class="amount">{{.ReceiptNumber}}</td></tr>
<tr><td>Date</td><td class="amount">{{datetime .PaidAt}}</td></tr>
<tr><td>Learner</td><td class="amount">{{.LearnerName}} ({{.AdmissionNumber}})</td></tr>
{{- if .Grade}}<tr><td>Grade</td><td class="amount">{{title .Grade}}</td></tr>{{end}}
<tr><td>Invoice</td><td class="amount">{{.InvoiceNumber}}</td></tr>
<tr><td>Payment method</td><td class="amount">{{title .Method}}{{if .Reference}} &middot; {{.Reference}}{{end}}</td></tr>
</table>
<table>
<tr class="total"><td>Amount received</td><td class="amount">{{.Currency}} {{money .Amount}}</td></tr>
<tr><td>Invoice total</td><td class="amount">{{.Currency}} {{money .InvoiceTotal}}</td></tr>
<tr><td>Paid to date</td><td class="amount">{{.Currency}} {{money .TotalPaid}}</td></tr>
{{- if credit .BalanceAfter}}
<tr><td>Credit carried forward</td><td class="amount">{{.Currency}} {{money (abs .BalanceAfter)}}</td></tr>
{{- else}}
<tr><td>Balance</td><td class="amount">{{.Currency}} {{money .BalanceAfter}}</td></tr>
{{- end}}
</table>
<p class="muted">Status: {{title .Status}}{{if .RecordedBy}} &middot; Received by {{.RecordedBy}}{{end}}</p>
</body></html>
`))

// ReceiptHTML renders the receipt template
func ReceiptHTML(data ReceiptData) (string, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render receipt template: %w", err)
	}
	return buf.String(), nil
}

// RenderReceipt produces the receipt PDF
func RenderReceipt(ctx context.Context, renderer PDFRenderer, data ReceiptData) ([]byte, error) {
	doc, err := ReceiptHTML(data)
	if err != nil {
		return nil, err
	}
	result, err := renderer.Render(ctx, &RenderRequest{
		HTML:      doc,
		Title:     data.ReceiptNumber,
		PaperSize: PaperSizeA5,
		MarginMM:  10,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

// formatMoney formats d with thousands separators and two decimals, e.g. 12,500.00
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
