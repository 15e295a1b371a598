package fee

import "fmt"

// DocumentKind names an independently numbered document series
type DocumentKind string

const (
	DocumentInvoice DocumentKind = "INV"
	DocumentReceipt DocumentKind = "RCP"
)

// FormatDocumentNumber renders e.g. INV-2024-000042
func FormatDocumentNumber(kind DocumentKind, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%06d", kind, year, seq)
}
