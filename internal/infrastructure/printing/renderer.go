// Package printing renders receipt documents to PDF with headless Chrome.
package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/schoolms/backend/internal/domain/shared"
)

// PaperSize names a supported page format
type PaperSize string

const (
	PaperSizeA4          PaperSize = "A4"
	PaperSizeA5          PaperSize = "A5"
	PaperSizeReceipt80MM PaperSize = "RECEIPT_80MM"
)

// Dimensions returns width and height in millimetres
func (p PaperSize) Dimensions() (float64, float64) {
	switch p {
	case PaperSizeA4:
		return 210, 297
	case PaperSizeA5:
		return 148, 210
	case PaperSizeReceipt80MM:
		return 80, 0
	default:
		return 0, 0
	}
}

// IsValid reports whether p is a known size
func (p PaperSize) IsValid() bool {
	w, _ := p.Dimensions()
	return w > 0
}

// IsRoll reports whether p is a continuous roll with no fixed page height
func (p PaperSize) IsRoll() bool {
	return p == PaperSizeReceipt80MM
}

// RenderRequest describes one HTML to PDF conversion
type RenderRequest struct {
	HTML      string
	Title     string
	PaperSize PaperSize
	MarginMM  float64
	Timeout   time.Duration // zero uses the renderer default
}

// RenderResult is the generated document
type RenderResult struct {
	PDFData        []byte
	RenderDuration time.Duration
}

// PDFRenderer converts HTML to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
)

// RenderError is returned when a document could not be produced
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

// NewRenderError creates a RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// DisabledRenderer is used when printing is turned off
type DisabledRenderer struct{}

func (DisabledRenderer) Render(context.Context, *RenderRequest) (*RenderResult, error) {
	return nil, shared.ErrFeatureDisabled
}

func (DisabledRenderer) Close() error { return nil }

var (
	_ PDFRenderer = (*ChromedpRenderer)(nil)
	_ PDFRenderer = DisabledRenderer{}
)
