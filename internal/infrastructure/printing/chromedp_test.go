package printing

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPaperSize(t *testing.T) {
	tests := []struct {
		size          PaperSize
		width, height float64
		valid, roll   bool
	}{
		{PaperSizeA4, 210, 297, true, false},
		{PaperSizeA5, 148, 210, true, false},
		{PaperSizeReceipt80MM, 80, 0, true, true},
		{"LETTER", 0, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.size), func(t *testing.T) {
			w, h := tt.size.Dimensions()
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
			assert.Equal(t, tt.valid, tt.size.IsValid())
			assert.Equal(t, tt.roll, tt.size.IsRoll())
		})
	}
}

func TestBuildPrintParams(t *testing.T) {
	params := buildPrintParams(&RenderRequest{PaperSize: PaperSizeA5, MarginMM: 10})
	assert.InDelta(t, mmToInches(148), params.PaperWidth, 0.001)
	assert.InDelta(t, mmToInches(210), params.PaperHeight, 0.001)
	assert.InDelta(t, 0.3937, params.MarginTop, 0.001)
	assert.True(t, params.PrintBackground)

	params = buildPrintParams(&RenderRequest{PaperSize: PaperSizeReceipt80MM})
	assert.InDelta(t, mmToInches(rollPageHeightMM), params.PaperHeight, 0.001)
	assert.Zero(t, params.MarginLeft)
}

func TestWrapDocument(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, wrapDocument(&RenderRequest{HTML: full}))

	doc := wrapDocument(&RenderRequest{HTML: "<p>Paid</p>", Title: "A&B"})
	assert.Contains(t, doc, "<title>A&amp;B</title>")
	assert.Contains(t, doc, "<body><p>Paid</p></body>")
}

func TestChromedpRenderer_RejectsBadRequests(t *testing.T) {
	r := NewChromedpRenderer(config.PrintingConfig{}, zap.NewNop())
	defer r.Close()
	ctx := context.Background()

	_, err := r.Render(ctx, &RenderRequest{HTML: "  "})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = r.Render(ctx, &RenderRequest{HTML: "<p>x</p>", PaperSize: "LETTER"})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidPaperSize, renderErr.Code)
}

func TestNewRenderer(t *testing.T) {
	r := NewRenderer(config.PrintingConfig{}, zap.NewNop())
	_, err := r.Render(context.Background(), &RenderRequest{HTML: "<p>x</p>"})
	assert.ErrorIs(t, err, shared.ErrFeatureDisabled)
	assert.NoError(t, r.Close())

	r = NewRenderer(config.PrintingConfig{Enabled: true, Timeout: 5 * time.Second}, zap.NewNop())
	require.IsType(t, &ChromedpRenderer{}, r)
	assert.Equal(t, 5*time.Second, r.(*ChromedpRenderer).timeout)
	assert.NoError(t, r.Close())
}

func TestChromedpRenderer_RendersPDF(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping headless Chrome test in short mode")
	}
	found := false
	for _, name := range []string{"chromium", "chromium-browser", "google-chrome", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			found = true
			break
		}
	}
	if !found {
		t.Skip("no Chrome binary on PATH")
	}

	r := NewChromedpRenderer(config.PrintingConfig{NoSandbox: true}, zap.NewNop())
	defer r.Close()

	result, err := r.Render(context.Background(), &RenderRequest{HTML: "<h1>Receipt</h1>", PaperSize: PaperSizeA5})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(result.PDFData[:4]))
}
