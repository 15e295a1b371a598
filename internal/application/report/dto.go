package report

import (
	"time"

	"github.com/schoolms/backend/internal/domain/report"
	"github.com/schoolms/backend/internal/domain/shared"
)

// Query is the optional inclusive date range shared by every report endpoint
type Query struct {
	From *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To   *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
}

// filter turns the query into a domain filter. A date-only To covers the
// whole day.
func (q Query) filter(tc shared.TenantContext) report.Filter {
	f := report.Filter{Tenant: tc, From: q.From}
	if q.To != nil {
		to := *q.To
		if to.Equal(to.Truncate(24 * time.Hour)) {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = &to
	}
	return f
}

// ExportResponse points at a stored report export
type ExportResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Rows      int       `json:"rows"`
}
