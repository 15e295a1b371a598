package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	reportapp "github.com/schoolms/backend/internal/application/report"
	"github.com/schoolms/backend/internal/domain/report"
	"github.com/schoolms/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReportHandler(t *testing.T) {
	tc := testTenant()

	t.Run("finance summary with range", func(t *testing.T) {
		dash := new(mockDashboardService)
		h := NewReportHandler(dash, nil)
		r := newTestRouter(&tc)
		r.GET("/reports/finance", h.Finance)

		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		dash.On("FinanceSummary", mock.Anything, tc, mock.MatchedBy(func(q reportapp.Query) bool {
			return q.From != nil && q.From.Equal(from) && q.To != nil
		})).Return(&report.FinanceSummary{}, nil)

		w := doJSON(r, http.MethodGet, "/reports/finance?from=2025-01-01&to=2025-03-31", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		dash.AssertExpectations(t)
	})

	t.Run("inverted range", func(t *testing.T) {
		dash := new(mockDashboardService)
		h := NewReportHandler(dash, nil)
		r := newTestRouter(&tc)
		r.GET("/reports/overview", h.Overview)

		w := doJSON(r, http.MethodGet, "/reports/overview?from=2025-03-01&to=2025-02-01", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "to", env.Error.Details[0].Field)
		dash.AssertNotCalled(t, "Overview")
	})

	t.Run("malformed date", func(t *testing.T) {
		h := NewReportHandler(new(mockDashboardService), nil)
		r := newTestRouter(&tc)
		r.GET("/reports/learners", h.Learners)

		w := doJSON(r, http.MethodGet, "/reports/learners?from=January", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("export disabled", func(t *testing.T) {
		h := NewReportHandler(new(mockDashboardService), nil)
		r := newTestRouter(&tc)
		r.POST("/reports/finance/export", h.ExportFinance)

		w := doJSON(r, http.MethodPost, "/reports/finance/export", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, dto.ErrCodeFeatureDisabled, decode(t, w).Error.Code)
	})

	t.Run("export", func(t *testing.T) {
		exports := new(mockExportService)
		h := NewReportHandler(new(mockDashboardService), exports)
		r := newTestRouter(&tc)
		r.POST("/reports/finance/export", h.ExportFinance)

		exports.On("ExportFinance", mock.Anything, tc, reportapp.Query{}).Return(&reportapp.ExportResponse{
			Key: "exports/finance.csv", URL: "https://files.example/finance.csv", Rows: 12,
		}, nil)

		w := doJSON(r, http.MethodPost, "/reports/finance/export", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"rows":12`)
	})
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		dbMock.ExpectPing()

		h := NewSystemHandler("schoolms", "test", db)
		r := newTestRouter(nil)
		r.GET("/health", h.Health)

		w := doJSON(r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"healthy"`)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("database down", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		dbMock.ExpectPing().WillReturnError(errors.New("connection refused"))

		h := NewSystemHandler("schoolms", "test", db)
		r := newTestRouter(nil)
		r.GET("/health", h.Health)

		w := doJSON(r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"down"`)
	})

	t.Run("optional dependency down", func(t *testing.T) {
		h := NewSystemHandler("schoolms", "test", nil)
		h.AddCheck("redis", func(context.Context) error { return errors.New("dial tcp: refused") })
		r := newTestRouter(nil)
		r.GET("/health", h.Health)

		w := doJSON(r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"degraded"`)
		assert.Contains(t, w.Body.String(), `"redis":"down"`)
	})
}
