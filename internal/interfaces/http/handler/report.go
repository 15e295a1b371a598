package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/schoolms/backend/internal/application/report"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/interfaces/http/dto"
)

// ReportHandler handles dashboard and export endpoints
type ReportHandler struct {
	BaseHandler
	dashboard DashboardService
	exports   ExportService
}

// NewReportHandler creates a new report handler. A nil export service
// disables the export endpoint.
func NewReportHandler(dashboard DashboardService, exports ExportService) *ReportHandler {
	return &ReportHandler{dashboard: dashboard, exports: exports}
}

// query binds the shared date range and rejects an inverted one
func (h *ReportHandler) query(c *gin.Context) (reportapp.Query, bool) {
	var q reportapp.Query
	if !h.bindQuery(c, &q) {
		return q, false
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		h.ValidationError(c, []dto.ValidationDetail{{Field: "to", Message: "Must not be before from"}})
		return q, false
	}
	return q, true
}

// Overview godoc
// @ID           getDashboardOverview
// @Summary      Dashboard overview
// @Description  Learner, attendance and fee collection headline figures
// @Tags         reports
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[report.Overview]
// @Security     BearerAuth
// @Router       /reports/overview [get]
func (h *ReportHandler) Overview(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	q, ok := h.query(c)
	if !ok {
		return
	}
	overview, err := h.dashboard.Overview(c.Request.Context(), tc, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}

// Learners godoc
// @ID           getLearnerSummary
// @Summary      Learner summary
// @Tags         reports
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[report.LearnerSummary]
// @Security     BearerAuth
// @Router       /reports/learners [get]
func (h *ReportHandler) Learners(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	q, ok := h.query(c)
	if !ok {
		return
	}
	summary, err := h.dashboard.LearnerSummary(c.Request.Context(), tc, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Attendance godoc
// @ID           getAttendanceSummary
// @Summary      Attendance summary
// @Tags         reports
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[report.AttendanceSummary]
// @Security     BearerAuth
// @Router       /reports/attendance [get]
func (h *ReportHandler) Attendance(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	q, ok := h.query(c)
	if !ok {
		return
	}
	summary, err := h.dashboard.AttendanceSummary(c.Request.Context(), tc, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Finance godoc
// @ID           getFinanceSummary
// @Summary      Finance summary
// @Description  Billed, collected, waived and outstanding amounts with a per-method breakdown
// @Tags         reports
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[report.FinanceSummary]
// @Security     BearerAuth
// @Router       /reports/finance [get]
func (h *ReportHandler) Finance(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	q, ok := h.query(c)
	if !ok {
		return
	}
	summary, err := h.dashboard.FinanceSummary(c.Request.Context(), tc, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// ExportFinance godoc
// @ID           exportFinanceSummary
// @Summary      Export the finance summary as CSV
// @Description  Stores the CSV and returns a short-lived download link
// @Tags         reports
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[reportapp.ExportResponse]
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/finance/export [post]
func (h *ReportHandler) ExportFinance(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	if h.exports == nil {
		h.HandleError(c, shared.ErrFeatureDisabled)
		return
	}
	q, ok := h.query(c)
	if !ok {
		return
	}
	export, err := h.exports.ExportFinance(c.Request.Context(), tc, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, export)
}
