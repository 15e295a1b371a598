package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	learnerapp "github.com/schoolms/backend/internal/application/learner"
	"github.com/schoolms/backend/internal/interfaces/http/dto"
)

// LearnerHandler handles learner enrolment endpoints
type LearnerHandler struct {
	BaseHandler
	learnerService LearnerService
	invoiceService InvoiceService
}

// NewLearnerHandler creates a new learner handler. The invoice service
// backs the learner fee statement.
func NewLearnerHandler(learnerService LearnerService, invoiceService InvoiceService) *LearnerHandler {
	return &LearnerHandler{learnerService: learnerService, invoiceService: invoiceService}
}

// CreateLearnerRequest enrols a learner
type CreateLearnerRequest struct {
	AdmissionNumber string `json:"admission_number" binding:"required,max=50" example:"ADM-2025-001"`
	FirstName       string `json:"first_name" binding:"required,max=100"`
	LastName        string `json:"last_name" binding:"required,max=100"`
	Gender          string `json:"gender" binding:"required" example:"FEMALE"`
	Grade           string `json:"grade" binding:"required,max=50" example:"Grade 4"`
	Stream          string `json:"stream" binding:"max=50" example:"East"`
	GuardianPhone   string `json:"guardian_phone" binding:"max=30"`
}

// UpdateLearnerRequest edits a learner's profile
type UpdateLearnerRequest struct {
	FirstName     string `json:"first_name" binding:"required,max=100"`
	LastName      string `json:"last_name" binding:"required,max=100"`
	Grade         string `json:"grade" binding:"required,max=50"`
	Stream        string `json:"stream" binding:"max=50"`
	GuardianPhone string `json:"guardian_phone" binding:"max=30"`
}

// ChangeLearnerStatusRequest moves a learner through the enrolment lifecycle
type ChangeLearnerStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE INACTIVE GRADUATED TRANSFERRED"`
}

// ListLearnersQuery narrows the learner list
type ListLearnersQuery struct {
	dto.ListRequest
	Grade  string `form:"grade"`
	Stream string `form:"stream"`
	Status string `form:"status"`
}

// Create godoc
// @ID           createLearner
// @Summary      Enrol a learner
// @Tags         learners
// @Accept       json
// @Produce      json
// @Param        request body CreateLearnerRequest true "Learner"
// @Success      201 {object} APIResponse[learnerapp.LearnerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /learners [post]
func (h *LearnerHandler) Create(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var req CreateLearnerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	l, err := h.learnerService.Create(c.Request.Context(), tc, learnerapp.CreateLearnerInput{
		AdmissionNumber: req.AdmissionNumber,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Gender:          req.Gender,
		Grade:           req.Grade,
		Stream:          req.Stream,
		GuardianPhone:   req.GuardianPhone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, l)
}

// maxImportFileSize caps a learner CSV upload
const maxImportFileSize = 5 << 20

// ImportLearnersQuery selects a validation-only run
type ImportLearnersQuery struct {
	DryRun bool `form:"dry_run"`
}

// Import godoc
// @ID           importLearners
// @Summary      Enrol learners from a CSV file
// @Description  Columns: admission_number, first_name, last_name, gender, grade, stream, guardian_phone. Nothing is saved unless every row is valid.
// @Tags         learners
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV file"
// @Param        dry_run query bool false "Validate only"
// @Success      200 {object} APIResponse[learnerapp.ImportResult]
// @Success      201 {object} APIResponse[learnerapp.ImportResult]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /learners/import [post]
func (h *LearnerHandler) Import(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var q ImportLearnersQuery
	if !h.bindQuery(c, &q) {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds 5MB")
		return
	}
	switch ct := header.Header.Get("Content-Type"); ct {
	case "", "text/csv", "text/plain", "application/octet-stream", "application/vnd.ms-excel":
	default:
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "file must be a CSV file")
		return
	}

	result, err := h.learnerService.Import(c.Request.Context(), tc, file, learnerapp.ImportOptions{DryRun: q.DryRun})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Created > 0 {
		h.Created(c, result)
		return
	}
	h.Success(c, result)
}

// List godoc
// @ID           listLearners
// @Summary      List learners
// @Tags         learners
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Name or admission number"
// @Param        grade query string false "Grade"
// @Param        stream query string false "Stream"
// @Param        status query string false "Status"
// @Success      200 {object} APIResponse[[]learnerapp.LearnerResponse]
// @Security     BearerAuth
// @Router       /learners [get]
func (h *LearnerHandler) List(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var q ListLearnersQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.learnerService.List(c.Request.Context(), tc, learnerapp.LearnerListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		Search:   q.Search,
		Grade:    q.Grade,
		Stream:   q.Stream,
		Status:   q.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Get godoc
// @ID           getLearner
// @Summary      Get a learner
// @Tags         learners
// @Produce      json
// @Param        id path string true "Learner ID"
// @Success      200 {object} APIResponse[learnerapp.LearnerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /learners/{id} [get]
func (h *LearnerHandler) Get(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	l, err := h.learnerService.Get(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, l)
}

// Update godoc
// @ID           updateLearner
// @Summary      Update a learner
// @Tags         learners
// @Accept       json
// @Produce      json
// @Param        id path string true "Learner ID"
// @Param        request body UpdateLearnerRequest true "Profile"
// @Success      200 {object} APIResponse[learnerapp.LearnerResponse]
// @Security     BearerAuth
// @Router       /learners/{id} [put]
func (h *LearnerHandler) Update(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateLearnerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	l, err := h.learnerService.Update(c.Request.Context(), tc, id, learnerapp.UpdateLearnerInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Grade:         req.Grade,
		Stream:        req.Stream,
		GuardianPhone: req.GuardianPhone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, l)
}

// ChangeStatus godoc
// @ID           changeLearnerStatus
// @Summary      Change a learner's status
// @Tags         learners
// @Accept       json
// @Produce      json
// @Param        id path string true "Learner ID"
// @Param        request body ChangeLearnerStatusRequest true "Status"
// @Success      200 {object} APIResponse[learnerapp.LearnerResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /learners/{id}/status [patch]
func (h *LearnerHandler) ChangeStatus(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req ChangeLearnerStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	l, err := h.learnerService.ChangeStatus(c.Request.Context(), tc, id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, l)
}

// Statement godoc
// @ID           getLearnerStatement
// @Summary      Learner fee statement
// @Description  Every invoice of the learner with billed, paid, waived and outstanding totals
// @Tags         learners
// @Produce      json
// @Param        id path string true "Learner ID"
// @Success      200 {object} APIResponse[feeapp.StatementResponse]
// @Security     BearerAuth
// @Router       /learners/{id}/statement [get]
func (h *LearnerHandler) Statement(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	statement, err := h.invoiceService.LearnerStatement(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statement)
}

// AttendanceHandler handles class register endpoints
type AttendanceHandler struct {
	BaseHandler
	attendanceService AttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// AttendanceEntryRequest is one learner's mark
type AttendanceEntryRequest struct {
	LearnerID uuid.UUID `json:"learner_id" binding:"required"`
	Status    string    `json:"status" binding:"required" example:"PRESENT"`
	Remarks   string    `json:"remarks" binding:"max=255"`
}

// MarkAttendanceRequest is a register for one day
type MarkAttendanceRequest struct {
	Date    string                   `json:"date" binding:"required" example:"2025-02-03"`
	Entries []AttendanceEntryRequest `json:"entries" binding:"required,min=1,max=500,dive"`
}

// ListAttendanceQuery narrows the attendance list
type ListAttendanceQuery struct {
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=200"`
	LearnerID string     `form:"learner_id"`
	Grade     string     `form:"grade"`
	Status    string     `form:"status"`
	FromDate  *time.Time `form:"from_date" time_format:"2006-01-02" time_utc:"1"`
	ToDate    *time.Time `form:"to_date" time_format:"2006-01-02" time_utc:"1"`
}

// Mark godoc
// @ID           markAttendance
// @Summary      Mark attendance
// @Description  Save a day's register. Re-marking a learner on the same day replaces the earlier mark.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request body MarkAttendanceRequest true "Register"
// @Success      200 {object} APIResponse[learnerapp.MarkAttendanceResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var req MarkAttendanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		h.ValidationError(c, []dto.ValidationDetail{{Field: "date", Message: "Must be a date in YYYY-MM-DD format"}})
		return
	}

	entries := make([]learnerapp.AttendanceEntry, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = learnerapp.AttendanceEntry{LearnerID: e.LearnerID, Status: e.Status, Remarks: e.Remarks}
	}
	result, err := h.attendanceService.Mark(c.Request.Context(), tc, learnerapp.MarkAttendanceInput{
		Date:    date,
		Entries: entries,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List godoc
// @ID           listAttendance
// @Summary      List attendance records
// @Tags         attendance
// @Produce      json
// @Param        learner_id query string false "Learner ID"
// @Param        grade query string false "Grade"
// @Param        status query string false "Status"
// @Param        from_date query string false "From date (YYYY-MM-DD)"
// @Param        to_date query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]learnerapp.AttendanceResponse]
// @Security     BearerAuth
// @Router       /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var q ListAttendanceQuery
	if !h.bindQuery(c, &q) {
		return
	}
	learnerID, ok := h.queryID(c, "learner_id", q.LearnerID)
	if !ok {
		return
	}
	page, err := h.attendanceService.List(c.Request.Context(), tc, learnerapp.AttendanceListFilter{
		Page:      q.Page,
		PageSize:  q.PageSize,
		LearnerID: learnerID,
		Grade:     q.Grade,
		Status:    q.Status,
		FromDate:  q.FromDate,
		ToDate:    q.ToDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}
