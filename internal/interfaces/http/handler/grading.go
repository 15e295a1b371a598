package handler

import (
	"github.com/gin-gonic/gin"
	gradingapp "github.com/schoolms/backend/internal/application/grading"
)

// GradingHandler handles grading systems, aggregation rules, scores and results
type GradingHandler struct {
	BaseHandler
	systems GradingService
	configs AggregationConfigService
	scores  ScoreService
}

// NewGradingHandler creates a new grading handler
func NewGradingHandler(systems GradingService, configs AggregationConfigService, scores ScoreService) *GradingHandler {
	return &GradingHandler{systems: systems, configs: configs, scores: scores}
}

// ListScoresQuery narrows the score list
type ListScoresQuery struct {
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=200"`
	LearnerID      string `form:"learner_id"`
	LearningArea   string `form:"learning_area"`
	AssessmentType string `form:"assessment_type"`
	Term           *int   `form:"term" binding:"omitempty,min=1,max=3"`
	AcademicYear   *int   `form:"academic_year"`
}

// ResultQueryParams selects the scores a learner result aggregates
type ResultQueryParams struct {
	LearnerID      string `form:"learner_id" binding:"required,uuid"`
	LearningArea   string `form:"learning_area" binding:"required"`
	AssessmentType string `form:"assessment_type" binding:"required"`
	Term           int    `form:"term" binding:"required,min=1,max=3"`
	AcademicYear   int    `form:"academic_year" binding:"required"`
}

// ReportCardParams selects one learner's term
type ReportCardParams struct {
	LearnerID    string `form:"learner_id" binding:"required,uuid"`
	Term         int    `form:"term" binding:"required,min=1,max=3"`
	AcademicYear int    `form:"academic_year" binding:"required"`
}

// CreateSystem godoc
// @ID           createGradingSystem
// @Summary      Create a grading system
// @Description  Ranges must not overlap. Creating a default demotes the previous default of the same type.
// @Tags         grading
// @Accept       json
// @Produce      json
// @Param        request body gradingapp.CreateSystemInput true "Grading system"
// @Success      201 {object} APIResponse[gradingapp.SystemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /grading/systems [post]
func (h *GradingHandler) CreateSystem(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var req gradingapp.CreateSystemInput
	if !h.bindJSON(c, &req) {
		return
	}
	gs, err := h.systems.CreateSystem(c.Request.Context(), tc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gs)
}

// ListSystems godoc
// @ID           listGradingSystems
// @Summary      List grading systems
// @Tags         grading
// @Produce      json
// @Param        type query string false "System type"
// @Success      200 {object} APIResponse[[]gradingapp.SystemResponse]
// @Security     BearerAuth
// @Router       /grading/systems [get]
func (h *GradingHandler) ListSystems(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter gradingapp.SystemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.systems.ListSystems(c.Request.Context(), tc, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetSystem godoc
// @ID           getGradingSystem
// @Summary      Get a grading system
// @Tags         grading
// @Produce      json
// @Param        id path string true "Grading system ID"
// @Success      200 {object} APIResponse[gradingapp.SystemResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /grading/systems/{id} [get]
func (h *GradingHandler) GetSystem(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	gs, err := h.systems.GetSystem(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gs)
}

// UpdateRanges godoc
// @ID           updateGradingRanges
// @Summary      Replace grading ranges
// @Tags         grading
// @Accept       json
// @Produce      json
// @Param        id path string true "Grading system ID"
// @Param        request body gradingapp.UpdateRangesInput true "Ranges"
// @Success      200 {object} APIResponse[gradingapp.SystemResponse]
// @Security     BearerAuth
// @Router       /grading/systems/{id}/ranges [put]
func (h *GradingHandler) UpdateRanges(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req gradingapp.UpdateRangesInput
	if !h.bindJSON(c, &req) {
		return
	}
	gs, err := h.systems.UpdateRanges(c.Request.Context(), tc, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gs)
}

// SetDefault godoc
// @ID           setDefaultGradingSystem
// @Summary      Make a grading system the default for its type
// @Tags         grading
// @Produce      json
// @Param        id path string true "Grading system ID"
// @Success      200 {object} APIResponse[gradingapp.SystemResponse]
// @Security     BearerAuth
// @Router       /grading/systems/{id}/default [post]
func (h *GradingHandler) SetDefault(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	gs, err := h.systems.SetDefault(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gs)
}

// ResolveGrade godoc
// @ID           resolveGrade
// @Summary      Resolve a percentage to a grade
// @Tags         grading
// @Accept       json
// @Produce      json
// @Param        request body gradingapp.ResolveGradeInput true "Percentage"
// @Success      200 {object} APIResponse[gradingapp.GradeResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /grading/resolve [post]
func (h *GradingHandler) ResolveGrade(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var req gradingapp.ResolveGradeInput
	if !h.bindJSON(c, &req) {
		return
	}
	grade, err := h.systems.ResolveGrade(c.Request.Context(), tc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, grade)
}

// CreateConfig godoc
// @ID           createAggregationConfig
// @Summary      Create an aggregation rule
// @Description  Omitted keys match any value. The most specific rule wins at resolution.
// @Tags         grading
// @Accept       json
// @Produce      json
// @Param        request body gradingapp.CreateConfigInput true "Rule"
// @Success      201 {object} APIResponse[gradingapp.ConfigResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /grading/configs [post]
func (h *GradingHandler) CreateConfig(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var req gradingapp.CreateConfigInput
	if !h.bindJSON(c, &req) {
		return
	}
	cfg, err := h.configs.Create(c.Request.Context(), tc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cfg)
}

// ListConfigs godoc
// @ID           listAggregationConfigs
// @Summary      List aggregation rules
// @Tags         grading
// @Produce      json
// @Success      200 {object} APIResponse[[]gradingapp.ConfigResponse]
// @Security     BearerAuth
// @Router       /grading/configs [get]
func (h *GradingHandler) ListConfigs(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	configs, err := h.configs.List(c.Request.Context(), tc)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, configs)
}

// DeleteConfig godoc
// @ID           deleteAggregationConfig
// @Summary      Delete an aggregation rule
// @Tags         grading
// @Param        id path string true "Rule ID"
// @Success      204
// @Security     BearerAuth
// @Router       /grading/configs/{id} [delete]
func (h *GradingHandler) DeleteConfig(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.configs.Delete(c.Request.Context(), tc, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ResolveConfig godoc
// @ID           resolveAggregationConfig
// @Summary      Resolve the rule for a key
// @Tags         grading
// @Produce      json
// @Param        assessment_type query string true "Assessment type"
// @Param        grade query string false "Grade"
// @Param        learning_area query string false "Learning area"
// @Success      200 {object} APIResponse[gradingapp.ConfigResponse]
// @Security     BearerAuth
// @Router       /grading/configs/resolve [get]
func (h *GradingHandler) ResolveConfig(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var q gradingapp.ResolveConfigInput
	if !h.bindQuery(c, &q) {
		return
	}
	cfg, err := h.configs.Resolve(c.Request.Context(), tc, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// PreviewAggregation godoc
// @ID           previewAggregation
// @Summary      Aggregate ad-hoc scores
// @Tags         grading
// @Accept       json
// @Produce      json
// @Param        request body gradingapp.PreviewInput true "Scores and rule"
// @Success      200 {object} APIResponse[gradingapp.PreviewResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /grading/configs/preview [post]
func (h *GradingHandler) PreviewAggregation(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var req gradingapp.PreviewInput
	if !h.bindJSON(c, &req) {
		return
	}
	preview, err := h.configs.Preview(c.Request.Context(), tc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// RecordScore godoc
// @ID           recordScore
// @Summary      Record an assessment score
// @Tags         grading
// @Accept       json
// @Produce      json
// @Param        request body gradingapp.RecordScoreInput true "Score"
// @Success      201 {object} APIResponse[gradingapp.ScoreResponse]
// @Security     BearerAuth
// @Router       /grading/scores [post]
func (h *GradingHandler) RecordScore(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var req gradingapp.RecordScoreInput
	if !h.bindJSON(c, &req) {
		return
	}
	score, err := h.scores.Record(c.Request.Context(), tc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, score)
}

// ListScores godoc
// @ID           listScores
// @Summary      List assessment scores
// @Tags         grading
// @Produce      json
// @Param        learner_id query string false "Learner ID"
// @Param        learning_area query string false "Learning area"
// @Param        assessment_type query string false "Assessment type"
// @Param        term query int false "Term"
// @Param        academic_year query int false "Academic year"
// @Success      200 {object} APIResponse[[]gradingapp.ScoreResponse]
// @Security     BearerAuth
// @Router       /grading/scores [get]
func (h *GradingHandler) ListScores(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var q ListScoresQuery
	if !h.bindQuery(c, &q) {
		return
	}
	learnerID, ok := h.queryID(c, "learner_id", q.LearnerID)
	if !ok {
		return
	}
	page, err := h.scores.List(c.Request.Context(), tc, gradingapp.ScoreListFilter{
		Page:           q.Page,
		PageSize:       q.PageSize,
		LearnerID:      learnerID,
		LearningArea:   q.LearningArea,
		AssessmentType: q.AssessmentType,
		Term:           q.Term,
		AcademicYear:   q.AcademicYear,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// LearnerResult godoc
// @ID           getLearnerResult
// @Summary      Aggregated result for one learning area
// @Tags         grading
// @Produce      json
// @Param        learner_id query string true "Learner ID"
// @Param        learning_area query string true "Learning area"
// @Param        assessment_type query string true "Assessment type"
// @Param        term query int true "Term"
// @Param        academic_year query int true "Academic year"
// @Success      200 {object} APIResponse[gradingapp.ResultResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /grading/results [get]
func (h *GradingHandler) LearnerResult(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var q ResultQueryParams
	if !h.bindQuery(c, &q) {
		return
	}
	learnerID, ok := h.queryID(c, "learner_id", q.LearnerID)
	if !ok {
		return
	}
	result, err := h.scores.ComputeLearnerResult(c.Request.Context(), tc, gradingapp.ResultQuery{
		LearnerID:      *learnerID,
		LearningArea:   q.LearningArea,
		AssessmentType: q.AssessmentType,
		Term:           q.Term,
		AcademicYear:   q.AcademicYear,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ReportCard godoc
// @ID           getReportCard
// @Summary      Term report card
// @Description  Every learning area result of a learner for one term
// @Tags         grading
// @Produce      json
// @Param        learner_id query string true "Learner ID"
// @Param        term query int true "Term"
// @Param        academic_year query int true "Academic year"
// @Success      200 {object} APIResponse[gradingapp.ReportCardResponse]
// @Security     BearerAuth
// @Router       /grading/results/report-card [get]
func (h *GradingHandler) ReportCard(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var q ReportCardParams
	if !h.bindQuery(c, &q) {
		return
	}
	learnerID, ok := h.queryID(c, "learner_id", q.LearnerID)
	if !ok {
		return
	}
	card, err := h.scores.ReportCard(c.Request.Context(), tc, gradingapp.ReportCardQuery{
		LearnerID:    *learnerID,
		Term:         q.Term,
		AcademicYear: q.AcademicYear,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, card)
}
