package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/schoolms/backend/internal/application/identity"
)

// BootstrapTokenHeader carries the operator token that allows a school to register
const BootstrapTokenHeader = "X-Bootstrap-Token"

// SchoolHandler handles the tenant and its branches
type SchoolHandler struct {
	BaseHandler
	schoolService SchoolService
}

// NewSchoolHandler creates a new school handler
func NewSchoolHandler(schoolService SchoolService) *SchoolHandler {
	return &SchoolHandler{schoolService: schoolService}
}

// RegisterSchoolRequest creates a school and its first administrator
type RegisterSchoolRequest struct {
	Code          string `json:"code" binding:"required,max=30" example:"STMARY"`
	Name          string `json:"name" binding:"required,max=200" example:"St. Mary's Academy"`
	Currency      string `json:"currency" binding:"omitempty,len=3" example:"KES"`
	AdminUsername string `json:"admin_username" binding:"required,min=3,max=100"`
	AdminPassword string `json:"admin_password" binding:"required,min=8,max=128"`
	AdminEmail    string `json:"admin_email" binding:"omitempty,email"`
}

// AddBranchRequest adds a branch to the caller's school
type AddBranchRequest struct {
	Code string `json:"code" binding:"required,max=30" example:"EAST"`
	Name string `json:"name" binding:"required,max=200" example:"East Campus"`
}

// Register godoc
// @ID           registerSchool
// @Summary      Register a school
// @Description  Create a school with its administrator. Requires the bootstrap token.
// @Tags         schools
// @Accept       json
// @Produce      json
// @Param        X-Bootstrap-Token header string true "Bootstrap token"
// @Param        request body RegisterSchoolRequest true "School"
// @Success      201 {object} APIResponse[identityapp.RegisterSchoolResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /schools/register [post]
func (h *SchoolHandler) Register(c *gin.Context) {
	var req RegisterSchoolRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.schoolService.Register(c.Request.Context(), identityapp.RegisterSchoolInput{
		BootstrapToken: c.GetHeader(BootstrapTokenHeader),
		Code:           req.Code,
		Name:           req.Name,
		Currency:       req.Currency,
		AdminUsername:  req.AdminUsername,
		AdminPassword:  req.AdminPassword,
		AdminEmail:     req.AdminEmail,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Get godoc
// @ID           getSchool
// @Summary      Get the caller's school
// @Tags         schools
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.SchoolInfo]
// @Security     BearerAuth
// @Router       /schools/current [get]
func (h *SchoolHandler) Get(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	school, err := h.schoolService.Get(c.Request.Context(), tc)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, school)
}

// AddBranch godoc
// @ID           addSchoolBranch
// @Summary      Add a branch
// @Tags         schools
// @Accept       json
// @Produce      json
// @Param        request body AddBranchRequest true "Branch"
// @Success      201 {object} APIResponse[identityapp.BranchInfo]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /schools/current/branches [post]
func (h *SchoolHandler) AddBranch(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var req AddBranchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	branch, err := h.schoolService.AddBranch(c.Request.Context(), tc, identityapp.AddBranchInput{
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, branch)
}

// ListBranches godoc
// @ID           listSchoolBranches
// @Summary      List branches
// @Tags         schools
// @Produce      json
// @Success      200 {object} APIResponse[[]identityapp.BranchInfo]
// @Security     BearerAuth
// @Router       /schools/current/branches [get]
func (h *SchoolHandler) ListBranches(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	branches, err := h.schoolService.ListBranches(c.Request.Context(), tc)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branches)
}

// ListRoles godoc
// @ID           listRoles
// @Summary      List roles and their permissions
// @Tags         schools
// @Produce      json
// @Success      200 {object} APIResponse[[]identityapp.RoleInfo]
// @Security     BearerAuth
// @Router       /roles [get]
func (h *SchoolHandler) ListRoles(c *gin.Context) {
	h.Success(c, identityapp.ListRoles())
}
