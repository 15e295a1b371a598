package handler

import (
	"github.com/gin-gonic/gin"
	feeapp "github.com/schoolms/backend/internal/application/fee"
	"github.com/schoolms/backend/internal/interfaces/http/dto"
)

// FeeHandler handles fee types and fee structures
type FeeHandler struct {
	BaseHandler
	feeTypes   FeeTypeService
	structures FeeStructureService
}

// NewFeeHandler creates a new fee handler
func NewFeeHandler(feeTypes FeeTypeService, structures FeeStructureService) *FeeHandler {
	return &FeeHandler{feeTypes: feeTypes, structures: structures}
}

// CreateFeeType godoc
// @ID           createFeeType
// @Summary      Create a fee type
// @Tags         fees
// @Accept       json
// @Produce      json
// @Param        request body feeapp.CreateFeeTypeInput true "Fee type"
// @Success      201 {object} APIResponse[feeapp.FeeTypeResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fee-types [post]
func (h *FeeHandler) CreateFeeType(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var req feeapp.CreateFeeTypeInput
	if !h.bindJSON(c, &req) {
		return
	}
	ft, err := h.feeTypes.Create(c.Request.Context(), tc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ft)
}

// ListFeeTypes godoc
// @ID           listFeeTypes
// @Summary      List fee types
// @Tags         fees
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Code or name"
// @Success      200 {object} APIResponse[[]feeapp.FeeTypeResponse]
// @Security     BearerAuth
// @Router       /fee-types [get]
func (h *FeeHandler) ListFeeTypes(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var q dto.ListRequest
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.feeTypes.List(c.Request.Context(), tc, q.Page, q.PageSize, q.Search)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// CreateStructure godoc
// @ID           createFeeStructure
// @Summary      Create a fee structure
// @Description  A structure is a named set of fee items for a grade, term and academic year
// @Tags         fees
// @Accept       json
// @Produce      json
// @Param        request body feeapp.CreateFeeStructureInput true "Fee structure"
// @Success      201 {object} APIResponse[feeapp.FeeStructureResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fee-structures [post]
func (h *FeeHandler) CreateStructure(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var req feeapp.CreateFeeStructureInput
	if !h.bindJSON(c, &req) {
		return
	}
	fs, err := h.structures.Create(c.Request.Context(), tc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, fs)
}

// ListStructures godoc
// @ID           listFeeStructures
// @Summary      List fee structures
// @Tags         fees
// @Produce      json
// @Param        grade query string false "Grade"
// @Param        term query int false "Term"
// @Param        academic_year query int false "Academic year"
// @Param        active query bool false "Only active structures"
// @Success      200 {object} APIResponse[[]feeapp.FeeStructureResponse]
// @Security     BearerAuth
// @Router       /fee-structures [get]
func (h *FeeHandler) ListStructures(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter feeapp.FeeStructureListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.structures.List(c.Request.Context(), tc, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetStructure godoc
// @ID           getFeeStructure
// @Summary      Get a fee structure
// @Tags         fees
// @Produce      json
// @Param        id path string true "Fee structure ID"
// @Success      200 {object} APIResponse[feeapp.FeeStructureResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fee-structures/{id} [get]
func (h *FeeHandler) GetStructure(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	fs, err := h.structures.Get(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fs)
}

// ReplaceItems godoc
// @ID           replaceFeeStructureItems
// @Summary      Replace fee structure items
// @Description  Rejected once an invoice references the structure
// @Tags         fees
// @Accept       json
// @Produce      json
// @Param        id path string true "Fee structure ID"
// @Param        request body feeapp.ReplaceItemsInput true "Items"
// @Success      200 {object} APIResponse[feeapp.FeeStructureResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fee-structures/{id}/items [put]
func (h *FeeHandler) ReplaceItems(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req feeapp.ReplaceItemsInput
	if !h.bindJSON(c, &req) {
		return
	}
	fs, err := h.structures.ReplaceItems(c.Request.Context(), tc, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fs)
}

// ArchiveStructure godoc
// @ID           archiveFeeStructure
// @Summary      Archive a fee structure
// @Tags         fees
// @Produce      json
// @Param        id path string true "Fee structure ID"
// @Success      200 {object} APIResponse[feeapp.FeeStructureResponse]
// @Security     BearerAuth
// @Router       /fee-structures/{id}/archive [post]
func (h *FeeHandler) ArchiveStructure(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	fs, err := h.structures.Archive(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fs)
}

// DeleteStructure godoc
// @ID           deleteFeeStructure
// @Summary      Delete a fee structure
// @Description  Only structures no invoice references can be deleted
// @Tags         fees
// @Param        id path string true "Fee structure ID"
// @Success      204
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fee-structures/{id} [delete]
func (h *FeeHandler) DeleteStructure(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.structures.Delete(c.Request.Context(), tc, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
