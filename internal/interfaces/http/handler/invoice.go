package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	feeapp "github.com/schoolms/backend/internal/application/fee"
	"github.com/schoolms/backend/internal/interfaces/http/dto"
	"github.com/schoolms/backend/internal/interfaces/http/middleware"
)

const maxIdempotencyKeyLength = 128

// InvoiceHandler handles the invoice ledger, payments and receipts
type InvoiceHandler struct {
	BaseHandler
	invoices InvoiceService
	payments PaymentService
	receipts ReceiptService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoices InvoiceService, payments PaymentService, receipts ReceiptService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, payments: payments, receipts: receipts}
}

// ListInvoicesQuery narrows the invoice list
type ListInvoicesQuery struct {
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=200"`
	Search         string `form:"search"`
	LearnerID      string `form:"learner_id"`
	FeeStructureID string `form:"fee_structure_id"`
	Status         string `form:"status" binding:"omitempty,oneof=PENDING PARTIAL PAID OVERPAID WAIVED"`
	Grade          string `form:"grade"`
	Term           *int   `form:"term" binding:"omitempty,min=1,max=3"`
	AcademicYear   *int   `form:"academic_year"`
	Overdue        bool   `form:"overdue"`
}

// ListPaymentsQuery narrows the payment list
type ListPaymentsQuery struct {
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=200"`
	Search    string     `form:"search"`
	InvoiceID string     `form:"invoice_id"`
	LearnerID string     `form:"learner_id"`
	Method    string     `form:"method"`
	FromDate  *time.Time `form:"from_date" time_format:"2006-01-02" time_utc:"1"`
	ToDate    *time.Time `form:"to_date" time_format:"2006-01-02" time_utc:"1"`
}

// Create godoc
// @ID           createInvoice
// @Summary      Invoice a learner
// @Description  Bill one learner from a fee structure. A learner has at most one invoice per structure, term and year.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body feeapp.CreateInvoiceInput true "Invoice"
// @Success      201 {object} APIResponse[feeapp.InvoiceResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var req feeapp.CreateInvoiceInput
	if !h.bindJSON(c, &req) {
		return
	}
	inv, err := h.invoices.Create(c.Request.Context(), tc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, inv)
}

// BulkGenerate godoc
// @ID           bulkGenerateInvoices
// @Summary      Invoice a whole grade
// @Description  Bill every active learner of a grade. Learners already billed are skipped, so a rerun creates nothing.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body feeapp.BulkGenerateInput true "Bulk run"
// @Success      200 {object} APIResponse[feeapp.BulkGenerateResult]
// @Security     BearerAuth
// @Router       /invoices/bulk [post]
func (h *InvoiceHandler) BulkGenerate(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var req feeapp.BulkGenerateInput
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.invoices.BulkGenerate(c.Request.Context(), tc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        learner_id query string false "Learner ID"
// @Param        fee_structure_id query string false "Fee structure ID"
// @Param        status query string false "PENDING, PARTIAL, PAID, OVERPAID or WAIVED"
// @Param        grade query string false "Grade"
// @Param        term query int false "Term"
// @Param        academic_year query int false "Academic year"
// @Param        overdue query bool false "Only overdue invoices"
// @Success      200 {object} APIResponse[[]feeapp.InvoiceResponse]
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var q ListInvoicesQuery
	if !h.bindQuery(c, &q) {
		return
	}
	learnerID, ok := h.queryID(c, "learner_id", q.LearnerID)
	if !ok {
		return
	}
	structureID, ok := h.queryID(c, "fee_structure_id", q.FeeStructureID)
	if !ok {
		return
	}
	page, err := h.invoices.List(c.Request.Context(), tc, feeapp.InvoiceListFilter{
		Page:           q.Page,
		PageSize:       q.PageSize,
		Search:         q.Search,
		LearnerID:      learnerID,
		FeeStructureID: structureID,
		Status:         q.Status,
		Grade:          q.Grade,
		Term:           q.Term,
		AcademicYear:   q.AcademicYear,
		Overdue:        q.Overdue,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Get godoc
// @ID           getInvoice
// @Summary      Get an invoice with its payments
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse[feeapp.InvoiceDetailResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.invoices.Get(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// Waive godoc
// @ID           waiveInvoice
// @Summary      Waive an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body feeapp.WaiveInvoiceInput true "Reason"
// @Success      200 {object} APIResponse[feeapp.InvoiceResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/waive [post]
func (h *InvoiceHandler) Waive(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req feeapp.WaiveInvoiceInput
	if !h.bindJSON(c, &req) {
		return
	}
	inv, err := h.invoices.Waive(c.Request.Context(), tc, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// RecordPayment godoc
// @ID           recordInvoicePayment
// @Summary      Record a payment
// @Description  Apply a payment to an invoice and issue a receipt number. A repeated Idempotency-Key is rejected.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        Idempotency-Key header string false "Client key for safe retries"
// @Param        request body feeapp.RecordPaymentInput true "Payment"
// @Success      201 {object} APIResponse[feeapp.PaymentResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req feeapp.RecordPaymentInput
	if !h.bindJSON(c, &req) {
		return
	}
	req.IdempotencyKey = strings.TrimSpace(c.GetHeader(middleware.IdempotencyKeyHeader))
	if len(req.IdempotencyKey) > maxIdempotencyKeyLength {
		h.ValidationError(c, []dto.ValidationDetail{{Field: middleware.IdempotencyKeyHeader, Message: "Must be at most 128 characters"}})
		return
	}

	result, err := h.payments.Record(c.Request.Context(), tc, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListPayments godoc
// @ID           listPayments
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Param        invoice_id query string false "Invoice ID"
// @Param        learner_id query string false "Learner ID"
// @Param        method query string false "Payment method"
// @Param        from_date query string false "From date (YYYY-MM-DD)"
// @Param        to_date query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]feeapp.PaymentResponse]
// @Security     BearerAuth
// @Router       /payments [get]
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	var q ListPaymentsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	invoiceID, ok := h.queryID(c, "invoice_id", q.InvoiceID)
	if !ok {
		return
	}
	learnerID, ok := h.queryID(c, "learner_id", q.LearnerID)
	if !ok {
		return
	}
	page, err := h.payments.List(c.Request.Context(), tc, feeapp.PaymentListFilter{
		Page:      q.Page,
		PageSize:  q.PageSize,
		Search:    q.Search,
		InvoiceID: invoiceID,
		LearnerID: learnerID,
		Method:    q.Method,
		FromDate:  q.FromDate,
		ToDate:    q.ToDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetPayment godoc
// @ID           getPayment
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200 {object} APIResponse[feeapp.PaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *InvoiceHandler) GetPayment(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.payments.Get(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Receipt godoc
// @ID           getPaymentReceipt
// @Summary      Download a receipt
// @Description  Returns a short-lived link to the receipt PDF, rendering it on first request
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200 {object} APIResponse[feeapp.ReceiptResponse]
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id}/receipt [get]
func (h *InvoiceHandler) Receipt(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	receipt, err := h.receipts.Download(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// ReceiptHTML godoc
// @ID           getPaymentReceiptHTML
// @Summary      Printable receipt
// @Tags         payments
// @Produce      html
// @Param        id path string true "Payment ID"
// @Success      200 {string} string "Receipt HTML"
// @Security     BearerAuth
// @Router       /payments/{id}/receipt/html [get]
func (h *InvoiceHandler) ReceiptHTML(c *gin.Context) {
	tc, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	html, err := h.receipts.HTML(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
