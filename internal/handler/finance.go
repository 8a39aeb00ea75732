package handler

import (
	"net/http"

	"timecafe/internal/dto"
	"timecafe/internal/service"

	"github.com/gin-gonic/gin"
)

type FinanceHandler struct{ svc service.FinanceService }

func NewFinanceHandler(svc service.FinanceService) *FinanceHandler {
	return &FinanceHandler{svc: svc}
}

// ── Expenses ─────────────────────────────────────────────────────────────────

// CreateExpense godoc
// @Summary      Register an expense
// @Description  Records an operating expense; guarded by the period lock and the channel funds check. An expense tagged with a partner counts as a partner-loan repayment.
// @Tags         finance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateExpenseRequest true "Expense detail"
// @Success      201  {object} dto.EntityResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/expenses [post]
func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateExpense(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	resp, err := h.svc.ListExpenses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FinanceHandler) DeleteExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteExpense(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Purchases ────────────────────────────────────────────────────────────────

func (h *FinanceHandler) CreatePurchase(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePurchase(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FinanceHandler) ListPurchases(c *gin.Context) {
	resp, err := h.svc.ListPurchases(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FinanceHandler) DeletePurchase(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeletePurchase(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Loans ────────────────────────────────────────────────────────────────────

func (h *FinanceHandler) CreateLoan(c *gin.Context) {
	var req dto.CreateLoanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateLoan(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FinanceHandler) RepayLoan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RepayLoanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RepayLoan(c.Request.Context(), actorFrom(c), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FinanceHandler) ListLoans(c *gin.Context) {
	resp, err := h.svc.ListLoans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Transfers ────────────────────────────────────────────────────────────────

func (h *FinanceHandler) CreateTransfer(c *gin.Context) {
	var req dto.CreateTransferRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateTransfer(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FinanceHandler) ListTransfers(c *gin.Context) {
	resp, err := h.svc.ListTransfers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FinanceHandler) DeleteTransfer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteTransfer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Partner withdrawals ──────────────────────────────────────────────────────

func (h *FinanceHandler) CreatePartnerDebt(c *gin.Context) {
	var req dto.CreatePartnerDebtRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePartnerDebt(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FinanceHandler) ListPartnerDebts(c *gin.Context) {
	resp, err := h.svc.ListPartnerDebts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Bank accounts ────────────────────────────────────────────────────────────

func (h *FinanceHandler) CreateBankAccount(c *gin.Context) {
	var req dto.CreateBankAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateBankAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FinanceHandler) ListBankAccounts(c *gin.Context) {
	resp, err := h.svc.ListBankAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
