package handler

import (
	"net/http"
	"time"

	"timecafe/internal/dto"
	"timecafe/internal/service"

	"github.com/gin-gonic/gin"
)

type SavingsHandler struct{ svc service.SavingsService }

func NewSavingsHandler(svc service.SavingsService) *SavingsHandler {
	return &SavingsHandler{svc: svc}
}

func (h *SavingsHandler) ManualDeposit(c *gin.Context) {
	var req dto.ManualDepositRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ManualDeposit(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AmendDeposit is the one sanctioned ledger amendment: a manual saving
// deposit's amount, channel or account may be corrected in place.
func (h *SavingsHandler) AmendDeposit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AmendDepositRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AmendDeposit(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SavingsHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePlan(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SavingsHandler) ListPlans(c *gin.Context) {
	resp, err := h.svc.ListPlans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SavingsHandler) DeactivatePlan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeactivatePlan(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Preview godoc
// @Summary      Preview due saving plans
// @Description  Computes which auto-saving plans would deposit as of ?date (default now) without persisting anything. An abandoned preview advances no plan.
// @Tags         savings
// @Produce      json
// @Security     BearerAuth
// @Param        date query string false "Target date (RFC 3339 or YYYY-MM-DD, default now)"
// @Success      200  {object} dto.SavingsPreviewResponse
// @Router       /v1/savings/preview [get]
func (h *SavingsHandler) Preview(c *gin.Context) {
	target, ok := targetDate(c)
	if !ok {
		return
	}
	resp, err := h.svc.Preview(c.Request.Context(), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Confirm applies the due plans previewed for the target date. Idempotent:
// confirming twice for the same date applies nothing the second time.
func (h *SavingsHandler) Confirm(c *gin.Context) {
	target, ok := targetDate(c)
	if !ok {
		return
	}
	resp, err := h.svc.Confirm(c.Request.Context(), actorFrom(c), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func targetDate(c *gin.Context) (time.Time, bool) {
	t, ok := parseQueryTime(c, "date")
	if !ok {
		return time.Time{}, false
	}
	if t == nil {
		return time.Now(), true
	}
	return *t, true
}
