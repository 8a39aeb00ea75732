package handler

import (
	"net/http"
	"strconv"

	"timecafe/internal/service"

	"github.com/gin-gonic/gin"
)

type CyclesHandler struct{ svc service.CycleService }

func NewCyclesHandler(svc service.CycleService) *CyclesHandler {
	return &CyclesHandler{svc: svc}
}

func (h *CyclesHandler) Current(c *gin.Context) {
	resp, err := h.svc.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CyclesHandler) Start(c *gin.Context) {
	resp, err := h.svc.Start(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Preview aggregates the ledger since cycle start into end-of-day figures
// without closing anything.
func (h *CyclesHandler) Preview(c *gin.Context) {
	resp, err := h.svc.Preview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CyclesHandler) Close(c *gin.Context) {
	resp, err := h.svc.Close(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CyclesHandler) History(c *gin.Context) {
	limit := 30
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	resp, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
