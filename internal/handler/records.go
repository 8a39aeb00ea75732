package handler

import (
	"net/http"
	"time"

	"timecafe/internal/apierror"
	"timecafe/internal/dto"
	"timecafe/internal/service"

	"github.com/gin-gonic/gin"
)

type RecordsHandler struct{ svc service.RecordService }

func NewRecordsHandler(svc service.RecordService) *RecordsHandler {
	return &RecordsHandler{svc: svc}
}

// List returns archived session records, optionally bounded by ?from / ?to
// (RFC 3339 or YYYY-MM-DD) on the session end time.
func (h *RecordsHandler) List(c *gin.Context) {
	from, ok := parseQueryTime(c, "from")
	if !ok {
		return
	}
	to, ok := parseQueryTime(c, "to")
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecordsHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EditOrder godoc
// @Summary      Edit an order line on an archived record
// @Description  Changes the quantity of one historical order line; totals are recomputed from the record's frozen figures and the difference is settled against the customer's balances.
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path string                     true "Record UUID"
// @Param        order_id path string                     true "Order line UUID"
// @Param        body     body dto.EditRecordOrderRequest true "New quantity"
// @Success      200      {object} dto.RecordResponse
// @Failure      409      {object} apierror.APIError
// @Router       /v1/records/{id}/orders/{order_id} [put]
func (h *RecordsHandler) EditOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	orderID, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	var req dto.EditRecordOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EditOrder(c.Request.Context(), id, orderID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecordsHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	orderID, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	resp, err := h.svc.DeleteOrder(c.Request.Context(), id, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecordsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseQueryTime reads an optional time query parameter. A malformed value
// writes the 400 response and returns ok=false.
func parseQueryTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	c.JSON(http.StatusBadRequest, apierror.New("invalid "+name+" date"))
	return nil, false
}
