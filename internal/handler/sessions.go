package handler

import (
	"net/http"

	"timecafe/internal/dto"
	"timecafe/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionsHandler struct{ svc service.SessionService }

func NewSessionsHandler(svc service.SessionService) *SessionsHandler {
	return &SessionsHandler{svc: svc}
}

// Open godoc
// @Summary      Open a customer session
// @Description  Seats a customer (registered or walk-in) on a device and starts the time meter.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.OpenSessionRequest true "Session detail"
// @Success      201  {object} dto.SessionResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/sessions [post]
func (h *SessionsHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SessionsHandler) ListActive(c *gin.Context) {
	resp, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ChangeDevice moves a running session to another device; billing splits into
// a new segment at the change instant.
func (h *SessionsHandler) ChangeDevice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ChangeDeviceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ChangeDevice(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionsHandler) AddOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AddOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AddOrder(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *SessionsHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	orderID, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteOrder(c.Request.Context(), id, orderID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Checkout godoc
// @Summary      Close a session and settle the invoice
// @Description  Bills the segmented time and orders, applies the discount, reconciles against the customer's balances and archives the session as a record.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true "Session UUID"
// @Param        body body dto.CheckoutRequest true "Payment detail"
// @Success      200  {object} dto.CheckoutResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sessions/{id}/checkout [post]
func (h *SessionsHandler) Checkout(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Checkout(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
