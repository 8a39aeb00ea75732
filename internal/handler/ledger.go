package handler

import (
	"net/http"

	"timecafe/internal/apierror"
	"timecafe/internal/dto"
	"timecafe/internal/model"
	"timecafe/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LedgerHandler struct{ svc service.LedgerService }

func NewLedgerHandler(svc service.LedgerService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

func (h *LedgerHandler) ListEntries(c *gin.Context) {
	resp, err := h.svc.ListEntries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Balance godoc
// @Summary      Derive a channel balance
// @Description  Replays the full ledger history and returns the available balance of a channel. Bank balances require ?account_id.
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Param        channel    query string true  "cash | bank | receivable"
// @Param        account_id query string false "Bank account UUID"
// @Success      200  {object} dto.BalanceResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ledger/balance [get]
func (h *LedgerHandler) Balance(c *gin.Context) {
	channel := model.Channel(c.Query("channel"))
	switch channel {
	case model.ChannelCash, model.ChannelBank, model.ChannelReceivable:
	default:
		c.JSON(http.StatusBadRequest, apierror.New("invalid channel"))
		return
	}

	var accountID *uuid.UUID
	if raw := c.Query("account_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid account_id"))
			return
		}
		accountID = &id
	}

	available, err := h.svc.AvailableBalance(c.Request.Context(), channel, accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := dto.BalanceResponse{Channel: string(channel), Available: available}
	if accountID != nil {
		v := accountID.String()
		resp.AccountID = &v
	}
	c.JSON(http.StatusOK, resp)
}

// Integrity runs the referential self-check over the full ledger history.
func (h *LedgerHandler) Integrity(c *gin.Context) {
	resp, err := h.svc.CheckIntegrity(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MigrateLegacy godoc
// @Summary      Import opening balances
// @Description  Seeds the ledger with opening balances from a previous bookkeeping system. Runs only against an empty ledger; repeated calls are skipped.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.MigrateLegacyRequest true "Opening balances"
// @Success      200  {object} dto.MigrationResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/ledger/migrate [post]
func (h *LedgerHandler) MigrateLegacy(c *gin.Context) {
	var req dto.MigrateLegacyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MigrateLegacy(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
