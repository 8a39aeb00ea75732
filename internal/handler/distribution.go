package handler

import (
	"net/http"

	"timecafe/internal/dto"
	"timecafe/internal/service"

	"github.com/gin-gonic/gin"
)

type DistributionHandler struct{ svc service.DistributionService }

func NewDistributionHandler(svc service.DistributionService) *DistributionHandler {
	return &DistributionHandler{svc: svc}
}

// Compute godoc
// @Summary      Compute a profit distribution
// @Description  Runs the partner profit distribution over the given range without persisting anything. Safe to call repeatedly while adjusting overheads.
// @Tags         distribution
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.DistributionRequest true "Range and monthly overheads"
// @Success      200  {object} dto.DistributionResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/distribution/compute [post]
func (h *DistributionHandler) Compute(c *gin.Context) {
	var req dto.DistributionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Compute(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Archive godoc
// @Summary      Archive a period
// @Description  Persists the distribution as an immutable snapshot, locks the period against backdated mutations, and optionally purges the settled transactional history.
// @Tags         distribution
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ArchiveRequest true "Range, overheads and apply_to_ground flag"
// @Success      201  {object} dto.DistributionResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/distribution/archive [post]
func (h *DistributionHandler) Archive(c *gin.Context) {
	var req dto.ArchiveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Archive(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Rebuild regenerates a fresh snapshot for the bounds stored on an existing
// one, typically after correcting the overhead list. The original is kept.
func (h *DistributionHandler) Rebuild(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RebuildRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Rebuild(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DistributionHandler) ListSnapshots(c *gin.Context) {
	resp, err := h.svc.ListSnapshots(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DistributionHandler) GetSnapshot(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetSnapshot(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
