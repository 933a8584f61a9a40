package regions

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taxigov/fare-platform/pkg/common"
	"github.com/taxigov/fare-platform/pkg/pagination"
)

// Handler handles HTTP requests for regions
type Handler struct {
	service *Service
}

// NewHandler creates a new regions handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers region routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, admin *gin.RouterGroup) {
	r := rg.Group("/regions")
	{
		r.GET("", h.ListRegions)
		r.GET("/:id", h.GetRegion)
	}

	ar := admin.Group("/regions")
	{
		ar.POST("", h.CreateRegion)
		ar.PATCH("/:id", h.UpdateRegion)
		ar.DELETE("/:id", h.DeleteRegion)
	}
}

// CreateRegion creates a new region
func (h *Handler) CreateRegion(c *gin.Context) {
	var req CreateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	region, err := h.service.CreateRegion(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to create region")
		return
	}

	common.CreatedResponse(c, region)
}

// ListRegions lists regions
func (h *Handler) ListRegions(c *gin.Context) {
	params, err := pagination.ParseParams(c)
	if err != nil {
		common.HandleServiceError(c, err, "invalid pagination parameters")
		return
	}

	includeInactive := c.Query("include_inactive") == "true"

	items, total, err := h.service.ListRegions(c.Request.Context(), params.Limit, params.Offset(), includeInactive)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list regions")
		return
	}

	common.SuccessResponseWithMeta(c, items, pagination.BuildMeta(params, total))
}

// GetRegion returns a region by ID
func (h *Handler) GetRegion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid region id")
		return
	}

	region, err := h.service.GetRegionByID(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "failed to get region")
		return
	}

	common.SuccessResponse(c, region)
}

// UpdateRegion applies a partial update
func (h *Handler) UpdateRegion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid region id")
		return
	}

	var req UpdateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	region, err := h.service.UpdateRegion(c.Request.Context(), id, &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to update region")
		return
	}

	common.SuccessResponse(c, region)
}

// DeleteRegion removes a region
func (h *Handler) DeleteRegion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid region id")
		return
	}

	if err := h.service.DeleteRegion(c.Request.Context(), id); err != nil {
		common.HandleServiceError(c, err, "failed to delete region")
		return
	}

	common.NoContentResponse(c)
}
