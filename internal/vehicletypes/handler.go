package vehicletypes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taxigov/fare-platform/pkg/common"
	"github.com/taxigov/fare-platform/pkg/pagination"
)

// Handler handles HTTP requests for vehicle types
type Handler struct {
	service *Service
}

// NewHandler creates a new vehicle types handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers vehicle type routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, admin *gin.RouterGroup) {
	vt := rg.Group("/vehicle-types")
	{
		vt.GET("", h.ListVehicleTypes)
		vt.GET("/:id", h.GetVehicleType)
	}

	avt := admin.Group("/vehicle-types")
	{
		avt.POST("", h.CreateVehicleType)
		avt.PATCH("/:id", h.UpdateVehicleType)
		avt.DELETE("/:id", h.DeactivateVehicleType)
	}
}

// CreateVehicleType creates a new vehicle type
func (h *Handler) CreateVehicleType(c *gin.Context) {
	var req CreateVehicleTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	vt, err := h.service.CreateVehicleType(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to create vehicle type")
		return
	}

	common.CreatedResponse(c, vt)
}

// ListVehicleTypes lists vehicle types
func (h *Handler) ListVehicleTypes(c *gin.Context) {
	params, err := pagination.ParseParams(c)
	if err != nil {
		common.HandleServiceError(c, err, "invalid pagination parameters")
		return
	}

	includeInactive := c.Query("include_inactive") == "true"

	items, total, err := h.service.ListVehicleTypes(c.Request.Context(), params.Limit, params.Offset(), includeInactive)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list vehicle types")
		return
	}

	common.SuccessResponseWithMeta(c, items, pagination.BuildMeta(params, total))
}

// GetVehicleType returns a vehicle type by ID
func (h *Handler) GetVehicleType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid vehicle type id")
		return
	}

	vt, err := h.service.GetVehicleTypeByID(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "failed to get vehicle type")
		return
	}

	common.SuccessResponse(c, vt)
}

// UpdateVehicleType applies a partial update
func (h *Handler) UpdateVehicleType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid vehicle type id")
		return
	}

	var req UpdateVehicleTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	vt, err := h.service.UpdateVehicleType(c.Request.Context(), id, &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to update vehicle type")
		return
	}

	common.SuccessResponse(c, vt)
}

// DeactivateVehicleType soft-deactivates a vehicle type
func (h *Handler) DeactivateVehicleType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid vehicle type id")
		return
	}

	if err := h.service.DeactivateVehicleType(c.Request.Context(), id); err != nil {
		common.HandleServiceError(c, err, "failed to deactivate vehicle type")
		return
	}

	common.NoContentResponse(c)
}
