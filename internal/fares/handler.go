package fares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taxigov/fare-platform/pkg/common"
	"github.com/taxigov/fare-platform/pkg/pagination"
)

// Handler handles HTTP requests for fare rates, regional multipliers and
// fare calculations
type Handler struct {
	service *Service
}

// NewHandler creates a new fares handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers fare routes. Reads are public, writes require an
// authenticated admin.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, admin *gin.RouterGroup) {
	rates := rg.Group("/fare-rates")
	{
		rates.GET("", h.ListFareRates)
		rates.GET("/statistics", h.GetFareStatistics)
		rates.GET("/active/:vehicle_type_id", h.GetActiveFareRate)
		rates.GET("/:id", h.GetFareRate)
	}

	adminRates := admin.Group("/fare-rates")
	{
		adminRates.POST("", h.CreateFareRate)
		adminRates.PATCH("/:id", h.UpdateFareRate)
		adminRates.DELETE("/:id", h.DeleteFareRate)
	}

	multipliers := rg.Group("/fare-multipliers")
	{
		multipliers.GET("", h.ListRegionalMultipliers)
		multipliers.GET("/active/:region_id", h.GetActiveRegionalMultiplier)
		multipliers.GET("/:id", h.GetRegionalMultiplier)
	}

	adminMultipliers := admin.Group("/fare-multipliers")
	{
		adminMultipliers.POST("", h.CreateRegionalMultiplier)
		adminMultipliers.PATCH("/:id", h.UpdateRegionalMultiplier)
		adminMultipliers.DELETE("/:id", h.DeleteRegionalMultiplier)
	}

	rg.POST("/fare-calculations", h.CalculateFare)
	rg.GET("/regions/:id/fare-rates", h.GetFareRatesByRegion)
}

func currentUserID(c *gin.Context) *uuid.UUID {
	raw, ok := c.Get("user_id")
	if !ok {
		return nil
	}
	id, ok := raw.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// CreateFareRate creates a new fare rate
func (h *Handler) CreateFareRate(c *gin.Context) {
	var req CreateFareRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	rate, err := h.service.CreateFareRate(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		common.HandleServiceError(c, err, "failed to create fare rate")
		return
	}

	common.CreatedResponse(c, rate)
}

// ListFareRates lists fare rates with filtering, sorting and pagination
func (h *Handler) ListFareRates(c *gin.Context) {
	params, err := pagination.ParseParams(c)
	if err != nil {
		common.HandleServiceError(c, err, "invalid pagination parameters")
		return
	}

	filter, err := parseFareRateFilter(c)
	if err != nil {
		common.HandleServiceError(c, err, "invalid filter parameters")
		return
	}

	items, total, err := h.service.ListFareRates(c.Request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list fare rates")
		return
	}

	common.SuccessResponseWithMeta(c, items, pagination.BuildMeta(params, total))
}

func parseFareRateFilter(c *gin.Context) (FareRateFilter, error) {
	filter := FareRateFilter{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if raw := c.Query("vehicle_type_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, common.NewValidationError("invalid vehicle_type_id")
		}
		filter.VehicleTypeID = &id
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, common.NewValidationError("is_active must be true or false")
		}
		filter.IsActive = &active
	}
	if raw := c.Query("effective_date"); raw != "" {
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, common.NewValidationError("effective_date must be RFC 3339")
		}
		filter.EffectiveDate = &date
	}
	return filter, nil
}

// GetFareRate returns a fare rate by ID
func (h *Handler) GetFareRate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid fare rate id")
		return
	}

	rate, err := h.service.GetFareRateByID(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "failed to get fare rate")
		return
	}

	common.SuccessResponse(c, rate)
}

// GetActiveFareRate resolves the rate currently applying to a vehicle type
func (h *Handler) GetActiveFareRate(c *gin.Context) {
	vehicleTypeID, err := uuid.Parse(c.Param("vehicle_type_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid vehicle type id")
		return
	}

	rate, err := h.service.GetActiveFareRateByVehicleType(c.Request.Context(), vehicleTypeID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to resolve active fare rate")
		return
	}

	common.SuccessResponse(c, rate)
}

// UpdateFareRate applies a partial update to a fare rate
func (h *Handler) UpdateFareRate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid fare rate id")
		return
	}

	var req UpdateFareRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	rate, err := h.service.UpdateFareRate(c.Request.Context(), id, &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to update fare rate")
		return
	}

	common.SuccessResponse(c, rate)
}

// DeleteFareRate removes a fare rate
func (h *Handler) DeleteFareRate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid fare rate id")
		return
	}

	if err := h.service.DeleteFareRate(c.Request.Context(), id); err != nil {
		common.HandleServiceError(c, err, "failed to delete fare rate")
		return
	}

	common.NoContentResponse(c)
}

// CreateRegionalMultiplier creates a new regional multiplier
func (h *Handler) CreateRegionalMultiplier(c *gin.Context) {
	var req CreateRegionalMultiplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	multiplier, err := h.service.CreateRegionalMultiplier(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		common.HandleServiceError(c, err, "failed to create fare multiplier")
		return
	}

	common.CreatedResponse(c, multiplier)
}

// ListRegionalMultipliers lists regional multipliers with filtering, sorting
// and pagination
func (h *Handler) ListRegionalMultipliers(c *gin.Context) {
	params, err := pagination.ParseParams(c)
	if err != nil {
		common.HandleServiceError(c, err, "invalid pagination parameters")
		return
	}

	filter, err := parseMultiplierFilter(c)
	if err != nil {
		common.HandleServiceError(c, err, "invalid filter parameters")
		return
	}

	items, total, err := h.service.ListRegionalMultipliers(c.Request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list fare multipliers")
		return
	}

	common.SuccessResponseWithMeta(c, items, pagination.BuildMeta(params, total))
}

func parseMultiplierFilter(c *gin.Context) (MultiplierFilter, error) {
	filter := MultiplierFilter{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if raw := c.Query("region_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, common.NewValidationError("invalid region_id")
		}
		filter.RegionID = &id
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, common.NewValidationError("is_active must be true or false")
		}
		filter.IsActive = &active
	}
	if raw := c.Query("effective_date"); raw != "" {
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, common.NewValidationError("effective_date must be RFC 3339")
		}
		filter.EffectiveDate = &date
	}
	return filter, nil
}

// GetRegionalMultiplier returns a regional multiplier by ID
func (h *Handler) GetRegionalMultiplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid fare multiplier id")
		return
	}

	multiplier, err := h.service.GetRegionalMultiplierByID(c.Request.Context(), id)
	if err != nil {
		common.HandleServiceError(c, err, "failed to get fare multiplier")
		return
	}

	common.SuccessResponse(c, multiplier)
}

// GetActiveRegionalMultiplier resolves the multiplier currently applying to
// a region
func (h *Handler) GetActiveRegionalMultiplier(c *gin.Context) {
	regionID, err := uuid.Parse(c.Param("region_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid region id")
		return
	}

	multiplier, err := h.service.GetActiveRegionalMultiplierByRegion(c.Request.Context(), regionID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to resolve active fare multiplier")
		return
	}

	common.SuccessResponse(c, multiplier)
}

// UpdateRegionalMultiplier applies a partial update to a regional multiplier
func (h *Handler) UpdateRegionalMultiplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid fare multiplier id")
		return
	}

	var req UpdateRegionalMultiplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	multiplier, err := h.service.UpdateRegionalMultiplier(c.Request.Context(), id, &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to update fare multiplier")
		return
	}

	common.SuccessResponse(c, multiplier)
}

// DeleteRegionalMultiplier removes a regional multiplier
func (h *Handler) DeleteRegionalMultiplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid fare multiplier id")
		return
	}

	if err := h.service.DeleteRegionalMultiplier(c.Request.Context(), id); err != nil {
		common.HandleServiceError(c, err, "failed to delete fare multiplier")
		return
	}

	common.NoContentResponse(c)
}

// CalculateFare prices a trip without persisting anything
func (h *Handler) CalculateFare(c *gin.Context) {
	var req FareCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.CalculateFare(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to calculate fare")
		return
	}

	common.SuccessResponse(c, result)
}

// GetFareStatistics returns the aggregate statistics snapshot
func (h *Handler) GetFareStatistics(c *gin.Context) {
	stats, err := h.service.GetFareStatistics(c.Request.Context())
	if err != nil {
		common.HandleServiceError(c, err, "failed to get fare statistics")
		return
	}

	common.SuccessResponse(c, stats)
}

// GetFareRatesByRegion returns active rates with the region's multiplier
// pre-applied
func (h *Handler) GetFareRatesByRegion(c *gin.Context) {
	regionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid region id")
		return
	}

	previews, err := h.service.GetFareRatesByRegion(c.Request.Context(), regionID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to get fare rates for region")
		return
	}

	common.SuccessResponse(c, previews)
}
