package fares

import (
	"time"

	"github.com/google/uuid"
)

// FareRate is a versioned price policy for one vehicle type. Amounts are in
// minor currency units (XOF has no sub-unit, so these are whole francs).
type FareRate struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	VehicleTypeID   uuid.UUID  `json:"vehicle_type_id" db:"vehicle_type_id"`
	BaseFare        int64      `json:"base_fare" db:"base_fare"`
	PerKmRate       int64      `json:"per_km_rate" db:"per_km_rate"`
	NightMultiplier float64    `json:"night_multiplier" db:"night_multiplier"`
	EffectiveFrom   time.Time  `json:"effective_from" db:"effective_from"`
	EffectiveUntil  *time.Time `json:"effective_until,omitempty" db:"effective_until"`
	IsActive        bool       `json:"is_active" db:"is_active"`
	CreatedBy       *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	Notes           *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// RegionalFareMultiplier is a versioned regional price adjustment
type RegionalFareMultiplier struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	RegionID       uuid.UUID  `json:"region_id" db:"region_id"`
	Multiplier     float64    `json:"multiplier" db:"multiplier"`
	Reason         *string    `json:"reason,omitempty" db:"reason"`
	EffectiveFrom  time.Time  `json:"effective_from" db:"effective_from"`
	EffectiveUntil *time.Time `json:"effective_until,omitempty" db:"effective_until"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	CreatedBy      *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateFareRateRequest is the request body for creating a fare rate
type CreateFareRateRequest struct {
	VehicleTypeID   uuid.UUID  `json:"vehicle_type_id" binding:"required"`
	BaseFare        int64      `json:"base_fare" binding:"gte=0"`
	PerKmRate       int64      `json:"per_km_rate" binding:"gte=0"`
	NightMultiplier *float64   `json:"night_multiplier,omitempty" binding:"omitempty,gte=0.5,lte=3"`
	EffectiveFrom   *time.Time `json:"effective_from,omitempty"`
	EffectiveUntil  *time.Time `json:"effective_until,omitempty"`
	IsActive        *bool      `json:"is_active,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

// UpdateFareRateRequest is the request body for a partial fare rate update.
// Only fields that are present are applied.
type UpdateFareRateRequest struct {
	VehicleTypeID   *uuid.UUID `json:"vehicle_type_id,omitempty"`
	BaseFare        *int64     `json:"base_fare,omitempty" binding:"omitempty,gte=0"`
	PerKmRate       *int64     `json:"per_km_rate,omitempty" binding:"omitempty,gte=0"`
	NightMultiplier *float64   `json:"night_multiplier,omitempty" binding:"omitempty,gte=0.5,lte=3"`
	EffectiveFrom   *time.Time `json:"effective_from,omitempty"`
	EffectiveUntil  *time.Time `json:"effective_until,omitempty"`
	IsActive        *bool      `json:"is_active,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

// CreateRegionalMultiplierRequest is the request body for creating a regional multiplier
type CreateRegionalMultiplierRequest struct {
	RegionID       uuid.UUID  `json:"region_id" binding:"required"`
	Multiplier     *float64   `json:"multiplier,omitempty" binding:"omitempty,gte=0.5,lte=3"`
	Reason         *string    `json:"reason,omitempty"`
	EffectiveFrom  *time.Time `json:"effective_from,omitempty"`
	EffectiveUntil *time.Time `json:"effective_until,omitempty"`
	IsActive       *bool      `json:"is_active,omitempty"`
}

// UpdateRegionalMultiplierRequest is the request body for a partial multiplier update
type UpdateRegionalMultiplierRequest struct {
	RegionID       *uuid.UUID `json:"region_id,omitempty"`
	Multiplier     *float64   `json:"multiplier,omitempty" binding:"omitempty,gte=0.5,lte=3"`
	Reason         *string    `json:"reason,omitempty"`
	EffectiveFrom  *time.Time `json:"effective_from,omitempty"`
	EffectiveUntil *time.Time `json:"effective_until,omitempty"`
	IsActive       *bool      `json:"is_active,omitempty"`
}

// FareRateFilter narrows fare rate listings
type FareRateFilter struct {
	VehicleTypeID *uuid.UUID
	IsActive      *bool
	EffectiveDate *time.Time
	SortBy        string
	SortOrder     string
}

// MultiplierFilter narrows regional multiplier listings
type MultiplierFilter struct {
	RegionID      *uuid.UUID
	IsActive      *bool
	EffectiveDate *time.Time
	SortBy        string
	SortOrder     string
}

// FareCalculationRequest describes one trip to price. Not persisted.
type FareCalculationRequest struct {
	VehicleTypeID    uuid.UUID  `json:"vehicle_type_id" binding:"required"`
	Distance         float64    `json:"distance" binding:"required,gt=0.1,lte=1000"`
	RegionID         *uuid.UUID `json:"region_id,omitempty"`
	IsNightTrip      bool       `json:"is_night_trip"`
	WaitingTime      float64    `json:"waiting_time" binding:"gte=0,lte=300"`
	CustomMultiplier *float64   `json:"custom_multiplier,omitempty" binding:"omitempty,gte=0.5,lte=3"`
}

// FareBreakdown itemizes a calculated fare
type FareBreakdown struct {
	BaseFare           int64    `json:"base_fare"`
	DistanceFare       int64    `json:"distance_fare"`
	WaitingFare        int64    `json:"waiting_fare"`
	AppliedMultipliers []string `json:"applied_multipliers"`
}

// FareCalculationResult is the itemized outcome of a fare calculation.
// RegionalMultiplier is set only when a regional record actually resolved,
// CustomMultiplier only when the request carried one.
type FareCalculationResult struct {
	VehicleTypeID      uuid.UUID     `json:"vehicle_type_id"`
	Distance           float64       `json:"distance"`
	RegionID           *uuid.UUID    `json:"region_id,omitempty"`
	IsNightTrip        bool          `json:"is_night_trip"`
	WaitingTime        float64       `json:"waiting_time"`
	BaseFare           int64         `json:"base_fare"`
	DistanceFare       int64         `json:"distance_fare"`
	WaitingFare        int64         `json:"waiting_fare"`
	Subtotal           int64         `json:"subtotal"`
	NightMultiplier    float64       `json:"night_multiplier"`
	RegionalMultiplier *float64      `json:"regional_multiplier,omitempty"`
	CustomMultiplier   *float64      `json:"custom_multiplier,omitempty"`
	TotalFare          int64         `json:"total_fare"`
	Breakdown          FareBreakdown `json:"breakdown"`
	CalculatedAt       time.Time     `json:"calculated_at"`
}

// RegionFareRatePreview is a quoting view of an active rate with the region's
// multiplier pre-applied to the monetary fields. Night and custom multipliers
// are not applied here.
type RegionFareRatePreview struct {
	RateID             uuid.UUID `json:"rate_id"`
	VehicleTypeID      uuid.UUID `json:"vehicle_type_id"`
	VehicleTypeName    string    `json:"vehicle_type_name"`
	BaseFare           int64     `json:"base_fare"`
	PerKmRate          int64     `json:"per_km_rate"`
	NightMultiplier    float64   `json:"night_multiplier"`
	RegionalMultiplier *float64  `json:"regional_multiplier,omitempty"`
}

// FareRateWithVehicleType joins a rate with its vehicle type name
type FareRateWithVehicleType struct {
	FareRate
	VehicleTypeName string `json:"vehicle_type_name" db:"vehicle_type_name"`
}

// VehicleTypeRateCount groups rate counts by vehicle type name
type VehicleTypeRateCount struct {
	VehicleTypeName string `json:"vehicle_type_name"`
	Count           int64  `json:"count"`
}

// RegionMultiplierSummary groups multipliers by region name
type RegionMultiplierSummary struct {
	RegionName    string  `json:"region_name"`
	Count         int64   `json:"count"`
	AvgMultiplier float64 `json:"avg_multiplier"`
}

// FareRateStats aggregates the fare rate collection
type FareRateStats struct {
	Total                int64                  `json:"total"`
	Active               int64                  `json:"active"`
	Inactive             int64                  `json:"inactive"`
	AvgBaseFare          float64                `json:"avg_base_fare"`
	AvgPerKmRate         float64                `json:"avg_per_km_rate"`
	ExpiringWithin30Days int64                  `json:"expiring_within_30_days"`
	ByVehicleType        []VehicleTypeRateCount `json:"by_vehicle_type"`
}

// MultiplierStats aggregates the regional multiplier collection
type MultiplierStats struct {
	Total         int64                     `json:"total"`
	Active        int64                     `json:"active"`
	Inactive      int64                     `json:"inactive"`
	AvgMultiplier float64                   `json:"avg_multiplier"`
	ByRegion      []RegionMultiplierSummary `json:"by_region"`
}

// FareStatistics is the read-only aggregate over both collections
type FareStatistics struct {
	FareRates           FareRateStats   `json:"fare_rates"`
	RegionalMultipliers MultiplierStats `json:"regional_multipliers"`
	GeneratedAt         time.Time       `json:"generated_at"`
}
