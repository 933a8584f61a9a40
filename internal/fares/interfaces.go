package fares

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepositoryInterface defines database operations for fare rates and
// regional multipliers
type RepositoryInterface interface {
	CreateFareRate(ctx context.Context, rate *FareRate) error
	GetFareRateByID(ctx context.Context, id uuid.UUID) (*FareRate, error)
	ListFareRates(ctx context.Context, filter FareRateFilter, limit, offset int) ([]*FareRate, int64, error)
	UpdateFareRate(ctx context.Context, rate *FareRate) error
	DeleteFareRate(ctx context.Context, id uuid.UUID) error
	HasActiveFareRate(ctx context.Context, vehicleTypeID uuid.UUID) (bool, error)
	GetActiveFareRate(ctx context.Context, vehicleTypeID uuid.UUID, asOf time.Time) (*FareRate, error)
	ListActiveFareRateDetails(ctx context.Context, asOf time.Time) ([]*FareRateWithVehicleType, error)

	CreateRegionalMultiplier(ctx context.Context, multiplier *RegionalFareMultiplier) error
	GetRegionalMultiplierByID(ctx context.Context, id uuid.UUID) (*RegionalFareMultiplier, error)
	ListRegionalMultipliers(ctx context.Context, filter MultiplierFilter, limit, offset int) ([]*RegionalFareMultiplier, int64, error)
	UpdateRegionalMultiplier(ctx context.Context, multiplier *RegionalFareMultiplier) error
	DeleteRegionalMultiplier(ctx context.Context, id uuid.UUID) error
	HasActiveRegionalMultiplier(ctx context.Context, regionID uuid.UUID) (bool, error)
	GetActiveRegionalMultiplier(ctx context.Context, regionID uuid.UUID, asOf time.Time) (*RegionalFareMultiplier, error)

	GetStatistics(ctx context.Context, now time.Time) (*FareStatistics, error)
}

// VehicleTypeDirectory validates vehicle type references
type VehicleTypeDirectory interface {
	LookupVehicleType(ctx context.Context, id uuid.UUID) (string, error)
}

// RegionDirectory validates region references
type RegionDirectory interface {
	LookupRegion(ctx context.Context, id uuid.UUID) (string, error)
}
