package vehicletypes

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines database operations for vehicle types
type RepositoryInterface interface {
	CreateVehicleType(ctx context.Context, vt *VehicleType) error
	GetVehicleTypeByID(ctx context.Context, id uuid.UUID) (*VehicleType, error)
	ListVehicleTypes(ctx context.Context, limit, offset int, includeInactive bool) ([]*VehicleType, int64, error)
	UpdateVehicleType(ctx context.Context, vt *VehicleType) error
	DeactivateVehicleType(ctx context.Context, id uuid.UUID) error
}
