package regions

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines database operations for regions
type RepositoryInterface interface {
	CreateRegion(ctx context.Context, region *Region) error
	GetRegionByID(ctx context.Context, id uuid.UUID) (*Region, error)
	ListRegions(ctx context.Context, limit, offset int, includeInactive bool) ([]*Region, int64, error)
	UpdateRegion(ctx context.Context, region *Region) error
	DeleteRegion(ctx context.Context, id uuid.UUID) error
	CountFareMultipliers(ctx context.Context, regionID uuid.UUID) (int64, error)
}
