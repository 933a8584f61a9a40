package regions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/taxigov/fare-platform/pkg/common"
)

// Service handles region business logic
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new regions service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// CreateRegion creates a new region
func (s *Service) CreateRegion(ctx context.Context, req *CreateRegionRequest) (*Region, error) {
	region := &Region{
		Name:     req.Name,
		Code:     req.Code,
		IsActive: true,
	}
	if err := s.repo.CreateRegion(ctx, region); err != nil {
		return nil, err
	}
	return region, nil
}

// GetRegionByID returns a region by ID
func (s *Service) GetRegionByID(ctx context.Context, id uuid.UUID) (*Region, error) {
	region, err := s.repo.GetRegionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("region not found")
		}
		return nil, err
	}
	return region, nil
}

// ListRegions returns regions with pagination
func (s *Service) ListRegions(ctx context.Context, limit, offset int, includeInactive bool) ([]*Region, int64, error) {
	return s.repo.ListRegions(ctx, limit, offset, includeInactive)
}

// UpdateRegion applies a partial update to a region
func (s *Service) UpdateRegion(ctx context.Context, id uuid.UUID, req *UpdateRegionRequest) (*Region, error) {
	region, err := s.GetRegionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		region.Name = *req.Name
	}
	if req.Code != nil {
		region.Code = *req.Code
	}
	if req.IsActive != nil {
		region.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateRegion(ctx, region); err != nil {
		return nil, err
	}
	return region, nil
}

// DeleteRegion removes a region. Deletion is blocked while fare multipliers
// still reference the region; callers must remove those first.
func (s *Service) DeleteRegion(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetRegionByID(ctx, id); err != nil {
		return err
	}

	dependents, err := s.repo.CountFareMultipliers(ctx, id)
	if err != nil {
		return err
	}
	if dependents > 0 {
		return common.NewConflictError("region has fare multipliers attached")
	}

	return s.repo.DeleteRegion(ctx, id)
}

// LookupRegion returns the display name of an existing region.
// Used by the fares service to validate multiplier references.
func (s *Service) LookupRegion(ctx context.Context, id uuid.UUID) (string, error) {
	region, err := s.GetRegionByID(ctx, id)
	if err != nil {
		return "", err
	}
	return region.Name, nil
}
