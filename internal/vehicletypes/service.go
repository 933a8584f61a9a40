package vehicletypes

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/taxigov/fare-platform/pkg/common"
)

// Service handles vehicle type business logic
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new vehicle types service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// CreateVehicleType creates a new vehicle type
func (s *Service) CreateVehicleType(ctx context.Context, req *CreateVehicleTypeRequest) (*VehicleType, error) {
	vt := &VehicleType{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if err := s.repo.CreateVehicleType(ctx, vt); err != nil {
		return nil, err
	}
	return vt, nil
}

// GetVehicleTypeByID returns a vehicle type by ID
func (s *Service) GetVehicleTypeByID(ctx context.Context, id uuid.UUID) (*VehicleType, error) {
	vt, err := s.repo.GetVehicleTypeByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("vehicle type not found")
		}
		return nil, err
	}
	return vt, nil
}

// ListVehicleTypes returns vehicle types with pagination
func (s *Service) ListVehicleTypes(ctx context.Context, limit, offset int, includeInactive bool) ([]*VehicleType, int64, error) {
	return s.repo.ListVehicleTypes(ctx, limit, offset, includeInactive)
}

// UpdateVehicleType applies a partial update to a vehicle type
func (s *Service) UpdateVehicleType(ctx context.Context, id uuid.UUID, req *UpdateVehicleTypeRequest) (*VehicleType, error) {
	vt, err := s.GetVehicleTypeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		vt.Name = *req.Name
	}
	if req.Description != nil {
		vt.Description = req.Description
	}
	if req.Capacity != nil {
		vt.Capacity = *req.Capacity
	}
	if req.SortOrder != nil {
		vt.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		vt.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateVehicleType(ctx, vt); err != nil {
		return nil, err
	}
	return vt, nil
}

// DeactivateVehicleType soft-deactivates a vehicle type
func (s *Service) DeactivateVehicleType(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetVehicleTypeByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeactivateVehicleType(ctx, id)
}

// LookupVehicleType returns the display name of an existing vehicle type.
// Used by the fares service to validate rate references.
func (s *Service) LookupVehicleType(ctx context.Context, id uuid.UUID) (string, error) {
	vt, err := s.GetVehicleTypeByID(ctx, id)
	if err != nil {
		return "", err
	}
	return vt.Name, nil
}
