package vehicletypes

import (
	"time"

	"github.com/google/uuid"
)

// VehicleType represents a regulated taxi vehicle class
type VehicleType struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Capacity    int       `json:"capacity" db:"capacity"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreateVehicleTypeRequest is the request body for creating a vehicle type
type CreateVehicleTypeRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	Capacity    int     `json:"capacity" binding:"required,gt=0"`
	SortOrder   int     `json:"sort_order"`
}

// UpdateVehicleTypeRequest is the request body for updating a vehicle type
type UpdateVehicleTypeRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Capacity    *int    `json:"capacity,omitempty" binding:"omitempty,gt=0"`
	SortOrder   *int    `json:"sort_order,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
