package regions

import (
	"time"

	"github.com/google/uuid"
)

// Region represents an administrative fare region
type Region struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Code      string    `json:"code" db:"code"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateRegionRequest is the request body for creating a region
type CreateRegionRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required,alphanum"`
}

// UpdateRegionRequest is the request body for updating a region
type UpdateRegionRequest struct {
	Name     *string `json:"name,omitempty"`
	Code     *string `json:"code,omitempty" binding:"omitempty,alphanum"`
	IsActive *bool   `json:"is_active,omitempty"`
}
