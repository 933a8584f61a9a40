package vehicletypes

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles database operations for vehicle types
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new vehicle types repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateVehicleType creates a new vehicle type
func (r *Repository) CreateVehicleType(ctx context.Context, vt *VehicleType) error {
	query := `
		INSERT INTO vehicle_types (id, name, description, capacity, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	vt.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		vt.ID, vt.Name, vt.Description, vt.Capacity, vt.SortOrder, vt.IsActive,
	).Scan(&vt.CreatedAt, &vt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create vehicle type: %w", err)
	}
	return nil
}

// GetVehicleTypeByID retrieves a vehicle type by ID
func (r *Repository) GetVehicleTypeByID(ctx context.Context, id uuid.UUID) (*VehicleType, error) {
	query := `
		SELECT id, name, description, capacity, sort_order, is_active, created_at, updated_at
		FROM vehicle_types WHERE id = $1
	`
	vt := &VehicleType{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&vt.ID, &vt.Name, &vt.Description, &vt.Capacity, &vt.SortOrder,
		&vt.IsActive, &vt.CreatedAt, &vt.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle type: %w", err)
	}
	return vt, nil
}

// ListVehicleTypes lists vehicle types with pagination
func (r *Repository) ListVehicleTypes(ctx context.Context, limit, offset int, includeInactive bool) ([]*VehicleType, int64, error) {
	whereClause := ""
	if !includeInactive {
		whereClause = "WHERE is_active = true"
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM vehicle_types %s", whereClause)
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicle types: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, capacity, sort_order, is_active, created_at, updated_at
		FROM vehicle_types %s
		ORDER BY sort_order, name
		LIMIT $1 OFFSET $2
	`, whereClause)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vehicle types: %w", err)
	}
	defer rows.Close()

	items := make([]*VehicleType, 0)
	for rows.Next() {
		vt := &VehicleType{}
		err := rows.Scan(
			&vt.ID, &vt.Name, &vt.Description, &vt.Capacity, &vt.SortOrder,
			&vt.IsActive, &vt.CreatedAt, &vt.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan vehicle type: %w", err)
		}
		items = append(items, vt)
	}
	return items, total, nil
}

// UpdateVehicleType updates a vehicle type
func (r *Repository) UpdateVehicleType(ctx context.Context, vt *VehicleType) error {
	query := `
		UPDATE vehicle_types SET
			name = $2, description = $3, capacity = $4,
			sort_order = $5, is_active = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		vt.ID, vt.Name, vt.Description, vt.Capacity, vt.SortOrder, vt.IsActive,
	).Scan(&vt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update vehicle type: %w", err)
	}
	return nil
}

// DeactivateVehicleType soft-deactivates a vehicle type
func (r *Repository) DeactivateVehicleType(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE vehicle_types SET is_active = false, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate vehicle type: %w", err)
	}
	return nil
}
