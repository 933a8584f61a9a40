package regions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles database operations for regions
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new regions repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateRegion creates a new region
func (r *Repository) CreateRegion(ctx context.Context, region *Region) error {
	query := `
		INSERT INTO regions (id, name, code, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	region.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		region.ID, region.Name, region.Code, region.IsActive,
	).Scan(&region.CreatedAt, &region.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create region: %w", err)
	}
	return nil
}

// GetRegionByID retrieves a region by ID
func (r *Repository) GetRegionByID(ctx context.Context, id uuid.UUID) (*Region, error) {
	query := `
		SELECT id, name, code, is_active, created_at, updated_at
		FROM regions WHERE id = $1
	`
	region := &Region{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&region.ID, &region.Name, &region.Code, &region.IsActive,
		&region.CreatedAt, &region.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get region: %w", err)
	}
	return region, nil
}

// ListRegions lists regions with pagination
func (r *Repository) ListRegions(ctx context.Context, limit, offset int, includeInactive bool) ([]*Region, int64, error) {
	whereClause := ""
	if !includeInactive {
		whereClause = "WHERE is_active = true"
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM regions %s", whereClause)
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count regions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, code, is_active, created_at, updated_at
		FROM regions %s
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, whereClause)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list regions: %w", err)
	}
	defer rows.Close()

	items := make([]*Region, 0)
	for rows.Next() {
		region := &Region{}
		err := rows.Scan(
			&region.ID, &region.Name, &region.Code, &region.IsActive,
			&region.CreatedAt, &region.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan region: %w", err)
		}
		items = append(items, region)
	}
	return items, total, nil
}

// UpdateRegion updates a region
func (r *Repository) UpdateRegion(ctx context.Context, region *Region) error {
	query := `
		UPDATE regions SET
			name = $2, code = $3, is_active = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		region.ID, region.Name, region.Code, region.IsActive,
	).Scan(&region.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update region: %w", err)
	}
	return nil
}

// DeleteRegion removes a region
func (r *Repository) DeleteRegion(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM regions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete region: %w", err)
	}
	return nil
}

// CountFareMultipliers counts fare multipliers referencing a region
func (r *Repository) CountFareMultipliers(ctx context.Context, regionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM regional_fare_multipliers WHERE region_id = $1`, regionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count fare multipliers: %w", err)
	}
	return count, nil
}
