package fares

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles database operations for fare rates and regional multipliers
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new fares repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// IsUniqueViolation reports whether err is a unique constraint violation.
// The partial unique indexes on active rates and multipliers surface races
// that the application-level existence check cannot see.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

var fareRateSortColumns = map[string]string{
	"created_at":     "created_at",
	"updated_at":     "updated_at",
	"base_fare":      "base_fare",
	"per_km_rate":    "per_km_rate",
	"effective_from": "effective_from",
}

var multiplierSortColumns = map[string]string{
	"created_at":     "created_at",
	"updated_at":     "updated_at",
	"multiplier":     "multiplier",
	"effective_from": "effective_from",
}

func orderClause(columns map[string]string, sortBy, sortOrder string) string {
	column, ok := columns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}

// CreateFareRate inserts a fare rate
func (r *Repository) CreateFareRate(ctx context.Context, rate *FareRate) error {
	query := `
		INSERT INTO fare_rates (
			id, vehicle_type_id, base_fare, per_km_rate, night_multiplier,
			effective_from, effective_until, is_active, created_by, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	rate.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		rate.ID, rate.VehicleTypeID, rate.BaseFare, rate.PerKmRate, rate.NightMultiplier,
		rate.EffectiveFrom, rate.EffectiveUntil, rate.IsActive, rate.CreatedBy, rate.Notes,
	).Scan(&rate.CreatedAt, &rate.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to create fare rate: %w", err)
	}
	return nil
}

// GetFareRateByID retrieves a fare rate by ID
func (r *Repository) GetFareRateByID(ctx context.Context, id uuid.UUID) (*FareRate, error) {
	query := `
		SELECT id, vehicle_type_id, base_fare, per_km_rate, night_multiplier,
			effective_from, effective_until, is_active, created_by, notes,
			created_at, updated_at
		FROM fare_rates WHERE id = $1
	`
	rate := &FareRate{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rate.ID, &rate.VehicleTypeID, &rate.BaseFare, &rate.PerKmRate, &rate.NightMultiplier,
		&rate.EffectiveFrom, &rate.EffectiveUntil, &rate.IsActive, &rate.CreatedBy, &rate.Notes,
		&rate.CreatedAt, &rate.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get fare rate: %w", err)
	}
	return rate, nil
}

// ListFareRates lists fare rates matching the filter with pagination
func (r *Repository) ListFareRates(ctx context.Context, filter FareRateFilter, limit, offset int) ([]*FareRate, int64, error) {
	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	if filter.VehicleTypeID != nil {
		args = append(args, *filter.VehicleTypeID)
		conditions = append(conditions, fmt.Sprintf("vehicle_type_id = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filter.EffectiveDate != nil {
		args = append(args, *filter.EffectiveDate)
		conditions = append(conditions, fmt.Sprintf(
			"effective_from <= $%d AND (effective_until IS NULL OR effective_until >= $%d)",
			len(args), len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM fare_rates %s", whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count fare rates: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, vehicle_type_id, base_fare, per_km_rate, night_multiplier,
			effective_from, effective_until, is_active, created_by, notes,
			created_at, updated_at
		FROM fare_rates %s
		%s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderClause(fareRateSortColumns, filter.SortBy, filter.SortOrder), len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list fare rates: %w", err)
	}
	defer rows.Close()

	items := make([]*FareRate, 0)
	for rows.Next() {
		rate := &FareRate{}
		err := rows.Scan(
			&rate.ID, &rate.VehicleTypeID, &rate.BaseFare, &rate.PerKmRate, &rate.NightMultiplier,
			&rate.EffectiveFrom, &rate.EffectiveUntil, &rate.IsActive, &rate.CreatedBy, &rate.Notes,
			&rate.CreatedAt, &rate.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan fare rate: %w", err)
		}
		items = append(items, rate)
	}
	return items, total, nil
}

// UpdateFareRate updates a fare rate
func (r *Repository) UpdateFareRate(ctx context.Context, rate *FareRate) error {
	query := `
		UPDATE fare_rates SET
			vehicle_type_id = $2, base_fare = $3, per_km_rate = $4, night_multiplier = $5,
			effective_from = $6, effective_until = $7, is_active = $8, notes = $9,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		rate.ID, rate.VehicleTypeID, rate.BaseFare, rate.PerKmRate, rate.NightMultiplier,
		rate.EffectiveFrom, rate.EffectiveUntil, rate.IsActive, rate.Notes,
	).Scan(&rate.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to update fare rate: %w", err)
	}
	return nil
}

// DeleteFareRate removes a fare rate. Returns pgx.ErrNoRows when no row matched.
func (r *Repository) DeleteFareRate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM fare_rates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fare rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fare rate not found: %w", pgx.ErrNoRows)
	}
	return nil
}

// HasActiveFareRate reports whether any active rate exists for a vehicle type,
// regardless of effective window
func (r *Repository) HasActiveFareRate(ctx context.Context, vehicleTypeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM fare_rates WHERE vehicle_type_id = $1 AND is_active = true)`,
		vehicleTypeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active fare rate: %w", err)
	}
	return exists, nil
}

// GetActiveFareRate returns the rate applying to a vehicle type at asOf.
// Ties between overlapping windows go to the most recently created row.
func (r *Repository) GetActiveFareRate(ctx context.Context, vehicleTypeID uuid.UUID, asOf time.Time) (*FareRate, error) {
	query := `
		SELECT id, vehicle_type_id, base_fare, per_km_rate, night_multiplier,
			effective_from, effective_until, is_active, created_by, notes,
			created_at, updated_at
		FROM fare_rates
		WHERE vehicle_type_id = $1
			AND is_active = true
			AND effective_from <= $2
			AND (effective_until IS NULL OR effective_until >= $2)
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	rate := &FareRate{}
	err := r.db.QueryRow(ctx, query, vehicleTypeID, asOf).Scan(
		&rate.ID, &rate.VehicleTypeID, &rate.BaseFare, &rate.PerKmRate, &rate.NightMultiplier,
		&rate.EffectiveFrom, &rate.EffectiveUntil, &rate.IsActive, &rate.CreatedBy, &rate.Notes,
		&rate.CreatedAt, &rate.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get active fare rate: %w", err)
	}
	return rate, nil
}

// ListActiveFareRateDetails returns all rates applying at asOf joined with
// their vehicle type names, ordered for display
func (r *Repository) ListActiveFareRateDetails(ctx context.Context, asOf time.Time) ([]*FareRateWithVehicleType, error) {
	query := `
		SELECT fr.id, fr.vehicle_type_id, fr.base_fare, fr.per_km_rate, fr.night_multiplier,
			fr.effective_from, fr.effective_until, fr.is_active, fr.created_by, fr.notes,
			fr.created_at, fr.updated_at, vt.name
		FROM fare_rates fr
		JOIN vehicle_types vt ON vt.id = fr.vehicle_type_id
		WHERE fr.is_active = true
			AND fr.effective_from <= $1
			AND (fr.effective_until IS NULL OR fr.effective_until >= $1)
		ORDER BY vt.sort_order, vt.name, fr.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list active fare rates: %w", err)
	}
	defer rows.Close()

	items := make([]*FareRateWithVehicleType, 0)
	for rows.Next() {
		item := &FareRateWithVehicleType{}
		err := rows.Scan(
			&item.ID, &item.VehicleTypeID, &item.BaseFare, &item.PerKmRate, &item.NightMultiplier,
			&item.EffectiveFrom, &item.EffectiveUntil, &item.IsActive, &item.CreatedBy, &item.Notes,
			&item.CreatedAt, &item.UpdatedAt, &item.VehicleTypeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan active fare rate: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// CreateRegionalMultiplier inserts a regional multiplier
func (r *Repository) CreateRegionalMultiplier(ctx context.Context, multiplier *RegionalFareMultiplier) error {
	query := `
		INSERT INTO regional_fare_multipliers (
			id, region_id, multiplier, reason,
			effective_from, effective_until, is_active, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	multiplier.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		multiplier.ID, multiplier.RegionID, multiplier.Multiplier, multiplier.Reason,
		multiplier.EffectiveFrom, multiplier.EffectiveUntil, multiplier.IsActive, multiplier.CreatedBy,
	).Scan(&multiplier.CreatedAt, &multiplier.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to create regional multiplier: %w", err)
	}
	return nil
}

// GetRegionalMultiplierByID retrieves a regional multiplier by ID
func (r *Repository) GetRegionalMultiplierByID(ctx context.Context, id uuid.UUID) (*RegionalFareMultiplier, error) {
	query := `
		SELECT id, region_id, multiplier, reason,
			effective_from, effective_until, is_active, created_by,
			created_at, updated_at
		FROM regional_fare_multipliers WHERE id = $1
	`
	multiplier := &RegionalFareMultiplier{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&multiplier.ID, &multiplier.RegionID, &multiplier.Multiplier, &multiplier.Reason,
		&multiplier.EffectiveFrom, &multiplier.EffectiveUntil, &multiplier.IsActive, &multiplier.CreatedBy,
		&multiplier.CreatedAt, &multiplier.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get regional multiplier: %w", err)
	}
	return multiplier, nil
}

// ListRegionalMultipliers lists regional multipliers matching the filter with pagination
func (r *Repository) ListRegionalMultipliers(ctx context.Context, filter MultiplierFilter, limit, offset int) ([]*RegionalFareMultiplier, int64, error) {
	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	if filter.RegionID != nil {
		args = append(args, *filter.RegionID)
		conditions = append(conditions, fmt.Sprintf("region_id = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filter.EffectiveDate != nil {
		args = append(args, *filter.EffectiveDate)
		conditions = append(conditions, fmt.Sprintf(
			"effective_from <= $%d AND (effective_until IS NULL OR effective_until >= $%d)",
			len(args), len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM regional_fare_multipliers %s", whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count regional multipliers: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, region_id, multiplier, reason,
			effective_from, effective_until, is_active, created_by,
			created_at, updated_at
		FROM regional_fare_multipliers %s
		%s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderClause(multiplierSortColumns, filter.SortBy, filter.SortOrder), len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list regional multipliers: %w", err)
	}
	defer rows.Close()

	items := make([]*RegionalFareMultiplier, 0)
	for rows.Next() {
		multiplier := &RegionalFareMultiplier{}
		err := rows.Scan(
			&multiplier.ID, &multiplier.RegionID, &multiplier.Multiplier, &multiplier.Reason,
			&multiplier.EffectiveFrom, &multiplier.EffectiveUntil, &multiplier.IsActive, &multiplier.CreatedBy,
			&multiplier.CreatedAt, &multiplier.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan regional multiplier: %w", err)
		}
		items = append(items, multiplier)
	}
	return items, total, nil
}

// UpdateRegionalMultiplier updates a regional multiplier
func (r *Repository) UpdateRegionalMultiplier(ctx context.Context, multiplier *RegionalFareMultiplier) error {
	query := `
		UPDATE regional_fare_multipliers SET
			region_id = $2, multiplier = $3, reason = $4,
			effective_from = $5, effective_until = $6, is_active = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		multiplier.ID, multiplier.RegionID, multiplier.Multiplier, multiplier.Reason,
		multiplier.EffectiveFrom, multiplier.EffectiveUntil, multiplier.IsActive,
	).Scan(&multiplier.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to update regional multiplier: %w", err)
	}
	return nil
}

// DeleteRegionalMultiplier removes a regional multiplier. Returns pgx.ErrNoRows
// when no row matched.
func (r *Repository) DeleteRegionalMultiplier(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM regional_fare_multipliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete regional multiplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("regional multiplier not found: %w", pgx.ErrNoRows)
	}
	return nil
}

// HasActiveRegionalMultiplier reports whether any active multiplier exists for
// a region, regardless of effective window
func (r *Repository) HasActiveRegionalMultiplier(ctx context.Context, regionID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM regional_fare_multipliers WHERE region_id = $1 AND is_active = true)`,
		regionID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active regional multiplier: %w", err)
	}
	return exists, nil
}

// GetActiveRegionalMultiplier returns the multiplier applying to a region at
// asOf, most recently created row winning ties
func (r *Repository) GetActiveRegionalMultiplier(ctx context.Context, regionID uuid.UUID, asOf time.Time) (*RegionalFareMultiplier, error) {
	query := `
		SELECT id, region_id, multiplier, reason,
			effective_from, effective_until, is_active, created_by,
			created_at, updated_at
		FROM regional_fare_multipliers
		WHERE region_id = $1
			AND is_active = true
			AND effective_from <= $2
			AND (effective_until IS NULL OR effective_until >= $2)
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	multiplier := &RegionalFareMultiplier{}
	err := r.db.QueryRow(ctx, query, regionID, asOf).Scan(
		&multiplier.ID, &multiplier.RegionID, &multiplier.Multiplier, &multiplier.Reason,
		&multiplier.EffectiveFrom, &multiplier.EffectiveUntil, &multiplier.IsActive, &multiplier.CreatedBy,
		&multiplier.CreatedAt, &multiplier.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get active regional multiplier: %w", err)
	}
	return multiplier, nil
}

// GetStatistics aggregates both collections in a single snapshot
func (r *Repository) GetStatistics(ctx context.Context, now time.Time) (*FareStatistics, error) {
	stats := &FareStatistics{GeneratedAt: now}

	rateQuery := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COALESCE(AVG(base_fare) FILTER (WHERE is_active), 0),
			COALESCE(AVG(per_km_rate) FILTER (WHERE is_active), 0),
			COUNT(*) FILTER (WHERE effective_until IS NOT NULL
				AND effective_until >= $1
				AND effective_until <= $2)
		FROM fare_rates
	`
	err := r.db.QueryRow(ctx, rateQuery, now, now.AddDate(0, 0, 30)).Scan(
		&stats.FareRates.Total, &stats.FareRates.Active,
		&stats.FareRates.AvgBaseFare, &stats.FareRates.AvgPerKmRate,
		&stats.FareRates.ExpiringWithin30Days,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate fare rates: %w", err)
	}
	stats.FareRates.Inactive = stats.FareRates.Total - stats.FareRates.Active

	byTypeQuery := `
		SELECT vt.name, COUNT(*)
		FROM fare_rates fr
		JOIN vehicle_types vt ON vt.id = fr.vehicle_type_id
		GROUP BY vt.name
		ORDER BY vt.name
	`
	rows, err := r.db.Query(ctx, byTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to group fare rates by vehicle type: %w", err)
	}
	defer rows.Close()

	stats.FareRates.ByVehicleType = make([]VehicleTypeRateCount, 0)
	for rows.Next() {
		var row VehicleTypeRateCount
		if err := rows.Scan(&row.VehicleTypeName, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle type group: %w", err)
		}
		stats.FareRates.ByVehicleType = append(stats.FareRates.ByVehicleType, row)
	}
	rows.Close()

	multiplierQuery := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COALESCE(AVG(multiplier) FILTER (WHERE is_active), 0)
		FROM regional_fare_multipliers
	`
	err = r.db.QueryRow(ctx, multiplierQuery).Scan(
		&stats.RegionalMultipliers.Total, &stats.RegionalMultipliers.Active,
		&stats.RegionalMultipliers.AvgMultiplier,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate regional multipliers: %w", err)
	}
	stats.RegionalMultipliers.Inactive = stats.RegionalMultipliers.Total - stats.RegionalMultipliers.Active

	byRegionQuery := `
		SELECT rg.name, COUNT(*), AVG(m.multiplier)
		FROM regional_fare_multipliers m
		JOIN regions rg ON rg.id = m.region_id
		GROUP BY rg.name
		ORDER BY rg.name
	`
	regionRows, err := r.db.Query(ctx, byRegionQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to group multipliers by region: %w", err)
	}
	defer regionRows.Close()

	stats.RegionalMultipliers.ByRegion = make([]RegionMultiplierSummary, 0)
	for regionRows.Next() {
		var row RegionMultiplierSummary
		if err := regionRows.Scan(&row.RegionName, &row.Count, &row.AvgMultiplier); err != nil {
			return nil, fmt.Errorf("failed to scan region group: %w", err)
		}
		stats.RegionalMultipliers.ByRegion = append(stats.RegionalMultipliers.ByRegion, row)
	}

	return stats, nil
}
