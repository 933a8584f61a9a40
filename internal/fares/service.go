package fares

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/taxigov/fare-platform/pkg/cache"
	"github.com/taxigov/fare-platform/pkg/common"
	"github.com/taxigov/fare-platform/pkg/logger"
)

// Service handles fare rate and fare calculation business logic
type Service struct {
	repo         RepositoryInterface
	resolver     *Resolver
	vehicleTypes VehicleTypeDirectory
	regions      RegionDirectory
	cache        *cache.Manager
}

// NewService creates a new fares service. The cache manager may be nil, in
// which case all reads go to the repository.
func NewService(repo RepositoryInterface, vehicleTypes VehicleTypeDirectory, regions RegionDirectory, cacheManager *cache.Manager) *Service {
	return &Service{
		repo:         repo,
		resolver:     NewResolver(repo),
		vehicleTypes: vehicleTypes,
		regions:      regions,
		cache:        cacheManager,
	}
}

// CreateFareRate creates a fare rate after validating its vehicle type and
// enforcing the single-active-rate rule
func (s *Service) CreateFareRate(ctx context.Context, req *CreateFareRateRequest, createdBy *uuid.UUID) (*FareRate, error) {
	if _, err := s.vehicleTypes.LookupVehicleType(ctx, req.VehicleTypeID); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	if isActive {
		exists, err := s.repo.HasActiveFareRate(ctx, req.VehicleTypeID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, common.NewConflictError("an active fare rate already exists for this vehicle type")
		}
	}

	rate := &FareRate{
		VehicleTypeID:   req.VehicleTypeID,
		BaseFare:        req.BaseFare,
		PerKmRate:       req.PerKmRate,
		NightMultiplier: 1.0,
		EffectiveFrom:   time.Now().UTC(),
		EffectiveUntil:  req.EffectiveUntil,
		IsActive:        isActive,
		CreatedBy:       createdBy,
		Notes:           req.Notes,
	}
	if req.NightMultiplier != nil {
		rate.NightMultiplier = *req.NightMultiplier
	}
	if req.EffectiveFrom != nil {
		rate.EffectiveFrom = *req.EffectiveFrom
	}

	if err := s.repo.CreateFareRate(ctx, rate); err != nil {
		if IsUniqueViolation(err) {
			return nil, common.NewConflictError("an active fare rate already exists for this vehicle type")
		}
		return nil, err
	}

	s.invalidateFareRateCaches(ctx, rate.ID, rate.VehicleTypeID)
	return rate, nil
}

// GetFareRateByID returns a fare rate by ID, serving from cache when possible
func (s *Service) GetFareRateByID(ctx context.Context, id uuid.UUID) (*FareRate, error) {
	key := cache.Keys.FareRate(id.String())
	if s.cache != nil {
		var cached FareRate
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	rate, err := s.repo.GetFareRateByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("fare rate not found")
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, rate, cache.TTL.Medium()); err != nil {
			logger.Warn("failed to cache fare rate", zap.Error(err))
		}
	}
	return rate, nil
}

// ListFareRates returns fare rates matching the filter with pagination
func (s *Service) ListFareRates(ctx context.Context, filter FareRateFilter, limit, offset int) ([]*FareRate, int64, error) {
	return s.repo.ListFareRates(ctx, filter, limit, offset)
}

// GetActiveFareRateByVehicleType resolves the rate applying to a vehicle type
// right now
func (s *Service) GetActiveFareRateByVehicleType(ctx context.Context, vehicleTypeID uuid.UUID) (*FareRate, error) {
	key := cache.Keys.ActiveFareRate(vehicleTypeID.String())
	if s.cache != nil {
		var cached FareRate
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	rate, err := s.resolver.ResolveActiveFareRate(ctx, vehicleTypeID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, rate, cache.TTL.Short()); err != nil {
			logger.Warn("failed to cache active fare rate", zap.Error(err))
		}
	}
	return rate, nil
}

// UpdateFareRate applies a partial update to a fare rate. Reactivating a rate
// is not re-checked against other active rates; the partial unique index is
// the backstop.
func (s *Service) UpdateFareRate(ctx context.Context, id uuid.UUID, req *UpdateFareRateRequest) (*FareRate, error) {
	rate, err := s.repo.GetFareRateByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("fare rate not found")
		}
		return nil, err
	}

	previousVehicleTypeID := rate.VehicleTypeID
	if req.VehicleTypeID != nil && *req.VehicleTypeID != rate.VehicleTypeID {
		if _, err := s.vehicleTypes.LookupVehicleType(ctx, *req.VehicleTypeID); err != nil {
			return nil, err
		}
		rate.VehicleTypeID = *req.VehicleTypeID
	}
	if req.BaseFare != nil {
		rate.BaseFare = *req.BaseFare
	}
	if req.PerKmRate != nil {
		rate.PerKmRate = *req.PerKmRate
	}
	if req.NightMultiplier != nil {
		rate.NightMultiplier = *req.NightMultiplier
	}
	if req.EffectiveFrom != nil {
		rate.EffectiveFrom = *req.EffectiveFrom
	}
	if req.EffectiveUntil != nil {
		rate.EffectiveUntil = req.EffectiveUntil
	}
	if req.IsActive != nil {
		rate.IsActive = *req.IsActive
	}
	if req.Notes != nil {
		rate.Notes = req.Notes
	}

	if err := s.repo.UpdateFareRate(ctx, rate); err != nil {
		if IsUniqueViolation(err) {
			return nil, common.NewConflictError("an active fare rate already exists for this vehicle type")
		}
		return nil, err
	}

	s.invalidateFareRateCaches(ctx, rate.ID, previousVehicleTypeID, rate.VehicleTypeID)
	return rate, nil
}

// DeleteFareRate removes a fare rate permanently
func (s *Service) DeleteFareRate(ctx context.Context, id uuid.UUID) error {
	rate, err := s.repo.GetFareRateByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("fare rate not found")
		}
		return err
	}

	if err := s.repo.DeleteFareRate(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("fare rate not found")
		}
		return err
	}

	s.invalidateFareRateCaches(ctx, id, rate.VehicleTypeID)
	return nil
}

// CreateRegionalMultiplier creates a regional multiplier after validating its
// region and enforcing the single-active-multiplier rule
func (s *Service) CreateRegionalMultiplier(ctx context.Context, req *CreateRegionalMultiplierRequest, createdBy *uuid.UUID) (*RegionalFareMultiplier, error) {
	if _, err := s.regions.LookupRegion(ctx, req.RegionID); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	if isActive {
		exists, err := s.repo.HasActiveRegionalMultiplier(ctx, req.RegionID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, common.NewConflictError("an active fare multiplier already exists for this region")
		}
	}

	multiplier := &RegionalFareMultiplier{
		RegionID:       req.RegionID,
		Multiplier:     1.0,
		Reason:         req.Reason,
		EffectiveFrom:  time.Now().UTC(),
		EffectiveUntil: req.EffectiveUntil,
		IsActive:       isActive,
		CreatedBy:      createdBy,
	}
	if req.Multiplier != nil {
		multiplier.Multiplier = *req.Multiplier
	}
	if req.EffectiveFrom != nil {
		multiplier.EffectiveFrom = *req.EffectiveFrom
	}

	if err := s.repo.CreateRegionalMultiplier(ctx, multiplier); err != nil {
		if IsUniqueViolation(err) {
			return nil, common.NewConflictError("an active fare multiplier already exists for this region")
		}
		return nil, err
	}

	s.invalidateMultiplierCaches(ctx, multiplier.ID, multiplier.RegionID)
	return multiplier, nil
}

// GetRegionalMultiplierByID returns a regional multiplier by ID
func (s *Service) GetRegionalMultiplierByID(ctx context.Context, id uuid.UUID) (*RegionalFareMultiplier, error) {
	key := cache.Keys.RegionalMultiplier(id.String())
	if s.cache != nil {
		var cached RegionalFareMultiplier
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	multiplier, err := s.repo.GetRegionalMultiplierByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("fare multiplier not found")
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, multiplier, cache.TTL.Medium()); err != nil {
			logger.Warn("failed to cache regional multiplier", zap.Error(err))
		}
	}
	return multiplier, nil
}

// ListRegionalMultipliers returns regional multipliers matching the filter
// with pagination
func (s *Service) ListRegionalMultipliers(ctx context.Context, filter MultiplierFilter, limit, offset int) ([]*RegionalFareMultiplier, int64, error) {
	return s.repo.ListRegionalMultipliers(ctx, filter, limit, offset)
}

// GetActiveRegionalMultiplierByRegion resolves the multiplier applying to a
// region right now
func (s *Service) GetActiveRegionalMultiplierByRegion(ctx context.Context, regionID uuid.UUID) (*RegionalFareMultiplier, error) {
	key := cache.Keys.ActiveRegionalMultiplier(regionID.String())
	if s.cache != nil {
		var cached RegionalFareMultiplier
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	multiplier, err := s.resolver.ResolveActiveRegionalMultiplier(ctx, regionID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, multiplier, cache.TTL.Short()); err != nil {
			logger.Warn("failed to cache active regional multiplier", zap.Error(err))
		}
	}
	return multiplier, nil
}

// UpdateRegionalMultiplier applies a partial update to a regional multiplier
func (s *Service) UpdateRegionalMultiplier(ctx context.Context, id uuid.UUID, req *UpdateRegionalMultiplierRequest) (*RegionalFareMultiplier, error) {
	multiplier, err := s.repo.GetRegionalMultiplierByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("fare multiplier not found")
		}
		return nil, err
	}

	previousRegionID := multiplier.RegionID
	if req.RegionID != nil && *req.RegionID != multiplier.RegionID {
		if _, err := s.regions.LookupRegion(ctx, *req.RegionID); err != nil {
			return nil, err
		}
		multiplier.RegionID = *req.RegionID
	}
	if req.Multiplier != nil {
		multiplier.Multiplier = *req.Multiplier
	}
	if req.Reason != nil {
		multiplier.Reason = req.Reason
	}
	if req.EffectiveFrom != nil {
		multiplier.EffectiveFrom = *req.EffectiveFrom
	}
	if req.EffectiveUntil != nil {
		multiplier.EffectiveUntil = req.EffectiveUntil
	}
	if req.IsActive != nil {
		multiplier.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateRegionalMultiplier(ctx, multiplier); err != nil {
		if IsUniqueViolation(err) {
			return nil, common.NewConflictError("an active fare multiplier already exists for this region")
		}
		return nil, err
	}

	s.invalidateMultiplierCaches(ctx, multiplier.ID, previousRegionID, multiplier.RegionID)
	return multiplier, nil
}

// DeleteRegionalMultiplier removes a regional multiplier permanently
func (s *Service) DeleteRegionalMultiplier(ctx context.Context, id uuid.UUID) error {
	multiplier, err := s.repo.GetRegionalMultiplierByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("fare multiplier not found")
		}
		return err
	}

	if err := s.repo.DeleteRegionalMultiplier(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("fare multiplier not found")
		}
		return err
	}

	s.invalidateMultiplierCaches(ctx, id, multiplier.RegionID)
	return nil
}

// CalculateFare prices a trip. A region with no applying multiplier is not an
// error; the regional factor simply stays at 1.0.
func (s *Service) CalculateFare(ctx context.Context, req *FareCalculationRequest) (*FareCalculationResult, error) {
	rate, err := s.GetActiveFareRateByVehicleType(ctx, req.VehicleTypeID)
	if err != nil {
		fareCalculationErrors.Inc()
		return nil, err
	}

	var regional *RegionalFareMultiplier
	if req.RegionID != nil {
		multiplier, err := s.GetActiveRegionalMultiplierByRegion(ctx, *req.RegionID)
		if err != nil {
			if !errors.Is(err, common.ErrNotFound) {
				fareCalculationErrors.Inc()
				return nil, err
			}
		} else {
			regional = multiplier
		}
	}

	result := Calculate(rate, regional, req, time.Now().UTC())

	fareCalculationsTotal.Inc()
	fareTotalAmount.Observe(float64(result.TotalFare))
	return result, nil
}

// GetFareRatesByRegion returns every currently applying rate with the
// region's active multiplier pre-applied to the monetary fields
func (s *Service) GetFareRatesByRegion(ctx context.Context, regionID uuid.UUID) ([]*RegionFareRatePreview, error) {
	now := time.Now().UTC()

	details, err := s.repo.ListActiveFareRateDetails(ctx, now)
	if err != nil {
		return nil, err
	}

	var regionalMultiplier *float64
	multiplier, err := s.resolver.ResolveActiveRegionalMultiplier(ctx, regionID, now)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	} else {
		regionalMultiplier = &multiplier.Multiplier
	}

	previews := make([]*RegionFareRatePreview, 0, len(details))
	for _, detail := range details {
		preview := &RegionFareRatePreview{
			RateID:             detail.ID,
			VehicleTypeID:      detail.VehicleTypeID,
			VehicleTypeName:    detail.VehicleTypeName,
			BaseFare:           detail.BaseFare,
			PerKmRate:          detail.PerKmRate,
			NightMultiplier:    detail.NightMultiplier,
			RegionalMultiplier: regionalMultiplier,
		}
		if regionalMultiplier != nil {
			preview.BaseFare = roundCurrency(float64(detail.BaseFare) * *regionalMultiplier)
			preview.PerKmRate = roundCurrency(float64(detail.PerKmRate) * *regionalMultiplier)
		}
		previews = append(previews, preview)
	}
	return previews, nil
}

// GetFareStatistics returns the aggregate statistics snapshot
func (s *Service) GetFareStatistics(ctx context.Context) (*FareStatistics, error) {
	key := cache.Keys.FareStatistics()
	if s.cache != nil {
		var cached FareStatistics
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.repo.GetStatistics(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats, cache.TTL.Short()); err != nil {
			logger.Warn("failed to cache fare statistics", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *Service) invalidateFareRateCaches(ctx context.Context, id uuid.UUID, vehicleTypeIDs ...uuid.UUID) {
	if s.cache == nil {
		return
	}
	keys := []string{cache.Keys.FareRate(id.String()), cache.Keys.FareStatistics()}
	for _, vtID := range vehicleTypeIDs {
		keys = append(keys, cache.Keys.ActiveFareRate(vtID.String()))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("failed to invalidate fare rate caches", zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx, cache.Keys.FareRateList()+"*"); err != nil {
		logger.Warn("failed to invalidate fare rate list caches", zap.Error(err))
	}
}

func (s *Service) invalidateMultiplierCaches(ctx context.Context, id uuid.UUID, regionIDs ...uuid.UUID) {
	if s.cache == nil {
		return
	}
	keys := []string{cache.Keys.RegionalMultiplier(id.String()), cache.Keys.FareStatistics()}
	for _, regionID := range regionIDs {
		keys = append(keys, cache.Keys.ActiveRegionalMultiplier(regionID.String()))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("failed to invalidate multiplier caches", zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx, cache.Keys.RegionalMultiplierList()+"*"); err != nil {
		logger.Warn("failed to invalidate multiplier list caches", zap.Error(err))
	}
}
