package fares

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/taxigov/fare-platform/pkg/common"
)

// Resolver answers "which rate applies right now" questions. A rate or
// multiplier applies at asOf when it is active, its window has started and
// its window has not ended (an open window never ends). Overlapping
// candidates resolve to the most recently created one.
type Resolver struct {
	repo RepositoryInterface
}

// NewResolver creates a new fare rate resolver
func NewResolver(repo RepositoryInterface) *Resolver {
	return &Resolver{repo: repo}
}

// ResolveActiveFareRate returns the fare rate applying to a vehicle type at asOf
func (r *Resolver) ResolveActiveFareRate(ctx context.Context, vehicleTypeID uuid.UUID, asOf time.Time) (*FareRate, error) {
	rate, err := r.repo.GetActiveFareRate(ctx, vehicleTypeID, asOf)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("no active fare rate found for vehicle type")
		}
		return nil, err
	}
	return rate, nil
}

// ResolveActiveRegionalMultiplier returns the multiplier applying to a region at asOf
func (r *Resolver) ResolveActiveRegionalMultiplier(ctx context.Context, regionID uuid.UUID, asOf time.Time) (*RegionalFareMultiplier, error) {
	multiplier, err := r.repo.GetActiveRegionalMultiplier(ctx, regionID, asOf)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("no active fare multiplier found for region")
		}
		return nil, err
	}
	return multiplier, nil
}
