package fares

import (
	"fmt"
	"math"
	"time"
)

// WaitingRatePerMinute is the flat waiting charge in minor currency units.
// Regulatory policy, not configurable per rate.
const WaitingRatePerMinute int64 = 5

// roundCurrency rounds a monetary product half-up to a whole minor unit.
// The inner rounding to six decimals absorbs binary float error so that
// products like 1310 * 1.15 land on .5 instead of just below it.
func roundCurrency(v float64) int64 {
	return int64(math.Round(math.Round(v*1e6) / 1e6))
}

// Calculate prices a trip against a resolved fare rate and an optional
// regional multiplier. It is deterministic apart from the timestamp and
// performs no I/O.
func Calculate(rate *FareRate, regional *RegionalFareMultiplier, req *FareCalculationRequest, now time.Time) *FareCalculationResult {
	baseFare := rate.BaseFare
	distanceFare := roundCurrency(float64(rate.PerKmRate) * req.Distance)
	waitingFare := roundCurrency(float64(WaitingRatePerMinute) * req.WaitingTime)
	subtotal := baseFare + distanceFare + waitingFare

	applied := make([]string, 0, 3)
	totalMultiplier := 1.0

	nightMultiplier := 1.0
	if req.IsNightTrip {
		nightMultiplier = rate.NightMultiplier
		totalMultiplier *= nightMultiplier
		applied = append(applied, fmt.Sprintf("night: %g", nightMultiplier))
	}

	var regionalMultiplier *float64
	if regional != nil {
		m := regional.Multiplier
		regionalMultiplier = &m
		totalMultiplier *= m
		applied = append(applied, fmt.Sprintf("regional: %g", m))
	}

	var customMultiplier *float64
	if req.CustomMultiplier != nil {
		m := *req.CustomMultiplier
		customMultiplier = &m
		totalMultiplier *= m
		applied = append(applied, fmt.Sprintf("custom: %g", m))
	}

	return &FareCalculationResult{
		VehicleTypeID:      req.VehicleTypeID,
		Distance:           req.Distance,
		RegionID:           req.RegionID,
		IsNightTrip:        req.IsNightTrip,
		WaitingTime:        req.WaitingTime,
		BaseFare:           baseFare,
		DistanceFare:       distanceFare,
		WaitingFare:        waitingFare,
		Subtotal:           subtotal,
		NightMultiplier:    nightMultiplier,
		RegionalMultiplier: regionalMultiplier,
		CustomMultiplier:   customMultiplier,
		TotalFare:          roundCurrency(float64(subtotal) * totalMultiplier),
		Breakdown: FareBreakdown{
			BaseFare:           baseFare,
			DistanceFare:       distanceFare,
			WaitingFare:        waitingFare,
			AppliedMultipliers: applied,
		},
		CalculatedAt: now,
	}
}
