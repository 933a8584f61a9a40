package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisclient "github.com/taxigov/fare-platform/pkg/redis"
)

// Manager handles caching operations with JSON serialization
type Manager struct {
	redis *redisclient.Client
}

// NewManager creates a new cache manager
func NewManager(redis *redisclient.Client) *Manager {
	return &Manager{redis: redis}
}

// Get retrieves a cached value and unmarshals it into result
func (m *Manager) Get(ctx context.Context, key string, result interface{}) error {
	data, err := m.redis.GetString(ctx, key)
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(data), result)
}

// Set marshals and caches a value with expiration
func (m *Manager) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return m.redis.SetWithExpiration(ctx, key, string(data), ttl)
}

// Delete removes keys from cache
func (m *Manager) Delete(ctx context.Context, keys ...string) error {
	return m.redis.Delete(ctx, keys...)
}

// Invalidate removes keys matching a pattern using SCAN
func (m *Manager) Invalidate(ctx context.Context, pattern string) error {
	var cursor uint64

	for {
		keys, next, err := m.redis.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			if err := m.redis.Delete(ctx, keys...); err != nil {
				return fmt.Errorf("failed to delete keys: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return nil
}

// CacheKeys defines common cache key patterns
type CacheKeys struct{}

var Keys = CacheKeys{}

// FareRate returns cache key for a fare rate record
func (k CacheKeys) FareRate(id string) string {
	return fmt.Sprintf("fare_rate:%s", id)
}

// ActiveFareRate returns cache key for the active rate of a vehicle type
func (k CacheKeys) ActiveFareRate(vehicleTypeID string) string {
	return fmt.Sprintf("fare_rate:active:%s", vehicleTypeID)
}

// FareRateList returns the pattern-root key for fare rate listings
func (k CacheKeys) FareRateList() string {
	return "fare_rate:list"
}

// RegionalMultiplier returns cache key for a regional multiplier record
func (k CacheKeys) RegionalMultiplier(id string) string {
	return fmt.Sprintf("regional_multiplier:%s", id)
}

// ActiveRegionalMultiplier returns cache key for the active multiplier of a region
func (k CacheKeys) ActiveRegionalMultiplier(regionID string) string {
	return fmt.Sprintf("regional_multiplier:active:%s", regionID)
}

// RegionalMultiplierList returns the pattern-root key for multiplier listings
func (k CacheKeys) RegionalMultiplierList() string {
	return "regional_multiplier:list"
}

// FareStatistics returns cache key for the fare statistics aggregate
func (k CacheKeys) FareStatistics() string {
	return "fare_statistics"
}

// TTL defines common cache TTL durations
type CacheTTL struct{}

var TTL = CacheTTL{}

func (t CacheTTL) Short() time.Duration  { return 5 * time.Minute }
func (t CacheTTL) Medium() time.Duration { return 15 * time.Minute }
func (t CacheTTL) Long() time.Duration   { return 1 * time.Hour }
