package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"travel-nav-service/internal/domain"
)

const cacheKeyPrefix = "geocode:"

type cachedLocation struct {
	Lat    float64               `json:"lat"`
	Lng    float64               `json:"lng"`
	Label  string                `json:"label"`
	Source domain.LocationSource `json:"source"`
}

// RedisCache is a read-through cache for resolved locations. It sits in
// front of the network steps of the resolution chain only; misses and
// marshalling problems degrade to a plain miss so resolution can proceed.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// normalize collapses whitespace and lowercases so equivalent queries share
// a cache entry.
func normalize(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

func (c *RedisCache) Get(ctx context.Context, query string) (domain.Location, bool, error) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+normalize(query)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Location{}, false, nil
	}
	if err != nil {
		return domain.Location{}, false, fmt.Errorf("geocode cache get: %w", err)
	}

	var entry cachedLocation
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return domain.Location{}, false, nil
	}

	coord, err := domain.NewCoordinate(entry.Lat, entry.Lng)
	if err != nil {
		return domain.Location{}, false, nil
	}

	return domain.Location{
		Coordinate: coord,
		Label:      entry.Label,
		Timestamp:  time.Now(),
		Source:     entry.Source,
	}, true, nil
}

func (c *RedisCache) Put(ctx context.Context, query string, loc domain.Location) error {
	raw, err := json.Marshal(cachedLocation{
		Lat:    loc.Coordinate.Lat,
		Lng:    loc.Coordinate.Lng,
		Label:  loc.Label,
		Source: loc.Source,
	})
	if err != nil {
		return fmt.Errorf("geocode cache marshal: %w", err)
	}

	if err := c.client.Set(ctx, cacheKeyPrefix+normalize(query), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("geocode cache put: %w", err)
	}
	return nil
}
