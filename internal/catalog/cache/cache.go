package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-railway/internal/models"
)

const (
	stationQueryPrefix = "stations:q:"
	hotStationsKey     = "stations:hot"
)

// StationCache stores station search results in Redis. Reference data is seeded,
// so entries only age out by TTL.
type StationCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewStationCache(client *redis.Client, ttl time.Duration) *StationCache {
	return &StationCache{Client: client, TTL: ttl}
}

func QueryKey(query string) string {
	return stationQueryPrefix + strings.ToLower(query)
}

func HotKey() string {
	return hotStationsKey
}

// Get returns (nil, false, nil) on a miss.
func (c *StationCache) Get(ctx context.Context, key string) ([]models.Station, bool, error) {
	raw, err := c.Client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var stations []models.Station
	if err := json.Unmarshal(raw, &stations); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return stations, true, nil
}

func (c *StationCache) Set(ctx context.Context, key string, stations []models.Station) error {
	data, err := json.Marshal(stations)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key, data, c.TTL).Err()
}
