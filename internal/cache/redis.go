package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bluevoyage/travelbooking/config"
	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client       *redis.Client
	packagesTTL  time.Duration
	itineraryTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, packagesTTL, itineraryTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:       redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		packagesTTL:  packagesTTL,
		itineraryTTL: itineraryTTL,
	}
}

func (c *RedisCache) GetPackages(ctx context.Context) ([]domain.TourPackage, error) {
	data, err := c.client.Get(ctx, packagesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var packages []domain.TourPackage
	if err := json.Unmarshal(data, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

func (c *RedisCache) SetPackages(ctx context.Context, packages []domain.TourPackage) error {
	payload, err := json.Marshal(packages)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, packagesKey(), payload, c.packagesTTL).Err()
}

// GetItinerary serves repeat reads between edits. Entries are short-lived and
// dropped on every successful write, so a client that just lost an optimistic
// lock race re-reads the winner's state, never a stale cached copy.
func (c *RedisCache) GetItinerary(ctx context.Context, id string) (*domain.Itinerary, error) {
	data, err := c.client.Get(ctx, itineraryKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var it domain.Itinerary
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *RedisCache) SetItinerary(ctx context.Context, it *domain.Itinerary) error {
	payload, err := json.Marshal(it)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, itineraryKey(it.ID), payload, c.itineraryTTL).Err()
}

func (c *RedisCache) InvalidateItinerary(ctx context.Context, id string) error {
	return c.client.Del(ctx, itineraryKey(id)).Err()
}

func packagesKey() string {
	return "cache:tour_packages"
}

func itineraryKey(id string) string {
	return fmt.Sprintf("cache:itinerary:%s", id)
}
