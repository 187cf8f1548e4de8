package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/platescout/platescout/internal/domain/entities"
	"github.com/platescout/platescout/internal/domain/providers"
	"github.com/platescout/platescout/internal/domain/repositories"
)

// CachedRestaurantAdapter wraps a RestaurantRepository with Redis caching.
// Only single-restaurant reads are cached; writes invalidate the entry so
// a deleted or edited restaurant is never served stale.
type CachedRestaurantAdapter struct {
	adapter repositories.RestaurantRepository
	cache   providers.CacheProvider
}

// NewCachedRestaurantAdapter creates a new cached restaurant adapter
func NewCachedRestaurantAdapter(adapter repositories.RestaurantRepository, cache providers.CacheProvider) repositories.RestaurantRepository {
	return &CachedRestaurantAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// restaurantByIDTTL is the cache lifetime in seconds for a single restaurant
const restaurantByIDTTL = 300

func restaurantCacheKey(id string) string {
	return fmt.Sprintf("restaurant:%s", id)
}

// Create passes through and warms nothing; the first read caches it
func (a *CachedRestaurantAdapter) Create(ctx context.Context, restaurant *entities.Restaurant) (*entities.Restaurant, error) {
	return a.adapter.Create(ctx, restaurant)
}

// GetByID retrieves a restaurant by ID with caching
func (a *CachedRestaurantAdapter) GetByID(ctx context.Context, id string) (*entities.Restaurant, error) {
	cacheKey := restaurantCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var restaurant entities.Restaurant
		if err := json.Unmarshal(cached, &restaurant); err == nil {
			return &restaurant, nil
		}
		log.Printf("Failed to unmarshal cached restaurant %s: %v", id, err)
	}

	restaurant, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(restaurant); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, restaurantByIDTTL); err != nil {
			log.Printf("Failed to cache restaurant %s: %v", id, err)
		}
	}

	return restaurant, nil
}

// Update writes through and drops the cached entry
func (a *CachedRestaurantAdapter) Update(ctx context.Context, restaurant *entities.Restaurant) error {
	if err := a.adapter.Update(ctx, restaurant); err != nil {
		return err
	}
	a.invalidate(ctx, restaurant.ID)
	return nil
}

// Delete deletes the restaurant and drops the cached entry
func (a *CachedRestaurantAdapter) Delete(ctx context.Context, id string) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidate(ctx, id)
	return nil
}

// Find is not cached; catalog listings change on every write and the
// HTTP layer already caches the public API listing.
func (a *CachedRestaurantAdapter) Find(ctx context.Context, criteria repositories.Criteria) ([]*entities.Restaurant, error) {
	return a.adapter.Find(ctx, criteria)
}

func (a *CachedRestaurantAdapter) invalidate(ctx context.Context, id string) {
	if err := a.cache.Delete(ctx, restaurantCacheKey(id)); err != nil {
		log.Printf("Failed to invalidate cached restaurant %s: %v", id, err)
	}
}
