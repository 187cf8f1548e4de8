package repositories

import (
	"context"

	"github.com/platescout/platescout/internal/domain/entities"
)

// RestaurantRepository defines the interface for restaurant data operations
type RestaurantRepository interface {
	// Create creates a new restaurant and returns it with its assigned ID
	Create(ctx context.Context, restaurant *entities.Restaurant) (*entities.Restaurant, error)

	// GetByID retrieves a restaurant by ID
	GetByID(ctx context.Context, id string) (*entities.Restaurant, error)

	// Update replaces a restaurant's stored state
	Update(ctx context.Context, restaurant *entities.Restaurant) error

	// Delete deletes a restaurant
	Delete(ctx context.Context, id string) error

	// Find retrieves restaurants matching the criteria, newest first.
	// An empty criteria returns the whole catalog.
	Find(ctx context.Context, criteria Criteria) ([]*entities.Restaurant, error)
}

// Criteria narrows a catalog listing. Every non-empty field must match
// its stored value exactly.
type Criteria struct {
	Name    string
	Borough string
	Cuisine string
}

// IsEmpty reports whether no filter fields are set
func (c Criteria) IsEmpty() bool {
	return c.Name == "" && c.Borough == "" && c.Cuisine == ""
}
