package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/platescout/platescout/internal/domain/entities"
	"github.com/platescout/platescout/internal/domain/repositories"
	"github.com/platescout/platescout/internal/infrastructure/clients/surreal"
	apperrors "github.com/platescout/platescout/pkg/errors"
)

const restaurantTable = "restaurants"

// RestaurantAdapter implements RestaurantRepository backed by SurrealDB
type RestaurantAdapter struct {
	client *surreal.Client
}

// NewRestaurantAdapter creates a new SurrealDB restaurant adapter
func NewRestaurantAdapter(client *surreal.Client) repositories.RestaurantRepository {
	return &RestaurantAdapter{client: client}
}

// restaurantRecord is the stored shape of a restaurant. The ID is a
// SurrealDB record ID; everything else mirrors the entity.
type restaurantRecord struct {
	ID        *models.RecordID `json:"id,omitempty"`
	Name      string           `json:"name"`
	Borough   string           `json:"borough"`
	Cuisine   string           `json:"cuisine"`
	Address   entities.Address `json:"address"`
	Photo     []byte           `json:"photo,omitempty"`
	Mimetype  string           `json:"mimetype,omitempty"`
	Grades    []entities.Grade `json:"grades"`
	UserID    string           `json:"userid"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func toRestaurantRecord(r *entities.Restaurant) *restaurantRecord {
	rec := &restaurantRecord{
		Name:      r.Name,
		Borough:   r.Borough,
		Cuisine:   r.Cuisine,
		Address:   r.Address,
		Photo:     r.Photo,
		Mimetype:  r.Mimetype,
		Grades:    r.Grades,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.ID != "" {
		rid := models.NewRecordID(restaurantTable, r.ID)
		rec.ID = &rid
	}
	return rec
}

func toRestaurantEntity(rec *restaurantRecord) *entities.Restaurant {
	r := &entities.Restaurant{
		Name:      rec.Name,
		Borough:   rec.Borough,
		Cuisine:   rec.Cuisine,
		Address:   rec.Address,
		Photo:     rec.Photo,
		Mimetype:  rec.Mimetype,
		Grades:    rec.Grades,
		UserID:    rec.UserID,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.ID != nil {
		r.ID = fmt.Sprint(rec.ID.ID)
	}
	if r.Grades == nil {
		r.Grades = []entities.Grade{}
	}
	return r
}

// isNoRecord reports whether err is SurrealDB's way of saying the record
// does not exist. The driver surfaces this as an unmarshaling failure
// rather than a sentinel error.
func isNoRecord(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Expected a single or multiple results but got 0") ||
		strings.Contains(msg, "cannot unmarshal array into Go value")
}

// Create stores a new restaurant under a fresh UUID record ID
func (a *RestaurantAdapter) Create(ctx context.Context, restaurant *entities.Restaurant) (*entities.Restaurant, error) {
	now := time.Now()
	restaurant.ID = uuid.NewString()
	restaurant.CreatedAt = now
	restaurant.UpdatedAt = now
	if restaurant.Grades == nil {
		restaurant.Grades = []entities.Grade{}
	}

	rec := toRestaurantRecord(restaurant)
	created, err := surrealdb.Create[restaurantRecord](ctx, a.client.DB(), restaurantTable, rec)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create restaurant", err)
	}
	return toRestaurantEntity(created), nil
}

// GetByID retrieves a restaurant by ID
func (a *RestaurantAdapter) GetByID(ctx context.Context, id string) (*entities.Restaurant, error) {
	rid := models.NewRecordID(restaurantTable, id)
	rec, err := surrealdb.Select[restaurantRecord](ctx, a.client.DB(), rid)
	if err != nil {
		if isNoRecord(err) {
			return nil, apperrors.NewNotFoundError("The restaurant does not exist")
		}
		return nil, apperrors.NewInternalError("failed to get restaurant", err)
	}
	if rec == nil || rec.ID == nil {
		return nil, apperrors.NewNotFoundError("The restaurant does not exist")
	}
	return toRestaurantEntity(rec), nil
}

// Update replaces a restaurant's stored state
func (a *RestaurantAdapter) Update(ctx context.Context, restaurant *entities.Restaurant) error {
	restaurant.UpdatedAt = time.Now()
	rid := models.NewRecordID(restaurantTable, restaurant.ID)
	rec := toRestaurantRecord(restaurant)
	if _, err := surrealdb.Update[restaurantRecord](ctx, a.client.DB(), rid, rec); err != nil {
		if isNoRecord(err) {
			return apperrors.NewNotFoundError("The restaurant does not exist")
		}
		return apperrors.NewInternalError("failed to update restaurant", err)
	}
	return nil
}

// Delete deletes a restaurant
func (a *RestaurantAdapter) Delete(ctx context.Context, id string) error {
	rid := models.NewRecordID(restaurantTable, id)
	if _, err := surrealdb.Delete[restaurantRecord](ctx, a.client.DB(), rid); err != nil && !isNoRecord(err) {
		return apperrors.NewInternalError("failed to delete restaurant", err)
	}
	return nil
}

// Find retrieves restaurants matching the criteria, newest first
func (a *RestaurantAdapter) Find(ctx context.Context, criteria repositories.Criteria) ([]*entities.Restaurant, error) {
	query := "SELECT * FROM " + restaurantTable
	params := map[string]any{}

	var clauses []string
	if criteria.Name != "" {
		clauses = append(clauses, "name = $name")
		params["name"] = criteria.Name
	}
	if criteria.Borough != "" {
		clauses = append(clauses, "borough = $borough")
		params["borough"] = criteria.Borough
	}
	if criteria.Cuisine != "" {
		clauses = append(clauses, "cuisine = $cuisine")
		params["cuisine"] = criteria.Cuisine
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	result, err := surrealdb.Query[[]restaurantRecord](ctx, a.client.DB(), query, params)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list restaurants", err)
	}

	restaurants := []*entities.Restaurant{}
	if result != nil && len(*result) > 0 {
		for i := range (*result)[0].Result {
			restaurants = append(restaurants, toRestaurantEntity(&(*result)[0].Result[i]))
		}
	}
	return restaurants, nil
}
