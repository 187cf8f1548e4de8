package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/platescout/platescout/internal/api/middleware"
	"github.com/platescout/platescout/internal/domain/entities"
	"github.com/platescout/platescout/internal/domain/repositories"
)

// APIHandler handles the JSON endpoints
type APIHandler struct {
	restaurants repositories.RestaurantRepository
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(restaurants repositories.RestaurantRepository) *APIHandler {
	return &APIHandler{restaurants: restaurants}
}

type apiCoord struct {
	// Clients send coordinates as strings or numbers; both are accepted
	// and stored as strings
	Latitude  any `json:"latitude"`
	Longitude any `json:"longitude"`
}

type apiAddress struct {
	Street   string   `json:"street"`
	Building string   `json:"building"`
	Zipcode  string   `json:"zipcode"`
	Coord    apiCoord `json:"coord"`
}

type apiCreateRequest struct {
	Name    string     `json:"name"`
	Borough string     `json:"borough"`
	Cuisine string     `json:"cuisine"`
	Address apiAddress `json:"address"`
}

// apiRestaurant is the wire shape of a listing returned by the read endpoint
type apiRestaurant struct {
	ID      string           `json:"_id"`
	Name    string           `json:"name"`
	Borough string           `json:"borough"`
	Cuisine string           `json:"cuisine"`
	Address entities.Address `json:"address"`
	Grades  []entities.Grade `json:"grades"`
	UserID  string           `json:"userid"`
}

func coordString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// Create handles POST /api/create
func (h *APIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload apiCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "failed"})
		return
	}

	restaurant := &entities.Restaurant{
		Name:    payload.Name,
		Borough: payload.Borough,
		Cuisine: payload.Cuisine,
		Address: entities.Address{
			Street:   payload.Address.Street,
			Building: payload.Address.Building,
			Zipcode:  payload.Address.Zipcode,
			Coord: entities.Coord{
				Latitude:  coordString(payload.Address.Coord.Latitude),
				Longitude: coordString(payload.Address.Coord.Longitude),
			},
		},
		Grades: []entities.Grade{},
		UserID: middleware.SessionFrom(r.Context()).UserID,
	}

	if err := restaurant.Validate(); err != nil {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "failed"})
		return
	}

	created, err := h.restaurants.Create(r.Context(), restaurant)
	if err != nil {
		log.Error().Err(err).Msg("api create failed")
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "failed"})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"_id":    created.ID,
	})
}

// Read handles GET /api/read/{field}/{keyword}. Anything but an exact
// match on a whitelisted field yields an empty object.
func (h *APIHandler) Read(w http.ResponseWriter, r *http.Request) {
	field := r.PathValue("field")
	keyword := r.PathValue("keyword")

	var criteria repositories.Criteria
	switch field {
	case "name":
		criteria.Name = keyword
	case "borough":
		criteria.Borough = keyword
	case "cuisine":
		criteria.Cuisine = keyword
	default:
		respondWithJSON(w, http.StatusOK, map[string]any{})
		return
	}

	restaurants, err := h.restaurants.Find(r.Context(), criteria)
	if err != nil {
		log.Error().Err(err).Msg("api read failed")
		respondWithJSON(w, http.StatusOK, map[string]any{})
		return
	}
	if len(restaurants) == 0 {
		respondWithJSON(w, http.StatusOK, map[string]any{})
		return
	}

	out := make([]apiRestaurant, 0, len(restaurants))
	for _, restaurant := range restaurants {
		out = append(out, apiRestaurant{
			ID:      restaurant.ID,
			Name:    restaurant.Name,
			Borough: restaurant.Borough,
			Cuisine: restaurant.Cuisine,
			Address: restaurant.Address,
			Grades:  restaurant.Grades,
			UserID:  restaurant.UserID,
		})
	}
	respondWithJSON(w, http.StatusOK, out)
}
