package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platescout/platescout/internal/domain/entities"
)

func newAPIHandler() (*APIHandler, *fakeRestaurantRepo) {
	repo := newFakeRestaurantRepo()
	return NewAPIHandler(repo), repo
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAPICreateReturnsID(t *testing.T) {
	h, repo := newAPIHandler()

	body := `{
		"name": "Sushi Go",
		"borough": "Brooklyn",
		"cuisine": "Japanese",
		"address": {
			"street": "Main St",
			"building": "12",
			"zipcode": "11201",
			"coord": {"latitude": 40.69, "longitude": "-73.99"}
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/create", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	out := decodeJSON(t, rec)
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "generated-id", out["_id"])

	stored := repo.restaurants["generated-id"]
	require.NotNil(t, stored)
	assert.Equal(t, "Sushi Go", stored.Name)
	assert.Equal(t, "40.69", stored.Address.Coord.Latitude)
	assert.Equal(t, "-73.99", stored.Address.Coord.Longitude)
	assert.NotNil(t, stored.Grades)
	assert.Empty(t, stored.Grades)
}

func TestAPICreateMissingAddressDefaults(t *testing.T) {
	h, repo := newAPIHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/create", strings.NewReader(`{"name": "Noodle Bar"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	out := decodeJSON(t, rec)
	assert.Equal(t, "ok", out["status"])

	stored := repo.restaurants["generated-id"]
	require.NotNil(t, stored)
	assert.Empty(t, stored.Address.Coord.Latitude)
}

func TestAPICreateFailsWithoutName(t *testing.T) {
	h, repo := newAPIHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/create", strings.NewReader(`{"borough": "Queens"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	out := decodeJSON(t, rec)
	assert.Equal(t, "failed", out["status"])
	assert.Empty(t, repo.restaurants)
}

func TestAPICreateFailsOnMalformedBody(t *testing.T) {
	h, _ := newAPIHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/create", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	out := decodeJSON(t, rec)
	assert.Equal(t, "failed", out["status"])
}

func readRequest(field, keyword string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/read/"+field+"/"+keyword, nil)
	req.SetPathValue("field", field)
	req.SetPathValue("keyword", keyword)
	return req
}

func TestAPIReadMatchesField(t *testing.T) {
	h, repo := newAPIHandler()
	repo.restaurants["r1"] = &entities.Restaurant{ID: "r1", Name: "Sushi Go", Borough: "Brooklyn", Cuisine: "Japanese"}
	repo.restaurants["r2"] = &entities.Restaurant{ID: "r2", Name: "Noodle Bar", Borough: "Queens", Cuisine: "Chinese"}

	rec := httptest.NewRecorder()
	h.Read(rec, readRequest("borough", "Brooklyn"))

	var out []apiRestaurant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "r1", out[0].ID)
	assert.Equal(t, "Sushi Go", out[0].Name)
}

func TestAPIReadExactMatchOnly(t *testing.T) {
	h, repo := newAPIHandler()
	repo.restaurants["r1"] = &entities.Restaurant{ID: "r1", Name: "Sushi Go", Borough: "Brooklyn"}

	rec := httptest.NewRecorder()
	h.Read(rec, readRequest("borough", "Brook"))

	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestAPIReadUnknownFieldReturnsEmptyObject(t *testing.T) {
	h, repo := newAPIHandler()
	repo.restaurants["r1"] = &entities.Restaurant{ID: "r1", Name: "Sushi Go", UserID: "alice"}

	rec := httptest.NewRecorder()
	h.Read(rec, readRequest("userid", "alice"))

	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestAPIReadNoResultsReturnsEmptyObject(t *testing.T) {
	h, _ := newAPIHandler()

	rec := httptest.NewRecorder()
	h.Read(rec, readRequest("name", "Nowhere"))

	assert.JSONEq(t, `{}`, rec.Body.String())
}
