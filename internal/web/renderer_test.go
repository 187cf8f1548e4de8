package web

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platescout/platescout/internal/domain/entities"
)

func TestNewRendererParsesAllTemplates(t *testing.T) {
	_, err := NewRenderer()
	require.NoError(t, err)
}

func TestRenderCatalog(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.Render(rec, "catalog", &CatalogData{
		UserID: "alice",
		Restaurants: []*entities.Restaurant{
			{ID: "r1", Name: "Sushi Go", Borough: "Brooklyn", Cuisine: "Japanese"},
		},
		Search: "?borough=Brooklyn",
	})

	body := rec.Body.String()
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, body, "Sushi Go")
	assert.Contains(t, body, "/display?_id=r1")
}

func TestRenderRestaurantShowsOwnerActions(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	restaurant := &entities.Restaurant{
		ID: "r1", Name: "Sushi Go", Borough: "Brooklyn", Cuisine: "Japanese",
		UserID: "alice",
		Grades: []entities.Grade{{Score: 8, User: "bob"}},
	}

	rec := httptest.NewRecorder()
	r.Render(rec, "restaurant", &RestaurantData{UserID: "alice", Restaurant: restaurant})
	body := rec.Body.String()
	assert.Contains(t, body, "/change?_id=r1")
	assert.Contains(t, body, "/remove?_id=r1")
	assert.Contains(t, body, "8.0")

	rec = httptest.NewRecorder()
	r.Render(rec, "restaurant", &RestaurantData{UserID: "bob", Restaurant: restaurant})
	body = rec.Body.String()
	assert.NotContains(t, body, "/change?_id=r1")
	assert.Contains(t, body, "/rate?_id=r1")
}

func TestPhotoURLDataURI(t *testing.T) {
	restaurant := &entities.Restaurant{
		Photo:    []byte{0xff, 0xd8, 0xff},
		Mimetype: "image/jpeg",
	}

	url := string(PhotoURL(restaurant))
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))

	assert.Empty(t, string(PhotoURL(&entities.Restaurant{})))
}

func TestRenderErrorPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.Render(rec, "error", &ErrorData{Error: "The restaurant does not exist", Back: "/read"})
	assert.Contains(t, rec.Body.String(), "The restaurant does not exist")
}
