package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platescout/platescout/internal/web"
	"github.com/platescout/platescout/pkg/config"
	apperrors "github.com/platescout/platescout/pkg/errors"
)

type mapCacheStub struct {
	entries map[string][]byte
}

func (c *mapCacheStub) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.entries[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("cache miss")
	}
	return v, nil
}

func (c *mapCacheStub) Set(_ context.Context, key string, value []byte, _ int) error {
	c.entries[key] = value
	return nil
}

func (c *mapCacheStub) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *mapCacheStub) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.entries[key]
	return ok, nil
}

func TestGMapRendersWithDefaultZoom(t *testing.T) {
	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	h := NewMapsHandler(&config.MapsConfig{DefaultZoom: 13}, nil, renderer)

	rec := httptest.NewRecorder()
	h.GMap(rec, httptest.NewRequest(http.MethodGet, "/gmap?lat=40.69&lon=-73.99&title=Sushi+Go", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "Sushi Go")
	assert.Contains(t, body, "zoom=13")
}

func TestGetStaticMapRequiresAPIKey(t *testing.T) {
	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	h := NewMapsHandler(&config.MapsConfig{DefaultZoom: 13}, nil, renderer)

	rec := httptest.NewRecorder()
	h.GetStaticMap(rec, httptest.NewRequest(http.MethodGet, "/gmap/static?lat=1&lon=2", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStaticMapRequiresCoordinates(t *testing.T) {
	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	h := NewMapsHandler(&config.MapsConfig{APIKey: "key", DefaultZoom: 13}, nil, renderer)

	rec := httptest.NewRecorder()
	h.GetStaticMap(rec, httptest.NewRequest(http.MethodGet, "/gmap/static?lat=1", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStaticMapProxiesAndCaches(t *testing.T) {
	upstreamHits := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamHits++
		assert.Equal(t, "40.69,-73.99", r.URL.Query().Get("center"))
		assert.Equal(t, "13", r.URL.Query().Get("zoom"))
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer upstream.Close()

	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	cache := &mapCacheStub{entries: map[string][]byte{}}
	h := NewMapsHandlerWithOptions(&config.MapsConfig{APIKey: "key", DefaultZoom: 13}, cache, renderer, upstream.URL, upstream.Client())

	first := httptest.NewRecorder()
	h.GetStaticMap(first, httptest.NewRequest(http.MethodGet, "/gmap/static?lat=40.69&lon=-73.99", nil))
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "png-bytes", first.Body.String())
	assert.Equal(t, "image/png", first.Header().Get("Content-Type"))
	require.Equal(t, 1, upstreamHits)

	second := httptest.NewRecorder()
	h.GetStaticMap(second, httptest.NewRequest(http.MethodGet, "/gmap/static?lat=40.69&lon=-73.99", nil))
	assert.Equal(t, "png-bytes", second.Body.String())
	assert.Equal(t, 1, upstreamHits, "second view must come from cache")
}

func TestGetStaticMapUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer upstream.Close()

	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	h := NewMapsHandlerWithOptions(&config.MapsConfig{APIKey: "key", DefaultZoom: 13}, nil, renderer, upstream.URL, upstream.Client())

	rec := httptest.NewRecorder()
	h.GetStaticMap(rec, httptest.NewRequest(http.MethodGet, "/gmap/static?lat=1&lon=2", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
