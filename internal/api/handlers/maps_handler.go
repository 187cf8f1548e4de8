package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/platescout/platescout/internal/domain/providers"
	"github.com/platescout/platescout/internal/web"
	"github.com/platescout/platescout/pkg/config"
)

const (
	staticMapURL          = "https://maps.googleapis.com/maps/api/staticmap"
	defaultStaticMapSize  = "640x360"
	defaultStaticMapScale = "1"
	staticMapCacheTTL     = 60 * 60 * 24 * 7
)

// MapsHandler serves the map page and proxies static map images
type MapsHandler struct {
	apiKey      string
	defaultZoom int
	cache       providers.CacheProvider
	client      *http.Client
	baseURL     string
	renderer    *web.Renderer
}

// NewMapsHandler creates a new maps handler
func NewMapsHandler(cfg *config.MapsConfig, cache providers.CacheProvider, renderer *web.Renderer) *MapsHandler {
	return NewMapsHandlerWithOptions(cfg, cache, renderer, staticMapURL, nil)
}

// NewMapsHandlerWithOptions allows overriding base URL and HTTP client (used for tests).
func NewMapsHandlerWithOptions(cfg *config.MapsConfig, cache providers.CacheProvider, renderer *web.Renderer, baseURL string, client *http.Client) *MapsHandler {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = staticMapURL
	}
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}
	return &MapsHandler{
		apiKey:      cfg.APIKey,
		defaultZoom: cfg.DefaultZoom,
		cache:       cache,
		client:      client,
		baseURL:     baseURL,
		renderer:    renderer,
	}
}

// GMap handles GET /gmap, showing the location named by lat/lon/title
func (h *MapsHandler) GMap(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	zoom := h.defaultZoom
	if z, err := strconv.Atoi(query.Get("zoom")); err == nil && z > 0 {
		zoom = z
	}
	h.renderer.Render(w, "gmap", &web.MapData{
		Lat:   query.Get("lat"),
		Lon:   query.Get("lon"),
		Zoom:  zoom,
		Title: query.Get("title"),
	})
}

// GetStaticMap proxies the static map image for the map page and caches
// the bytes so repeat views skip the upstream call.
func (h *MapsHandler) GetStaticMap(w http.ResponseWriter, r *http.Request) {
	if h.apiKey == "" {
		respondWithError(w, http.StatusBadRequest, "maps api key not configured")
		return
	}

	query := r.URL.Query()
	lat := strings.TrimSpace(query.Get("lat"))
	lon := strings.TrimSpace(query.Get("lon"))
	if lat == "" || lon == "" {
		respondWithError(w, http.StatusBadRequest, "lat and lon are required")
		return
	}
	center := fmt.Sprintf("%s,%s", lat, lon)

	zoom := strings.TrimSpace(query.Get("zoom"))
	if zoom == "" {
		zoom = strconv.Itoa(h.defaultZoom)
	}

	cacheKey := buildStaticMapCacheKey(center, zoom)
	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), cacheKey); err == nil && len(cached) > 0 {
			w.Header().Set("Content-Type", "image/png")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
	}

	values := url.Values{}
	values.Set("center", center)
	values.Set("zoom", zoom)
	values.Set("size", defaultStaticMapSize)
	values.Set("scale", defaultStaticMapScale)
	values.Add("markers", center)
	values.Set("key", h.apiKey)

	mapURL := fmt.Sprintf("%s?%s", h.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, mapURL, nil)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to build map request")
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "failed to fetch map image")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respondWithError(w, http.StatusBadGateway, "map provider returned an error")
		return
	}

	imageBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to read map image")
		return
	}

	if h.cache != nil {
		_ = h.cache.Set(r.Context(), cacheKey, imageBytes, staticMapCacheTTL)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(imageBytes)
}

func buildStaticMapCacheKey(center, zoom string) string {
	values := url.Values{}
	values.Set("center", center)
	values.Set("zoom", zoom)
	sum := sha256.Sum256([]byte(values.Encode()))
	return "maps:static:" + hex.EncodeToString(sum[:])
}
