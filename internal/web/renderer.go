package web

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/platescout/platescout/internal/domain/entities"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"photoURL": PhotoURL,
		"score":    func(f float64) string { return fmt.Sprintf("%.1f", f) },
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Render writes the named page. Rendering failures are logged and reported
// as a bare 500 because the error page itself may be what failed.
func (r *Renderer) Render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := r.templates.ExecuteTemplate(w, name+".html", data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("failed to render template")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// PhotoURL builds a data: URI for an uploaded photo. It is returned as
// template.URL so html/template does not mangle the data scheme.
func PhotoURL(restaurant *entities.Restaurant) template.URL {
	if !restaurant.HasPhoto() {
		return ""
	}
	encoded := base64.StdEncoding.EncodeToString(restaurant.Photo)
	return template.URL("data:" + restaurant.Mimetype + ";base64," + encoded)
}

// ErrorData is the payload for the error page
type ErrorData struct {
	Error string
	Back  string
}

// InfoData is the payload for the info page
type InfoData struct {
	Info string
	Back string
}

// CatalogData is the payload for the catalog listing
type CatalogData struct {
	UserID      string
	Restaurants []*entities.Restaurant
	Search      string
}

// RestaurantData is the payload for the detail page
type RestaurantData struct {
	UserID     string
	Restaurant *entities.Restaurant
	Search     string
}

// FormData is the payload for the create and edit forms
type FormData struct {
	UserID     string
	Restaurant *entities.Restaurant
	Search     string
}

// RateData is the payload for the rating form
type RateData struct {
	UserID     string
	Restaurant *entities.Restaurant
}

// MapData is the payload for the map page
type MapData struct {
	Lat   string
	Lon   string
	Zoom  int
	Title string
}
