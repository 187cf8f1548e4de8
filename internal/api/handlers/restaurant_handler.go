package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/platescout/platescout/internal/api/middleware"
	"github.com/platescout/platescout/internal/domain/entities"
	"github.com/platescout/platescout/internal/domain/repositories"
	"github.com/platescout/platescout/internal/session"
	"github.com/platescout/platescout/internal/web"
	apperrors "github.com/platescout/platescout/pkg/errors"
)

// RestaurantHandler handles the HTML catalog pages
type RestaurantHandler struct {
	restaurants   repositories.RestaurantRepository
	sessions      *session.Manager
	renderer      *web.Renderer
	maxPhotoBytes int64
}

// NewRestaurantHandler creates a new restaurant page handler
func NewRestaurantHandler(restaurants repositories.RestaurantRepository, sessions *session.Manager, renderer *web.Renderer, maxPhotoBytes int64) *RestaurantHandler {
	return &RestaurantHandler{
		restaurants:   restaurants,
		sessions:      sessions,
		renderer:      renderer,
		maxPhotoBytes: maxPhotoBytes,
	}
}

// Home handles GET / by sending visitors to the catalog
func (h *RestaurantHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/read", http.StatusFound)
}

// ShowCreate handles GET /new
func (h *RestaurantHandler) ShowCreate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	h.renderer.Render(w, "create", &web.FormData{
		UserID: sess.UserID,
		Search: sess.Search,
	})
}

// Create handles POST /new
func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())

	restaurant := &entities.Restaurant{
		Name:    r.FormValue("name"),
		Borough: r.FormValue("borough"),
		Cuisine: r.FormValue("cuisine"),
		Address: entities.Address{
			Street:   r.FormValue("street"),
			Building: r.FormValue("building"),
			Zipcode:  r.FormValue("zipcode"),
			Coord: entities.Coord{
				Latitude:  r.FormValue("latitude"),
				Longitude: r.FormValue("longitude"),
			},
		},
		Grades: []entities.Grade{},
		UserID: sess.UserID,
	}

	if err := h.readPhoto(r, restaurant); err != nil {
		h.renderPageError(w, err, backToCatalog(sess))
		return
	}

	if err := restaurant.Validate(); err != nil {
		h.renderPageError(w, err, backToCatalog(sess))
		return
	}

	created, err := h.restaurants.Create(r.Context(), restaurant)
	if err != nil {
		h.renderPageError(w, err, backToCatalog(sess))
		return
	}

	http.Redirect(w, r, "/display?_id="+created.ID, http.StatusFound)
}

// Catalog handles GET /read
func (h *RestaurantHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())

	criteria := repositories.Criteria{
		Name:    r.URL.Query().Get("name"),
		Borough: r.URL.Query().Get("borough"),
		Cuisine: r.URL.Query().Get("cuisine"),
	}

	restaurants, err := h.restaurants.Find(r.Context(), criteria)
	if err != nil {
		h.renderPageError(w, err, backToCatalog(sess))
		return
	}

	// Remember the query string so detail pages can link back to the
	// same filtered listing
	if r.URL.RawQuery != "" {
		sess.Search = "?" + r.URL.RawQuery
		if err := h.sessions.Save(w, sess); err != nil {
			log.Error().Err(err).Msg("failed to save session")
		}
	}

	h.renderer.Render(w, "catalog", &web.CatalogData{
		UserID:      sess.UserID,
		Restaurants: restaurants,
		Search:      sess.Search,
	})
}

// Display handles GET /display
func (h *RestaurantHandler) Display(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	h.renderer.Render(w, "restaurant", &web.RestaurantData{
		UserID:     sess.UserID,
		Restaurant: middleware.RestaurantFrom(r.Context()),
		Search:     sess.Search,
	})
}

// ShowEdit handles GET /change
func (h *RestaurantHandler) ShowEdit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	h.renderer.Render(w, "edit", &web.FormData{
		UserID:     sess.UserID,
		Restaurant: middleware.RestaurantFrom(r.Context()),
		Search:     sess.Search,
	})
}

// Edit handles POST /change
func (h *RestaurantHandler) Edit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	restaurant := middleware.RestaurantFrom(r.Context())

	restaurant.Name = r.FormValue("name")
	restaurant.Borough = r.FormValue("borough")
	restaurant.Cuisine = r.FormValue("cuisine")
	restaurant.Address.Street = r.FormValue("street")
	restaurant.Address.Building = r.FormValue("building")
	restaurant.Address.Zipcode = r.FormValue("zipcode")
	restaurant.Address.Coord.Latitude = r.FormValue("latitude")
	restaurant.Address.Coord.Longitude = r.FormValue("longitude")

	if err := h.readPhoto(r, restaurant); err != nil {
		h.renderPageError(w, err, backToCatalog(sess))
		return
	}

	if err := restaurant.Validate(); err != nil {
		h.renderPageError(w, err, backToCatalog(sess))
		return
	}

	if err := h.restaurants.Update(r.Context(), restaurant); err != nil {
		h.renderPageError(w, err, backToCatalog(sess))
		return
	}

	http.Redirect(w, r, "/display?_id="+restaurant.ID, http.StatusFound)
}

// Remove handles GET /remove
func (h *RestaurantHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	restaurant := middleware.RestaurantFrom(r.Context())

	if err := h.restaurants.Delete(r.Context(), restaurant.ID); err != nil {
		h.renderPageError(w, err, backToCatalog(sess))
		return
	}

	h.renderer.Render(w, "info", &web.InfoData{
		Info: "The restaurant has been deleted",
		Back: backToCatalog(sess),
	})
}

// readPhoto copies an uploaded photo into the restaurant. A request
// without a photo file leaves the current photo untouched.
func (h *RestaurantHandler) readPhoto(r *http.Request, restaurant *entities.Restaurant) error {
	if err := r.ParseMultipartForm(h.maxPhotoBytes); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil
		}
		return apperrors.NewValidationError("The photo is too large")
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil
		}
		return apperrors.NewValidationError("The photo could not be read")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxPhotoBytes+1))
	if err != nil {
		return apperrors.NewInternalError("failed to read photo", err)
	}
	if int64(len(data)) > h.maxPhotoBytes {
		return apperrors.NewValidationError("The photo is too large")
	}
	if len(data) == 0 {
		return nil
	}

	restaurant.Photo = data
	restaurant.Mimetype = header.Header.Get("Content-Type")
	return nil
}

func backToCatalog(sess *session.Session) string {
	return "/read" + sess.Search
}

// renderPageError shows the error page, hiding internals behind a
// generic message
func (h *RestaurantHandler) renderPageError(w http.ResponseWriter, err error, back string) {
	msg := "Internal error"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Type != apperrors.ErrorTypeInternal {
		msg = appErr.Message
	} else {
		log.Error().Err(err).Msg("restaurant operation failed")
	}
	h.renderer.Render(w, "error", &web.ErrorData{Error: msg, Back: back})
}
