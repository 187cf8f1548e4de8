package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/platescout/platescout/internal/domain/entities"
	"github.com/platescout/platescout/internal/domain/repositories"
	"github.com/platescout/platescout/internal/session"
	"github.com/platescout/platescout/internal/web"
	apperrors "github.com/platescout/platescout/pkg/errors"
)

type contextKey string

const (
	sessionContextKey    contextKey = "session"
	restaurantContextKey contextKey = "restaurant"
)

// WithSession decodes the session cookie once per request and stores the
// session in the request context for handlers and guards downstream.
func WithSession(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), manager.Load(r))))
		})
	}
}

// ContextWithSession attaches a session to the context
func ContextWithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// ContextWithRestaurant attaches a loaded restaurant to the context
func ContextWithRestaurant(ctx context.Context, r *entities.Restaurant) context.Context {
	return context.WithValue(ctx, restaurantContextKey, r)
}

// SessionFrom returns the session attached to the request context. Routes
// outside the session middleware get an anonymous session.
func SessionFrom(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(sessionContextKey).(*session.Session); ok {
		return sess
	}
	return &session.Session{}
}

// RestaurantFrom returns the restaurant loaded by the LoadRestaurant guard
func RestaurantFrom(ctx context.Context) *entities.Restaurant {
	if r, ok := ctx.Value(restaurantContextKey).(*entities.Restaurant); ok {
		return r
	}
	return nil
}

// Guard is one link of an access-control chain
type Guard func(http.Handler) http.Handler

// Chain wraps a handler with guards so the first guard listed runs first
func Chain(h http.Handler, guards ...Guard) http.Handler {
	for i := len(guards) - 1; i >= 0; i-- {
		h = guards[i](h)
	}
	return h
}

// Guards bundles the dependencies the access-control chain needs
type Guards struct {
	restaurants repositories.RestaurantRepository
	renderer    *web.Renderer
}

// NewGuards creates the guard set
func NewGuards(restaurants repositories.RestaurantRepository, renderer *web.Renderer) *Guards {
	return &Guards{restaurants: restaurants, renderer: renderer}
}

func backToCatalog(sess *session.Session) string {
	return "/read" + sess.Search
}

// RequireLogin redirects anonymous visitors to the login page
func (g *Guards) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFrom(r.Context()).LoggedIn() {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ValidID rejects requests whose _id query parameter is not a UUID
func (g *Guards) ValidID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("_id")
		if _, err := uuid.Parse(id); err != nil {
			g.renderer.Render(w, "error", &web.ErrorData{
				Error: "The ID is invalid",
				Back:  backToCatalog(SessionFrom(r.Context())),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoadRestaurant fetches the restaurant named by _id and attaches it to
// the request context. Unknown IDs get the error page.
func (g *Guards) LoadRestaurant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFrom(r.Context())
		id := r.URL.Query().Get("_id")

		restaurant, err := g.restaurants.GetByID(r.Context(), id)
		if err != nil {
			msg := "The restaurant does not exist"
			if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
				msg = err.Error()
			}
			g.renderer.Render(w, "error", &web.ErrorData{
				Error: msg,
				Back:  backToCatalog(sess),
			})
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithRestaurant(r.Context(), restaurant)))
	})
}

// RequireOwner lets only the restaurant's creator continue
func (g *Guards) RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFrom(r.Context())
		restaurant := RestaurantFrom(r.Context())
		if restaurant == nil || restaurant.UserID != sess.UserID {
			g.renderer.Render(w, "error", &web.ErrorData{
				Error: "Unauthorized",
				Back:  "/display?_id=" + r.URL.Query().Get("_id"),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireNotRated blocks users who already graded this restaurant
func (g *Guards) RequireNotRated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFrom(r.Context())
		restaurant := RestaurantFrom(r.Context())
		if restaurant == nil || restaurant.RatedBy(sess.UserID) {
			g.renderer.Render(w, "error", &web.ErrorData{
				Error: "You cannot rate a restaurant twice",
				Back:  "/display?_id=" + r.URL.Query().Get("_id"),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
