package routes

import (
	"net/http"

	"github.com/platescout/platescout/internal/api/handlers"
	"github.com/platescout/platescout/internal/api/middleware"
	"github.com/platescout/platescout/internal/infrastructure/observability"
	"github.com/platescout/platescout/internal/session"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	authHandler       *handlers.AuthHandler
	restaurantHandler *handlers.RestaurantHandler
	ratingHandler     *handlers.RatingHandler
	apiHandler        *handlers.APIHandler
	mapsHandler       *handlers.MapsHandler

	guards          *middleware.Guards
	sessions        *session.Manager
	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	authHandler *handlers.AuthHandler,
	restaurantHandler *handlers.RestaurantHandler,
	ratingHandler *handlers.RatingHandler,
	apiHandler *handlers.APIHandler,
	mapsHandler *handlers.MapsHandler,
	guards *middleware.Guards,
	sessions *session.Manager,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		authHandler:       authHandler,
		restaurantHandler: restaurantHandler,
		ratingHandler:     ratingHandler,
		apiHandler:        apiHandler,
		mapsHandler:       mapsHandler,
		guards:            guards,
		sessions:          sessions,
		cacheMiddleware:   cacheMiddleware,
		metrics:           metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	g := r.guards

	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Auth pages
	r.mux.HandleFunc("GET /login", r.authHandler.ShowLogin)
	r.mux.HandleFunc("POST /login", r.authHandler.Login)
	r.handle("GET /logout", http.HandlerFunc(r.authHandler.Logout), g.RequireLogin)
	r.mux.HandleFunc("GET /register", r.authHandler.ShowRegister)
	r.mux.HandleFunc("POST /register", r.authHandler.Register)

	// Catalog pages, each behind its guard chain
	r.handle("GET /{$}", http.HandlerFunc(r.restaurantHandler.Home), g.RequireLogin)
	r.handle("GET /read", http.HandlerFunc(r.restaurantHandler.Catalog), g.RequireLogin)
	r.handle("GET /new", http.HandlerFunc(r.restaurantHandler.ShowCreate), g.RequireLogin)
	r.handle("POST /new", http.HandlerFunc(r.restaurantHandler.Create), g.RequireLogin)
	r.handle("GET /display", http.HandlerFunc(r.restaurantHandler.Display),
		g.RequireLogin, g.ValidID, g.LoadRestaurant)
	r.handle("GET /change", http.HandlerFunc(r.restaurantHandler.ShowEdit),
		g.RequireLogin, g.ValidID, g.LoadRestaurant, g.RequireOwner)
	r.handle("POST /change", http.HandlerFunc(r.restaurantHandler.Edit),
		g.RequireLogin, g.ValidID, g.LoadRestaurant, g.RequireOwner)
	r.handle("GET /remove", http.HandlerFunc(r.restaurantHandler.Remove),
		g.RequireLogin, g.ValidID, g.LoadRestaurant, g.RequireOwner)
	r.handle("GET /rate", http.HandlerFunc(r.ratingHandler.ShowRate),
		g.RequireLogin, g.ValidID, g.LoadRestaurant, g.RequireNotRated)
	r.handle("POST /rate", http.HandlerFunc(r.ratingHandler.Rate),
		g.RequireLogin, g.ValidID, g.LoadRestaurant, g.RequireNotRated)

	// Map pages
	r.mux.HandleFunc("GET /gmap", r.mapsHandler.GMap)
	r.mux.HandleFunc("GET /gmap/static", r.mapsHandler.GetStaticMap)

	// JSON API
	r.mux.HandleFunc("POST /api/create", r.apiHandler.Create)
	r.mux.HandleFunc("GET /api/read/{field}/{keyword}", r.apiHandler.Read)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Session decoding sits outside the cache so even cache HITs see a
	// decoded session in context
	handler = middleware.WithSession(r.sessions)(handler)

	// HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	handler = middleware.CORSMiddleware(handler)

	return handler
}

func (r *Router) handle(pattern string, h http.Handler, guards ...middleware.Guard) {
	r.mux.Handle(pattern, middleware.Chain(h, guards...))
}
