package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/platescout/platescout/internal/adapters/cache"
	"github.com/platescout/platescout/internal/adapters/database"
	"github.com/platescout/platescout/internal/api/handlers"
	"github.com/platescout/platescout/internal/api/middleware"
	"github.com/platescout/platescout/internal/api/routes"
	"github.com/platescout/platescout/internal/domain/providers"
	"github.com/platescout/platescout/internal/domain/repositories"
	"github.com/platescout/platescout/internal/infrastructure/clients/redis"
	"github.com/platescout/platescout/internal/infrastructure/clients/surreal"
	"github.com/platescout/platescout/internal/infrastructure/observability"
	"github.com/platescout/platescout/internal/session"
	"github.com/platescout/platescout/internal/web"
	"github.com/platescout/platescout/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	surrealClient, err := surreal.NewClient(ctx, &cfg.SurrealDB)
	if err != nil {
		log.Fatalf("Failed to initialize SurrealDB client: %v", err)
	}
	defer surrealClient.Close(context.Background())
	log.Println("SurrealDB client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application can work without caching
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters
	baseRestaurantAdapter := database.NewRestaurantAdapter(surrealClient)

	var restaurantAdapter repositories.RestaurantRepository
	if cacheProvider != nil {
		restaurantAdapter = database.NewCachedRestaurantAdapter(baseRestaurantAdapter, cacheProvider)
		log.Println("Restaurant adapter wrapped with caching layer")
	} else {
		restaurantAdapter = baseRestaurantAdapter
		log.Println("Restaurant adapter running without cache (Redis unavailable)")
	}

	userAdapter := database.NewUserAdapter(surrealClient)

	// Initialize sessions and views
	sessions := session.NewManager(&cfg.Session)

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to initialize templates: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userAdapter, sessions, renderer)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantAdapter, sessions, renderer, cfg.Uploads.MaxPhotoBytes)
	ratingHandler := handlers.NewRatingHandler(restaurantAdapter, renderer)
	apiHandler := handlers.NewAPIHandler(restaurantAdapter)
	mapsHandler := handlers.NewMapsHandler(&cfg.Maps, cacheProvider, renderer)

	guards := middleware.NewGuards(restaurantAdapter, renderer)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
		log.Println("Cache middleware initialized successfully")
	}

	// Set up router
	router := routes.NewRouter(
		authHandler,
		restaurantHandler,
		ratingHandler,
		apiHandler,
		mapsHandler,
		guards,
		sessions,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := cfg.Server.ServerAddr()
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}
