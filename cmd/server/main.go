package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adeolu/ridebid/internal/config"
	"github.com/adeolu/ridebid/internal/database"
	"github.com/adeolu/ridebid/internal/events"
	"github.com/adeolu/ridebid/internal/handler"
	"github.com/adeolu/ridebid/internal/middleware"
	"github.com/adeolu/ridebid/internal/repository"
	"github.com/adeolu/ridebid/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize New Relic (optional)
	var nrApp *newrelic.Application
	if cfg.NewRelicEnabled && cfg.NewRelicLicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelicAppName),
			newrelic.ConfigLicense(cfg.NewRelicLicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
			newrelic.ConfigInfoLogger(os.Stdout),
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize New Relic: %v", err)
		} else if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
			log.Printf("Warning: New Relic connection timeout: %v", err)
		} else {
			log.Println("New Relic connected")
		}
	}

	// Initialize PostgreSQL
	db, err := database.NewPostgres(
		cfg.DatabaseURL,
		cfg.DBMaxConnections,
		cfg.DBMaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis
	redis, err := database.NewRedis(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()
	log.Println("Connected to Redis")

	// Event bus for live request streams
	bus := events.NewBus(redis.Client)
	defer bus.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	requestRepo := repository.NewRequestRepository(db.DB)
	bidRepo := repository.NewBidRepository(db.DB)
	messageRepo := repository.NewMessageRepository(db.DB)
	ratingRepo := repository.NewRatingRepository(db.DB)
	fareRepo := repository.NewFareConfigRepository(db.DB)

	// Seed the fare config row on first boot
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 5*time.Second)
	if err := fareRepo.Seed(seedCtx, cfg.DefaultBaseFare, cfg.DefaultRatePerKm, cfg.DefaultRatePerMinute); err != nil {
		log.Printf("Warning: failed to seed fare config: %v", err)
	}
	cancelSeed()

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.AdminEmail)
	requestService := service.NewRequestService(requestRepo, bus)
	bidService := service.NewBidService(bidRepo, requestRepo, bus)
	ratingService := service.NewRatingService(ratingRepo, requestRepo)
	chatService := service.NewChatService(messageRepo, requestRepo, bus)
	fareService := service.NewFareService(fareRepo, service.NewHaversineOracle())
	adminService := service.NewAdminService(userRepo, requestRepo, fareRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	requestHandler := handler.NewRequestHandler(requestService)
	bidHandler := handler.NewBidHandler(bidService)
	chatHandler := handler.NewChatHandler(chatService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	fareHandler := handler.NewFareHandler(fareService)
	adminHandler := handler.NewAdminHandler(adminService)
	sseHandler := handler.NewSSEHandler(requestRepo, bus)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-User-ID"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// New Relic middleware
	if nrApp != nil {
		r.Use(middleware.NewRelicMiddleware(nrApp))
	}

	// Rate limiter (100 requests per minute per IP)
	rateLimiter := middleware.NewRateLimiter(redis.Client, 100, time.Minute)
	r.Use(rateLimiter.Handler)

	// Idempotency middleware
	idempotencyMw := middleware.NewIdempotencyMiddleware(redis.Client)
	r.Use(idempotencyMw.Handler)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := db.Health(ctx); err != nil {
			http.Error(w, "database unhealthy", http.StatusServiceUnavailable)
			return
		}
		if err := redis.Health(ctx); err != nil {
			http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","services":{"database":"up","redis":"up"}}`))
	})

	// API v1 routes
	session := middleware.NewSession(userRepo)
	r.Route("/v1", func(r chi.Router) {
		// Sign-in runs before a session exists
		authHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(session.Handler)
			authHandler.RegisterRoutes(r)
			requestHandler.RegisterRoutes(r)
			bidHandler.RegisterRoutes(r)
			chatHandler.RegisterRoutes(r)
			ratingHandler.RegisterRoutes(r)
			fareHandler.RegisterRoutes(r)
			adminHandler.RegisterRoutes(r)
			sseHandler.RegisterRoutes(r)
		})
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped gracefully")
}
