package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/config"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/database"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/handlers"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/middleware"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/routes"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to PostgreSQL (creates tables and seeds the disease catalog)
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis (sessions, rate limiting, event pub/sub, caches)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (raw prediction archive)
	log.Printf("Connecting to MongoDB...")
	if err := database.ConnectMongo(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.DisconnectMongo()

	if err := services.EnsurePredictionLogIndexes(context.Background()); err != nil {
		log.Printf("⚠️ WARNING: failed to ensure prediction log indexes: %v", err)
	} else {
		log.Println("✅ MongoDB prediction log indexes ensured")
	}

	// Cloudinary uploads and ML prediction client
	handlers.InitDiagnosis(cfg)
	log.Printf("✅ Prediction service client ready (%s, timeout %s)", cfg.MLAPIBaseURL, cfg.MLAPITimeout)

	// Fan user events from Redis out to local WebSocket connections
	services.StartEventSubscriber(context.Background())

	// Purge expired password reset tokens hourly
	services.StartTokenCleanup(1)
	log.Println("✅ Reset token cleanup service started")

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.RateLimit)

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r)

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET    /health")
	log.Println("  POST   /api/auth/signup")
	log.Println("  POST   /api/auth/signin")
	log.Println("  POST   /api/auth/signout")
	log.Println("  GET    /api/auth/me")
	log.Println("  PUT    /api/auth/profile")
	log.Println("  POST   /api/auth/forgot-password")
	log.Println("  POST   /api/auth/reset-password")
	log.Println("  POST   /api/diagnose")
	log.Println("  POST   /api/diagnose/base64")
	log.Println("  GET    /api/history")
	log.Println("  POST   /api/history")
	log.Println("  DELETE /api/history")
	log.Println("  GET    /api/history/record")
	log.Println("  GET    /api/settings")
	log.Println("  PUT    /api/settings")
	log.Println("  GET    /api/diseases")
	log.Println("  GET    /api/alert")
	log.Println("  DELETE /api/alert")
	log.Println("  GET    /ws/events")

	log.Printf("🚀 CoffeeGuard backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
