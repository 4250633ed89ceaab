package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/echoplay/echoplay-backend/internal/gateway"
	"github.com/echoplay/echoplay-backend/internal/gateway/middleware"
	"github.com/echoplay/echoplay-backend/internal/modules/auth"
	"github.com/echoplay/echoplay-backend/internal/modules/catalog"
	"github.com/echoplay/echoplay-backend/internal/modules/library"
	"github.com/echoplay/echoplay-backend/internal/shared/infrastructure/config"
	"github.com/echoplay/echoplay-backend/internal/shared/infrastructure/database"
	"github.com/echoplay/echoplay-backend/pkg/migration"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg := config.Load()

	if cfg.Migrations.RunOnBoot {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		if err := migration.AutoMigrate(cfg.Database.URL(), cfg.Migrations.Path, logger); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.Close()
	log.Println("Database connected successfully")

	redisClient, err := database.NewRedis(cfg.Redis)
	if err != nil {
		// The catalog cache is an optimization; run without it.
		log.Printf("Redis unavailable, catalog caching disabled: %v", err)
		redisClient = nil
	}

	authModule := auth.NewModule(db, cfg.JWT.Secret, cfg.JWT.Expiry)
	libraryModule := library.NewModule(db)
	catalogModule := catalog.NewModule(cfg.Catalog, redisClient)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	mux := gateway.SetupRoutes(gateway.RouterConfig{
		AuthHandler:    authModule.HTTPHandler(),
		AuthMiddleware: authMiddleware,
		LibraryHandler: libraryModule.HTTPHandler(),
		CatalogHandler: catalogModule.HTTPHandler(),
	})

	handler := middleware.CORSMiddleware(middleware.PrometheusMiddleware(mux), cfg.Server.AllowedOrigins)

	server := gateway.NewServer(cfg.Server.Port, handler)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
