// Command api runs the Tastebook HTTP server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tastebook/backend/config"
	"github.com/tastebook/backend/internal/api"
	"github.com/tastebook/backend/internal/database"
	"github.com/tastebook/backend/internal/router"
	"github.com/tastebook/backend/internal/server"
	"github.com/tastebook/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	svcs := api.Services{}

	// Sessions fall back to process memory when Redis is not configured,
	// which keeps a bare Postgres setup workable for development.
	var sessions service.SessionStore
	if cfg.RedisEnabled() {
		redisClient, err := database.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		sessions = service.NewRedisSessionStore(redisClient)
		svcs.Redis = redisClient
	} else {
		log.Printf("Redis not configured, using in-memory sessions")
		sessions = service.NewMemorySessionStore()
	}

	if cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			log.Printf("Warning: S3 unavailable, image uploads disabled: %v", err)
		} else {
			if err := s3Config.SetupBucketPolicy(ctx); err != nil {
				log.Printf("Warning: could not apply bucket policy: %v", err)
			}
			svcs.Images = service.NewImageService(s3Config)
		}
	} else {
		log.Printf("S3 bucket not configured, image uploads disabled")
	}

	externalService, err := service.NewSpoonacularService()
	if err != nil {
		log.Printf("Warning: external recipe search disabled: %v", err)
	} else {
		svcs.External = externalService
	}

	emailService := service.NewEmailService()
	svcs.Auth = service.NewAuthService(db, sessions, cfg.SessionSecret, emailService)
	svcs.Recipes = service.NewRecipeService(db)
	svcs.Saved = service.NewSavedRecipeService(db)
	svcs.Profiles = service.NewProfileService(db)

	srv := server.New(router.SetupRouter(svcs, cfg.FrontendURL), cfg.ServerHost, cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
