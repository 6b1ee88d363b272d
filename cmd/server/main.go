package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contracts-service/internal/config"
	"contracts-service/internal/contract"
	"contracts-service/internal/db"
	"contracts-service/internal/logger"
	"contracts-service/internal/middleware"
	"contracts-service/internal/worker"
	"contracts-service/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.LoadConfig()

	log, err := logger.New(config.AppConfig.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Connect to database
	db.ConnectDb()
	defer db.CloseDb()

	// Migrate database schema
	db.Migrate()

	// Initialize Redis-backed cache (optional, service runs without it)
	cache := redis.NewCache(config.AppConfig.RedisAddress)
	defer cache.Close()

	// Pool for background cache population
	pool := worker.NewWorkerPool(config.AppConfig.WorkerPoolSize)
	defer pool.Shutdown()

	// Initialize repository
	contractRepo := contract.NewRepository(db.AppDb)
	// Initialize service
	cacheTTL := time.Duration(config.AppConfig.CacheTTLHours) * time.Hour
	contractService := contract.NewService(contractRepo, cache, pool, cacheTTL)
	// Initialize handler
	contractHandler := contract.NewHandler(contractService)

	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.ErrorHandler(log))

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-User-Id", "X-User-Email", "X-User-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}

	if config.AppConfig.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		// Restrict origins in production
		corsConfig.AllowOrigins = []string{config.AppConfig.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	identity := &middleware.Identity{}
	authed := identity.IdentityMiddleware()

	// Contract routes
	router.GET("/contracts", authed, contractHandler.List)
	router.POST("/contracts", authed, contractHandler.Create)
	router.GET("/contracts/stats", authed, contractHandler.Stats)
	router.GET("/contracts/recent", authed, contractHandler.Recent)
	router.GET("/contracts/pending", authed, contractHandler.Pending)
	router.POST("/contracts/bulk-download", authed, contractHandler.BulkDownload)
	router.GET("/contracts/:id", authed, contractHandler.Show)
	router.PATCH("/contracts/:id", authed, contractHandler.Update)
	router.DELETE("/contracts/:id", authed, contractHandler.Delete)
	router.POST("/contracts/:id/duplicate", authed, contractHandler.Duplicate)
	router.PATCH("/contracts/:id/content", authed, contractHandler.UpdateContent)
	router.GET("/contracts/:id/versions", authed, contractHandler.ListVersions)
	router.PATCH("/contracts/:id/status", authed, contractHandler.UpdateStatus)
	router.GET("/contracts/:id/transitions", authed, contractHandler.Transitions)
	router.GET("/contracts/:id/history", authed, contractHandler.History)
	router.GET("/contracts/:id/parties", authed, contractHandler.ListParties)
	router.POST("/contracts/:id/parties", authed, contractHandler.AddParty)
	router.DELETE("/contracts/:id/parties/:partyId", authed, contractHandler.RemoveParty)

	// Tokened signer view, no gateway identity required
	router.GET("/contracts/:id/public", contractHandler.PublicView)

	// Server configuration
	serverPort := config.AppConfig.ServerPort
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Info("Server listening", "port", serverPort)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", "err", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", "err", err)
	}

	<-ctx.Done()
	log.Info("Server shutdown complete")
}
