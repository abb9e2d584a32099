package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"security-shop-service/internal/api"
	"security-shop-service/internal/config"
	"security-shop-service/internal/payment"
	"security-shop-service/internal/store"
)

const defaultAppName = "SecurityShopService"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: .env file not found or error loading, relying on system environment variables.")
	}
	logger := log.New(os.Stdout, fmt.Sprintf("[%s] ", defaultAppName), log.LstdFlags|log.Lshortfile|log.Lmicroseconds)
	logger.Println("INFO: Starting service...")

	// --- Configuration Loading ---
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("FATAL: Error loading configuration: %v", err)
	}

	// --- Database Connection ---
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatalf("FATAL: Failed to initialize database connection: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Printf("WARN: Error closing database on deferred cleanup: %v", err)
		}
	}()

	if err := db.PingContext(context.Background()); err != nil {
		logger.Fatalf("FATAL: Failed to ping database: %v", err)
	}
	logger.Println("INFO: Database connection established successfully.")
	dbStore := store.NewPostgresStore(db)

	// --- Payment Gateway Client ---
	var payments api.PaymentCreator
	if cfg.Payment.Configured() {
		payments = payment.NewClient(cfg.Payment.APIURL, cfg.Payment.ShopID, cfg.Payment.SecretKey, cfg.Payment.ReturnURL)
		logger.Println("INFO: Payment gateway client configured.")
	} else {
		logger.Println("WARN: Payment gateway credentials not set; payment endpoint will report a configuration error.")
	}

	// --- Initialize API Handler ---
	seedTargets := store.SeedTargets{Products: cfg.Seed.Products, Services: cfg.Seed.Services}
	httpAPIHandler := api.NewHTTPHandler(dbStore, dbStore, dbStore, payments, seedTargets)

	// --- Setup & Start HTTP Server ---
	httpRouter := chi.NewRouter()
	setupBaseMiddleware(httpRouter, logger)
	registerHealthCheck(httpRouter, logger, db)
	httpAPIHandler.RegisterRoutes(httpRouter)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      httpRouter,
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	go func() {
		logger.Printf("INFO: HTTP server listening on port %s", cfg.HttpServer.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("FATAL: HTTP server ListenAndServe error: %v", err)
		}
		logger.Println("INFO: HTTP server has stopped.")
	}()

	// --- Graceful Shutdown ---
	shutdownComplete := make(chan struct{})
	go waitForShutdown(logger, httpServer, dbStore, shutdownComplete)

	<-shutdownComplete
	logger.Println("INFO: Service shutdown sequence finished.")
}

func setupBaseMiddleware(router *chi.Mux, logger *log.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	// The storefront is served from a different origin, so every endpoint
	// answers preflight with a permissive policy.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	logger.Println("INFO: Base HTTP middleware registered.")
}

func registerHealthCheck(router *chi.Mux, logger *log.Logger, db *sql.DB) {
	healthPath := "/api/v1/healthz"
	router.Get(healthPath, func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		dbStatus := "healthy"
		if err := db.PingContext(ctx); err != nil {
			dbStatus = "unhealthy"
			logger.Printf("WARN: Health check DB ping failed: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":      "healthy",
			"serviceName": defaultAppName,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"database":    dbStatus,
		})
	})
	logger.Printf("INFO: HTTP health check registered at %s", healthPath)
}

func waitForShutdown(
	logger *log.Logger,
	httpServer *http.Server,
	dbStore *store.PostgresStore,
	shutdownComplete chan struct{},
) {
	defer close(shutdownComplete)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-sigChan
	logger.Printf("INFO: Received signal: %s. Starting graceful shutdown...", receivedSignal)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	logger.Println("INFO: Attempting to gracefully shut down HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("WARN: HTTP server graceful shutdown failed: %v", err)
	} else {
		logger.Println("INFO: HTTP server gracefully shut down.")
	}

	if dbStore != nil {
		if err := dbStore.Close(); err != nil {
			logger.Printf("WARN: Error closing database connection: %v", err)
		}
	}

	logger.Println("INFO: Graceful shutdown sequence completed.")
}
