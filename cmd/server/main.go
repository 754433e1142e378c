package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/gridkit/gridexpr/internal/api"
	"github.com/gridkit/gridexpr/internal/config"
	"github.com/gridkit/gridexpr/internal/db"
	"github.com/gridkit/gridexpr/internal/domain"
	"github.com/gridkit/gridexpr/internal/export"
	"github.com/gridkit/gridexpr/internal/expressions"
	"github.com/gridkit/gridexpr/internal/middleware"
	"github.com/gridkit/gridexpr/internal/providers"
	"github.com/gridkit/gridexpr/internal/repository"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath, cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Build the expression pipeline
	registry := providers.Default()
	builder, err := expressions.NewBuilder[domain.Employee](registry)
	if err != nil {
		log.Fatalf("Failed to create expression builder: %v", err)
	}

	employeeRepo := repository.NewEmployeeRepository(conn.Pool)
	exporter := export.NewService(export.WithSheetName("Employees"))

	gridHandler, err := api.NewHandler(employeeRepo, builder, exporter)
	if err != nil {
		log.Fatalf("Failed to create grid handler: %v", err)
	}

	// Setup metrics
	registryProm := prometheus.NewRegistry()
	registryProm.MustRegister(collectors.NewGoCollector())
	metrics := middleware.NewMetrics(registryProm)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	wrapped := middleware.LoggingMiddleware(metrics.Middleware(gridHandler))

	mux := http.NewServeMux()
	mux.Handle("/employees", corsHandler.Handler(wrapped))
	mux.Handle("/employees/export", corsHandler.Handler(wrapped))
	mux.Handle("/metrics", promhttp.HandlerFor(registryProm, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting grid server on %s", cfg.Addr)
		log.Printf("Grid endpoint available at http://localhost%s/employees", cfg.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
