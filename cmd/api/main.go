package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/invenzia/disclosure-api/config"
	"github.com/invenzia/disclosure-api/internal/handlers"
	"github.com/invenzia/disclosure-api/internal/mailer"
	"github.com/invenzia/disclosure-api/internal/middleware"
	"github.com/invenzia/disclosure-api/internal/services"
	"github.com/invenzia/disclosure-api/pkg/logger"
	"github.com/invenzia/disclosure-api/pkg/tracing"
)

// multipartOverhead is the headroom granted on top of the attachment
// ceiling for multipart framing and the JSON payload part. The exact
// ceiling is enforced on the assembled attachment set.
const multipartOverhead = 2 << 20

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting disclosure intake API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing (no-op unless an endpoint is configured)
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceVersion,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize the service and handlers. The SMTP sender is constructed
	// here but only validates its configuration when a submission is
	// dispatched, so an unconfigured transport fails requests, not startup.
	smtpSender := mailer.NewSMTPSender(cfg.Mail)
	intakeService := services.NewIntakeService(cfg, smtpSender)
	intakeHandler := handlers.NewIntakeHandler(intakeService, cfg.Upload)
	healthHandler := handlers.NewHealthHandler(cfg.Observability.ServiceName, cfg.Observability.ServiceVersion)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS only matters when the form is hosted on another origin.
	if len(cfg.Server.AllowedOrigins) > 0 {
		allowedOrigins := cfg.Server.AllowedOrigins
		if cfg.IsDevelopment() {
			allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
		}
		router.Use(cors.New(cors.Config{
			AllowOrigins:  allowedOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	// Rate limiters: a tight one for the submission form, a general one
	// for the operational endpoints.
	submitRateLimiter := middleware.NewRateLimiter(0.1, 3) // ~6 req/min, burst of 3
	generalRateLimiter := middleware.NewRateLimiter(20, 40)

	router.GET("/health", generalRateLimiter.Middleware(), healthHandler.Healthcheck)

	api := router.Group("/api")
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.Handler()))
	api.POST("/submit",
		submitRateLimiter.Middleware(),
		middleware.BodySizeLimitMiddleware(cfg.Upload.MaxTotalBytes+multipartOverhead),
		intakeHandler.SubmitDisclosure,
	)

	// Everything else is the static frontend.
	router.NoRoute(gin.WrapH(http.FileServer(gin.Dir(cfg.Server.StaticDir, false))))

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
