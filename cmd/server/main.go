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
	"github.com/sirupsen/logrus"
	"github.com/wanderlite/booking-backend/internal/config"
	"github.com/wanderlite/booking-backend/internal/database"
	"github.com/wanderlite/booking-backend/internal/handlers"
	"github.com/wanderlite/booking-backend/internal/middleware"
	"github.com/wanderlite/booking-backend/internal/services"
	"github.com/wanderlite/booking-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Wanderlite Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories need *sqlx.DB for transactions
	postgresDB, ok := db.(*database.PostgresDB)
	if !ok {
		logger.Fatal("Failed to cast database connection to PostgresDB")
	}

	// Initialize repositories
	scheduleRepo := database.NewScheduleRepository(postgresDB.DB)
	seatRepo := database.NewSeatRepository(postgresDB.DB)
	lockRepo := database.NewSeatLockRepository(postgresDB.DB)
	bookingRepo := database.NewBookingRepository(postgresDB.DB)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	seatMapService := services.NewSeatMapService(seatRepo, scheduleRepo, logger)
	lockService := services.NewSeatLockService(lockRepo, seatRepo, scheduleRepo, cfg.Booking, logger)
	bookingService := services.NewBookingService(bookingRepo, seatRepo, scheduleRepo, logger)
	cancellationService := services.NewCancellationService(bookingRepo, scheduleRepo, logger)

	// Background reclamation of expired seat locks
	var lockExpirationService *services.LockExpirationService
	if cfg.Booking.LockSweepEnabled {
		lockExpirationService = services.NewLockExpirationService(lockRepo, cfg.Booking.LockSweepPeriod, logger)
		lockExpirationService.Start()
	}

	// Daily seat map materialization
	cronService := services.NewCronService(seatMapService, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}

	logger.Info("Services initialized")

	// Initialize handlers
	seatHandler := handlers.NewSeatHandler(seatMapService, logger)
	lockHandler := handlers.NewLockHandler(lockService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, cancellationService, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Seat map routes (public reads, holder required for writes)
		schedules := v1.Group("/schedules")
		{
			schedules.GET("/:schedule_id/seat-map", seatHandler.GetSeatMap)
			schedules.POST("/:schedule_id/seat-map", seatHandler.MaterializeSeatMap)
		}

		// Seat lock routes (holder required)
		seats := v1.Group("/seats")
		seats.Use(middleware.HolderMiddleware(jwtService))
		{
			seats.POST("/lock", lockHandler.LockSeats)
			seats.POST("/release", lockHandler.ReleaseLocks)
		}

		// Booking routes (holder required)
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.HolderMiddleware(jwtService))
		{
			bookings.POST("", bookingHandler.ConfirmBooking)
			bookings.GET("/:ref", bookingHandler.GetBooking)
			bookings.POST("/:ref/cancel", bookingHandler.CancelBooking)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	cronService.Stop()
	if lockExpirationService != nil {
		lockExpirationService.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if holder, exists := middleware.GetHolderContext(c); exists {
			fields["holder_id"] = holder.HolderID
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
