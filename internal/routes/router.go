package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare-backend/internal/config"
	"rideshare-backend/internal/delivery/http/handler"
	domainUser "rideshare-backend/internal/domain/user"
	"rideshare-backend/internal/infrastructure/database/postgres"
	"rideshare-backend/internal/logger"
	"rideshare-backend/internal/metrics"
	"rideshare-backend/internal/middleware"
	"rideshare-backend/internal/usecase/listing"
	"rideshare-backend/internal/usecase/rating"
	"rideshare-backend/internal/usecase/reservation"
	"rideshare-backend/internal/usecase/user"
)

// Dependencies are the process-wide collaborators the router wires together.
// Images may be nil when no bucket is configured.
type Dependencies struct {
	Config    *config.Config
	DB        *postgres.DB
	Blacklist domainUser.TokenBlacklist
	Images    domainUser.ImageStore
	Metrics   *metrics.Metrics
}

// SetupRoutes builds the engine. Background work started here stops when ctx ends.
func SetupRoutes(ctx context.Context, deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	if deps.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(deps.Metrics))
	}
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(cfg.Storage.MaxImageBytes + 1<<20))
	router.Use(middleware.RateLimitMiddleware(
		middleware.NewRateLimiter(ctx, cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst),
	))

	router.GET("/health", func(c *gin.Context) {
		if err := deps.DB.HealthContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	if deps.Metrics != nil && cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(deps.Metrics.Handler()))
	}

	userRepository := postgres.NewUserRepository(deps.DB)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(deps.DB)
	userService := user.NewService(userRepository, refreshTokenRepo, deps.Blacklist, deps.Images, cfg, deps.Metrics)
	userHandler := handler.NewUserHandler(userService)

	listingRepository := postgres.NewListingRepository(deps.DB)
	listingHandler := handler.NewListingHandler(listing.NewService(listingRepository))

	ratingRepository := postgres.NewRatingRepository(deps.DB)
	ratingHandler := handler.NewRatingHandler(rating.NewService(ratingRepository, userRepository))

	reservationRepository := postgres.NewReservationRepository(deps.DB)
	reservationService := reservation.NewService(listingRepository, reservationRepository, deps.Metrics)
	reservationHandler := handler.NewReservationHandler(reservationService)

	if cfg.TokenCleanup.Interval > 0 {
		go userService.StartTokenCleanupJob(ctx, cfg.TokenCleanup.Interval)
	}

	v1 := router.Group("/api/v1")
	{
		userHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg, deps.Blacklist))
		{
			userHandler.RegisterRoutes(protected)
			listingHandler.RegisterRoutes(protected)
			ratingHandler.RegisterRoutes(protected)
			reservationHandler.RegisterRoutes(protected)
		}
	}

	logger.Info("All routes initialized")
	return router
}
