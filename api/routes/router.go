// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	_ "hallbook/docs"
	"hallbook/internal/auth"
	"hallbook/internal/bookings"
	"hallbook/internal/notifications"
	"hallbook/internal/pricing"
	"hallbook/internal/resources"
	"hallbook/internal/shared/config"
	"hallbook/internal/shared/database"
	"hallbook/internal/shared/middleware"
	"hallbook/internal/users"
	"hallbook/pkg/cache"
	"hallbook/pkg/retry"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB
	emails notifications.Dispatcher
	policy retry.Policy

	// nil when Redis is unavailable
	cache       cache.Service
	revocations *middleware.RedisRevocationStore

	auth         gin.HandlerFunc
	optionalAuth gin.HandlerFunc
	streamAuth   gin.HandlerFunc

	// shared between route groups
	owners        *users.Service
	resources     resources.Service
	pricing       pricing.Service
	notifications notifications.Service
	bookings      bookings.Service
}

// NewRouter creates a new router instance. emails delivers the booking
// e-mails; it is either the Kafka producer or a direct SMTP dispatcher.
func NewRouter(cfg *config.Config, db *database.DB, emails notifications.Dispatcher) *Router {
	r := &Router{
		config: cfg,
		db:     db,
		emails: emails,
		policy: retry.Policy{
			Timeout: cfg.Booking.LookupTimeout,
			Retries: cfg.Booking.LookupRetries,
			Backoff: cfg.Booking.RetryBackoff,
		},
		revocations: middleware.NewRedisRevocationStore(db.Redis),
	}
	if db.Redis != nil {
		r.cache = cache.NewService(db.Redis)
	}

	r.auth = middleware.JWTAuthWithConfig(cfg, r.revocations)
	r.optionalAuth = middleware.OptionalAuthWithConfig(cfg, r.revocations)
	r.streamAuth = middleware.StreamAuthWithConfig(cfg, r.revocations)
	return r
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupCatalogRoutes(api)
		r.setupNotificationRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// BookingService returns the booking service built by SetupRoutes; the
// reminder job runs against it.
func (r *Router) BookingService() bookings.Service {
	return r.bookings
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "hallbook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "hallbook-backend",
			"redis":     r.db.Redis != nil,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.revocations, r.config)
	authController := auth.NewController(authService)

	auth.NewRouter(authController, r.auth).SetupRoutes(rg)
}

// setupCatalogRoutes configures the public hall and rate listings
func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	r.owners = users.NewService(users.NewRepository(r.db.GetPostgreSQL()), r.policy)

	r.resources = resources.NewService(resources.NewRepository(r.db.GetPostgreSQL()), r.owners, r.cache, r.policy)
	resources.SetupResourceRoutes(rg, resources.NewController(r.resources))

	r.pricing = pricing.NewService(pricing.NewRepository(r.db.GetPostgreSQL()), r.owners, r.cache, r.policy)
	pricing.SetupPricingRoutes(rg, pricing.NewController(r.pricing))
}

// setupNotificationRoutes configures the in-app notification routes
func (r *Router) setupNotificationRoutes(rg *gin.RouterGroup) {
	var hub notifications.Broker = notifications.NewLocalHub()
	if r.db.Redis != nil {
		hub = notifications.NewRedisHub(r.db.Redis)
	}

	r.notifications = notifications.NewService(notifications.NewRepository(r.db.GetPostgreSQL()), hub, r.policy)
	notifications.SetupNotificationRoutes(rg, notifications.NewController(r.notifications), r.auth, r.streamAuth)
}

// setupBookingRoutes configures booking routes. It needs the services built
// by setupCatalogRoutes and setupNotificationRoutes.
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	deps := bookings.Dependencies{
		Owners:        r.owners,
		Resources:     r.resources,
		Pricing:       r.pricing,
		Notifications: r.notifications,
		Emails:        r.emails,
		Cache:         r.cache,
	}
	if r.db.Redis != nil {
		deps.SlotLocker = bookings.NewRedisSlotLocker(r.db.Redis, r.config.Booking.SlotLockTTL)
	}

	r.bookings = bookings.NewService(bookings.NewRepository(r.db.GetPostgreSQL()), deps, r.config.Booking)
	controller := bookings.NewController(r.bookings, r.config.DebugEndpointsEnabled)
	bookings.SetupBookingRoutes(rg, controller, r.auth, r.optionalAuth)
}
