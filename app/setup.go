package app

import (
	"fmt"
	"log"
	"time"

	"github.com/campushub/campus-api/api"
	"github.com/campushub/campus-api/config"
	"github.com/campushub/campus-api/database"
	"github.com/campushub/campus-api/router"
	"github.com/campushub/campus-api/services/cron"
	"github.com/campushub/campus-api/services/geocode"
	"github.com/campushub/campus-api/services/identity"
	"github.com/campushub/campus-api/utils/cache"
	"github.com/campushub/campus-api/utils/middleware"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Redis is optional: without it the identity and geocode clients simply
	// hit the network on every call
	var redisCache *cache.RedisCache
	if getEnv.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Response caching disabled.", err)
			redisCache = nil
		}
	}

	identityClient := identity.NewClient(identity.Config{
		BaseURL:    getEnv.IDENTITY_SERVICE_URL,
		ServiceKey: getEnv.IDENTITY_SERVICE_KEY,
		Cache:      redisCache,
	})

	geocoder := geocode.NewClient(geocode.Config{
		BaseURL: getEnv.GEOCODING_URL,
		APIKey:  getEnv.GEOCODING_API_KEY,
		Cache:   redisCache,
	})

	// Cron manager (only if enabled via environment variable)
	var cronManager *cron.Manager
	if getEnv.CRON_ENABLED {
		cronManager = cron.NewManager(store.DB(), geocoder)
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: Failed to start cron jobs: %v", err)
			cronManager = nil
		}
	}

	// Defer closing DB, redis and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Attach security middleware bundle
	allowedOrigins := getEnv.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Setup Routes
	router.SetupRoutes(app, router.Dependencies{
		Store:    store,
		DB:       store.DB(),
		Identity: identityClient,
		Geocoder: geocoder,
	})

	// Get the PORT & Start the Server
	return server.Run()
}
