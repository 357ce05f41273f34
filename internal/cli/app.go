package cli

import (
	"context"

	"foodgo/internal/caching"
	"foodgo/internal/common"
	"foodgo/internal/config"
	"foodgo/internal/handlers"
	"foodgo/internal/jobs/background"
	"foodgo/internal/middleware"
	"foodgo/internal/realtime"
	"foodgo/internal/repositories"
	"foodgo/internal/services"
	"foodgo/pkg/database"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// app holds the wired dependencies of one process.
type app struct {
	cfg       config.Config
	pool      *database.Pool
	redis     *redis.Client
	hub       *realtime.Hub
	bridge    *realtime.RedisBridge
	orders    services.OrderService
	scheduler *background.JobScheduler
	echo      *echo.Echo
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, pool: pool, hub: realtime.NewHub()}

	var cacheSvc caching.CacheService = caching.NoopCacheService{}
	var publisher realtime.Publisher = a.hub
	if cfg.Redis.Enabled {
		a.redis = caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cacheSvc = caching.NewRedisCacheService(a.redis)
		a.bridge = realtime.NewRedisBridge(a.redis, cfg.Redis.Channel, a.hub)
		publisher = a.bridge
	}

	orderRepo := repositories.NewOrderRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	restaurantRepo := repositories.NewRestaurantRepo(pool)
	positionRepo := repositories.NewCourierPositionRepo(pool)
	notificationRepo := repositories.NewNotificationRepo(pool)

	authSvc, err := services.NewAuthService(userRepo, cacheSvc, services.AuthConfig{
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenTTL,
		Issuer:    cfg.Auth.Issuer,
		JWKSURL:   cfg.Auth.JWKSURL,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	geocoder := services.NewNominatimGeocoder(services.GeocoderConfig{
		BaseURL:   cfg.Geocode.BaseURL,
		UserAgent: cfg.Geocode.UserAgent,
		Timeout:   cfg.Geocode.Timeout,
		CacheTTL:  cfg.Geocode.CacheTTL,
	}, cacheSvc)

	notificationSvc := services.NewNotificationService(notificationRepo, publisher)
	a.orders = services.NewOrderService(orderRepo, restaurantRepo, userRepo, positionRepo, notificationSvc, geocoder, publisher)
	courierSvc := services.NewCourierService(orderRepo, positionRepo, notificationSvc, publisher)
	restaurantSvc := services.NewRestaurantService(restaurantRepo)
	adminSvc := services.NewAdminService(userRepo, restaurantRepo, positionRepo, orderRepo)

	var uploadSvc services.UploadService
	if cfg.Minio.Enabled {
		uploadSvc, err = services.NewMinioUploadService(services.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
			Bucket:    cfg.Minio.Bucket,
			PublicURL: cfg.Minio.PublicURL,
		})
		if err != nil {
			a.close()
			return nil, err
		}
		if err := uploadSvc.EnsureBucketExists(ctx); err != nil {
			log.Warn().Err(err).Str("bucket", cfg.Minio.Bucket).Msg("could not ensure upload bucket")
		}
	}

	a.scheduler, err = background.NewJobScheduler(a.orders, background.SchedulerConfig{
		ArchiveInterval: cfg.Archive.Interval,
		ArchiveDwell:    cfg.Archive.Dwell,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	checks := map[string]handlers.Pinger{"database": pool}
	if cfg.Redis.Enabled {
		checks["redis"] = cacheSvc
	}

	a.echo = newEcho(cfg)
	handlers.RegisterRoutes(a.echo, handlers.Routes{
		Auth:          handlers.NewAuthHandlers(authSvc),
		Orders:        handlers.NewOrderHandlers(a.orders),
		Couriers:      handlers.NewCourierHandlers(courierSvc),
		Notifications: handlers.NewNotificationHandlers(notificationSvc),
		Restaurants:   handlers.NewRestaurantHandlers(restaurantSvc),
		Geocode:       handlers.NewGeocodeHandlers(geocoder),
		Uploads:       handlers.NewUploadHandlers(uploadSvc),
		Health:        handlers.NewHealthHandlers(checks, Version),
		Admin:         handlers.NewAdminHandlers(adminSvc),
		Socket:        realtime.NewSocketServer(a.hub, authSvc, cfg.Realtime.ClientBuffer, cfg.Server.CorsOrigin),
		Authenticate:  middleware.JWTMiddleware(authSvc),
	})
	return a, nil
}

func newEcho(cfg config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = common.NewRequestValidator()
	e.HTTPErrorHandler = common.HTTPErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.Server.CorsOrigin},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomw.BodyLimit(cfg.Server.BodyLimit))
	e.Use(middleware.VersionHeader("v1", Version))
	return e
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn().Err(errors.WithStack(err)).Msg("closing redis client")
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
