package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/fathima-sithara/visa-service/internal/config"
	"github.com/fathima-sithara/visa-service/internal/database"
	"github.com/fathima-sithara/visa-service/internal/events"
	"github.com/fathima-sithara/visa-service/internal/handlers"
	"github.com/fathima-sithara/visa-service/internal/metrics"
	"github.com/fathima-sithara/visa-service/internal/middleware"
	"github.com/fathima-sithara/visa-service/internal/repository"
	"github.com/fathima-sithara/visa-service/internal/routes"
	"github.com/fathima-sithara/visa-service/internal/seed"
	"github.com/fathima-sithara/visa-service/internal/server"
	"github.com/fathima-sithara/visa-service/internal/services"
	"github.com/fathima-sithara/visa-service/internal/storage"
	"github.com/fathima-sithara/visa-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type AppContext struct {
	Config    *config.Config
	Logger    *zap.Logger
	Sugar     *zap.SugaredLogger
	Mongo     *mongo.Client
	Redis     *redis.Client
	Publisher events.Publisher
	App       *fiber.App
}

type CleanupFn func(context.Context)

func Init(ctx context.Context, configPath string) (*AppContext, CleanupFn, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := utils.NewLogger(cfg.App.Env, cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	sugar := logger.Sugar()
	app := &AppContext{Config: cfg, Logger: logger, Sugar: sugar, Publisher: events.NopPublisher{}}
	sugar.Infof("Starting visa service in %s environment", cfg.App.Env)

	// cleanup releases whatever has been opened so far; it is safe to call
	// from a failed Init.
	cleanup := func(ctx context.Context) {
		if cerr := app.Publisher.Close(); cerr != nil {
			sugar.Errorf("Event publisher close error: %v", cerr)
		}
		if app.Redis != nil {
			if cerr := app.Redis.Close(); cerr != nil {
				sugar.Errorf("Redis client close error: %v", cerr)
			}
		}
		if app.Mongo != nil {
			if cerr := app.Mongo.Disconnect(ctx); cerr != nil {
				sugar.Errorf("MongoDB disconnect error: %v", cerr)
			}
		}
		if cerr := logger.Sync(); cerr != nil {
			log.Printf("Logger sync error: %v", cerr)
		}
	}
	fail := func(err error) (*AppContext, CleanupFn, error) {
		cleanup(context.Background())
		return nil, nil, err
	}

	db, mongoClient, err := database.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.ConnectRetries, sugar)
	if err != nil {
		return fail(err)
	}
	app.Mongo = mongoClient

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return fail(err)
	}

	users := repository.NewMongoUserRepo(db)
	applications := repository.NewMongoApplicationRepo(db)
	countries := repository.NewMongoCountryRepo(db)
	faqs := repository.NewMongoFAQRepo(db)

	if cfg.App.Seed {
		if err := seed.Run(ctx, countries, faqs, logger); err != nil {
			return fail(err)
		}
	}

	if cfg.Redis.Addr != "" {
		rdb, err := database.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, sugar)
		if err != nil {
			return fail(err)
		}
		app.Redis = rdb
	} else {
		sugar.Warn("Redis not configured. Auth rate limiting is per instance.")
	}

	m := metrics.New()

	if len(cfg.Kafka.Brokers) > 0 {
		app.Publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		sugar.Infof("Publishing application events to %s", cfg.Kafka.Topic)
	} else {
		sugar.Warn("Kafka not configured. Application events are not published.")
	}
	publisher := m.InstrumentPublisher(app.Publisher)

	var docs storage.DocumentStore
	if cfg.S3.Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Region:             cfg.S3.Region,
			Bucket:             cfg.S3.Bucket,
			Endpoint:           cfg.S3.Endpoint,
			PublicRead:         cfg.S3.PublicRead,
			BreakerMaxFailures: cfg.S3.BreakerMaxFailures,
			BreakerTimeout:     cfg.BreakerTimeout,
		}, logger)
		if err != nil {
			return fail(err)
		}
		docs = s3Store
	} else {
		sugar.Warn("S3 bucket not configured. Document uploads are disabled.")
	}

	jwtMgr := utils.NewJWTManager(cfg.JWT.Secret, cfg.AccessTokenTTL)
	authSvc := services.NewAuthService(users, jwtMgr, cfg.Security.PasswordHashCost, logger)
	refSvc := services.NewReferenceService(countries, faqs, logger)
	appSvc := services.NewApplicationService(applications, docs, publisher, cfg.PresignTTL, logger)

	h := handlers.NewHandler(authSvc, refSvc, appSvc, database.MongoPinger{Client: mongoClient}, logger)
	limiter := middleware.NewRateLimiter(app.Redis, cfg.RateLimit.Prefix, cfg.RateLimit.Requests, cfg.RateLimitWindow, logger)

	app.App = server.New(server.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BodyLimit:    cfg.App.BodyLimitMB << 20,
		AllowOrigins: cfg.CORS.AllowOrigins,
	}, logger, m.Middleware())
	routes.Setup(app.App, h, routes.Options{
		Prefix:      cfg.App.APIPrefix,
		Auth:        authSvc,
		AuthLimiter: limiter.Handler(),
		Metrics:     m.Handler(),
	})

	return app, cleanup, nil
}
