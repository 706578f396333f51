package server

import (
	"errors"
	"strings"
	"time"

	"github.com/fathima-sithara/visa-service/internal/handlers"
	"github.com/fathima-sithara/visa-service/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

type Config struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int
	AllowOrigins []string
}

// New initializes the Fiber application with config and global middlewares.
// Routes are registered separately by the caller. metricsMW may be nil.
func New(cfg Config, logger *zap.Logger, metricsMW fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BodyLimit:    cfg.BodyLimit,
		// non-strict routing keeps "/api/faqs" and "/api/faqs/" equivalent
		StrictRouting: false,
		ErrorHandler:  errorHandler(logger),
	})

	origins := "*"
	if len(cfg.AllowOrigins) > 0 {
		origins = strings.Join(cfg.AllowOrigins, ",")
	}
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: origins}))
	app.Use(middleware.RequestLogger(logger))
	if metricsMW != nil {
		app.Use(metricsMW)
	}
	return app
}

// errorHandler renders unmatched routes, body-limit rejections and recovered
// panics in the API envelope.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal Server Error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else {
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(handlers.Response{Success: false, Message: msg})
	}
}
