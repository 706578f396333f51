package routes

import (
	"github.com/fathima-sithara/visa-service/internal/handlers"
	"github.com/fathima-sithara/visa-service/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type Options struct {
	Prefix      string
	Auth        middleware.Authenticator
	AuthLimiter fiber.Handler
	Metrics     fiber.Handler
}

func Setup(app *fiber.App, h *handlers.Handler, opts Options) {
	if opts.Metrics != nil {
		app.Get("/metrics", opts.Metrics)
	}

	requireAuth := middleware.RequireAuth(opts.Auth)
	limit := opts.AuthLimiter
	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}

	api := app.Group(opts.Prefix)
	api.Get("/", h.Root)
	api.Get("/health", h.Health)

	auth := api.Group("/auth")
	auth.Post("/register", limit, h.Register)
	auth.Post("/login", limit, h.Login)
	auth.Get("/profile", requireAuth, h.GetProfile)
	auth.Put("/profile", requireAuth, h.UpdateProfile)

	countries := api.Group("/countries")
	countries.Get("/", h.ListCountries)
	countries.Get("/:code", h.GetCountry)

	faqs := api.Group("/faqs")
	faqs.Get("/", h.ListFAQs)
	faqs.Get("/search", h.SearchFAQs)
	faqs.Post("/", requireAuth, middleware.RequireAdmin(), h.CreateFAQ)
	faqs.Put("/:id", requireAuth, middleware.RequireAdmin(), h.UpdateFAQ)

	apps := api.Group("/visa-applications", requireAuth)
	apps.Post("/", h.CreateApplication)
	apps.Get("/", h.ListApplications)
	apps.Get("/:id", h.GetApplication)
	apps.Put("/:id", h.UpdateApplication)
	apps.Post("/:id/submit", h.SubmitApplication)
	apps.Delete("/:id", h.DeleteApplication)
	apps.Post("/:id/documents", h.UploadDocument)
	apps.Get("/:id/documents/:index/url", h.DocumentURL)
}
