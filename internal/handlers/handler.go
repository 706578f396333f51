package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/fathima-sithara/visa-service/internal/services"
	"github.com/fathima-sithara/visa-service/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth     services.AuthService
	ref      services.ReferenceService
	apps     services.ApplicationService
	db       Pinger
	validate *validator.Validate
	logger   *zap.Logger
}

func NewHandler(
	auth services.AuthService,
	ref services.ReferenceService,
	apps services.ApplicationService,
	db Pinger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		auth:     auth,
		ref:      ref,
		apps:     apps,
		db:       db,
		validate: utils.NewValidator(),
		logger:   logger,
	}
}

// Response is the envelope every API endpoint returns.
type Response struct {
	Success bool                    `json:"success"`
	Data    interface{}             `json:"data,omitempty"`
	Message string                  `json:"message"`
	Errors  []utils.ValidationError `json:"errors,omitempty"`
}

func ok(c *fiber.Ctx, status int, data interface{}, msg string) error {
	return c.Status(status).JSON(Response{Success: true, Data: data, Message: msg})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(Response{Success: false, Message: msg})
}

// parse decodes the JSON body into dst and runs struct validation.
// It writes the 400 response itself and returns false when the request is rejected.
func (h *Handler) parse(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(dst); err != nil {
		errs := utils.FormatValidationErrors(err)
		msg := "Validation failed"
		if len(errs) > 0 {
			msg = errs[0].Message
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: msg, Errors: errs})
	}
	return true, nil
}

type errorMapping struct {
	target  error
	status  int
	message string
}

var errorTable = []errorMapping{
	{services.ErrInvalidApplicationID, fiber.StatusBadRequest, "Invalid application ID format"},
	{services.ErrInvalidFAQID, fiber.StatusBadRequest, "Invalid FAQ ID format"},
	{services.ErrUserAlreadyExists, fiber.StatusBadRequest, "Email already registered"},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized, "Invalid email or password"},
	{services.ErrUnauthenticated, fiber.StatusUnauthorized, "Invalid authentication credentials"},
	{services.ErrUserNotFound, fiber.StatusNotFound, "User not found"},
	{services.ErrApplicationNotFound, fiber.StatusNotFound, "Application not found"},
	{services.ErrCountryNotFound, fiber.StatusNotFound, "Country not found"},
	{services.ErrFAQNotFound, fiber.StatusNotFound, "FAQ not found"},
	{services.ErrDocumentNotFound, fiber.StatusNotFound, "Document not found"},
	{services.ErrDocumentTooLarge, fiber.StatusRequestEntityTooLarge, "Document exceeds the 10 MB limit"},
	{services.ErrStorageUnavailable, fiber.StatusServiceUnavailable, "Document storage is not available"},
}

// mapError translates a service error into a status code and client message.
func mapError(err error) (int, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m.status, m.message
		}
	}
	if errors.Is(err, services.ErrInvalidDocument) {
		return fiber.StatusBadRequest, err.Error()
	}
	return fiber.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	status, msg := mapError(err)
	if status >= fiber.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
	}
	return fail(c, status, msg)
}
