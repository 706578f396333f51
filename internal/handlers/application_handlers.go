package handlers

import (
	"errors"
	"io"
	"strconv"

	"github.com/fathima-sithara/visa-service/internal/middleware"
	"github.com/fathima-sithara/visa-service/internal/models"
	"github.com/fathima-sithara/visa-service/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateApplication(c *fiber.Ctx) error {
	var req models.CreateApplication
	if len(c.Body()) > 0 {
		if valid, err := h.parse(c, &req); !valid {
			return err
		}
	}
	out, err := h.apps.Create(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, out, "Visa application created successfully")
}

func (h *Handler) ListApplications(c *fiber.Ctx) error {
	apps, err := h.apps.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, apps, "Applications retrieved successfully")
}

func (h *Handler) GetApplication(c *fiber.Ctx) error {
	app, err := h.apps.Get(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, app, "Application retrieved successfully")
}

func (h *Handler) UpdateApplication(c *fiber.Ctx) error {
	var req models.ApplicationUpdate
	if valid, err := h.parse(c, &req); !valid {
		return err
	}
	if err := h.apps.Update(c.UserContext(), c.Params("id"), middleware.UserID(c), req); err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, nil, "Application updated successfully")
}

func (h *Handler) SubmitApplication(c *fiber.Ctx) error {
	err := h.apps.Submit(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if errors.Is(err, services.ErrApplicationNotFound) {
		return fail(c, fiber.StatusNotFound, "Application not found or already submitted")
	}
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, nil, "Application submitted successfully")
}

func (h *Handler) DeleteApplication(c *fiber.Ctx) error {
	err := h.apps.Delete(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if errors.Is(err, services.ErrApplicationNotFound) {
		return fail(c, fiber.StatusNotFound, "Application not found or cannot be deleted")
	}
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, nil, "Application deleted successfully")
}

// UploadDocument handles multipart/form-data with a "file" part and a "type" field.
func (h *Handler) UploadDocument(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "File is required")
	}
	if fileHeader.Size > services.MaxDocumentSize {
		return h.respondError(c, services.ErrDocumentTooLarge)
	}
	f, err := fileHeader.Open()
	if err != nil {
		return h.respondError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, services.MaxDocumentSize+1))
	if err != nil {
		return h.respondError(c, err)
	}

	doc, err := h.apps.AddDocument(c.UserContext(), c.Params("id"), middleware.UserID(c), models.DocumentUpload{
		Type:        models.DocumentType(c.FormValue("type")),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Data:        data,
	})
	if errors.Is(err, services.ErrApplicationNotFound) {
		return fail(c, fiber.StatusNotFound, "Application not found or no longer editable")
	}
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, doc, "Document uploaded successfully")
}

func (h *Handler) DocumentURL(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid document index")
	}
	url, err := h.apps.DocumentURL(c.UserContext(), c.Params("id"), middleware.UserID(c), index)
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"url": url}, "Document URL generated successfully")
}
