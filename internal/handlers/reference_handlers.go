package handlers

import (
	"fmt"

	"github.com/fathima-sithara/visa-service/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ListCountries(c *fiber.Ctx) error {
	countries, err := h.ref.ListCountries(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, countries, "Countries retrieved successfully")
}

func (h *Handler) GetCountry(c *fiber.Ctx) error {
	country, err := h.ref.GetCountry(c.UserContext(), c.Params("code"))
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, country, "Country retrieved successfully")
}

func (h *Handler) ListFAQs(c *fiber.Ctx) error {
	faqs, err := h.ref.ListFAQs(c.UserContext(), c.Query("category"))
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, faqs, "FAQs retrieved successfully")
}

func (h *Handler) SearchFAQs(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return fail(c, fiber.StatusBadRequest, "Query parameter 'q' is required")
	}
	faqs, err := h.ref.SearchFAQs(c.UserContext(), q, c.Query("category"))
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, faqs, fmt.Sprintf("Found %d FAQs matching '%s'", len(faqs), q))
}

func (h *Handler) CreateFAQ(c *fiber.Ctx) error {
	var req models.FAQCreate
	if valid, err := h.parse(c, &req); !valid {
		return err
	}
	faq, err := h.ref.CreateFAQ(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, faq, "FAQ created successfully")
}

func (h *Handler) UpdateFAQ(c *fiber.Ctx) error {
	var req models.FAQUpdate
	if valid, err := h.parse(c, &req); !valid {
		return err
	}
	faq, err := h.ref.UpdateFAQ(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, fiber.StatusOK, faq, "FAQ updated successfully")
}
