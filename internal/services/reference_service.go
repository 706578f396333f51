package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fathima-sithara/visa-service/internal/models"
	"github.com/fathima-sithara/visa-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	countryListLimit = 300
	faqListLimit     = 100
)

type referenceService struct {
	countries repository.CountryRepository
	faqs      repository.FAQRepository
	logger    *zap.Logger
}

func NewReferenceService(countries repository.CountryRepository, faqs repository.FAQRepository, logger *zap.Logger) ReferenceService {
	return &referenceService{countries: countries, faqs: faqs, logger: logger}
}

func (s *referenceService) ListCountries(ctx context.Context) ([]models.Country, error) {
	return s.countries.List(ctx, countryListLimit)
}

func (s *referenceService) GetCountry(ctx context.Context, code string) (*models.Country, error) {
	c, err := s.countries.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCountryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *referenceService) ListFAQs(ctx context.Context, category string) ([]models.FAQ, error) {
	return s.faqs.List(ctx, models.FAQQuery{Category: category}, faqListLimit)
}

func (s *referenceService) SearchFAQs(ctx context.Context, query, category string) ([]models.FAQ, error) {
	return s.faqs.List(ctx, models.FAQQuery{Category: category, Search: query}, faqListLimit)
}

func (s *referenceService) CreateFAQ(ctx context.Context, req models.FAQCreate) (*models.FAQ, error) {
	now := time.Now().UTC()
	faq := &models.FAQ{
		Question:  req.Question,
		Answer:    req.Answer,
		Category:  req.Category,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Order != nil {
		faq.Order = *req.Order
	}
	if err := s.faqs.Create(ctx, faq); err != nil {
		return nil, err
	}
	s.logger.Info("faq created", zap.String("faq_id", faq.ID.Hex()), zap.String("category", faq.Category))
	return faq, nil
}

func (s *referenceService) UpdateFAQ(ctx context.Context, id string, upd models.FAQUpdate) (*models.FAQ, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, ErrInvalidFAQID
	}
	if err := s.faqs.Update(ctx, id, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFAQNotFound
		}
		return nil, err
	}
	faq, err := s.faqs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFAQNotFound
		}
		return nil, err
	}
	return faq, nil
}
