// Package seed loads the reference catalog (countries and FAQs) into empty
// collections at startup.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/fathima-sithara/visa-service/internal/models"
	"github.com/fathima-sithara/visa-service/internal/repository"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	//go:embed data/countries.yaml
	countriesYAML []byte
	//go:embed data/faqs.yaml
	faqsYAML []byte
)

func Countries() ([]models.Country, error) {
	var out []models.Country
	if err := yaml.Unmarshal(countriesYAML, &out); err != nil {
		return nil, fmt.Errorf("parse countries catalog: %w", err)
	}
	return out, nil
}

func FAQs() ([]models.FAQ, error) {
	var out []models.FAQ
	if err := yaml.Unmarshal(faqsYAML, &out); err != nil {
		return nil, fmt.Errorf("parse faq catalog: %w", err)
	}
	return out, nil
}

// Run inserts each catalog only when its collection is empty, so restarts
// never duplicate or overwrite edited entries.
func Run(ctx context.Context, countries repository.CountryRepository, faqs repository.FAQRepository, logger *zap.Logger) error {
	n, err := countries.Count(ctx)
	if err != nil {
		return fmt.Errorf("count countries: %w", err)
	}
	if n == 0 {
		list, err := Countries()
		if err != nil {
			return err
		}
		if err := countries.InsertMany(ctx, list); err != nil {
			return fmt.Errorf("seed countries: %w", err)
		}
		logger.Info("countries seeded", zap.Int("count", len(list)))
	}

	n, err = faqs.Count(ctx)
	if err != nil {
		return fmt.Errorf("count faqs: %w", err)
	}
	if n == 0 {
		list, err := FAQs()
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for i := range list {
			list[i].CreatedAt = now
			list[i].UpdatedAt = now
		}
		if err := faqs.InsertMany(ctx, list); err != nil {
			return fmt.Errorf("seed faqs: %w", err)
		}
		logger.Info("faqs seeded", zap.Int("count", len(list)))
	}
	return nil
}
