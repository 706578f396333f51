package repository

import (
	"context"
	"errors"

	"github.com/fathima-sithara/visa-service/internal/models"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) error
}

// ApplicationRepository scopes every read and write to the owning user.
// Methods taking an application id expect a valid hex ObjectID; callers validate first.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.VisaApplication) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.VisaApplication, error)
	FindOwned(ctx context.Context, id, userID string) (*models.VisaApplication, error)
	UpdateOwned(ctx context.Context, id, userID string, upd models.ApplicationUpdate) error
	// Submit moves a draft to submitted. ErrNotFound when no owned draft matches.
	Submit(ctx context.Context, id, userID string) error
	// DeleteDraft removes an owned draft. ErrNotFound when no owned draft matches.
	DeleteDraft(ctx context.Context, id, userID string) error
	// AddDocument appends doc to an owned draft. ErrNotFound when no owned draft matches.
	AddDocument(ctx context.Context, id, userID string, doc models.Document) error
}

type CountryRepository interface {
	List(ctx context.Context, limit int64) ([]models.Country, error)
	FindByCode(ctx context.Context, code string) (*models.Country, error)
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, countries []models.Country) error
}

type FAQRepository interface {
	List(ctx context.Context, q models.FAQQuery, limit int64) ([]models.FAQ, error)
	FindByID(ctx context.Context, id string) (*models.FAQ, error)
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, faqs []models.FAQ) error
	Create(ctx context.Context, faq *models.FAQ) error
	Update(ctx context.Context, id string, upd models.FAQUpdate) error
}
