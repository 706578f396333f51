package services

import (
	"context"
	"errors"

	"github.com/fathima-sithara/visa-service/internal/models"
)

var (
	ErrUserAlreadyExists    = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUnauthenticated      = errors.New("invalid authentication credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrCountryNotFound      = errors.New("country not found")
	ErrFAQNotFound          = errors.New("faq not found")
	ErrInvalidApplicationID = errors.New("invalid application id")
	ErrInvalidFAQID         = errors.New("invalid faq id")
	ErrInvalidDocument      = errors.New("invalid document")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrDocumentTooLarge     = errors.New("document too large")
	ErrStorageUnavailable   = errors.New("document storage unavailable")
)

// Identity is the authenticated caller.
type Identity struct {
	UserID string
	Role   models.UserRole
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthTokens, error)
	Login(ctx context.Context, email, password string) (*models.AuthTokens, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) error
	Authenticate(token string) (*Identity, error)
}

type ReferenceService interface {
	ListCountries(ctx context.Context) ([]models.Country, error)
	GetCountry(ctx context.Context, code string) (*models.Country, error)
	ListFAQs(ctx context.Context, category string) ([]models.FAQ, error)
	SearchFAQs(ctx context.Context, query, category string) ([]models.FAQ, error)
	CreateFAQ(ctx context.Context, req models.FAQCreate) (*models.FAQ, error)
	UpdateFAQ(ctx context.Context, id string, upd models.FAQUpdate) (*models.FAQ, error)
}

type ApplicationService interface {
	Create(ctx context.Context, userID string, req models.CreateApplication) (*models.CreatedApplication, error)
	List(ctx context.Context, userID string) ([]models.VisaApplication, error)
	Get(ctx context.Context, id, userID string) (*models.VisaApplication, error)
	Update(ctx context.Context, id, userID string, upd models.ApplicationUpdate) error
	Submit(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id, userID string) error
	AddDocument(ctx context.Context, id, userID string, up models.DocumentUpload) (*models.Document, error)
	DocumentURL(ctx context.Context, id, userID string, index int) (string, error)
}
