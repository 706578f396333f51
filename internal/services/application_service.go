package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/fathima-sithara/visa-service/internal/events"
	"github.com/fathima-sithara/visa-service/internal/models"
	"github.com/fathima-sithara/visa-service/internal/repository"
	"github.com/fathima-sithara/visa-service/internal/storage"
	"github.com/fathima-sithara/visa-service/internal/utils"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	applicationListLimit = 100
	// application numbers carry 36^4 suffixes per day; collisions are retried
	applicationNumberAttempts = 5

	MaxDocumentSize = 10 << 20
)

var allowedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

type applicationService struct {
	apps       repository.ApplicationRepository
	store      storage.DocumentStore
	events     events.Publisher
	presignTTL time.Duration
	logger     *zap.Logger

	now       func() time.Time
	newNumber func(time.Time) string
}

// NewApplicationService wires the application lifecycle. store may be nil, in
// which case document operations report ErrStorageUnavailable.
func NewApplicationService(
	apps repository.ApplicationRepository,
	store storage.DocumentStore,
	publisher events.Publisher,
	presignTTL time.Duration,
	logger *zap.Logger,
) ApplicationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &applicationService{
		apps:       apps,
		store:      store,
		events:     publisher,
		presignTTL: presignTTL,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		newNumber:  utils.NewApplicationNumber,
	}
}

func (s *applicationService) Create(ctx context.Context, userID string, req models.CreateApplication) (*models.CreatedApplication, error) {
	now := s.now()
	app := models.VisaApplication{
		UserID:         userID,
		Status:         models.StatusDraft,
		VisaType:       req.VisaType,
		Documents:      []models.Document{},
		Payment:        models.Payment{Status: models.PaymentPending, Currency: models.DefaultCurrency},
		CurrentStep:    1,
		CompletedSteps: []int{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.PersonalInfo != nil {
		app.PersonalInfo = *req.PersonalInfo
	}
	if req.TravelDetails != nil {
		app.TravelDetails = *req.TravelDetails
	}
	if req.PassportInfo != nil {
		app.PassportInfo = *req.PassportInfo
	}

	var err error
	for attempt := 1; attempt <= applicationNumberAttempts; attempt++ {
		app.ID = primitive.NilObjectID
		app.ApplicationNumber = s.newNumber(now)
		err = s.apps.Create(ctx, &app)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("create application: %w", err)
		}
		s.logger.Warn("application number collision",
			zap.String("application_number", app.ApplicationNumber),
			zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, fmt.Errorf("allocate application number after %d attempts: %w", applicationNumberAttempts, err)
	}

	s.publish(ctx, events.ApplicationCreated, &app, "")
	return &models.CreatedApplication{
		ApplicationID:     app.ID.Hex(),
		ApplicationNumber: app.ApplicationNumber,
	}, nil
}

func (s *applicationService) List(ctx context.Context, userID string) ([]models.VisaApplication, error) {
	return s.apps.ListByUser(ctx, userID, applicationListLimit)
}

func (s *applicationService) Get(ctx context.Context, id, userID string) (*models.VisaApplication, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, ErrInvalidApplicationID
	}
	app, err := s.apps.FindOwned(ctx, id, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return app, nil
}

// Update replaces the supplied sections. It does not look at status, so
// submitted applications remain editable through it.
func (s *applicationService) Update(ctx context.Context, id, userID string, upd models.ApplicationUpdate) error {
	if !primitive.IsValidObjectID(id) {
		return ErrInvalidApplicationID
	}
	if err := s.apps.UpdateOwned(ctx, id, userID, upd); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *applicationService) Submit(ctx context.Context, id, userID string) error {
	if !primitive.IsValidObjectID(id) {
		return ErrInvalidApplicationID
	}
	if err := s.apps.Submit(ctx, id, userID); err != nil {
		return notFound(err)
	}
	s.logger.Info("application submitted", zap.String("application_id", id), zap.String("user_id", userID))
	s.publishID(ctx, events.ApplicationSubmitted, id, userID, models.StatusSubmitted)
	return nil
}

func (s *applicationService) Delete(ctx context.Context, id, userID string) error {
	if !primitive.IsValidObjectID(id) {
		return ErrInvalidApplicationID
	}
	if err := s.apps.DeleteDraft(ctx, id, userID); err != nil {
		return notFound(err)
	}
	s.publishID(ctx, events.ApplicationDeleted, id, userID, "")
	return nil
}

func (s *applicationService) AddDocument(ctx context.Context, id, userID string, up models.DocumentUpload) (*models.Document, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, ErrInvalidApplicationID
	}
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	contentType, err := checkUpload(up)
	if err != nil {
		return nil, err
	}

	app, err := s.apps.FindOwned(ctx, id, userID)
	if err != nil {
		return nil, notFound(err)
	}
	if app.Status != models.StatusDraft {
		return nil, ErrApplicationNotFound
	}

	fileName := cleanFileName(up.FileName)
	key := fmt.Sprintf("applications/%s/%s_%s", id, uuid.NewString(), fileName)
	url, err := s.store.Upload(ctx, key, contentType, up.Data)
	if err != nil {
		return nil, storageErr("upload document", err)
	}

	doc := models.Document{
		Type:        up.Type,
		FileName:    fileName,
		FileURL:     url,
		FileKey:     key,
		ContentType: contentType,
		Size:        int64(len(up.Data)),
		UploadedAt:  s.now(),
	}
	if up.Type == models.DocPhoto {
		if thumb, err := storage.Thumbnail(up.Data); err == nil {
			thumbKey := key + "_thumb.jpg"
			if _, err := s.store.Upload(ctx, thumbKey, "image/jpeg", thumb); err == nil {
				doc.ThumbnailKey = thumbKey
			} else {
				s.logger.Warn("thumbnail upload failed", zap.String("key", thumbKey), zap.Error(err))
			}
		}
	}

	if err := s.apps.AddDocument(ctx, id, userID, doc); err != nil {
		s.logger.Warn("document stored but not attached", zap.String("key", key), zap.Error(err))
		return nil, notFound(err)
	}

	s.publish(ctx, events.ApplicationDocumentAdded, app, string(up.Type))
	return &doc, nil
}

func (s *applicationService) DocumentURL(ctx context.Context, id, userID string, index int) (string, error) {
	app, err := s.Get(ctx, id, userID)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(app.Documents) {
		return "", ErrDocumentNotFound
	}
	doc := app.Documents[index]
	if doc.FileURL != "" {
		return doc.FileURL, nil
	}
	if s.store == nil || doc.FileKey == "" {
		return "", ErrStorageUnavailable
	}
	url, err := s.store.PresignURL(ctx, doc.FileKey, s.presignTTL)
	if err != nil {
		return "", storageErr("presign document", err)
	}
	return url, nil
}

func (s *applicationService) publish(ctx context.Context, t events.Type, app *models.VisaApplication, docType string) {
	evt := events.ApplicationEvent{
		Type:              t,
		ApplicationID:     app.ID.Hex(),
		ApplicationNumber: app.ApplicationNumber,
		UserID:            app.UserID,
		Status:            string(app.Status),
		DocumentType:      docType,
		OccurredAt:        s.now(),
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn("publish application event", zap.String("type", string(t)), zap.Error(err))
	}
}

func (s *applicationService) publishID(ctx context.Context, t events.Type, id, userID string, status models.ApplicationStatus) {
	oid, _ := primitive.ObjectIDFromHex(id)
	s.publish(ctx, t, &models.VisaApplication{ID: oid, UserID: userID, Status: status}, "")
}

func checkUpload(up models.DocumentUpload) (string, error) {
	if !up.Type.Valid() {
		return "", fmt.Errorf("%w: unknown document type %q", ErrInvalidDocument, up.Type)
	}
	if len(up.Data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrInvalidDocument)
	}
	if len(up.Data) > MaxDocumentSize {
		return "", ErrDocumentTooLarge
	}
	ct := up.ContentType
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	}
	if ct == "" || ct == "application/octet-stream" {
		ct, _, _ = mime.ParseMediaType(http.DetectContentType(up.Data))
	}
	if !allowedDocumentTypes[ct] {
		return "", fmt.Errorf("%w: unsupported content type %q", ErrInvalidDocument, ct)
	}
	if up.Type == models.DocPhoto && !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("%w: photo must be a jpeg or png image", ErrInvalidDocument)
	}
	return ct, nil
}

func cleanFileName(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "document"
	}
	return base
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrApplicationNotFound
	}
	return err
}

func storageErr(op string, err error) error {
	if errors.Is(err, storage.ErrUnavailable) {
		return fmt.Errorf("%s: %w", op, ErrStorageUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
