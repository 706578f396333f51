package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fathima-sithara/visa-service/internal/events"
	"github.com/fathima-sithara/visa-service/internal/models"
	"github.com/fathima-sithara/visa-service/internal/repository/memory"
	"github.com/fathima-sithara/visa-service/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type appFixture struct {
	svc    *applicationService
	repo   *memory.ApplicationRepository
	store  *storeStub
	events *publisherStub
}

func newAppFixture() *appFixture {
	repo := memory.NewApplicationRepository()
	store := &storeStub{}
	pub := &publisherStub{}
	svc := NewApplicationService(repo, store, pub, 10*time.Minute, zap.NewNop()).(*applicationService)
	return &appFixture{svc: svc, repo: repo, store: store, events: pub}
}

func (f *appFixture) create(t *testing.T, userID string) string {
	t.Helper()
	out, err := f.svc.Create(context.Background(), userID, models.CreateApplication{})
	require.NoError(t, err)
	return out.ApplicationID
}

func TestCreateApplicationDefaults(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()

	name := "Alice Smith"
	price := models.MustMoney("185")
	out, err := f.svc.Create(ctx, "u1", models.CreateApplication{
		VisaType:     &models.VisaType{ID: "b1b2", Name: "Tourist", Duration: "6 months", Validity: "10 years", Price: &price},
		PersonalInfo: &models.PersonalInfo{FullName: &name},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^USA-\d{8}-[A-Z0-9]{4}$`, out.ApplicationNumber)

	app, err := f.svc.Get(ctx, out.ApplicationID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, app.Status)
	assert.Equal(t, 1, app.CurrentStep)
	assert.Empty(t, app.CompletedSteps)
	assert.Empty(t, app.Documents)
	assert.Equal(t, models.PaymentPending, app.Payment.Status)
	assert.Equal(t, "USD", app.Payment.Currency)
	assert.Nil(t, app.SubmittedAt)
	assert.Equal(t, "Alice Smith", *app.PersonalInfo.FullName)
	assert.Nil(t, app.TravelDetails.Purpose)
	assert.Equal(t, []events.Type{events.ApplicationCreated}, f.events.types())
}

func TestCreateRetriesApplicationNumberCollision(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()

	numbers := []string{"USA-20240101-AAAA", "USA-20240101-AAAA", "USA-20240101-BBBB"}
	var calls int
	f.svc.newNumber = func(time.Time) string {
		n := numbers[calls]
		calls++
		return n
	}

	first, err := f.svc.Create(ctx, "u1", models.CreateApplication{})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, "u1", models.CreateApplication{})
	require.NoError(t, err)

	assert.Equal(t, "USA-20240101-AAAA", first.ApplicationNumber)
	assert.Equal(t, "USA-20240101-BBBB", second.ApplicationNumber)
	assert.Equal(t, 3, calls)
}

func TestCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	f.svc.newNumber = func(time.Time) string { return "USA-20240101-AAAA" }

	_, err := f.svc.Create(ctx, "u1", models.CreateApplication{})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "u1", models.CreateApplication{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5 attempts")
}

func TestApplicationsAreOwnerScoped(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	id := f.create(t, "alice")

	_, err := f.svc.Get(ctx, id, "bob")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.ErrorIs(t, f.svc.Update(ctx, id, "bob", models.ApplicationUpdate{}), ErrApplicationNotFound)
	assert.ErrorIs(t, f.svc.Submit(ctx, id, "bob"), ErrApplicationNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, id, "bob"), ErrApplicationNotFound)

	list, err := f.svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInvalidApplicationID(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()

	_, err := f.svc.Get(ctx, "nope", "u1")
	assert.ErrorIs(t, err, ErrInvalidApplicationID)
	assert.ErrorIs(t, f.svc.Update(ctx, "nope", "u1", models.ApplicationUpdate{}), ErrInvalidApplicationID)
	assert.ErrorIs(t, f.svc.Submit(ctx, "nope", "u1"), ErrInvalidApplicationID)
	assert.ErrorIs(t, f.svc.Delete(ctx, "nope", "u1"), ErrInvalidApplicationID)
	_, err = f.svc.AddDocument(ctx, "nope", "u1", models.DocumentUpload{})
	assert.ErrorIs(t, err, ErrInvalidApplicationID)
}

func TestListNewestFirst(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	older := f.create(t, "u1")
	newer := f.create(t, "u1")

	list, err := f.svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer, list[0].ID.Hex())
	assert.Equal(t, older, list[1].ID.Hex())
}

func TestUpdateReplacesSectionsWholesale(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	id := f.create(t, "u1")

	purpose, acc := "tourism", "Hotel"
	require.NoError(t, f.svc.Update(ctx, id, "u1", models.ApplicationUpdate{
		TravelDetails: &models.TravelDetails{Purpose: &purpose, Accommodation: &acc},
	}))
	step := 3
	steps := []int{1, 2}
	require.NoError(t, f.svc.Update(ctx, id, "u1", models.ApplicationUpdate{
		TravelDetails:  &models.TravelDetails{Purpose: &purpose},
		CurrentStep:    &step,
		CompletedSteps: &steps,
	}))

	app, err := f.svc.Get(ctx, id, "u1")
	require.NoError(t, err)
	assert.Equal(t, "tourism", *app.TravelDetails.Purpose)
	assert.Nil(t, app.TravelDetails.Accommodation)
	assert.Equal(t, 3, app.CurrentStep)
	assert.Equal(t, []int{1, 2}, app.CompletedSteps)
}

func TestUpdateIsNotStatusGated(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	id := f.create(t, "u1")
	require.NoError(t, f.svc.Submit(ctx, id, "u1"))

	step := 4
	require.NoError(t, f.svc.Update(ctx, id, "u1", models.ApplicationUpdate{CurrentStep: &step}))

	app, err := f.svc.Get(ctx, id, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, app.Status)
	assert.Equal(t, 4, app.CurrentStep)
}

func TestConcurrentSubmitExactlyOnce(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	id := f.create(t, "u1")

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	start := make(chan struct{})
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = f.svc.Submit(ctx, id, "u1")
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, notFound int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrApplicationNotFound):
			notFound++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, racers-1, notFound)

	app, err := f.svc.Get(ctx, id, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, app.Status)
	require.NotNil(t, app.SubmittedAt)
	assert.Equal(t, []events.Type{events.ApplicationCreated, events.ApplicationSubmitted}, f.events.types())
}

func TestDeleteOnlyDrafts(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()

	submitted := f.create(t, "u1")
	require.NoError(t, f.svc.Submit(ctx, submitted, "u1"))
	assert.ErrorIs(t, f.svc.Delete(ctx, submitted, "u1"), ErrApplicationNotFound)
	_, err := f.svc.Get(ctx, submitted, "u1")
	assert.NoError(t, err)

	approved := f.create(t, "u1")
	f.repo.SetStatus(approved, models.StatusApproved)
	assert.ErrorIs(t, f.svc.Delete(ctx, approved, "u1"), ErrApplicationNotFound)

	draft := f.create(t, "u1")
	require.NoError(t, f.svc.Delete(ctx, draft, "u1"))
	_, err = f.svc.Get(ctx, draft, "u1")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestSubmitTwiceFails(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	id := f.create(t, "u1")

	require.NoError(t, f.svc.Submit(ctx, id, "u1"))
	assert.ErrorIs(t, f.svc.Submit(ctx, id, "u1"), ErrApplicationNotFound)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	f := newAppFixture()
	f.events.err = errors.New("broker down")

	id := f.create(t, "u1")
	assert.NoError(t, f.svc.Submit(context.Background(), id, "u1"))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(640, 480, color.White)))
	return buf.Bytes()
}

func TestAddDocument(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	id := f.create(t, "u1")

	doc, err := f.svc.AddDocument(ctx, id, "u1", models.DocumentUpload{
		Type:        models.DocPassport,
		FileName:    "../../passport scan.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 test"),
	})
	require.NoError(t, err)
	assert.Equal(t, "passport scan.pdf", doc.FileName)
	assert.True(t, strings.HasPrefix(doc.FileKey, fmt.Sprintf("applications/%s/", id)))
	assert.True(t, strings.HasSuffix(doc.FileKey, "_passport scan.pdf"))

	photo, err := f.svc.AddDocument(ctx, id, "u1", models.DocumentUpload{
		Type:     models.DocPhoto,
		FileName: "me.png",
		Data:     pngBytes(t),
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.ContentType)
	assert.Equal(t, photo.FileKey+"_thumb.jpg", photo.ThumbnailKey)
	assert.Len(t, f.store.keys, 3)

	app, err := f.svc.Get(ctx, id, "u1")
	require.NoError(t, err)
	require.Len(t, app.Documents, 2)
	assert.Equal(t, models.DocPhoto, app.Documents[1].Type)

	url, err := f.svc.DocumentURL(ctx, id, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/"+doc.FileKey, url)

	_, err = f.svc.DocumentURL(ctx, id, "u1", 5)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestAddDocumentRejections(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	id := f.create(t, "u1")

	cases := map[string]struct {
		up   models.DocumentUpload
		want error
	}{
		"unknown type": {models.DocumentUpload{Type: "selfie", Data: []byte("x")}, ErrInvalidDocument},
		"empty":        {models.DocumentUpload{Type: models.DocPassport}, ErrInvalidDocument},
		"too large":    {models.DocumentUpload{Type: models.DocPassport, Data: make([]byte, MaxDocumentSize+1)}, ErrDocumentTooLarge},
		"bad content":  {models.DocumentUpload{Type: models.DocPassport, ContentType: "text/plain", Data: []byte("hello")}, ErrInvalidDocument},
		"pdf as photo": {models.DocumentUpload{Type: models.DocPhoto, ContentType: "application/pdf", Data: []byte("%PDF-1.4")}, ErrInvalidDocument},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.AddDocument(ctx, id, "u1", tc.up)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, f.store.keys)
}

func TestAddDocumentRequiresDraft(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	id := f.create(t, "u1")
	require.NoError(t, f.svc.Submit(ctx, id, "u1"))

	_, err := f.svc.AddDocument(ctx, id, "u1", models.DocumentUpload{
		Type: models.DocPassport, ContentType: "application/pdf", Data: []byte("%PDF-1.4"),
	})
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.Empty(t, f.store.keys)
}

func TestDocumentsWithoutStorage(t *testing.T) {
	repo := memory.NewApplicationRepository()
	svc := NewApplicationService(repo, nil, nil, time.Minute, zap.NewNop())
	ctx := context.Background()
	out, err := svc.Create(ctx, "u1", models.CreateApplication{})
	require.NoError(t, err)

	_, err = svc.AddDocument(ctx, out.ApplicationID, "u1", models.DocumentUpload{
		Type: models.DocPassport, ContentType: "application/pdf", Data: []byte("%PDF-1.4"),
	})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestStorageBreakerOpenMapsToUnavailable(t *testing.T) {
	f := newAppFixture()
	f.store.uploadFn = func(context.Context, string, string, []byte) (string, error) {
		return "", fmt.Errorf("%w: circuit breaker is open", storage.ErrUnavailable)
	}
	id := f.create(t, "u1")

	_, err := f.svc.AddDocument(context.Background(), id, "u1", models.DocumentUpload{
		Type: models.DocPassport, ContentType: "application/pdf", Data: []byte("%PDF-1.4"),
	})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestDocumentURLPrefersPublicURL(t *testing.T) {
	f := newAppFixture()
	f.store.uploadFn = func(_ context.Context, key, _ string, _ []byte) (string, error) {
		return "https://docs.example/" + key, nil
	}
	ctx := context.Background()
	id := f.create(t, "u1")
	doc, err := f.svc.AddDocument(ctx, id, "u1", models.DocumentUpload{
		Type: models.DocBankStatement, ContentType: "application/pdf", Data: []byte("%PDF-1.4"),
	})
	require.NoError(t, err)

	url, err := f.svc.DocumentURL(ctx, id, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, doc.FileURL, url)
}
