// Package memory provides in-process repositories with the same contracts as
// the Mongo ones. Service and handler tests run against them.
package memory

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fathima-sithara/visa-service/internal/models"
	"github.com/fathima-sithara/visa-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[primitive.ObjectID]models.User)}
}

func (r *UserRepository) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateKey
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, id string, upd models.ProfileUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[oid]
	if !ok {
		return repository.ErrNotFound
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Phone != nil {
		u.Phone = upd.Phone
	}
	if upd.Citizenship != nil {
		u.Citizenship = upd.Citizenship
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[oid] = u
	return nil
}

type ApplicationRepository struct {
	mu   sync.Mutex
	apps map[primitive.ObjectID]models.VisaApplication
}

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{apps: make(map[primitive.ObjectID]models.VisaApplication)}
}

func (r *ApplicationRepository) Create(_ context.Context, app *models.VisaApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.ApplicationNumber == app.ApplicationNumber {
			return repository.ErrDuplicateKey
		}
	}
	if app.ID.IsZero() {
		app.ID = primitive.NewObjectID()
	}
	r.apps[app.ID] = cloneApplication(*app)
	return nil
}

func (r *ApplicationRepository) ListByUser(_ context.Context, userID string, limit int64) ([]models.VisaApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.VisaApplication, 0)
	for _, a := range r.apps {
		if a.UserID == userID {
			out = append(out, cloneApplication(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ApplicationRepository) FindOwned(_ context.Context, id, userID string) (*models.VisaApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.owned(id, userID)
	if err != nil {
		return nil, err
	}
	out := cloneApplication(a)
	return &out, nil
}

func (r *ApplicationRepository) UpdateOwned(_ context.Context, id, userID string, upd models.ApplicationUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.owned(id, userID)
	if err != nil {
		return err
	}
	if upd.VisaType != nil {
		vt := *upd.VisaType
		a.VisaType = &vt
	}
	if upd.PersonalInfo != nil {
		a.PersonalInfo = *upd.PersonalInfo
	}
	if upd.TravelDetails != nil {
		a.TravelDetails = *upd.TravelDetails
	}
	if upd.PassportInfo != nil {
		a.PassportInfo = *upd.PassportInfo
	}
	if upd.CurrentStep != nil {
		a.CurrentStep = *upd.CurrentStep
	}
	if upd.CompletedSteps != nil {
		a.CompletedSteps = append([]int{}, (*upd.CompletedSteps)...)
	}
	a.UpdatedAt = time.Now().UTC()
	r.apps[a.ID] = a
	return nil
}

func (r *ApplicationRepository) Submit(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.ownedDraft(id, userID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	a.Status = models.StatusSubmitted
	a.SubmittedAt = &now
	a.UpdatedAt = now
	r.apps[a.ID] = a
	return nil
}

func (r *ApplicationRepository) DeleteDraft(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.ownedDraft(id, userID)
	if err != nil {
		return err
	}
	delete(r.apps, a.ID)
	return nil
}

func (r *ApplicationRepository) AddDocument(_ context.Context, id, userID string, doc models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.ownedDraft(id, userID)
	if err != nil {
		return err
	}
	a.Documents = append(append([]models.Document{}, a.Documents...), doc)
	a.UpdatedAt = time.Now().UTC()
	r.apps[a.ID] = a
	return nil
}

// SetStatus forces a status, standing in for the back-office workflow.
func (r *ApplicationRepository) SetStatus(id string, status models.ApplicationStatus) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.apps[oid]; ok {
		a.Status = status
		r.apps[oid] = a
	}
}

func (r *ApplicationRepository) owned(id, userID string) (models.VisaApplication, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.VisaApplication{}, repository.ErrNotFound
	}
	a, ok := r.apps[oid]
	if !ok || a.UserID != userID {
		return models.VisaApplication{}, repository.ErrNotFound
	}
	return a, nil
}

func (r *ApplicationRepository) ownedDraft(id, userID string) (models.VisaApplication, error) {
	a, err := r.owned(id, userID)
	if err != nil {
		return a, err
	}
	if a.Status != models.StatusDraft {
		return models.VisaApplication{}, repository.ErrNotFound
	}
	return a, nil
}

func cloneApplication(a models.VisaApplication) models.VisaApplication {
	a.Documents = append([]models.Document{}, a.Documents...)
	a.CompletedSteps = append([]int{}, a.CompletedSteps...)
	if a.VisaType != nil {
		vt := *a.VisaType
		a.VisaType = &vt
	}
	return a
}

type CountryRepository struct {
	mu        sync.RWMutex
	countries []models.Country
}

func NewCountryRepository() *CountryRepository {
	return &CountryRepository{}
}

func (r *CountryRepository) List(_ context.Context, limit int64) ([]models.Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]models.Country{}, r.countries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *CountryRepository) FindByCode(_ context.Context, code string) (*models.Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.countries {
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *CountryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.countries)), nil
}

func (r *CountryRepository) InsertMany(_ context.Context, countries []models.Country) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range countries {
		for _, existing := range r.countries {
			if existing.Code == c.Code {
				return repository.ErrDuplicateKey
			}
		}
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		r.countries = append(r.countries, c)
	}
	return nil
}

type FAQRepository struct {
	mu   sync.RWMutex
	faqs []models.FAQ
}

func NewFAQRepository() *FAQRepository {
	return &FAQRepository{}
}

func (r *FAQRepository) List(_ context.Context, q models.FAQQuery, limit int64) ([]models.FAQ, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var category, search *regexp.Regexp
	if c := strings.TrimSpace(q.Category); c != "" && !strings.EqualFold(c, "all") {
		category = regexp.MustCompile("(?i)" + regexp.QuoteMeta(c))
	}
	if q.Search != "" {
		search = regexp.MustCompile("(?i)" + regexp.QuoteMeta(q.Search))
	}

	out := make([]models.FAQ, 0)
	for _, f := range r.faqs {
		if !f.IsActive {
			continue
		}
		if category != nil && !category.MatchString(f.Category) {
			continue
		}
		if search != nil && !search.MatchString(f.Question) && !search.MatchString(f.Answer) {
			continue
		}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *FAQRepository) FindByID(_ context.Context, id string) (*models.FAQ, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.faqs {
		if f.ID == oid {
			return &f, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *FAQRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.faqs)), nil
}

func (r *FAQRepository) InsertMany(_ context.Context, faqs []models.FAQ) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range faqs {
		if f.ID.IsZero() {
			f.ID = primitive.NewObjectID()
		}
		r.faqs = append(r.faqs, f)
	}
	return nil
}

func (r *FAQRepository) Create(_ context.Context, faq *models.FAQ) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if faq.ID.IsZero() {
		faq.ID = primitive.NewObjectID()
	}
	r.faqs = append(r.faqs, *faq)
	return nil
}

func (r *FAQRepository) Update(_ context.Context, id string, upd models.FAQUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.faqs {
		f := &r.faqs[i]
		if f.ID != oid {
			continue
		}
		if upd.Question != nil {
			f.Question = *upd.Question
		}
		if upd.Answer != nil {
			f.Answer = *upd.Answer
		}
		if upd.Category != nil {
			f.Category = *upd.Category
		}
		if upd.IsActive != nil {
			f.IsActive = *upd.IsActive
		}
		if upd.Order != nil {
			f.Order = *upd.Order
		}
		f.UpdatedAt = time.Now().UTC()
		return nil
	}
	return repository.ErrNotFound
}

var (
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ repository.ApplicationRepository = (*ApplicationRepository)(nil)
	_ repository.CountryRepository     = (*CountryRepository)(nil)
	_ repository.FAQRepository         = (*FAQRepository)(nil)
)
