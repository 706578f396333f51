package repository

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/fathima-sithara/visa-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCountryRepo struct {
	col *mongo.Collection
}

func NewMongoCountryRepo(db *mongo.Database) CountryRepository {
	return &mongoCountryRepo{col: db.Collection(CountriesCollection)}
}

func (r *mongoCountryRepo) List(ctx context.Context, limit int64) ([]models.Country, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, translateErr(err)
	}
	defer cur.Close(ctx)

	out := make([]models.Country, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoCountryRepo) FindByCode(ctx context.Context, code string) (*models.Country, error) {
	var c models.Country
	if err := r.col.FindOne(ctx, bson.M{"code": code}).Decode(&c); err != nil {
		return nil, translateErr(err)
	}
	return &c, nil
}

func (r *mongoCountryRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *mongoCountryRepo) InsertMany(ctx context.Context, countries []models.Country) error {
	if len(countries) == 0 {
		return nil
	}
	docs := make([]interface{}, len(countries))
	for i := range countries {
		docs[i] = countries[i]
	}
	_, err := r.col.InsertMany(ctx, docs)
	return translateErr(err)
}

type mongoFAQRepo struct {
	col *mongo.Collection
}

func NewMongoFAQRepo(db *mongo.Database) FAQRepository {
	return &mongoFAQRepo{col: db.Collection(FAQsCollection)}
}

// faqFilter builds the active-only filter; category and search are
// case-insensitive literal substring matches.
func faqFilter(q models.FAQQuery) bson.D {
	filter := bson.D{{Key: "isActive", Value: true}}
	if c := strings.TrimSpace(q.Category); c != "" && !strings.EqualFold(c, "all") {
		filter = append(filter, bson.E{Key: "category", Value: containsCI(c)})
	}
	if q.Search != "" {
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.M{"question": containsCI(q.Search)},
			bson.M{"answer": containsCI(q.Search)},
		}})
	}
	return filter
}

func containsCI(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func (r *mongoFAQRepo) List(ctx context.Context, q models.FAQQuery, limit int64) ([]models.FAQ, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, faqFilter(q), opts)
	if err != nil {
		return nil, translateErr(err)
	}
	defer cur.Close(ctx)

	out := make([]models.FAQ, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoFAQRepo) FindByID(ctx context.Context, id string) (*models.FAQ, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var f models.FAQ
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&f); err != nil {
		return nil, translateErr(err)
	}
	return &f, nil
}

func (r *mongoFAQRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *mongoFAQRepo) InsertMany(ctx context.Context, faqs []models.FAQ) error {
	if len(faqs) == 0 {
		return nil
	}
	docs := make([]interface{}, len(faqs))
	for i := range faqs {
		docs[i] = faqs[i]
	}
	_, err := r.col.InsertMany(ctx, docs)
	return translateErr(err)
}

func (r *mongoFAQRepo) Create(ctx context.Context, faq *models.FAQ) error {
	res, err := r.col.InsertOne(ctx, faq)
	if err != nil {
		return translateErr(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		faq.ID = oid
	}
	return nil
}

func (r *mongoFAQRepo) Update(ctx context.Context, id string, upd models.FAQUpdate) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Question != nil {
		set["question"] = *upd.Question
	}
	if upd.Answer != nil {
		set["answer"] = *upd.Answer
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.IsActive != nil {
		set["isActive"] = *upd.IsActive
	}
	if upd.Order != nil {
		set["order"] = *upd.Order
	}
	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return translateErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
