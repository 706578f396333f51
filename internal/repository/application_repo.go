package repository

import (
	"context"
	"time"

	"github.com/fathima-sithara/visa-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoApplicationRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoApplicationRepo(db *mongo.Database) ApplicationRepository {
	return &mongoApplicationRepo{
		col: db.Collection(ApplicationsCollection),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *mongoApplicationRepo) Create(ctx context.Context, app *models.VisaApplication) error {
	res, err := r.col.InsertOne(ctx, app)
	if err != nil {
		return translateErr(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		app.ID = oid
	}
	return nil
}

func (r *mongoApplicationRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.VisaApplication, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, translateErr(err)
	}
	defer cur.Close(ctx)

	apps := make([]models.VisaApplication, 0)
	if err := cur.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *mongoApplicationRepo) FindOwned(ctx context.Context, id, userID string) (*models.VisaApplication, error) {
	filter, err := ownedFilter(id, userID)
	if err != nil {
		return nil, err
	}
	var app models.VisaApplication
	if err := r.col.FindOne(ctx, filter).Decode(&app); err != nil {
		return nil, translateErr(err)
	}
	return &app, nil
}

func (r *mongoApplicationRepo) UpdateOwned(ctx context.Context, id, userID string, upd models.ApplicationUpdate) error {
	filter, err := ownedFilter(id, userID)
	if err != nil {
		return err
	}
	set := bson.M{"updatedAt": r.now()}
	if upd.VisaType != nil {
		set["visaType"] = upd.VisaType
	}
	if upd.PersonalInfo != nil {
		set["personalInfo"] = upd.PersonalInfo
	}
	if upd.TravelDetails != nil {
		set["travelDetails"] = upd.TravelDetails
	}
	if upd.PassportInfo != nil {
		set["passportInfo"] = upd.PassportInfo
	}
	if upd.CurrentStep != nil {
		set["currentStep"] = *upd.CurrentStep
	}
	if upd.CompletedSteps != nil {
		steps := *upd.CompletedSteps
		if steps == nil {
			steps = []int{}
		}
		set["completedSteps"] = steps
	}
	return r.updateOne(ctx, filter, bson.M{"$set": set})
}

func (r *mongoApplicationRepo) Submit(ctx context.Context, id, userID string) error {
	filter, err := ownedFilter(id, userID)
	if err != nil {
		return err
	}
	filter = append(filter, bson.E{Key: "status", Value: models.StatusDraft})
	now := r.now()
	return r.updateOne(ctx, filter, bson.M{"$set": bson.M{
		"status":      models.StatusSubmitted,
		"submittedAt": now,
		"updatedAt":   now,
	}})
}

func (r *mongoApplicationRepo) DeleteDraft(ctx context.Context, id, userID string) error {
	filter, err := ownedFilter(id, userID)
	if err != nil {
		return err
	}
	filter = append(filter, bson.E{Key: "status", Value: models.StatusDraft})
	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return translateErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoApplicationRepo) AddDocument(ctx context.Context, id, userID string, doc models.Document) error {
	filter, err := ownedFilter(id, userID)
	if err != nil {
		return err
	}
	filter = append(filter, bson.E{Key: "status", Value: models.StatusDraft})
	return r.updateOne(ctx, filter, bson.M{
		"$push": bson.M{"documents": doc},
		"$set":  bson.M{"updatedAt": r.now()},
	})
}

func (r *mongoApplicationRepo) updateOne(ctx context.Context, filter bson.D, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return translateErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func ownedFilter(id, userID string) (bson.D, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return bson.D{{Key: "_id", Value: oid}, {Key: "userId", Value: userID}}, nil
}
