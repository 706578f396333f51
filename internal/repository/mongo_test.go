package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fathima-sithara/visa-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func ns(mt *mtest.T, coll string) string {
	return mt.DB.Name() + "." + coll
}

func TestMongoUserRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoUserRepo(mt.DB)

		u := &models.User{FullName: "Alice", Email: "alice@example.com", Role: models.RoleUser}
		require.NoError(t, repo.Create(ctx, u))
		assert.False(t, u.ID.IsZero())
		assert.False(t, u.CreatedAt.IsZero())
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error collection: users index: email_1",
		}))
		repo := NewMongoUserRepo(mt.DB)

		err := repo.Create(ctx, &models.User{Email: "alice@example.com"})
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	mt.Run("find by email", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, UsersCollection), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "fullName", Value: "Alice"},
			{Key: "email", Value: "alice@example.com"},
			{Key: "password", Value: "$2a$hash"},
			{Key: "role", Value: "user"},
		}))
		repo := NewMongoUserRepo(mt.DB)

		u, err := repo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, u.ID)
		assert.Equal(t, "$2a$hash", u.PasswordHash)
	})

	mt.Run("find by email missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, UsersCollection), mtest.FirstBatch))
		repo := NewMongoUserRepo(mt.DB)

		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	mt.Run("find by malformed id", func(mt *mtest.T) {
		repo := NewMongoUserRepo(mt.DB)
		_, err := repo.FindByID(ctx, "not-hex")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	mt.Run("update profile unmatched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		repo := NewMongoUserRepo(mt.DB)

		name := "Alice B"
		err := repo.UpdateProfile(ctx, primitive.NewObjectID().Hex(), models.ProfileUpdate{FullName: &name})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMongoApplicationRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	appID := primitive.NewObjectID()

	mt.Run("find owned decodes money", func(mt *mtest.T) {
		price, err := primitive.ParseDecimal128("160.00")
		require.NoError(mt, err)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, ApplicationsCollection), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: appID},
			{Key: "userId", Value: "u1"},
			{Key: "applicationNumber", Value: "USA-20240101-AB12"},
			{Key: "status", Value: "draft"},
			{Key: "visaType", Value: bson.D{
				{Key: "id", Value: "b1b2"},
				{Key: "name", Value: "Tourist"},
				{Key: "duration", Value: "6 months"},
				{Key: "validity", Value: "10 years"},
				{Key: "price", Value: price},
			}},
			{Key: "currentStep", Value: 1},
			{Key: "documents", Value: bson.A{}},
			{Key: "completedSteps", Value: bson.A{}},
			{Key: "createdAt", Value: time.Now()},
		}))
		repo := NewMongoApplicationRepo(mt.DB)

		app, err := repo.FindOwned(ctx, appID.Hex(), "u1")
		require.NoError(mt, err)
		assert.Equal(mt, models.StatusDraft, app.Status)
		require.NotNil(mt, app.VisaType)
		require.NotNil(mt, app.VisaType.Price)
		assert.Equal(mt, "160", app.VisaType.Price.String())
	})

	mt.Run("submit matched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		repo := NewMongoApplicationRepo(mt.DB)
		assert.NoError(mt, repo.Submit(ctx, appID.Hex(), "u1"))
	})

	mt.Run("submit unmatched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		repo := NewMongoApplicationRepo(mt.DB)
		assert.ErrorIs(mt, repo.Submit(ctx, appID.Hex(), "u1"), ErrNotFound)
	})

	mt.Run("delete draft unmatched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		repo := NewMongoApplicationRepo(mt.DB)
		assert.ErrorIs(mt, repo.DeleteDraft(ctx, appID.Hex(), "u1"), ErrNotFound)
	})

	mt.Run("delete draft matched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		repo := NewMongoApplicationRepo(mt.DB)
		assert.NoError(mt, repo.DeleteDraft(ctx, appID.Hex(), "u1"))
	})

	mt.Run("duplicate application number", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error index: applicationNumber_1",
		}))
		repo := NewMongoApplicationRepo(mt.DB)
		err := repo.Create(ctx, &models.VisaApplication{UserID: "u1", ApplicationNumber: "USA-20240101-AB12"})
		assert.ErrorIs(mt, err, ErrDuplicateKey)
	})

	mt.Run("list by user", func(mt *mtest.T) {
		first := mtest.CreateCursorResponse(0, ns(mt, ApplicationsCollection), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "userId", Value: "u1"}, {Key: "status", Value: "draft"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "userId", Value: "u1"}, {Key: "status", Value: "submitted"}},
		)
		mt.AddMockResponses(first)
		repo := NewMongoApplicationRepo(mt.DB)

		apps, err := repo.ListByUser(ctx, "u1", 100)
		require.NoError(mt, err)
		assert.Len(mt, apps, 2)
	})
}

func TestMongoFAQRepoList(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty result is non-nil", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, FAQsCollection), mtest.FirstBatch))
		repo := NewMongoFAQRepo(mt.DB)

		out, err := repo.List(context.Background(), models.FAQQuery{Category: "General"}, 100)
		require.NoError(mt, err)
		assert.NotNil(mt, out)
		assert.Empty(mt, out)
	})
}

func TestFAQFilter(t *testing.T) {
	f := faqFilter(models.FAQQuery{Category: "ALL"})
	assert.Equal(t, bson.D{{Key: "isActive", Value: true}}, f)

	f = faqFilter(models.FAQQuery{Category: "a.b(c", Search: "visa?"})
	require.Len(t, f, 3)
	assert.Equal(t, primitive.Regex{Pattern: `a\.b\(c`, Options: "i"}, f[1].Value)
	or := f[2].Value.(bson.A)
	assert.Equal(t, bson.M{"question": primitive.Regex{Pattern: `visa\?`, Options: "i"}}, or[0])

	f = faqFilter(models.FAQQuery{Search: "visa "})
	require.Len(t, f, 2)
	or = f[1].Value.(bson.A)
	assert.Equal(t, bson.M{"answer": primitive.Regex{Pattern: "visa ", Options: "i"}}, or[1])

	f = faqFilter(models.FAQQuery{Search: "   "})
	require.Len(t, f, 2)
	assert.Equal(t, "$or", f[1].Key)
}
