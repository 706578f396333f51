package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectMongo connects and pings the server, retrying with exponential
// backoff up to retries additional attempts.
func ConnectMongo(ctx context.Context, uri, dbName string, retries int, logger *zap.SugaredLogger) (*mongo.Database, *mongo.Client, error) {
	var client *mongo.Client
	attempt := 0
	operation := func() error {
		attempt++
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		c, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
		if err != nil {
			// a malformed URI will not fix itself
			return backoff.Permanent(err)
		}
		if err := c.Ping(connectCtx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			logger.Warnf("MongoDB ping failed (attempt %d): %v", attempt, err)
			return err
		}
		client = c
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 0
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		logger.Errorf("MongoDB connection failed: %v", err)
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	logger.Info("MongoDB connected successfully")
	return client.Database(dbName), client, nil
}

// MongoPinger adapts a client to the health check.
type MongoPinger struct {
	Client *mongo.Client
}

func (p MongoPinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx, readpref.Primary())
}
