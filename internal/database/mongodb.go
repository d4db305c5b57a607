package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().
		ApplyURI(uri).
		SetAppName("postboard").
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Index describes a single-field index.
type Index struct {
	Field  string
	Desc   bool
	Unique bool
}

// EnsureIndexes creates the given indexes on col. Existing identical indexes are a no-op.
func EnsureIndexes(ctx context.Context, col *mongo.Collection, idx ...Index) error {
	models := make([]mongo.IndexModel, 0, len(idx))
	for _, i := range idx {
		order := 1
		if i.Desc {
			order = -1
		}
		m := mongo.IndexModel{Keys: bson.D{{Key: i.Field, Value: order}}}
		if i.Unique {
			m.Options = options.Index().SetUnique(true)
		}
		models = append(models, m)
	}
	if len(models) == 0 {
		return nil
	}
	if _, err := col.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("ensure indexes on %s: %w", col.Name(), err)
	}
	return nil
}
