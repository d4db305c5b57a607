package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/postboard/postboard/internal/database"
	"github.com/postboard/postboard/internal/post"
	"github.com/postboard/postboard/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a MongoDB collection. Posts are keyed
// by a hex ObjectId string in _id; seo carries a unique index.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(ctx context.Context, col *mongo.Collection) *MongoRepo {
	err := database.EnsureIndexes(ctx, col,
		database.Index{Field: "seo", Unique: true},
		database.Index{Field: "date", Desc: true},
	)
	if err != nil {
		logger.Warnf("posts: %v", err)
	}
	return &MongoRepo{col: col}
}

func (m *MongoRepo) findOne(ctx context.Context, filter bson.M) (*post.Post, error) {
	var p post.Post
	if err := m.col.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &p, nil
}

func (m *MongoRepo) FindByID(ctx context.Context, id string) (*post.Post, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *MongoRepo) FindBySeo(ctx context.Context, seo string) (*post.Post, error) {
	return m.findOne(ctx, bson.M{"seo": seo})
}

func (m *MongoRepo) ListByDateDesc(ctx context.Context) ([]*post.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)
	out := []*post.Post{}
	for cur.Next(ctx) {
		var p post.Post
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		out = append(out, &p)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

// Save replaces the whole document, inserting it when missing.
func (m *MongoRepo) Save(ctx context.Context, p *post.Post) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := m.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSeo
		}
		return fmt.Errorf("save post: %w", err)
	}
	return nil
}

func (m *MongoRepo) Remove(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("remove post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
