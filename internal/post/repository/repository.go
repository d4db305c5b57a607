package repository

import (
	"context"
	"errors"

	"github.com/postboard/postboard/internal/post"
)

var (
	ErrNotFound     = errors.New("post not found")
	ErrDuplicateSeo = errors.New("post seo already in use")
)

// Repository is the document-store boundary the post service depends on.
// Save has upsert semantics for both create and update.
type Repository interface {
	FindByID(ctx context.Context, id string) (*post.Post, error)
	FindBySeo(ctx context.Context, seo string) (*post.Post, error)
	ListByDateDesc(ctx context.Context) ([]*post.Post, error)
	Save(ctx context.Context, p *post.Post) error
	Remove(ctx context.Context, id string) error
}
