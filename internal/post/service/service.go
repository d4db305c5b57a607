package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/postboard/postboard/internal/apperr"
	"github.com/postboard/postboard/internal/identity"
	"github.com/postboard/postboard/internal/models"
	"github.com/postboard/postboard/internal/post"
	"github.com/postboard/postboard/internal/post/repository"
	"github.com/postboard/postboard/pkg/logger"
	"github.com/postboard/postboard/pkg/metrics"
	"github.com/rs/zerolog"
)

const maxSlugAttempts = 50

var (
	ErrPostNotFound = apperr.NotFound("Post not found")
	ErrUserNotFound = apperr.New(apperr.KindUnauthenticated, "User no longer exists")
	ErrSlugTaken    = apperr.Conflict("Could not allocate a unique seo for the title")
)

// UserLookup resolves the author data denormalized onto posts and comments.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Cache is an optional read-through cache for posts keyed by seo.
type Cache interface {
	Get(ctx context.Context, seo string) (*post.Post, error)
	Set(ctx context.Context, p *post.Post) error
	Invalidate(ctx context.Context, seo string) error
}

type CreateInput struct {
	Title    string
	Text     string
	ImageID  string
	ImageURL string
}

// Service defines the post business operations used by the handler layer.
// Every mutating operation requires an authenticated caller.
type Service interface {
	Create(ctx context.Context, caller identity.Identity, in CreateInput) (*post.Post, error)
	ListAll(ctx context.Context) ([]*post.Post, error)
	GetBySeo(ctx context.Context, seo string) (*post.Post, error)
	Update(ctx context.Context, postID string, caller identity.Identity, title, text string) (*post.Post, error)
	Delete(ctx context.Context, postID string, caller identity.Identity) error
	Like(ctx context.Context, postID string, caller identity.Identity) ([]post.Like, error)
	Unlike(ctx context.Context, postID string, caller identity.Identity) ([]post.Like, error)
	AddComment(ctx context.Context, postID string, caller identity.Identity, text string) ([]post.Comment, error)
	RemoveComment(ctx context.Context, postID, commentID string, caller identity.Identity) ([]post.Comment, error)
}

// NewService wires a Service over repo. cache may be nil.
func NewService(repo repository.Repository, users UserLookup, cache Cache) Service {
	return &postService{
		repo:  repo,
		users: users,
		cache: cache,
		log:   logger.With("posts"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService(users UserLookup) Service {
	return NewService(repository.NewMemoryRepo(), users, nil)
}

type postService struct {
	repo  repository.Repository
	users UserLookup
	cache Cache
	log   zerolog.Logger
	now   func() time.Time
}

func (s *postService) author(ctx context.Context, caller identity.Identity) (*models.User, error) {
	u, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, apperr.Store(err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *postService) Create(ctx context.Context, caller identity.Identity, in CreateInput) (p *post.Post, err error) {
	defer func() { record("create", err) }()
	u, err := s.author(ctx, caller)
	if err != nil {
		return nil, err
	}
	now := s.now()
	p = &post.Post{
		ID:       post.NewID(),
		User:     caller.UserID,
		Title:    in.Title,
		Text:     in.Text,
		Name:     u.Name,
		Avatar:   u.Avatar,
		Likes:    []post.Like{},
		Comments: []post.Comment{},
		Date:     now,
	}
	if in.ImageID != "" || in.ImageURL != "" {
		p.Image = &post.Image{ID: in.ImageID, URL: in.ImageURL}
	}

	base := post.Slugify(in.Title)
	for n := 1; n <= maxSlugAttempts; n++ {
		p.Seo = post.SlugCandidate(base, n)
		_, err := s.repo.FindBySeo(ctx, p.Seo)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Store(err)
		}
		err = s.repo.Save(ctx, p)
		if errors.Is(err, repository.ErrDuplicateSeo) {
			// lost a race with a concurrent create
			continue
		}
		if err != nil {
			return nil, apperr.Store(err)
		}
		return p, nil
	}
	return nil, ErrSlugTaken
}

func (s *postService) ListAll(ctx context.Context) ([]*post.Post, error) {
	list, err := s.repo.ListByDateDesc(ctx)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return list, nil
}

func (s *postService) GetBySeo(ctx context.Context, seo string) (*post.Post, error) {
	if s.cache != nil {
		if p, err := s.cache.Get(ctx, seo); err != nil {
			s.log.Warn().Err(err).Str("seo", seo).Msg("cache get")
		} else if p != nil {
			return p, nil
		}
	}
	p, err := s.repo.FindBySeo(ctx, seo)
	if err != nil {
		return nil, translate(err)
	}
	if s.cache != nil {
		// A write landing between FindBySeo and Set leaves this copy cached
		// until the TTL expires.
		if err := s.cache.Set(ctx, p); err != nil {
			s.log.Warn().Err(err).Str("seo", seo).Msg("cache set")
		}
	}
	return p, nil
}

func (s *postService) Update(ctx context.Context, postID string, caller identity.Identity, title, text string) (*post.Post, error) {
	return s.mutate(ctx, "update", postID, func(p *post.Post) error {
		if err := post.AuthorizeMutation(p.User, caller, "User not authorized to edit the post"); err != nil {
			return err
		}
		p.Title = title
		p.Text = text
		p.UpdatedAt = s.now()
		return nil
	})
}

func (s *postService) Delete(ctx context.Context, postID string, caller identity.Identity) (err error) {
	defer func() { record("delete", err) }()
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return translate(err)
	}
	if err := post.AuthorizeMutation(p.User, caller, "User not authorized to delete the post"); err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, p.ID); err != nil {
		return translate(err)
	}
	s.invalidate(ctx, p.Seo)
	return nil
}

func (s *postService) Like(ctx context.Context, postID string, caller identity.Identity) ([]post.Like, error) {
	p, err := s.mutate(ctx, "like", postID, func(p *post.Post) error {
		_, err := post.AddLike(p, caller)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p.Likes, nil
}

func (s *postService) Unlike(ctx context.Context, postID string, caller identity.Identity) ([]post.Like, error) {
	p, err := s.mutate(ctx, "unlike", postID, func(p *post.Post) error {
		_, err := post.RemoveLike(p, caller)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p.Likes, nil
}

func (s *postService) AddComment(ctx context.Context, postID string, caller identity.Identity, text string) ([]post.Comment, error) {
	u, err := s.author(ctx, caller)
	if err != nil {
		record("comment", err)
		return nil, err
	}
	p, err := s.mutate(ctx, "comment", postID, func(p *post.Post) error {
		post.AddComment(p, caller, text, u.Name, u.Avatar)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Comments, nil
}

func (s *postService) RemoveComment(ctx context.Context, postID, commentID string, caller identity.Identity) ([]post.Comment, error) {
	p, err := s.mutate(ctx, "uncomment", postID, func(p *post.Post) error {
		_, err := post.RemoveComment(p, caller, commentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p.Comments, nil
}

// mutate loads the stored post, applies fn and persists the result exactly
// once. Nothing is written when fn fails.
func (s *postService) mutate(ctx context.Context, op, postID string, fn func(p *post.Post) error) (p *post.Post, err error) {
	defer func() { record(op, err) }()
	if strings.TrimSpace(postID) == "" {
		return nil, ErrPostNotFound
	}
	p, err = s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, translate(err)
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, apperr.Store(err)
	}
	s.invalidate(ctx, p.Seo)
	return p, nil
}

func (s *postService) invalidate(ctx context.Context, seo string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, seo); err != nil {
		s.log.Warn().Err(err).Str("seo", seo).Msg("cache invalidate")
	}
}

func translate(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPostNotFound
	}
	return apperr.Store(err)
}

func record(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(apperr.KindOf(err))
	}
	metrics.PostMutations.WithLabelValues(op, outcome).Inc()
}
