package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/postboard/postboard/internal/post"
)

// MemoryRepo is an in-memory repository used when no MongoDB is configured
// and in unit tests. It stores and returns deep copies, so a loaded post is
// never the authoritative instance.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*post.Post
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*post.Post)}
}

func (m *MemoryRepo) FindByID(ctx context.Context, id string) (*post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.store[id]; ok {
		return p.Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) FindBySeo(ctx context.Context, seo string) (*post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		if p.Seo == seo {
			return p.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) ListByDateDesc(ctx context.Context) ([]*post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*post.Post, 0, len(m.store))
	for _, p := range m.store {
		out = append(out, p.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (m *MemoryRepo) Save(ctx context.Context, p *post.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, other := range m.store {
		if id != p.ID && other.Seo == p.Seo {
			return ErrDuplicateSeo
		}
	}
	m.store[p.ID] = p.Clone()
	return nil
}

func (m *MemoryRepo) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
