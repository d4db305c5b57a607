package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/postboard/postboard/internal/apperr"
	"github.com/postboard/postboard/internal/cache"
	"github.com/postboard/postboard/internal/identity"
	"github.com/postboard/postboard/internal/models"
	"github.com/postboard/postboard/internal/post"
	"github.com/postboard/postboard/internal/post/repository"
	"github.com/postboard/postboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	userA = identity.Identity{UserID: "aaaaaaaaaaaaaaaaaaaaaaaa"}
	userB = identity.Identity{UserID: "bbbbbbbbbbbbbbbbbbbbbbbb"}
	userC = identity.Identity{UserID: "cccccccccccccccccccccccc"}
)

type fakeUsers struct{}

func (fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	switch id {
	case userA.UserID:
		return &models.User{ID: id, Name: "Alice", Avatar: "//avatar/a"}, nil
	case userB.UserID:
		return &models.User{ID: id, Name: "Bob", Avatar: "//avatar/b"}, nil
	case userC.UserID:
		return &models.User{ID: id, Name: "Carol", Avatar: "//avatar/c"}, nil
	}
	return nil, nil
}

// failingRepo wraps a repository and fails every Save
type failingRepo struct {
	repository.Repository
	saves int
}

func (f *failingRepo) Save(ctx context.Context, p *post.Post) error {
	f.saves++
	return errors.New("write timeout")
}

// countingRepo counts Save calls
type countingRepo struct {
	repository.Repository
	mu    sync.Mutex
	saves int
}

func (c *countingRepo) Save(ctx context.Context, p *post.Post) error {
	c.mu.Lock()
	c.saves++
	c.mu.Unlock()
	return c.Repository.Save(ctx, p)
}

func createHello(t *testing.T, svc Service) *post.Post {
	t.Helper()
	p, err := svc.Create(context.Background(), userA, CreateInput{Title: "Hello World", Text: "body"})
	require.NoError(t, err)
	return p
}

func TestCreate_DerivesSeoAndDenormalizesAuthor(t *testing.T) {
	svc := NewMemoryService(fakeUsers{})
	p := createHello(t, svc)

	assert.Equal(t, "hello_world", p.Seo)
	assert.Equal(t, userA.UserID, p.User)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, "//avatar/a", p.Avatar)
	assert.NotNil(t, p.Likes)
	assert.NotNil(t, p.Comments)
	assert.False(t, p.Date.IsZero())
	assert.Nil(t, p.Image)

	got, err := svc.GetBySeo(context.Background(), "hello_world")
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
}

func TestCreate_WithImage(t *testing.T) {
	svc := NewMemoryService(fakeUsers{})
	p, err := svc.Create(context.Background(), userA, CreateInput{Title: "Pic", Text: "t", ImageID: "img1", ImageURL: "http://img/1"})
	require.NoError(t, err)
	require.Equal(t, &post.Image{ID: "img1", URL: "http://img/1"}, p.Image)
}

func TestCreate_SeoCollisionGetsSuffix(t *testing.T) {
	svc := NewMemoryService(fakeUsers{})
	first := createHello(t, svc)
	second, err := svc.Create(context.Background(), userB, CreateInput{Title: "Hello World", Text: "again"})
	require.NoError(t, err)

	require.Equal(t, "hello_world", first.Seo)
	require.Equal(t, "hello_world_2", second.Seo)

	got, err := svc.GetBySeo(context.Background(), "hello_world")
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
}

func TestCreate_UnknownUser(t *testing.T) {
	svc := NewMemoryService(fakeUsers{})
	_, err := svc.Create(context.Background(), identity.Identity{UserID: "dddddddddddddddddddddddd"}, CreateInput{Title: "x", Text: "y"})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetBySeo_NotFound(t *testing.T) {
	svc := NewMemoryService(fakeUsers{})
	_, err := svc.GetBySeo(context.Background(), "missing")
	require.ErrorIs(t, err, ErrPostNotFound)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListAll_NewestFirst(t *testing.T) {
	svc := NewMemoryService(fakeUsers{}).(*postService)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) }

	ctx := context.Background()
	for _, title := range []string{"one", "two", "three"} {
		_, err := svc.Create(ctx, userA, CreateInput{Title: title, Text: "t"})
		require.NoError(t, err)
	}
	list, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "three", list[0].Title)
	require.Equal(t, "one", list[2].Title)
}

func TestUpdate_OwnerOnly(t *testing.T) {
	svc := NewMemoryService(fakeUsers{})
	ctx := context.Background()
	p := createHello(t, svc)

	_, err := svc.Update(ctx, p.ID, userC, "Hacked", "x")
	require.Error(t, err)
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	updated, err := svc.Update(ctx, p.ID, userA, "Hello Again", "new body")
	require.NoError(t, err)
	require.Equal(t, "Hello Again", updated.Title)
	require.Equal(t, "new body", updated.Text)
	// seo is computed once at creation
	require.Equal(t, "hello_world", updated.Seo)
	require.False(t, updated.UpdatedAt.IsZero())

	_, err = svc.Update(ctx, post.NewID(), userA, "t", "x")
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestDelete_NonOwnerRejected(t *testing.T) {
	svc := NewMemoryService(fakeUsers{})
	ctx := context.Background()
	p := createHello(t, svc)

	err := svc.Delete(ctx, p.ID, userC)
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	still, err := svc.GetBySeo(ctx, "hello_world")
	require.NoError(t, err)
	require.Equal(t, p.ID, still.ID)

	require.NoError(t, svc.Delete(ctx, p.ID, userA))
	_, err = svc.GetBySeo(ctx, "hello_world")
	require.ErrorIs(t, err, ErrPostNotFound)

	require.ErrorIs(t, svc.Delete(ctx, p.ID, userA), ErrPostNotFound)
}

func TestLike_Scenario(t *testing.T) {
	mem := repository.NewMemoryRepo()
	svc := NewService(mem, fakeUsers{}, nil)
	ctx := context.Background()
	p := createHello(t, svc)

	likes, err := svc.Like(ctx, p.ID, userB)
	require.NoError(t, err)
	require.Equal(t, []post.Like{{User: userB.UserID}}, likes)

	_, err = svc.Like(ctx, p.ID, userB)
	require.ErrorIs(t, err, post.ErrAlreadyLiked)

	stored, err := mem.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, []post.Like{{User: userB.UserID}}, stored.Likes)

	likes, err = svc.Unlike(ctx, p.ID, userB)
	require.NoError(t, err)
	require.Empty(t, likes)

	_, err = svc.Unlike(ctx, p.ID, userB)
	require.ErrorIs(t, err, post.ErrNotLiked)

	_, err = svc.Like(ctx, post.NewID(), userB)
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestComments_AddAndRemove(t *testing.T) {
	svc := NewMemoryService(fakeUsers{})
	ctx := context.Background()
	p := createHello(t, svc)

	comments, err := svc.AddComment(ctx, p.ID, userB, "first")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, "Bob", comments[0].Name)
	bobsID := comments[0].ID

	comments, err = svc.AddComment(ctx, p.ID, userC, "second")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "second", comments[0].Text)

	// post owner may not delete someone else's comment
	_, err = svc.RemoveComment(ctx, p.ID, bobsID, userA)
	require.ErrorIs(t, err, post.ErrNotCommentOwner)

	_, err = svc.RemoveComment(ctx, p.ID, post.NewID(), userB)
	require.ErrorIs(t, err, post.ErrCommentNotFound)

	comments, err = svc.RemoveComment(ctx, p.ID, bobsID, userB)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, "second", comments[0].Text)
}

func TestMutations_PersistExactlyOnce(t *testing.T) {
	repo := &countingRepo{Repository: repository.NewMemoryRepo()}
	svc := NewService(repo, fakeUsers{}, nil)
	ctx := context.Background()
	p := createHello(t, svc)
	repo.saves = 0

	_, err := svc.Like(ctx, p.ID, userB)
	require.NoError(t, err)
	require.Equal(t, 1, repo.saves)

	// rejected mutations never reach the store
	_, err = svc.Like(ctx, p.ID, userB)
	require.Error(t, err)
	_, err = svc.Update(ctx, p.ID, userC, "x", "y")
	require.Error(t, err)
	require.Equal(t, 1, repo.saves)
}

func TestMutations_StoreFailureNotReportedAsSuccess(t *testing.T) {
	mem := repository.NewMemoryRepo()
	good := NewService(mem, fakeUsers{}, nil)
	p := createHello(t, good)

	bad := NewService(&failingRepo{Repository: mem}, fakeUsers{}, nil)
	_, err := bad.Like(context.Background(), p.ID, userB)
	require.Error(t, err)
	require.Equal(t, apperr.KindStoreFailure, apperr.KindOf(err))

	stored, err := mem.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Empty(t, stored.Likes)
}

func TestLikes_DifferentUsersAccumulate(t *testing.T) {
	mem := repository.NewMemoryRepo()
	svc := NewService(mem, fakeUsers{}, nil)
	ctx := context.Background()
	p := createHello(t, svc)

	for _, u := range []identity.Identity{userA, userB, userC} {
		_, err := svc.Like(ctx, p.ID, u)
		require.NoError(t, err)
	}
	stored, err := mem.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, stored.Likes, 3)
	require.Equal(t, userC.UserID, stored.Likes[0].User)
}

func TestGetBySeo_CacheInvalidatedOnWrite(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	pc := cache.NewPostCache(redis.NewClient(&redis.Options{Addr: m.Addr()}), "t:", time.Minute)

	svc := NewService(repository.NewMemoryRepo(), fakeUsers{}, pc)
	ctx := context.Background()
	p := createHello(t, svc)

	_, err = svc.GetBySeo(ctx, "hello_world")
	require.NoError(t, err)
	require.True(t, m.Exists("t:hello_world"), "read should populate the cache")

	_, err = svc.Like(ctx, p.ID, userB)
	require.NoError(t, err)
	require.False(t, m.Exists("t:hello_world"), "write should invalidate the cache")

	got, err := svc.GetBySeo(ctx, "hello_world")
	require.NoError(t, err)
	require.Len(t, got.Likes, 1)

	require.NoError(t, svc.Delete(ctx, p.ID, userA))
	_, err = svc.GetBySeo(ctx, "hello_world")
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestMutate_EmptyIDCounted(t *testing.T) {
	svc := NewMemoryService(fakeUsers{})
	counter := metrics.PostMutations.WithLabelValues("like", string(apperr.KindNotFound))
	before := testutil.ToFloat64(counter)

	_, err := svc.Like(context.Background(), "  ", userB)
	require.ErrorIs(t, err, ErrPostNotFound)
	require.Equal(t, before+1, testutil.ToFloat64(counter))
}
