package post

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumehq/plume/internal/platform/apperr"
	"github.com/plumehq/plume/internal/platform/blogcache"
	"github.com/plumehq/plume/internal/platform/settings"
)

// fakeRepository is a hand-written in-memory Repository with per-day slug scoping.
type fakeRepository struct {
	posts  []*Post
	nextID int
}

func newFakeRepository(seed ...*Post) *fakeRepository {
	repo := &fakeRepository{nextID: 1}
	for _, p := range seed {
		repo.posts = append(repo.posts, p)
		if p.ID >= repo.nextID {
			repo.nextID = p.ID + 1
		}
	}
	return repo
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func (f *fakeRepository) List(_ context.Context, query ListQuery) ([]*Post, int, error) {
	matched := make([]*Post, 0)
	for _, p := range f.posts {
		if query.Type != "" && p.Type != query.Type {
			continue
		}
		if query.Status != "" && p.Status != query.Status {
			continue
		}
		if query.Year != 0 && p.CreatedOn.Year() != query.Year {
			continue
		}
		if query.Month != 0 && int(p.CreatedOn.Month()) != query.Month {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}
	return matched, len(matched), nil
}

func (f *fakeRepository) Get(_ context.Context, id int) (*Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Post")
}

func (f *fakeRepository) GetBySlug(_ context.Context, slug string, createdOn time.Time) (*Post, error) {
	for _, p := range f.posts {
		if p.Slug == slug && sameDay(p.CreatedOn, createdOn) {
			clone := *p
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Post")
}

func (f *fakeRepository) Create(_ context.Context, post *Post) error {
	post.ID = f.nextID
	f.nextID++
	clone := *post
	f.posts = append(f.posts, &clone)
	return nil
}

func (f *fakeRepository) Update(_ context.Context, post *Post) error {
	for i, p := range f.posts {
		if p.ID == post.ID {
			clone := *post
			f.posts[i] = &clone
			return nil
		}
	}
	return apperr.NotFound("Post")
}

func (f *fakeRepository) Delete(_ context.Context, id int) error {
	for i, p := range f.posts {
		if p.ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Post")
}

// settingsRepo is an in-memory settings.Repository for test wiring.
type settingsRepo struct {
	rows map[string]*settings.Meta
}

func (s *settingsRepo) Get(_ context.Context, key string) (*settings.Meta, error) {
	meta, ok := s.rows[key]
	if !ok {
		return nil, apperr.NotFound("Settings")
	}
	return meta, nil
}

func (s *settingsRepo) Upsert(_ context.Context, meta *settings.Meta) error {
	if s.rows == nil {
		s.rows = make(map[string]*settings.Meta)
	}
	s.rows[meta.Key] = meta
	return nil
}

type serviceFixture struct {
	service *Service
	repo    *fakeRepository
	cache   *blogcache.MemoryCache
}

func newFixture(seed ...*Post) *serviceFixture {
	repo := newFakeRepository(seed...)
	cache := blogcache.NewMemoryCache()
	settingsService := settings.NewService(&settingsRepo{}, blogcache.NewMemoryCache(), slog.Default())

	return &serviceFixture{
		service: NewService(repo, cache, settingsService, slog.Default()),
		repo:    repo,
		cache:   cache,
	}
}

func TestResolveSlug_SuffixesOnDayCollision(t *testing.T) {
	date := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		title    string
		taken    string
		wantSlug string
	}{
		{"Blog post title", "blog-post-title", "blog-post-title-2"},
		{"Blog post title 2", "blog-post-title-2", "blog-post-title-3"},
	}

	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			fixture := newFixture(&Post{ID: 1, Type: TypePost, Slug: tc.taken, CreatedOn: date})

			// Create mode collides even against the caller's own post id.
			got, err := fixture.service.ResolveSlug(context.Background(), tc.title, date, OpCreate, 1)

			require.NoError(t, err)
			assert.Equal(t, tc.wantSlug, got)
		})
	}
}

func TestResolveSlug_UpdateKeepsOwnSlug(t *testing.T) {
	date := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)
	fixture := newFixture(&Post{ID: 1, Type: TypePost, Slug: "blog-post-title", CreatedOn: date})

	got, err := fixture.service.ResolveSlug(context.Background(), "Blog post title", date, OpUpdate, 1)

	require.NoError(t, err)
	assert.Equal(t, "blog-post-title", got)
}

func TestResolveSlug_DifferentDayIsNoCollision(t *testing.T) {
	taken := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)
	fixture := newFixture(&Post{ID: 1, Type: TypePost, Slug: "blog-post-title", CreatedOn: taken})

	nextDay := taken.AddDate(0, 0, 1)
	got, err := fixture.service.ResolveSlug(context.Background(), "Blog post title", nextDay, OpCreate, 0)

	require.NoError(t, err)
	assert.Equal(t, "blog-post-title", got)
}

func TestResolveSlug_NonLatinTitleIsPercentEncoded(t *testing.T) {
	fixture := newFixture()

	got, err := fixture.service.ResolveSlug(context.Background(), "你好", time.Now(), OpCreate, 0)

	require.NoError(t, err)
	assert.Equal(t, "%E4%BD%A0%E5%A5%BD", got)
}

func TestValidateTitle_PublishedRequiresTitle(t *testing.T) {
	for _, title := range []string{"", "   "} {
		p := &Post{Title: title, Status: StatusPublished}

		err := p.ValidateTitle()

		require.Error(t, err)
		details := apperr.As(err).Details
		require.NotEmpty(t, details)
		assert.Equal(t, "'Title' must not be empty.", details[0].Message)
	}
}

func TestValidateTitle_DraftMayBeUntitled(t *testing.T) {
	p := &Post{Title: "", Status: StatusDraft}

	assert.NoError(t, p.ValidateTitle())
}

func TestValidateTitle_RejectsOverlongTitle(t *testing.T) {
	title := strings.Repeat("x", 251)

	for _, status := range []Status{StatusDraft, StatusPublished} {
		p := &Post{Title: title, Status: status}

		err := p.ValidateTitle()

		require.Error(t, err)
		details := apperr.As(err).Details
		require.NotEmpty(t, details)
		assert.Equal(t,
			"The length of 'Title' must be 250 characters or fewer. You entered 251 characters.",
			details[0].Message)
	}
}

func TestCreate_RejectsNil(t *testing.T) {
	fixture := newFixture()

	_, err := fixture.service.Create(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, "BAD_ARGUMENT", apperr.As(err).Code)
}

func TestUpdate_RejectsNil(t *testing.T) {
	fixture := newFixture()

	_, err := fixture.service.Update(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, "BAD_ARGUMENT", apperr.As(err).Code)
}

func TestCreate_AssignsDefaultCategoryAndSlug(t *testing.T) {
	fixture := newFixture()

	created, err := fixture.service.Create(context.Background(), &Post{
		Title:  "Hello World",
		Body:   "first post",
		Status: StatusPublished,
	})

	require.NoError(t, err)
	assert.Equal(t, "hello-world", created.Slug)
	assert.Equal(t, 1, created.CategoryID, "unset category falls back to the default")
	assert.False(t, created.CreatedOn.IsZero())
}

func TestCreate_InvalidatesIndexAndArchiveKeys(t *testing.T) {
	date := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)
	fixture := newFixture(&Post{
		ID: 1, Type: TypePost, Title: "Seed", Slug: "seed",
		Status: StatusPublished, CreatedOn: date,
	})

	// Prime both collection caches.
	_, err := fixture.service.Index(context.Background())
	require.NoError(t, err)
	_, err = fixture.service.Archive(context.Background(), 2026, 8)
	require.NoError(t, err)

	_, err = fixture.service.Create(context.Background(), &Post{
		Title:     "Another",
		Status:    StatusPublished,
		CreatedOn: date,
	})
	require.NoError(t, err)

	indexEntry, err := fixture.cache.Get(context.Background(), blogcache.KeyPostsIndex)
	require.NoError(t, err)
	assert.Nil(t, indexEntry, "create must remove the posts index entry")

	archiveEntry, err := fixture.cache.Get(context.Background(), blogcache.ArchiveKey(2026, 8))
	require.NoError(t, err)
	assert.Nil(t, archiveEntry, "create must remove the affected archive entry")
}

func TestGet_RendersEmbedPlaceholders(t *testing.T) {
	date := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)
	body := `<figure class="media"><oembed url="https://www.youtube.com/watch?v=MNor4dYXa6U"></oembed></figure>`
	fixture := newFixture(&Post{
		ID: 1, Type: TypePost, Title: "Video", Slug: "video",
		Body: body, Status: StatusPublished, CreatedOn: date,
	})

	got, err := fixture.service.Get(context.Background(), 1)

	require.NoError(t, err)
	assert.Contains(t, got.BodyRendered, `<iframe`)
	assert.Contains(t, got.BodyRendered, "https://www.youtube.com/embed/MNor4dYXa6U")
	assert.Equal(t, body, got.Body, "stored body is untouched")
}

func TestDelete_InvalidatesAffectedMonth(t *testing.T) {
	date := time.Date(2026, 7, 2, 9, 0, 0, 0, time.UTC)
	fixture := newFixture(&Post{
		ID: 1, Type: TypePost, Title: "July", Slug: "july",
		Status: StatusPublished, CreatedOn: date,
	})

	_, err := fixture.service.Archive(context.Background(), 2026, 7)
	require.NoError(t, err)

	err = fixture.service.Delete(context.Background(), 1)
	require.NoError(t, err)

	archiveEntry, err := fixture.cache.Get(context.Background(), blogcache.ArchiveKey(2026, 7))
	require.NoError(t, err)
	assert.Nil(t, archiveEntry)

	_, err = fixture.service.Get(context.Background(), 1)
	assert.True(t, apperr.IsNotFound(err))
}
