package category

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumehq/plume/internal/platform/apperr"
	"github.com/plumehq/plume/internal/platform/blogcache"
	"github.com/plumehq/plume/internal/platform/settings"
)

// fakeRepository is a hand-written in-memory Repository.
type fakeRepository struct {
	categories  []*Category
	nextID      int
	createCalls int
	updateCalls int
	deleteCalls int
}

func newFakeRepository(seed ...*Category) *fakeRepository {
	repo := &fakeRepository{nextID: 1}
	for _, c := range seed {
		repo.categories = append(repo.categories, c)
		if c.ID >= repo.nextID {
			repo.nextID = c.ID + 1
		}
	}
	return repo
}

func (f *fakeRepository) All(_ context.Context) ([]*Category, error) {
	out := make([]*Category, len(f.categories))
	copy(out, f.categories)
	return out, nil
}

func (f *fakeRepository) Get(_ context.Context, id int) (*Category, error) {
	for _, c := range f.categories {
		if c.ID == id {
			clone := *c
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Category")
}

func (f *fakeRepository) GetBySlug(_ context.Context, slug string) (*Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			clone := *c
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Category")
}

func (f *fakeRepository) Create(_ context.Context, category *Category) error {
	f.createCalls++
	category.ID = f.nextID
	f.nextID++
	clone := *category
	f.categories = append(f.categories, &clone)
	return nil
}

func (f *fakeRepository) Update(_ context.Context, category *Category) error {
	f.updateCalls++
	for i, c := range f.categories {
		if c.ID == category.ID {
			clone := *category
			f.categories[i] = &clone
			return nil
		}
	}
	return apperr.NotFound("Category")
}

func (f *fakeRepository) Delete(_ context.Context, id, _ int) error {
	f.deleteCalls++
	for i, c := range f.categories {
		if c.ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Category")
}

// settingsRepo is an in-memory settings.Repository for test wiring.
type settingsRepo struct {
	rows map[string]*settings.Meta
}

func (s *settingsRepo) Get(_ context.Context, key string) (*settings.Meta, error) {
	if s.rows == nil {
		return nil, apperr.NotFound("Settings")
	}
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

func newFixture(seed ...*Category) *serviceFixture {
	repo := newFakeRepository(seed...)
	cache := blogcache.NewMemoryCache()
	settingsService := settings.NewService(&settingsRepo{}, blogcache.NewMemoryCache(), slog.Default())

	return &serviceFixture{
		service: NewService(repo, cache, settingsService, slog.Default()),
		repo:    repo,
		cache:   cache,
	}
}

func defaultCategory() *Category {
	return &Category{ID: 1, Title: "Web Development", Slug: "web-development"}
}

func TestCreate_RejectsEmptyTitle(t *testing.T) {
	fixture := newFixture(defaultCategory())

	for _, title := range []string{"", "   "} {
		_, err := fixture.service.Create(context.Background(), title, "")

		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	}
}

func TestCreate_RejectsDuplicateTitleCaseInsensitive(t *testing.T) {
	fixture := newFixture(defaultCategory())

	_, err := fixture.service.Create(context.Background(), "web development", "")

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, "'web development' already exists.", err.Error())
}

func TestCreate_AssignsSlugAndInvalidatesCache(t *testing.T) {
	fixture := newFixture(defaultCategory())

	// Prime the cache.
	_, err := fixture.service.All(context.Background())
	require.NoError(t, err)

	created, err := fixture.service.Create(context.Background(), "Science Fiction!", "space stuff")
	require.NoError(t, err)

	assert.Equal(t, "science-fiction", created.Slug)
	assert.Equal(t, 1, fixture.repo.createCalls)

	cached, err := fixture.cache.Get(context.Background(), blogcache.KeyAllCategories)
	require.NoError(t, err)
	assert.Nil(t, cached, "write must remove the all-categories entry")
}

func TestCreate_SuffixesSlugOnCollision(t *testing.T) {
	fixture := newFixture(defaultCategory())

	// "Web Development!" slugifies to the taken "web-development".
	created, err := fixture.service.Create(context.Background(), "Web Development!!", "")

	require.NoError(t, err)
	assert.Equal(t, "web-development-2", created.Slug)
}

func TestUpdate_CallsRepoAndInvalidatesCache(t *testing.T) {
	fixture := newFixture(defaultCategory())

	_, err := fixture.service.All(context.Background())
	require.NoError(t, err)

	cat, err := fixture.service.Get(context.Background(), 1)
	require.NoError(t, err)

	cat.Title = "Cat1"
	_, err = fixture.service.Update(context.Background(), cat)
	require.NoError(t, err)

	assert.Equal(t, 1, fixture.repo.updateCalls)

	cached, err := fixture.cache.Get(context.Background(), blogcache.KeyAllCategories)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestUpdate_RejectsNil(t *testing.T) {
	fixture := newFixture(defaultCategory())

	_, err := fixture.service.Update(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, "BAD_ARGUMENT", apperr.As(err).Code)
}

func TestUpdate_RejectsMissingTitle(t *testing.T) {
	fixture := newFixture(defaultCategory())

	_, err := fixture.service.Update(context.Background(), &Category{})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = fixture.service.Update(context.Background(), &Category{ID: 1})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestUpdate_TitleCasingChangeIsAccepted(t *testing.T) {
	fixture := newFixture(defaultCategory())

	cat, err := fixture.service.Get(context.Background(), 1)
	require.NoError(t, err)

	cat.Title = "web development"
	updated, err := fixture.service.Update(context.Background(), cat)

	require.NoError(t, err)
	assert.Equal(t, 1, updated.ID)
	assert.Equal(t, "web development", updated.Title)
	assert.Equal(t, "web-development", updated.Slug)
}

func TestDelete_RejectsDefaultCategoryBeforeAnyMutation(t *testing.T) {
	fixture := newFixture(defaultCategory())

	// Prime the cache so we can prove invalidation did not happen.
	_, err := fixture.service.All(context.Background())
	require.NoError(t, err)

	err = fixture.service.Delete(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, 0, fixture.repo.deleteCalls)

	cached, cacheErr := fixture.cache.Get(context.Background(), blogcache.KeyAllCategories)
	require.NoError(t, cacheErr)
	assert.NotNil(t, cached, "rejected delete must not touch the cache")
}

func TestDelete_RemovesCategoryAndInvalidatesCache(t *testing.T) {
	fixture := newFixture(defaultCategory(), &Category{ID: 2, Title: "Drafts", Slug: "drafts"})

	_, err := fixture.service.All(context.Background())
	require.NoError(t, err)

	err = fixture.service.Delete(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 1, fixture.repo.deleteCalls)

	cached, err := fixture.cache.Get(context.Background(), blogcache.KeyAllCategories)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestGet_NotFound(t *testing.T) {
	fixture := newFixture(defaultCategory())

	_, err := fixture.service.Get(context.Background(), 100)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	_, err = fixture.service.GetBySlug(context.Background(), "slug-not-exist")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestSetDefault_PersistsNewDefaultAndProtectsIt(t *testing.T) {
	fixture := newFixture(defaultCategory(), &Category{ID: 2, Title: "Essays", Slug: "essays"})

	err := fixture.service.SetDefault(context.Background(), 2)
	require.NoError(t, err)

	// The new default is now protected, the old one is deletable.
	err = fixture.service.Delete(context.Background(), 2)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	err = fixture.service.Delete(context.Background(), 1)
	assert.NoError(t, err)
}
