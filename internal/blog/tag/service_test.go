package tag

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumehq/plume/internal/platform/apperr"
	"github.com/plumehq/plume/internal/platform/blogcache"
)

// fakeRepository is a hand-written in-memory Repository.
type fakeRepository struct {
	tags        []*Tag
	nextID      int
	createCalls int
	updateCalls int
	deleteCalls int
}

func newFakeRepository(seed ...*Tag) *fakeRepository {
	repo := &fakeRepository{nextID: 1}
	for _, t := range seed {
		repo.tags = append(repo.tags, t)
		if t.ID >= repo.nextID {
			repo.nextID = t.ID + 1
		}
	}
	return repo
}

func (f *fakeRepository) All(_ context.Context) ([]*Tag, error) {
	out := make([]*Tag, len(f.tags))
	copy(out, f.tags)
	return out, nil
}

func (f *fakeRepository) Get(_ context.Context, id int) (*Tag, error) {
	for _, t := range f.tags {
		if t.ID == id {
			clone := *t
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Tag")
}

func (f *fakeRepository) GetBySlug(_ context.Context, slug string) (*Tag, error) {
	for _, t := range f.tags {
		if t.Slug == slug {
			clone := *t
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Tag")
}

func (f *fakeRepository) Create(_ context.Context, tag *Tag) error {
	f.createCalls++
	tag.ID = f.nextID
	f.nextID++
	clone := *tag
	f.tags = append(f.tags, &clone)
	return nil
}

func (f *fakeRepository) Update(_ context.Context, tag *Tag) error {
	f.updateCalls++
	for i, t := range f.tags {
		if t.ID == tag.ID {
			clone := *tag
			f.tags[i] = &clone
			return nil
		}
	}
	return apperr.NotFound("Tag")
}

func (f *fakeRepository) Delete(_ context.Context, id int) error {
	f.deleteCalls++
	for i, t := range f.tags {
		if t.ID == id {
			f.tags = append(f.tags[:i], f.tags[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Tag")
}

type serviceFixture struct {
	service *Service
	repo    *fakeRepository
	cache   *blogcache.MemoryCache
}

func newFixture(seed ...*Tag) *serviceFixture {
	repo := newFakeRepository(seed...)
	cache := blogcache.NewMemoryCache()
	return &serviceFixture{
		service: NewService(repo, cache, slog.Default()),
		repo:    repo,
		cache:   cache,
	}
}

func technologyTag() *Tag {
	return &Tag{ID: 1, Title: "technology", Slug: "technology"}
}

func TestCreate_DerivesSlugFromTitle(t *testing.T) {
	cases := []struct {
		title    string
		wantSlug string
	}{
		{"Web Development!", "web-development"},
		{"C#", "cs"},
	}

	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			fixture := newFixture(technologyTag())

			created, err := fixture.service.Create(context.Background(), &Tag{Title: tc.title})

			require.NoError(t, err)
			assert.Equal(t, tc.wantSlug, created.Slug)
		})
	}
}

func TestCreate_RejectsUsedTitle(t *testing.T) {
	fixture := newFixture(technologyTag())

	_, err := fixture.service.Create(context.Background(), &Tag{Title: "Technology"})

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, "'Technology' already exists.", err.Error())
}

func TestCreate_NonLatinTitleGetsRandomSlug(t *testing.T) {
	fixture := newFixture(technologyTag())

	created, err := fixture.service.Create(context.Background(), &Tag{Title: "你好"})

	require.NoError(t, err)
	assert.Len(t, created.Slug, 6)
}

func TestCreate_InvalidatesCache(t *testing.T) {
	fixture := newFixture(technologyTag())

	// Prime the cache.
	_, err := fixture.service.All(context.Background())
	require.NoError(t, err)

	_, err = fixture.service.Create(context.Background(), &Tag{Title: "Tag1"})
	require.NoError(t, err)

	assert.Equal(t, 1, fixture.repo.createCalls)

	cached, err := fixture.cache.Get(context.Background(), blogcache.KeyAllTags)
	require.NoError(t, err)
	assert.Nil(t, cached, "write must remove the all-tags entry")
}

func TestDelete_RemovesTagAndInvalidatesCache(t *testing.T) {
	fixture := newFixture(technologyTag())

	_, err := fixture.service.All(context.Background())
	require.NoError(t, err)

	err = fixture.service.Delete(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, fixture.repo.deleteCalls)

	cached, err := fixture.cache.Get(context.Background(), blogcache.KeyAllTags)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestGet_NotFound(t *testing.T) {
	fixture := newFixture(technologyTag())

	_, err := fixture.service.Get(context.Background(), 100)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	_, err = fixture.service.GetBySlug(context.Background(), "slug-not-exist")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdate_NewTitleRecomputesSlug(t *testing.T) {
	fixture := newFixture(technologyTag())

	techTag, err := fixture.service.Get(context.Background(), 1)
	require.NoError(t, err)

	techTag.Title = "Tech"
	updated, err := fixture.service.Update(context.Background(), techTag)

	require.NoError(t, err)
	assert.Equal(t, "Tech", updated.Title)
	assert.Equal(t, "tech", updated.Slug)
}

func TestUpdate_TitleCasingChangeIsAccepted(t *testing.T) {
	fixture := newFixture(technologyTag())

	tag, err := fixture.service.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "technology", tag.Title)

	tag.Title = "Technology"
	updated, err := fixture.service.Update(context.Background(), tag)

	require.NoError(t, err)
	assert.Equal(t, 1, updated.ID)
	assert.Equal(t, "Technology", updated.Title)
}

func TestUpdate_InvalidatesCache(t *testing.T) {
	fixture := newFixture(technologyTag())

	tag, err := fixture.service.Get(context.Background(), 1)
	require.NoError(t, err)

	_, err = fixture.service.All(context.Background())
	require.NoError(t, err)

	_, err = fixture.service.Update(context.Background(), tag)
	require.NoError(t, err)

	assert.Equal(t, 1, fixture.repo.updateCalls)

	cached, err := fixture.cache.Get(context.Background(), blogcache.KeyAllTags)
	require.NoError(t, err)
	assert.Nil(t, cached)
}
