package settings

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumehq/plume/internal/platform/apperr"
	"github.com/plumehq/plume/internal/platform/blogcache"
)

type fakeRepository struct {
	rows map[string]*Meta
	gets int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{rows: make(map[string]*Meta)}
}

func (f *fakeRepository) Get(_ context.Context, key string) (*Meta, error) {
	f.gets++
	meta, ok := f.rows[key]
	if !ok {
		return nil, apperr.NotFound("Settings")
	}
	return meta, nil
}

func (f *fakeRepository) Upsert(_ context.Context, meta *Meta) error {
	f.rows[meta.Key] = meta
	return nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, blogcache.NewMemoryCache(), slog.Default())
}

func TestLoad_ReturnsDefaultsWhenUnconfigured(t *testing.T) {
	service := newTestService(newFakeRepository())

	got, err := service.Blog(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 10, got.PostsPerPage)
	assert.Equal(t, 1, got.DefaultCategoryID)
}

func TestLoad_ReturnsStoredGroup(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	err := service.SaveBlog(context.Background(), BlogSettings{PostsPerPage: 25, DefaultCategoryID: 3})
	require.NoError(t, err)

	got, err := service.Blog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, got.PostsPerPage)
	assert.Equal(t, 3, got.DefaultCategoryID)
}

func TestLoad_SecondReadServedFromCache(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	_, err := service.Core(context.Background())
	require.NoError(t, err)

	_, err = service.Core(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.gets, "second read must not hit the repository")
}

func TestSave_InvalidatesCachedGroup(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	// Prime the cache with the stored value.
	err := service.SaveCore(context.Background(), CoreSettings{Title: "First", TimeZoneID: "UTC"})
	require.NoError(t, err)
	got, err := service.Core(context.Background())
	require.NoError(t, err)
	require.Equal(t, "First", got.Title)

	// Saving must evict the cached group so the next read sees the new value.
	err = service.SaveCore(context.Background(), CoreSettings{Title: "Second", TimeZoneID: "UTC"})
	require.NoError(t, err)

	got, err = service.Core(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Title)
}

func TestLoad_CorruptDocumentFallsBackToDefaults(t *testing.T) {
	repo := newFakeRepository()
	repo.rows[BlogSettingsName] = &Meta{Key: BlogSettingsName, Value: "{not json"}
	service := newTestService(repo)

	got, err := service.Blog(context.Background())

	require.NoError(t, err)
	assert.Equal(t, DefaultBlogSettings(), got)
}
