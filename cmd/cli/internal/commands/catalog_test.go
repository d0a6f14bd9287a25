package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/go-site-directory/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
)

func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	s, err := sqlstore.New(context.Background(), "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newTestStore(t)
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	category := &domain.Category{ID: "c1", Name: "Docs", Slug: "docs", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, source.CreateCategory(ctx, category))
	for _, s := range []*domain.Site{
		{ID: "s1", CategoryID: "c1", Name: "Go", URL: "https://go.dev", IsPublished: true, CreatedAt: now, UpdatedAt: now},
		{ID: "s2", CategoryID: "c1", Name: "Draft", URL: "https://draft.example", CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, source.CreateSite(ctx, s))
	}

	var buf bytes.Buffer
	require.NoError(t, exportCatalog(ctx, source, &buf))

	var dump catalogDump
	require.NoError(t, json.Unmarshal(buf.Bytes(), &dump))
	require.Len(t, dump.Categories, 1)
	assert.Len(t, dump.Categories[0].Sites, 2)

	target := newTestStore(t)
	categories, sites, err := importCatalog(ctx, target, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, categories)
	assert.Equal(t, 2, sites)

	got, err := target.GetSite(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "https://go.dev", got.URL)

	// A second import skips everything that already exists
	categories, sites, err = importCatalog(ctx, target, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Zero(t, categories)
	assert.Zero(t, sites)
}

func TestImportAttachesSitesToExistingSlug(t *testing.T) {
	ctx := context.Background()
	target := newTestStore(t)
	now := time.Now()
	require.NoError(t, target.CreateCategory(ctx, &domain.Category{ID: "local", Name: "Docs", Slug: "docs", CreatedAt: now, UpdatedAt: now}))

	input := `{"categories":[{"id":"remote","name":"Docs","slug":"docs","sites":[{"id":"s9","name":"Go","url":"https://go.dev","isPublished":true}]}]}`
	categories, sites, err := importCatalog(ctx, target, bytes.NewBufferString(input))
	require.NoError(t, err)
	assert.Zero(t, categories)
	assert.Equal(t, 1, sites)

	got, err := target.GetSite(ctx, "s9")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "local", got.CategoryID)
}

func TestImportRejectsMalformedFile(t *testing.T) {
	_, _, err := importCatalog(context.Background(), newTestStore(t), bytes.NewBufferString("not json"))
	assert.Error(t, err)
}
