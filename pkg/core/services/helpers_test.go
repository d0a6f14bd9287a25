package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/go-site-directory/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/services"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	store, err := sqlstore.New(context.Background(), "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedSite(t *testing.T, catalog *services.CatalogService, name string, published bool) *domain.Site {
	t.Helper()
	ctx := context.Background()
	slug := "cat-" + uuid.NewString()[:8]
	category, err := catalog.CreateCategory(ctx, "Tools "+slug, slug, "", 0)
	require.NoError(t, err)
	site, err := catalog.CreateSite(ctx, domain.Site{
		CategoryID:  category.ID,
		Name:        name,
		URL:         "https://example.com/" + name,
		IsPublished: published,
	})
	require.NoError(t, err)
	return site
}
