package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/services"
)

func ptr(s string) *string { return &s }

func TestSettings(t *testing.T) {
	ctx := context.Background()
	settings := services.NewSettingsService(newTestStore(t), newFakeClock(reportNow))

	defaults, err := settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Site Directory", defaults.SiteName)

	updated, err := settings.Update(ctx, domain.SettingsUpdate{
		SiteName:   ptr("  My Links "),
		FooterText: ptr("(c) 2024"),
	})
	require.NoError(t, err)
	assert.Equal(t, "My Links", updated.SiteName)

	// Fields left nil keep their stored value
	updated, err = settings.Update(ctx, domain.SettingsUpdate{SiteDescription: ptr("Curated links")})
	require.NoError(t, err)
	assert.Equal(t, "My Links", updated.SiteName)
	assert.Equal(t, "(c) 2024", updated.FooterText)

	stored, err := settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Curated links", stored.SiteDescription)
	assert.True(t, stored.UpdatedAt.Equal(reportNow))

	_, err = settings.Update(ctx, domain.SettingsUpdate{SiteName: ptr("   ")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
