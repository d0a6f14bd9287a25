package app

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/go-site-directory/pkg/config"
)

func testConfig(env, secret string) *config.Config {
	return &config.Config{
		AppEnv:         env,
		JWTSecret:      secret,
		DatabaseURL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		ReportTimezone: "UTC",
		LoginPath:      "/admin/login",
		LandingPath:    "/admin/dashboard",
		RootPath:       "/",
	}
}

func TestNewRefusesDevSecretInProduction(t *testing.T) {
	for _, secret := range []string{config.DevJWTSecret, "", "too-short"} {
		application, err := New(context.Background(), testConfig("production", secret), zerolog.Nop())
		assert.ErrorIs(t, err, config.ErrWeakJWTSecret)
		assert.Nil(t, application)
	}
}

func TestNewStarts(t *testing.T) {
	for _, cfg := range []*config.Config{
		testConfig("local", config.DevJWTSecret),
		testConfig("production", strings.Repeat("s", config.MinJWTSecretLen)),
	} {
		application, err := New(context.Background(), cfg, zerolog.Nop())
		require.NoError(t, err)
		require.NotNil(t, application.Handler)
		require.NoError(t, application.Store.Close())
	}
}
