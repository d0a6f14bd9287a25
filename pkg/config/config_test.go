package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateJWTSecret(t *testing.T) {
	strong := strings.Repeat("k", MinJWTSecretLen)

	tests := []struct {
		name    string
		env     string
		secret  string
		wantErr bool
	}{
		{name: "local dev secret", env: "local", secret: DevJWTSecret},
		{name: "local empty", env: "local", secret: ""},
		{name: "production dev secret", env: "production", secret: DevJWTSecret, wantErr: true},
		{name: "production empty", env: "production", secret: "", wantErr: true},
		{name: "production short", env: "production", secret: strong[1:], wantErr: true},
		{name: "production strong", env: "production", secret: strong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AppEnv: tt.env, JWTSecret: tt.secret}
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrWeakJWTSecret)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadDefaultsToDevSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", DevJWTSecret)

	cfg := Load()
	assert.Equal(t, DevJWTSecret, cfg.JWTSecret)
	assert.ErrorIs(t, cfg.Validate(), ErrWeakJWTSecret)
}
