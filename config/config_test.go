package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENCRYPTION_KEY", strings.Repeat("ab", 32))
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 15, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 0.8, cfg.Ingredients.ResolveThreshold)
	assert.Equal(t, 5*time.Minute, cfg.Ingredients.CacheTTL)
	assert.Equal(t, "foodie-app", cfg.GitHub.UpstreamOwner)
	assert.False(t, cfg.Email.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("ALLOWED_ORIGINS", "https://foodie.app, https://www.foodie.app,")
	t.Setenv("RESEND_API_KEY", "re_123")
	t.Setenv("INGREDIENT_RESOLVE_THRESHOLD", "0.65")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, []string{"https://foodie.app", "https://www.foodie.app"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Email.Enabled())
	assert.Equal(t, 0.65, cfg.Ingredients.ResolveThreshold)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad port", env: map[string]string{"SERVER_PORT": "http"}},
		{name: "missing jwt secret", env: map[string]string{"JWT_SECRET": ""}},
		{name: "short encryption key", env: map[string]string{"ENCRYPTION_KEY": "abcd"}},
		{name: "threshold out of range", env: map[string]string{"INGREDIENT_RESOLVE_THRESHOLD": "1.5"}},
		{name: "bad cache ttl", env: map[string]string{"INGREDIENT_CACHE_TTL": "soon"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
