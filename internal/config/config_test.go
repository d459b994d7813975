package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("IDENTITY_TOKEN_URL", "https://login.example.com/oauth2/token")
	t.Setenv("IDENTITY_CLIENT_ID", "client-id")
	t.Setenv("IDENTITY_CLIENT_SECRET", "client-secret")
	t.Setenv("MAPS_CLIENT_ID", "maps-client-id")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

func TestLoad_EnvOnly_Defaults(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Matching.DefaultLimit)
	assert.Equal(t, 50, cfg.Matching.MaxLimit)
	assert.Equal(t, 3, cfg.Maps.MaxRetries)
	assert.Equal(t, time.Second, cfg.Maps.BackoffBase)
	assert.False(t, cfg.Maps.DevFallback)
	assert.Len(t, cfg.Identity.Scopes, 2)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	validEnv(t)

	yaml := `
server:
  port: 9090
maps:
  base_url: "https://geo.internal.example.com"
  max_retries: 5
matching:
  default_limit: 5
  max_limit: 20
`
	path := writeYAML(t, t.TempDir(), yaml)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://geo.internal.example.com", cfg.Maps.BaseURL)
	assert.Equal(t, 5, cfg.Maps.MaxRetries)
	assert.Equal(t, 5, cfg.Matching.DefaultLimit)
	assert.Equal(t, 20, cfg.Matching.MaxLimit)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	t.Parallel()

	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Identity: IdentityConfig{ScopesRaw: "scope-a"},
			Maps:     MapsConfig{BaseURL: "https://atlas.microsoft.com", MaxRetries: 3, BackoffBase: time.Second},
			Matching: MatchingConfig{DefaultLimit: 10, MaxLimit: 50},
		}
	}

	valid := base()
	require.NoError(t, valid.Validate())
	assert.Equal(t, []string{"scope-a"}, valid.Identity.Scopes)

	noScopes := base()
	noScopes.Identity.ScopesRaw = " , "
	require.Error(t, noScopes.Validate())

	badURL := base()
	badURL.Maps.BaseURL = "atlas.microsoft.com"
	require.Error(t, badURL.Validate())

	negRetries := base()
	negRetries.Maps.MaxRetries = -1
	require.Error(t, negRetries.Validate())

	zeroBackoff := base()
	zeroBackoff.Maps.BackoffBase = 0
	require.Error(t, zeroBackoff.Validate())

	badLimits := base()
	badLimits.Matching.MaxLimit = 5
	require.Error(t, badLimits.Validate())

	badPort := base()
	badPort.Server.Port = 0
	require.Error(t, badPort.Validate())
}

func TestParseScopes(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ParseScopes(""))
	assert.Equal(t, []string{"a"}, ParseScopes("a"))
	assert.Equal(t, []string{"a", "b"}, ParseScopes(" a , b ,"))
}
