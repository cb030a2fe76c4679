package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/covidash/internal/config"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "DIRECTORY_URL", "STATS_URL", "RECORDS_URL", "DATABASE_URL",
		"AUTH_AUTHORIZE_URL", "AUTH_TOKENS", "CORS_ORIGINS", "LOG_LEVEL",
		"METRICS_ENABLED", "LOCALE",
	} {
		t.Setenv(key, "")
	}
}

// TestLoad_defaults verifies that every value falls back to its default
// when no environment variables are set.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(viper.New())

	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "https://restcountries.com/v3.1", cfg.Directory.URL)
	require.Equal(t, "https://disease.sh/v3/covid-19", cfg.Stats.URL)
	require.Equal(t, "http://localhost:8080", cfg.Records.URL)
	require.Equal(t, "http://localhost:8080/auth/google", cfg.Auth.AuthorizeURL)
	require.Empty(t, cfg.Auth.Tokens)
	require.False(t, cfg.StoreEnabled())
	require.False(t, cfg.Metrics.Enabled)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "en", cfg.LanguageTag().String())
}

// TestLoad_overrides verifies that values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("RECORDS_URL", "https://records.example.com/")
	t.Setenv("DATABASE_URL", "sqlite:/tmp/records.db")
	t.Setenv("AUTH_TOKENS", "alpha, beta")
	t.Setenv("CORS_ORIGINS", "https://app.example.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("LOCALE", "de-CH")

	cfg, err := config.Load(viper.New())

	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "https://records.example.com", cfg.Records.URL)
	require.Equal(t, "https://records.example.com/auth/google", cfg.Auth.AuthorizeURL)
	require.True(t, cfg.StoreEnabled())
	require.Equal(t, []string{"alpha", "beta"}, cfg.Auth.Tokens)
	require.Equal(t, []string{"https://app.example.com"}, cfg.CORS.Origins)
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, "de-CH", cfg.LanguageTag().String())
}

func TestLoad_invalidLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := config.Load(viper.New())

	require.Error(t, err)
	require.ErrorContains(t, err, "log")
}

func TestLoad_invalidUpstreamURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATS_URL", "not a url")

	_, err := config.Load(viper.New())

	require.Error(t, err)
	require.ErrorContains(t, err, "stats")
}

// TestLoad_recordsURLFollowsPort verifies that an unset records URL points
// at this process on the configured port.
func TestLoad_recordsURLFollowsPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("DATABASE_URL", "sqlite:/tmp/records.db")

	cfg, err := config.Load(viper.New())

	require.NoError(t, err)
	require.Equal(t, "http://localhost:3000", cfg.Records.URL)
	require.Equal(t, "http://localhost:3000/auth/google", cfg.Auth.AuthorizeURL)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.Origins)
}

// TestLoad_firstInvalidSectionIsStable verifies that with several invalid
// sections the error always names the first one in declaration order.
func TestLoad_firstInvalidSectionIsStable(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "70000")
	t.Setenv("STATS_URL", "not a url")
	t.Setenv("LOG_LEVEL", "verbose")

	for i := 0; i < 20; i++ {
		_, err := config.Load(viper.New())

		require.Error(t, err)
		require.ErrorContains(t, err, "invalid server config")
	}
}
