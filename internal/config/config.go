// Package config loads and validates application configuration from viper
// (config file, environment variables and flags).
package config

import (
	"fmt"
	"strings"

	"github.com/gookit/validate"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required|int|min:1|max:65535"`
}

// UpstreamConfig is the base URL of a service the dashboard calls
type UpstreamConfig struct {
	URL string `mapstructure:"url" validate:"required|fullUrl"`
}

type DatabaseConfig struct {
	// URL enables the records store when set. postgres:// URLs use lib/pq,
	// sqlite: and file: URLs use the embedded SQLite driver.
	URL string `mapstructure:"url"`
}

type AuthConfig struct {
	AuthorizeURL string   `mapstructure:"authorizeURL" validate:"required|fullUrl"`
	Tokens       []string `mapstructure:"tokens"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"required|in:debug,info,warn,warning,error,fatal"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Config holds all configuration values
type Config struct {
	Server    ServerConfig   `mapstructure:"server"`
	Directory UpstreamConfig `mapstructure:"directory"`
	Stats     UpstreamConfig `mapstructure:"stats"`
	Records   UpstreamConfig `mapstructure:"records"`
	Database  DatabaseConfig `mapstructure:"database"`
	Auth      AuthConfig     `mapstructure:"auth"`
	CORS      CORSConfig     `mapstructure:"cors"`
	Log       LogConfig      `mapstructure:"log"`
	Metrics   MetricsConfig  `mapstructure:"metrics"`
	Locale    string         `mapstructure:"locale"`
}

// StoreEnabled reports whether this process hosts the records store
func (c *Config) StoreEnabled() bool {
	return c.Database.URL != ""
}

// LanguageTag returns the configured locale for collation and number formatting
func (c *Config) LanguageTag() language.Tag {
	return language.Make(c.Locale)
}

var envBindings = map[string]string{
	"server.port":       "PORT",
	"directory.url":     "DIRECTORY_URL",
	"stats.url":         "STATS_URL",
	"records.url":       "RECORDS_URL",
	"database.url":      "DATABASE_URL",
	"auth.authorizeURL": "AUTH_AUTHORIZE_URL",
	"auth.tokens":       "AUTH_TOKENS",
	"cors.origins":      "CORS_ORIGINS",
	"log.level":         "LOG_LEVEL",
	"metrics.enabled":   "METRICS_ENABLED",
	"locale":            "LOCALE",
}

// SetDefaults registers default values and environment bindings on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("directory.url", "https://restcountries.com/v3.1")
	v.SetDefault("stats.url", "https://disease.sh/v3/covid-19")
	v.SetDefault("records.url", "")
	v.SetDefault("database.url", "")
	v.SetDefault("auth.authorizeURL", "")
	v.SetDefault("auth.tokens", []string{})
	v.SetDefault("cors.origins", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("locale", "en")

	for key, env := range envBindings {
		v.BindEnv(key, env)
	}
}

// Load decodes and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cfg.Records.URL = strings.TrimRight(cfg.Records.URL, "/")
	if cfg.Records.URL == "" {
		// Unset means this process serves the records API itself
		cfg.Records.URL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	if cfg.Auth.AuthorizeURL == "" {
		cfg.Auth.AuthorizeURL = cfg.Records.URL + "/auth/google"
	}
	cfg.Auth.Tokens = compact(cfg.Auth.Tokens)
	cfg.CORS.Origins = compact(cfg.CORS.Origins)
	if len(cfg.CORS.Origins) == 0 {
		cfg.CORS.Origins = []string{fmt.Sprintf("http://localhost:%d", cfg.Server.Port)}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section against its struct tags
func (c *Config) Validate() error {
	sections := []struct {
		name  string
		value any
	}{
		{"server", &c.Server},
		{"directory", &c.Directory},
		{"stats", &c.Stats},
		{"records", &c.Records},
		{"auth", &c.Auth},
		{"log", &c.Log},
	}
	for _, section := range sections {
		v := validate.Struct(section.value)
		if !v.Validate() {
			return fmt.Errorf("invalid %s config: %s", section.name, v.Errors.One())
		}
	}

	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return nil
}

// compact trims entries, splitting any that still hold commas, and drops empties
func compact(in []string) []string {
	out := []string{}
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if t := strings.TrimSpace(part); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
