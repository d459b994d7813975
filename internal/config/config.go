package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Identity IdentityConfig `yaml:"identity"`
	Maps     MapsConfig     `yaml:"maps"`
	Matching MatchingConfig `yaml:"matching"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RateLimitPerMin int           `yaml:"rate_limit_per_min" env:"SERVER_RATE_LIMIT_PER_MIN" env-default:"300"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	QueryTimeout    time.Duration `yaml:"query_timeout"      env:"DATABASE_QUERY_TIMEOUT"      env-default:"5s"`
}

// IdentityConfig holds settings for the OAuth2 client-credentials token
// provider used to authenticate against the geocoding upstream.
type IdentityConfig struct {
	TokenURL     string        `yaml:"token_url"     env:"IDENTITY_TOKEN_URL"     env-required:"true"`
	ClientID     string        `yaml:"client_id"     env:"IDENTITY_CLIENT_ID"     env-required:"true"`
	ClientSecret string        `yaml:"client_secret" env:"IDENTITY_CLIENT_SECRET" env-required:"true"`
	Timeout      time.Duration `yaml:"timeout"       env:"IDENTITY_TIMEOUT"       env-default:"10s"`

	// ScopesRaw is a comma-separated, ordered list of scopes to try.
	// The first scope that yields a token wins.
	ScopesRaw string `yaml:"scopes" env:"IDENTITY_SCOPES" env-default:"https://atlas.example.com/.default,https://management.example.com/.default"`

	// Scopes is parsed from ScopesRaw during validation.
	Scopes []string `yaml:"-" env:"-"`
}

// MapsConfig holds settings for the geocoding provider client.
type MapsConfig struct {
	BaseURL     string        `yaml:"base_url"      env:"MAPS_BASE_URL"      env-default:"https://atlas.microsoft.com"`
	ClientID    string        `yaml:"client_id"     env:"MAPS_CLIENT_ID"     env-required:"true"`
	Timeout     time.Duration `yaml:"timeout"       env:"MAPS_TIMEOUT"       env-default:"10s"`
	MaxRetries  int           `yaml:"max_retries"   env:"MAPS_MAX_RETRIES"   env-default:"3"`
	BackoffBase time.Duration `yaml:"backoff_base"  env:"MAPS_BACKOFF_BASE"  env-default:"1s"`
	JitterMax   time.Duration `yaml:"jitter_max"    env:"MAPS_JITTER_MAX"    env-default:"1s"`

	// DevFallback substitutes a deterministic pseudo-coordinate when
	// geocoding fails terminally, instead of surfacing the error. Demo
	// convenience only; must stay off in production.
	DevFallback bool `yaml:"dev_fallback" env:"MAPS_DEV_FALLBACK" env-default:"false"`
}

// MatchingConfig holds pairing engine settings.
type MatchingConfig struct {
	DefaultLimit int `yaml:"default_limit" env:"MATCHING_DEFAULT_LIMIT" env-default:"10"`
	MaxLimit     int `yaml:"max_limit"     env:"MATCHING_MAX_LIMIT"     env-default:"50"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
