package config

import (
	"time"

	"github.com/dmitrijs2005/countryexplorer/internal/client/countries"
	"github.com/dmitrijs2005/countryexplorer/internal/client/repositories/kv"
	"github.com/dmitrijs2005/countryexplorer/internal/cryptox"
)

// Config holds runtime settings for the country explorer CLI.
//
// Fields:
//   - APIBaseURL: base URL of the restcountries v3.1 API.
//   - RequestTimeout: per-request timeout for API calls.
//   - StoreDriver, StorePath: local key/value store backend and its file.
//   - PasswordCodec: how credentials are kept (plain, bcrypt, argon2id).
//   - LogLevel, LogFormat: slog level and handler (text or json).
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	StoreDriver    string
	StorePath      string
	PasswordCodec  string
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = countries.DefaultBaseURL
	c.RequestTimeout = 10 * time.Second
	c.StoreDriver = kv.DriverSQLite
	c.StorePath = "countries.db"
	c.PasswordCodec = cryptox.CodecPlain
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment (including an optional .env file) and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
