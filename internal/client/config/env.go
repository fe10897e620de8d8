package config

import (
	"errors"
	"io/fs"
	"maps"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/countryexplorer/internal/flagx"
	"github.com/joho/godotenv"
)

const (
	envPrefix      = "COUNTRIES_"
	defaultEnvFile = ".env"
)

// EnvConfig is a DTO for environment variables. Unset variables stay nil and
// leave the corresponding Config field alone.
type EnvConfig struct {
	APIBaseURL     *string        `env:"API_URL"`
	RequestTimeout *time.Duration `env:"REQUEST_TIMEOUT"`
	StoreDriver    *string        `env:"STORE_DRIVER"`
	StorePath      *string        `env:"STORE_PATH"`
	PasswordCodec  *string        `env:"PASSWORD_CODEC"`
	LogLevel       *string        `env:"LOG_LEVEL"`
	LogFormat      *string        `env:"LOG_FORMAT"`
}

// parseEnv overlays Config with COUNTRIES_* variables. Values from the dotenv
// file named by -e or -env (".env" by default) are used when the process
// environment does not set them. A missing dotenv file is skipped; any other
// error panics.
func parseEnv(cfg *Config) {
	path := flagx.EnvFilePath(os.Args[1:])
	if path == "" {
		path = defaultEnvFile
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		vars = map[string]string{}
	}
	maps.Copy(vars, env.ToMap(os.Environ()))

	var ec EnvConfig
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: envPrefix, Environment: vars}); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, ec.APIBaseURL)
	if ec.RequestTimeout != nil {
		cfg.RequestTimeout = *ec.RequestTimeout
	}
	setString(&cfg.StoreDriver, ec.StoreDriver)
	setString(&cfg.StorePath, ec.StorePath)
	setString(&cfg.PasswordCodec, ec.PasswordCodec)
	setString(&cfg.LogLevel, ec.LogLevel)
	setString(&cfg.LogFormat, ec.LogFormat)
}
