// Package config loads runtime configuration for the country explorer CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables with the COUNTRIES_ prefix. A dotenv file
//     (-e/-env, default ".env") fills in variables the environment lacks.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-u string   base URL of the countries API
//	-t int      request timeout (seconds)
//	-d string   store driver: sqlite, bolt or memory
//	-p string   store file path
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://restcountries.com/v3.1",
//	  "request_timeout": "10s",
//	  "store_driver": "sqlite",
//	  "store_path": "countries.db",
//	  "password_codec": "plain",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// # Environment
//
//	COUNTRIES_API_URL, COUNTRIES_REQUEST_TIMEOUT (Go duration),
//	COUNTRIES_STORE_DRIVER, COUNTRIES_STORE_PATH, COUNTRIES_PASSWORD_CODEC,
//	COUNTRIES_LOG_LEVEL, COUNTRIES_LOG_FORMAT
//
// Loaders panic on malformed input; main is expected to fail fast.
package config
