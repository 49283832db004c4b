// Package config loads the service configuration from the environment, an
// optional .env file and an optional jobly.yaml.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the service configuration.
type Config struct {
	Env      string
	Port     int
	LogLevel string
	// LogPretty switches to zerolog's console writer.
	LogPretty bool

	Database DatabaseConfig
	Auth     AuthConfig
	CORS     CORSConfig
	LLM      LLMConfig
}

// DatabaseConfig configures the Postgres pool.
type DatabaseConfig struct {
	URL            string
	MaxOpenConns   int
	ConnectTimeout time.Duration
}

// AuthConfig configures password hashing and tokens.
type AuthConfig struct {
	SecretKey        string
	BcryptWorkFactor int
	TokenTTL         time.Duration
}

// CORSConfig lists allowed origins; "*" allows all.
type CORSConfig struct {
	Origins []string
}

// LLMConfig configures job posting extraction. An empty APIKey disables it.
type LLMConfig struct {
	APIKey string
	Model  string
}

// IsTest reports whether the service runs against the test database.
func (c *Config) IsTest() bool {
	return c.Env == "test"
}

// LoadDotEnv loads .env (if present) into the process environment without
// overriding variables that are already set.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()

	v.SetConfigName("jobly")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("env", "development")
	v.SetDefault("port", 3001)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("database_url", "postgresql:///jobly")
	v.SetDefault("db_max_open_conns", 10)
	v.SetDefault("db_connect_timeout", "5s")
	v.SetDefault("secret_key", "secret-dev")
	v.SetDefault("bcrypt_work_factor", 12)
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("gemini_model", "gemini-2.5-flash")

	return v
}

// Load reads the optional config file and builds a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Env:       strings.ToLower(v.GetString("env")),
		Port:      v.GetInt("port"),
		LogLevel:  v.GetString("log_level"),
		LogPretty: v.GetBool("log_pretty"),
		Database: DatabaseConfig{
			URL:            v.GetString("database_url"),
			MaxOpenConns:   v.GetInt("db_max_open_conns"),
			ConnectTimeout: v.GetDuration("db_connect_timeout"),
		},
		Auth: AuthConfig{
			SecretKey:        v.GetString("secret_key"),
			BcryptWorkFactor: v.GetInt("bcrypt_work_factor"),
			TokenTTL:         v.GetDuration("token_ttl"),
		},
		CORS: CORSConfig{Origins: splitList(v.GetString("cors_origins"))},
		LLM: LLMConfig{
			APIKey: v.GetString("gemini_api_key"),
			Model:  v.GetString("gemini_model"),
		},
	}

	if cfg.IsTest() {
		cfg.Database.URL = testDatabaseURL(cfg.Database.URL)
		cfg.Auth.BcryptWorkFactor = bcrypt.MinCost
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if c.Env == "production" && c.Auth.SecretKey == "secret-dev" {
		return fmt.Errorf("SECRET_KEY must be set in production")
	}
	if c.Auth.BcryptWorkFactor < bcrypt.MinCost || c.Auth.BcryptWorkFactor > bcrypt.MaxCost {
		return fmt.Errorf("invalid BCRYPT_WORK_FACTOR %d", c.Auth.BcryptWorkFactor)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("invalid TOKEN_TTL %s", c.Auth.TokenTTL)
	}
	return nil
}

// testDatabaseURL points the URL at the "<name>_test" database.
func testDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" || u.Path == "/" {
		return raw
	}
	if !strings.HasSuffix(u.Path, "_test") {
		u.Path += "_test"
	}
	return u.String()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
