package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env  string
	Port string

	Log  LogConfig
	JWT  JWTConfig
	CORS CORSConfig
	Seed SeedConfig

	// PasswordScheme selects how credentials are stored: plain or bcrypt.
	PasswordScheme string
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type CORSConfig struct {
	AllowOrigins []string
}

// SeedConfig says where the initial records come from. MongoURI wins over
// File; with neither set the embedded demo seed is used.
type SeedConfig struct {
	File          string
	MongoURI      string
	MongoDatabase string
}

// Load reads a .env file if present, then the environment.
func Load() (*Config, error) {
	// A missing .env is fine; the process environment is used as is.
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_env", "development")
	v.SetDefault("api_port", "8080")
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "")
	v.SetDefault("log_output", "stdout")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl", "24h")
	v.SetDefault("cors_allow_origins", "http://localhost:5173")
	v.SetDefault("seed_file", "")
	v.SetDefault("mongo_uri", "")
	v.SetDefault("mongo_database", "care_tracker")
	v.SetDefault("password_scheme", "plain")
	return v
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:  v.GetString("app_env"),
		Port: v.GetString("api_port"),
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
			Output: v.GetString("log_output"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt_secret"),
			TTL:    v.GetDuration("jwt_ttl"),
		},
		CORS: CORSConfig{
			AllowOrigins: splitList(v.GetString("cors_allow_origins")),
		},
		Seed: SeedConfig{
			File:          v.GetString("seed_file"),
			MongoURI:      v.GetString("mongo_uri"),
			MongoDatabase: v.GetString("mongo_database"),
		},
		PasswordScheme: v.GetString("password_scheme"),
	}
	applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		if cfg.IsProduction() {
			cfg.Log.Level = "info"
		} else {
			cfg.Log.Level = "debug"
		}
	}
	if cfg.Log.Format == "" {
		if cfg.IsProduction() {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.JWT.TTL <= 0 {
		cfg.JWT.TTL = 24 * time.Hour
	}
	if cfg.JWT.Secret == "" && !cfg.IsProduction() {
		cfg.JWT.Secret = "dev-only-secret"
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("API_PORT must not be empty"))
	}
	if c.IsProduction() && (c.JWT.Secret == "" || c.JWT.Secret == "dev-only-secret") {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	switch c.PasswordScheme {
	case "plain", "bcrypt":
	default:
		errs = append(errs, fmt.Errorf("PASSWORD_SCHEME %q is not one of plain, bcrypt", c.PasswordScheme))
	}
	if c.Seed.MongoURI != "" && c.Seed.MongoDatabase == "" {
		errs = append(errs, errors.New("MONGO_DATABASE is required when MONGO_URI is set"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
