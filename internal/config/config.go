package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"expensetracker/internal/logger"
)

// Config holds application configuration. It is built once at startup and
// passed by pointer to the components that need it; nothing mutates it after
// Load returns.
type Config struct {
	// Server
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`

	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"db"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Google   GoogleConfig   `mapstructure:"google"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Bcrypt   BcryptConfig   `mapstructure:"bcrypt"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DatabaseConfig selects the store. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"`
}

// JWTConfig configures session token signing and verification.
type JWTConfig struct {
	Secret    string        `mapstructure:"secret"`
	Issuer    string        `mapstructure:"issuer"`
	Audience  string        `mapstructure:"audience"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
}

// GoogleConfig holds the OAuth client id that Google ID tokens must be issued for.
type GoogleConfig struct {
	ClientID string `mapstructure:"client_id"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// BcryptConfig sets the password hashing cost.
type BcryptConfig struct {
	Cost int `mapstructure:"cost"`
}

// Load loads configuration from a .env file (when present) and environment
// variables. Keys map to env vars by upper-casing and replacing dots with
// underscores, e.g. jwt.secret -> JWT_SECRET.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Get().Debug(".env file not found, using process environment")
	}

	v := viper.New()

	// Server
	v.SetDefault("port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("log.level", "")

	// Database
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "expense")
	v.SetDefault("db.password", "expense")
	v.SetDefault("db.name", "expense_tracker")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.path", "expense_tracker.db")

	// JWT. Secret, issuer and audience have no defaults on purpose.
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "")
	v.SetDefault("jwt.audience", "")
	v.SetDefault("jwt.expires_in", "60m")

	v.SetDefault("google.client_id", "")
	v.SetDefault("cors.allowed_origins", "")
	v.SetDefault("bcrypt.cost", 0)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.CORS.AllowedOrigins = cleanList(c.CORS.AllowedOrigins)

	return &c, nil
}

// Validate reports every missing or malformed setting the process cannot
// start without.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if strings.TrimSpace(c.JWT.Issuer) == "" {
		errs = append(errs, errors.New("JWT_ISSUER is required"))
	}
	if strings.TrimSpace(c.JWT.Audience) == "" {
		errs = append(errs, errors.New("JWT_AUDIENCE is required"))
	}
	if c.JWT.ExpiresIn <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be a positive duration"))
	}
	if strings.TrimSpace(c.Google.ClientID) == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_ID is required"))
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS is required"))
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, fmt.Errorf("CORS_ALLOWED_ORIGINS entry %q must be an explicit http(s) origin", origin))
		}
	}
	if c.Bcrypt.Cost != 0 && (c.Bcrypt.Cost < bcrypt.MinCost || c.Bcrypt.Cost > bcrypt.MaxCost) {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d must be 0 or between %d and %d", c.Bcrypt.Cost, bcrypt.MinCost, bcrypt.MaxCost))
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported (use postgres or sqlite)", c.Database.Driver))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the process runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// cleanList trims entries and drops empty ones. Viper splits comma separated
// env values but keeps surrounding whitespace.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
