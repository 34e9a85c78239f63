package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string `env:"ADDR" envDefault:":5000"`
	Env         string `env:"ENV" envDefault:"development"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	APIURL      string `env:"EXTERNAL_URL" envDefault:"localhost:5000"`

	DB          DBConfig
	Auth        AuthConfig
	Mail        MailConfig
	RateLimiter RateLimiterConfig
	Catalog     CatalogConfig

	CloudinaryURL string `env:"CLOUDINARY_URL"`
}

type DBConfig struct {
	Addr        string        `env:"DB_ADDR,notEmpty"`
	MaxConns    int32         `env:"DB_MAX_CONNS" envDefault:"20"`
	MaxIdleTime time.Duration `env:"DB_MAX_IDLE_TIME" envDefault:"15m"`
	AutoMigrate bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

type AuthConfig struct {
	BasicUser       string        `env:"AUTH_BASIC_USER" envDefault:"admin"`
	BasicPass       string        `env:"AUTH_BASIC_PASS"`
	Secret          string        `env:"AUTH_TOKEN_SECRET,notEmpty"`
	RefreshSecret   string        `env:"AUTH_TOKEN_REFRESH_SECRET,notEmpty"`
	AccessTokenExp  time.Duration `env:"AUTH_TOKEN_EXP" envDefault:"1h"`
	RefreshTokenExp time.Duration `env:"AUTH_REFRESH_TOKEN_EXP" envDefault:"168h"`
	Issuer          string        `env:"AUTH_TOKEN_ISSUER" envDefault:"parfumvilag"`
}

// MailConfig is optional; an empty SMTPHost disables outgoing mail.
type MailConfig struct {
	SMTPHost  string `env:"SMTP_HOST"`
	SMTPPort  int    `env:"SMTP_PORT" envDefault:"587"`
	Username  string `env:"SMTP_USERNAME"`
	Password  string `env:"SMTP_PASSWORD"`
	FromEmail string `env:"MAIL_FROM" envDefault:"no-reply@parfumvilag.hu"`
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int           `env:"RATELIMITER_REQUESTS_COUNT" envDefault:"200"`
	TimeFrame            time.Duration `env:"RATELIMITER_TIME_FRAME" envDefault:"5s"`
	Enabled              bool          `env:"RATE_LIMITER_ENABLED" envDefault:"false"`
}

// MaxCatalogPerPage is the hard ceiling on the catalog page size.
const MaxCatalogPerPage = 100

type CatalogConfig struct {
	DefaultPerPage int `env:"CATALOG_DEFAULT_PER_PAGE" envDefault:"24"`
	MaxPerPage     int `env:"CATALOG_MAX_PER_PAGE" envDefault:"100"`
}

// Load reads .env when present and then parses the process environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Catalog.MaxPerPage < 1 || cfg.Catalog.MaxPerPage > MaxCatalogPerPage {
		return nil, fmt.Errorf("CATALOG_MAX_PER_PAGE must be within 1..%d, got %d",
			MaxCatalogPerPage, cfg.Catalog.MaxPerPage)
	}
	if cfg.Catalog.DefaultPerPage < 1 || cfg.Catalog.DefaultPerPage > cfg.Catalog.MaxPerPage {
		return nil, fmt.Errorf("CATALOG_DEFAULT_PER_PAGE must be within 1..%d, got %d",
			cfg.Catalog.MaxPerPage, cfg.Catalog.DefaultPerPage)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
