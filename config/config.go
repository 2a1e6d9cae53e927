package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	DriverFirestore = "firestore"
	DriverPostgres  = "postgres"
	DriverMemory    = "memory"
)

type Config struct {
	Env         string        `env:"APP_ENV" env-default:"development"`
	Port        string        `env:"PORT" env-default:"8080"`
	FrontendURL string        `env:"FRONTEND_URL"`
	AdminURL    string        `env:"ADMIN_URL"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"JWT_TTL" env-default:"12h"`

	Admin    Admin
	Store    Store
	Firebase Firebase
	Shop     Shop
	Telegram Telegram
}

type Admin struct {
	Username     string `env:"ADMIN_USERNAME" env-default:"admin"`
	PasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}

type Store struct {
	Driver      string `env:"STORE_DRIVER" env-default:"firestore"`
	DatabaseURL string `env:"DATABASE_URL"`
	Fallback    bool   `env:"STORE_FALLBACK" env-default:"true"`
	// Seed fills the in-memory store with a demo menu.
	Seed bool `env:"STORE_SEED" env-default:"true"`
}

type Firebase struct {
	Credentials   string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	ProjectID     string `env:"FIREBASE_PROJECT_ID"`
	StorageBucket string `env:"FIREBASE_STORAGE_BUCKET"`
}

// Shop describes the kitchen deliveries leave from.
type Shop struct {
	Latitude       float64 `env:"STORE_LATITUDE" env-default:"36.7538"`
	Longitude      float64 `env:"STORE_LONGITUDE" env-default:"3.0588"`
	WhatsAppNumber string  `env:"WHATSAPP_NUMBER" env-default:"213555123456"`
}

type Telegram struct {
	Token  string `env:"TELEGRAM_TOKEN"`
	ChatID int64  `env:"TELEGRAM_CHAT_ID"`
}

// LoadEnv loads a .env file when there is one. A missing file is not an
// error; an unreadable or malformed one is.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that critical settings are present and logs a warning for
// every optional one that is missing.
func (c *Config) Validate(logger *zap.Logger) error {
	var missing []string

	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Admin.PasswordHash == "" {
		missing = append(missing, "ADMIN_PASSWORD_HASH")
	}

	switch c.Store.Driver {
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case DriverFirestore, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	if c.Firebase.StorageBucket == "" {
		logger.Warn("FIREBASE_STORAGE_BUCKET not set - file uploads are disabled")
	}
	if c.Firebase.Credentials == "" {
		logger.Warn("GOOGLE_APPLICATION_CREDENTIALS not set - Firebase features may not work")
	}
	if c.FrontendURL == "" {
		logger.Warn("FRONTEND_URL not set - CORS may not work correctly")
	}
	if c.AdminURL == "" {
		logger.Warn("ADMIN_URL not set")
	}
	if c.IsProduction() && len(c.configuredOrigins()) == 0 {
		logger.Warn("no CORS origins configured, defaulting to " + defaultOrigin)
	}
	if c.Telegram.Token == "" || c.Telegram.ChatID == 0 {
		logger.Warn("TELEGRAM_TOKEN or TELEGRAM_CHAT_ID not set - order alerts are disabled")
	}

	return nil
}

const defaultOrigin = "http://localhost:3000"

// AllowedOrigins returns the CORS origins: the storefront and admin URLs,
// plus local dev servers outside production. The list is never empty.
func (c *Config) AllowedOrigins() []string {
	origins := c.configuredOrigins()
	if !c.IsProduction() {
		origins = append(origins, defaultOrigin, "http://localhost:5173")
	}
	if len(origins) == 0 {
		origins = []string{defaultOrigin}
	}
	return origins
}

func (c *Config) configuredOrigins() []string {
	var origins []string
	for _, u := range []string{c.FrontendURL, c.AdminURL} {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			origins = append(origins, u)
		}
	}
	return origins
}
