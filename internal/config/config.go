package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

type Config struct {
	Port       string `koanf:"port" validate:"required,numeric"`
	SignupPort string `koanf:"signup_port" validate:"required,numeric"`
	LogLevel   string `koanf:"log_level" validate:"omitempty,oneof=debug info warn error"`
	// TrustProxy takes the client address from X-Real-IP / X-Forwarded-For.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy bool `koanf:"trust_proxy"`

	Admin         AdminConfig         `koanf:"admin"`
	Store         StoreConfig         `koanf:"store"`
	Subscriptions SubscriptionsConfig `koanf:"subscriptions"`
	Metrics       MetricsConfig       `koanf:"metrics"`
}

type AdminConfig struct {
	Username      string        `koanf:"username" validate:"required"`
	Password      string        `koanf:"password" validate:"required_without=PasswordHash"`
	PasswordHash  string        `koanf:"password_hash"`
	SessionSecret string        `koanf:"session_secret" validate:"omitempty,min=32"`
	SessionTTL    time.Duration `koanf:"session_ttl" validate:"gt=0"`
	SecureCookie  bool          `koanf:"secure_cookie"`
}

type StoreConfig struct {
	Driver            string `koanf:"driver" validate:"oneof=file postgres"`
	ProductsFile      string `koanf:"products_file" validate:"required_if=Driver file"`
	SubscriptionsFile string `koanf:"subscriptions_file" validate:"required_if=Driver file"`
	DatabaseURL       string `koanf:"database_url" validate:"required_if=Driver postgres"`
}

type SubscriptionsConfig struct {
	UniqueBy string `koanf:"unique_by" validate:"oneof=email contact"`
}

type MetricsConfig struct {
	Token string `koanf:"token"`
}

// envKeys maps the supported environment variables onto config paths.
var envKeys = map[string]string{
	"PORT":                "port",
	"SIGNUP_PORT":         "signup_port",
	"LOG_LEVEL":           "log_level",
	"TRUST_PROXY":         "trust_proxy",
	"ADMIN_USERNAME":      "admin.username",
	"ADMIN_PASSWORD":      "admin.password",
	"ADMIN_PASSWORD_HASH": "admin.password_hash",
	"SESSION_SECRET":      "admin.session_secret",
	"SESSION_TTL":         "admin.session_ttl",
	"SECURE_COOKIE":       "admin.secure_cookie",
	"STORE_DRIVER":        "store.driver",
	"PRODUCTS_FILE":       "store.products_file",
	"SUBSCRIPTIONS_FILE":  "store.subscriptions_file",
	"DATABASE_URL":        "store.database_url",
	"UNIQUE_BY":           "subscriptions.unique_by",
	"METRICS_TOKEN":       "metrics.token",
}

func Defaults() Config {
	return Config{
		Port:       "8080",
		SignupPort: "8081",
		LogLevel:   "info",
		Admin: AdminConfig{
			SessionTTL: 8 * time.Hour,
		},
		Store: StoreConfig{
			Driver:            DriverFile,
			ProductsFile:      "products.json",
			SubscriptionsFile: "subscriptions.json",
		},
		Subscriptions: SubscriptionsConfig{
			UniqueBy: "email",
		},
	}
}

// Load layers defaults, the optional YAML file at path and the environment.
// It does not validate; the returned Config is usable for logger setup even
// when err is non-nil.
func Load(path string) (Config, error) {
	cfg := Defaults()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(key string) string {
		return envKeys[key]
	}), nil); err != nil {
		return cfg, fmt.Errorf("load env: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Defaults(), fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the full server must not start with,
// most importantly missing admin credentials.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ValidateSignup checks only what the sign-up server reads; it runs without
// admin credentials.
func (c Config) ValidateSignup() error {
	if err := validator.New().StructPartial(c, "SignupPort", "LogLevel"); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// FromEnv is Load with the file path taken from CONFIG_FILE.
func FromEnv() (Config, error) {
	return Load(os.Getenv("CONFIG_FILE"))
}
