package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv hides any supported variables set in the outer environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for key := range envKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SECURE_COOKIE", "true")
	t.Setenv("PRODUCTS_FILE", "/data/products.json")
	t.Setenv("UNIQUE_BY", "contact")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "8081", cfg.SignupPort)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "s3cret", cfg.Admin.Password)
	assert.Equal(t, 30*time.Minute, cfg.Admin.SessionTTL)
	assert.True(t, cfg.Admin.SecureCookie)
	assert.Equal(t, "/data/products.json", cfg.Store.ProductsFile)
	assert.Equal(t, "subscriptions.json", cfg.Store.SubscriptionsFile)
	assert.Equal(t, "contact", cfg.Subscriptions.UniqueBy)
	assert.True(t, cfg.TrustProxy)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "restock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
log_level: debug
admin:
  username: boss
  password: hunter2
  session_ttl: 1h
store:
  driver: postgres
  database_url: postgres://restock@localhost/restock
`), 0o600))

	t.Setenv("PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port, "environment wins over the file")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "boss", cfg.Admin.Username)
	assert.Equal(t, time.Hour, cfg.Admin.SessionTTL)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://restock@localhost/restock", cfg.Store.DatabaseURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, "8080", cfg.Port)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Defaults()
		c.Admin.Username = "admin"
		c.Admin.Password = "s3cret"
		return c
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*Config){
		"no username":          func(c *Config) { c.Admin.Username = "" },
		"no password or hash":  func(c *Config) { c.Admin.Password = "" },
		"short session secret": func(c *Config) { c.Admin.SessionSecret = "short" },
		"zero session ttl":     func(c *Config) { c.Admin.SessionTTL = 0 },
		"unknown driver":       func(c *Config) { c.Store.Driver = "redis" },
		"postgres without url": func(c *Config) { c.Store.Driver = DriverPostgres },
		"file without path":    func(c *Config) { c.Store.ProductsFile = "" },
		"bad unique key":       func(c *Config) { c.Subscriptions.UniqueBy = "name" },
		"bad port":             func(c *Config) { c.Port = "http" },
		"bad log level":        func(c *Config) { c.LogLevel = "loud" },
		"bad signup port":      func(c *Config) { c.SignupPort = "abc" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	t.Run("hash instead of password", func(t *testing.T) {
		c := valid()
		c.Admin.Password = ""
		c.Admin.PasswordHash = "$2a$10$abcdefghijklmnopqrstuu"
		assert.NoError(t, c.Validate())
	})
}

func TestValidateSignup(t *testing.T) {
	require.NoError(t, Defaults().ValidateSignup(), "admin credentials are not needed")

	c := Defaults()
	c.SignupPort = "abc"
	assert.Error(t, c.ValidateSignup())

	c = Defaults()
	c.SignupPort = ""
	assert.Error(t, c.ValidateSignup())

	c = Defaults()
	c.LogLevel = "verbose"
	assert.Error(t, c.ValidateSignup())
}

func TestValidateSignup_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIGNUP_PORT", "abc")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Error(t, cfg.ValidateSignup())
}
