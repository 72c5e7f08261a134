package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultDBURI       = "sqlite:///yeuxouverts.db"
	defaultRedisAddr   = "localhost:6379"
	defaultAppPort     = "8080"
	defaultAppEnv      = "local"
	defaultAppLocale   = "es"
	defaultMailHost    = "smtp.gmail.com"
	defaultMailPort    = "465"
	defaultSessionTTL  = "720h"
	defaultStorageRoot = "static"
	defaultRateLimit   = "200"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu sync.RWMutex
	v  = newViper()
)

func newViper() *viper.Viper {
	vp := viper.New()
	for key, value := range defaultValues() {
		vp.SetDefault(key, value)
	}
	vp.AutomaticEnv()
	return vp
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":            defaultAppEnv,
		"APP_PORT":           defaultAppPort,
		"APP_LOCALE":         defaultAppLocale,
		"DB_URI":             defaultDBURI,
		"DB_DRIVER":          "",
		"REDIS_ADDR":         defaultRedisAddr,
		"REDIS_PASSWORD":     "",
		"SESSION_DRIVER":     "cookie",
		"SESSION_TTL":        defaultSessionTTL,
		"FLASK_KEY":          "",
		"EMAIL":              "",
		"APP_PSS":            "",
		"MAIL_HOST":          defaultMailHost,
		"MAIL_PORT":          defaultMailPort,
		"STORAGE_DISK":       "local",
		"STORAGE_LOCAL_ROOT": defaultStorageRoot,
		"RATE_LIMIT":         defaultRateLimit,
		"CSRF_ENABLED":       "true",
	}
}

// Load reads config/app.json and .env (both optional) on first use.
// Process environment variables always win over file values.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func loadFromFiles(configPath, envPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := mergeFile(v, configPath, "json"); err != nil {
		return err
	}
	return mergeFile(v, envPath, "env")
}

func mergeFile(vp *viper.Viper, path, kind string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	vp.SetConfigFile(path)
	vp.SetConfigType(kind)
	if err := vp.MergeInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(v.GetString(key)); value != "" {
		return value
	}
	return fallback
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Set overrides a key for the lifetime of the process. Tests use it to
// swap secrets and drivers without touching the environment.
func Set(key, value string) {
	mu.Lock()
	defer mu.Unlock()
	v.Set(key, value)
}

// Bool reads a boolean key; unparsable values yield fallback.
func Bool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(Get(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return b
}

// Int reads an integer key; unparsable values yield fallback.
func Int(key string, fallback int) int {
	n, err := strconv.Atoi(Get(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return n
}

func AppEnv() string    { return Get("APP_ENV", defaultAppEnv) }
func AppPort() string   { return Get("APP_PORT", defaultAppPort) }
func AppLocale() string { return Get("APP_LOCALE", defaultAppLocale) }

// IsProduction reports whether APP_ENV names a production deployment.
func IsProduction() bool {
	switch strings.ToLower(AppEnv()) {
	case "production", "prod":
		return true
	}
	return false
}

// DatabaseURI is the storage connection string, SQLAlchemy style.
func DatabaseURI() string { return Get("DB_URI", defaultDBURI) }

// DatabaseDriver forces a driver regardless of the URI scheme. Empty means
// "derive from DB_URI".
func DatabaseDriver() string { return strings.ToLower(Get("DB_DRIVER", "")) }

func RedisAddr() string     { return Get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { return Get("REDIS_PASSWORD", "") }

// ── Session ──────────────────────────────────────────────────────────────────

func SessionDriver() string { return strings.ToLower(Get("SESSION_DRIVER", "cookie")) }

// SessionSecret signs session cookies. The variable name is kept from the
// original deployment so existing environments keep working.
func SessionSecret() string { return Get("FLASK_KEY", Get("SECRET_KEY", "")) }

func SessionTTL() time.Duration {
	d, err := time.ParseDuration(Get("SESSION_TTL", defaultSessionTTL))
	if err != nil || d <= 0 {
		return 30 * 24 * time.Hour
	}
	return d
}

// ── Mail ─────────────────────────────────────────────────────────────────────

func MailAddress() string  { return Get("EMAIL", "") }
func MailPassword() string { return Get("APP_PSS", "") }
func MailHost() string     { return Get("MAIL_HOST", defaultMailHost) }
func MailPort() string     { return Get("MAIL_PORT", defaultMailPort) }

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string   { return Get("STORAGE_DISK", "local") }
func StorageLocalRoot() string { return Get("STORAGE_LOCAL_ROOT", defaultStorageRoot) }

func StorageS3Bucket() string   { return Get("S3_BUCKET", "") }
func StorageS3Region() string   { return Get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { return Get("S3_KEY", "") }
func StorageS3Secret() string   { return Get("S3_SECRET", "") }
func StorageS3Endpoint() string { return Get("S3_ENDPOINT", "") }
func StorageS3URL() string      { return Get("S3_URL", "") }

// ── HTTP ─────────────────────────────────────────────────────────────────────

// RateLimit is the per-IP request budget per minute. 0 disables limiting.
func RateLimit() int { return Int("RATE_LIMIT", 200) }

func CSRFEnabled() bool { return Bool("CSRF_ENABLED", true) }
