package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Admin    AdminConfig
	Bundle   BundleConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
	// AES key sealing the session cookie, 16, 24 or 32 bytes
	SessionKey  string
	CORSOrigins []string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type AdminConfig struct {
	Username     string
	PasswordHash string
}

type BundleConfig struct {
	CouponPrefix        string
	CurrencyPrecision   int32
	SessionTTL          time.Duration
	CouponMaxAge        time.Duration
	JanitorInterval     time.Duration
	JanitorCacheTTL     time.Duration
	SessionCookieName   string
	SessionCookieSecure bool
	SessionCookieMaxAge time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	precision, err := strconv.Atoi(getEnv("CURRENCY_PRECISION", "2"))
	if err != nil || precision < 0 || precision > 8 {
		return nil, errors.New("invalid currency precision")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Mix & Match Bundles"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getBoolEnv("APP_DEBUG", false),
			SessionKey:  getEnv("APP_SESSION_KEY", ""),
			CORSOrigins: getListEnv("APP_CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "mix_match_bundles"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
			TTL:       getDurationEnv("JWT_TTL", 12*time.Hour),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Bundle: BundleConfig{
			CouponPrefix:        getEnv("BUNDLE_COUPON_PREFIX", "mmbundle_"),
			CurrencyPrecision:   int32(precision),
			SessionTTL:          getDurationEnv("BUNDLE_SESSION_TTL", 48*time.Hour),
			CouponMaxAge:        getDurationEnv("COUPON_MAX_AGE", 24*time.Hour),
			JanitorInterval:     getDurationEnv("COUPON_JANITOR_INTERVAL", 24*time.Hour),
			JanitorCacheTTL:     getDurationEnv("COUPON_JANITOR_CACHE_TTL", time.Hour),
			SessionCookieName:   getEnv("SESSION_COOKIE_NAME", "mm_session"),
			SessionCookieSecure: getBoolEnv("SESSION_COOKIE_SECURE", false),
			SessionCookieMaxAge: getDurationEnv("SESSION_COOKIE_MAX_AGE", 48*time.Hour),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	switch len(cfg.App.SessionKey) {
	case 16, 24, 32:
	default:
		return nil, errors.New("app session key must be 16, 24 or 32 bytes")
	}

	if cfg.Bundle.CouponPrefix == "" {
		return nil, errors.New("missing bundle coupon prefix")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}

	return defaultVal
}

// getDurationEnv accepts Go duration strings ("36h", "90m").
func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil && parsed > 0 {
			return parsed
		}
	}

	return defaultVal
}

func getListEnv(key string, defaultVal []string) []string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}

	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
