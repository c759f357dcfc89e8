package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/user/radiodex/internal/utils"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env         string
	AppSecret   string
	DBDriver    string // postgres 或 sqlite
	DatabaseURL string
	JWTExpiry   time.Duration
	Port        string

	LogLevel  string
	LogFormat string

	CORSOrigins       []string
	AuthRatePerMinute int
	// 允许设置 X-Forwarded-For 的代理地址或网段，为空时只认对端地址
	TrustedProxies []string

	SimilarCacheSize int
	SimilarCacheTTL  time.Duration

	// 0 表示不清理播放历史
	HistoryRetentionDays int

	// 非所有者操作歌单时返回 403 而不是 404
	OwnershipAsForbidden bool
}

// Load 加载配置
func Load() *Config {
	expiryHours := getEnvInt("JWT_EXPIRY_HOURS", 24*7)

	driver := strings.ToLower(getEnv("DB_DRIVER", "postgres"))
	dbURL := getEnv("DATABASE_URL", "")
	if driver == "sqlite" {
		dbURL = getEnv("SQLITE_PATH", "radiodex.db")
	} else if dbURL == "" {
		dbUser := getEnv("DB_USER", "postgres")
		dbPass := getEnv("DB_PASSWORD", "postgres")
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbName := getEnv("DB_NAME", "radiodex")
		dbSSL := getEnv("DB_SSLMODE", "disable")

		dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)
	}

	appSecret := getEnv("APP_SECRET", getEnv("JWT_SECRET", defaultSecret))

	return &Config{
		Env:                  getEnv("APP_ENV", "development"),
		AppSecret:            appSecret,
		DBDriver:             driver,
		DatabaseURL:          dbURL,
		JWTExpiry:            time.Duration(expiryHours) * time.Hour,
		Port:                 getEnv("PORT", "5000"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
		CORSOrigins:          utils.SplitList(getEnv("CORS_ORIGINS", "*")),
		AuthRatePerMinute:    getEnvInt("AUTH_RATE_PER_MINUTE", 30),
		TrustedProxies:       utils.SplitList(getEnv("TRUSTED_PROXIES", "")),
		SimilarCacheSize:     getEnvInt("SIMILAR_CACHE_SIZE", 1000),
		SimilarCacheTTL:      time.Duration(getEnvInt("SIMILAR_CACHE_TTL_MINUTES", 10)) * time.Minute,
		HistoryRetentionDays: getEnvInt("HISTORY_RETENTION_DAYS", 0),
		OwnershipAsForbidden: getEnvBool("OWNERSHIP_AS_FORBIDDEN", false),
	}
}

// UsesDefaultSecret 是否仍在使用默认密钥
func (c *Config) UsesDefaultSecret() bool {
	return c.AppSecret == defaultSecret
}

// IsProduction 是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}
