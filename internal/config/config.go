package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabaseDriver    string
	DatabasePath      string
	DatabaseDSN       string
	SessionSecret     string
	JWTSecret         string
	JWTExpiresIn      time.Duration
	GinMode           string
	LogMode           string
	CORSOrigins       []string
	Location          *time.Location
	TipsRecentCount   int
	TipsWindowDays    int
	StreakMaxRetries  int
	SuperRootUserName string
	SuperRootEmail    string
	SuperRootPassword string
}

// Load 先尝试读取当前目录的 .env，再从环境变量读取应用配置，并为缺失项提供默认值。
// TIMEZONE 无法识别时返回错误，不回退到本地时区。
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	port := env("PORT", "8000")

	listenAddr := env("LISTEN_ADDR", "")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	driver := strings.ToLower(env("DATABASE_DRIVER", "sqlite"))
	if driver != "postgres" {
		driver = "sqlite"
	}

	location := time.Local
	if name := env("TIMEZONE", ""); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return AppConfig{}, fmt.Errorf("invalid TIMEZONE %q: %w", name, err)
		}
		location = loc
	}

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabaseDriver:    driver,
		DatabasePath:      env("DATABASE_PATH", "carbonlog.db"),
		DatabaseDSN:       env("DATABASE_DSN", ""),
		SessionSecret:     env("SESSION_SECRET", "carbonlog-dev-secret"),
		JWTSecret:         env("JWT_SECRET", "default_secret"),
		JWTExpiresIn:      parseExpiry(env("JWT_EXPIRES_IN", "1d"), 24*time.Hour),
		GinMode:           env("GIN_MODE", "release"),
		LogMode:           env("LOG_MODE", "development"),
		CORSOrigins:       splitList(env("CORS_ORIGINS", "http://localhost:5173")),
		Location:          location,
		TipsRecentCount:   envInt("TIPS_RECENT_COUNT", 10),
		TipsWindowDays:    envInt("TIPS_WINDOW_DAYS", 0),
		StreakMaxRetries:  envInt("STREAK_MAX_RETRIES", 3),
		SuperRootUserName: env("SUPER_ROOT_USER_NAME", ""),
		SuperRootEmail:    env("SUPER_ROOT_EMAIL", ""),
		SuperRootPassword: env("SUPER_ROOT_PASSWORD", ""),
	}, nil
}

// DatabaseTarget 返回当前驱动对应的连接串：sqlite 为文件路径，postgres 为 DSN。
func (c AppConfig) DatabaseTarget() string {
	if c.DatabaseDriver == "postgres" {
		return c.DatabaseDSN
	}
	return c.DatabasePath
}

func env(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	value, err := strconv.Atoi(env(key, ""))
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

// parseExpiry 兼容 Go duration（如 12h）以及 jsonwebtoken 风格的天数（如 1d）。
func parseExpiry(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil || days <= 0 {
			return fallback
		}
		return time.Duration(days) * 24 * time.Hour
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
