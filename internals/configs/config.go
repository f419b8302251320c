package configs

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// AppConfig dibaca sekali saat boot; nilai default cocok untuk dev lokal.
type AppConfig struct {
	Port     string
	LogLevel string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBSSLMode  string

	JWTSecret   string
	CorsOrigins []string
	RateLimit   int

	RequestTimeout      time.Duration
	NotifyTimeout       time.Duration
	OverdueReminderCron string
	OverdueReminderOn   bool
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			logrus.Warn("no .env file found, using system environment")
		} else {
			logrus.Info(".env file loaded")
		}
	} else {
		logrus.Info("running in Railway, using system environment")
	}
}

// Load membaca ENV ke AppConfig. Panggil setelah LoadEnv.
func Load() AppConfig {
	return AppConfig{
		Port:     GetEnv("PORT", "3000"),
		LogLevel: GetEnv("LOG_LEVEL", "info"),

		DBUser:     GetEnv("DB_USER"),
		DBPassword: GetEnv("DB_PASSWORD"),
		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBName:     GetEnv("DB_NAME"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "require"),

		JWTSecret:   GetEnv("JWT_SECRET"),
		CorsOrigins: GetEnvList("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		RateLimit:   GetEnvInt("RATE_LIMIT_PER_MINUTE", 100),

		RequestTimeout:      GetEnvDuration("REQUEST_TIMEOUT", 5*time.Second),
		NotifyTimeout:       GetEnvDuration("NOTIFY_TIMEOUT", 10*time.Second),
		OverdueReminderCron: GetEnv("OVERDUE_REMINDER_CRON", "0 7 * * *"),
		OverdueReminderOn:   GetEnvBool("OVERDUE_REMINDER_ENABLED", true),
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// GetEnvList memecah nilai dipisah koma; elemen kosong dibuang.
func GetEnvList(key string, def ...string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// GetEnvDuration menerima "5s", "250ms", dst.
func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
