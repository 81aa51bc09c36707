package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
	TicketSecret     string
	GoogleClientID   string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	StorageDriver string
	AdminEmail    string
	AdminPassword string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")

	// ticket credentials fall back to the access token secret
	TicketSecret = GetEnv("TICKET_SECRET", JWTSecret)

	AccessTokenTTL = GetDuration("ACCESS_TOKEN_TTL", 24*time.Hour)
	RefreshTokenTTL = GetDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour)

	StorageDriver = strings.ToLower(GetEnv("STORAGE_DRIVER", "local"))
	AdminEmail = GetEnv("ADMIN_EMAIL", "admin@afrikticket.com")
	AdminPassword = GetEnv("ADMIN_PASSWORD")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	} else {
		log.Println("✅ JWT_SECRET loaded.")
	}

	if JWTRefreshSecret == "" {
		log.Println("❌ JWT_REFRESH_SECRET is not set!")
	} else {
		log.Println("✅ JWT_REFRESH_SECRET loaded.")
	}

	if GoogleClientID == "" {
		log.Println("⚠️ GOOGLE_CLIENT_ID is not set, Google login disabled")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// GetDuration accepts Go durations ("15m") or plain seconds ("900").
func GetDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(GetEnv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	log.Printf("⚠️ invalid duration for %s=%q, using %s", key, raw, def)
	return def
}

func GetInt(key string, def int) int {
	raw := strings.TrimSpace(GetEnv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️ invalid int for %s=%q, using %d", key, raw, def)
		return def
	}
	return n
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	switch strings.ToLower(GetEnv("DB_LOG_LEVEL")) {
	case "info":
		level = gormLogger.Info
	case "error":
		level = gormLogger.Error
	case "silent":
		level = gormLogger.Silent
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
