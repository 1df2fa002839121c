package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret   string
	ServerURL   string
	ServerEmail string

	// CodeLetters are used by the secret-id codec in participant and
	// responsible links. Changing them invalidates all previously sent links.
	CodeLetters string

	AuthKeyExpireDays int
	AuthStoreKeys     int

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	CORSAllowOrigins string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[WARN] no .env file found, using system environment")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	ServerURL = GetEnv("SERVER_URL", "http://localhost:3000")
	ServerEmail = GetEnv("SERVER_EMAIL", "noreply@serviceform.local")
	CodeLetters = GetEnv("CODE_LETTERS", "xiuql")

	AuthKeyExpireDays = GetEnvInt("AUTH_KEY_EXPIRE_DAYS", 90)
	AuthStoreKeys = GetEnvInt("AUTH_STORE_KEYS", 10)

	SMTPHost = GetEnv("SMTP_HOST", "localhost")
	SMTPPort = GetEnvInt("SMTP_PORT", 25)
	SMTPUser = GetEnv("SMTP_USER")
	SMTPPassword = GetEnv("SMTP_PASSWORD")

	CORSAllowOrigins = GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")

	if JWTSecret == "" {
		log.Println("[ERROR] JWT_SECRET is not set")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[INFO] "+msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[WARN] "+msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[ERROR] "+msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	if err != nil {
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	} else if elapsed > l.SlowThreshold {
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
