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
	JWTSecret            string
	CronSecret           string
	MeetingWebhookSecret string
	MeetingSDKKey        string
	MeetingSDKSecret     string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	CronSecret = GetEnv("CRON_SECRET")
	MeetingWebhookSecret = GetEnv("MEETING_WEBHOOK_SECRET")
	MeetingSDKKey = GetEnv("MEETING_SDK_KEY")
	MeetingSDKSecret = GetEnv("MEETING_SDK_SECRET")

	// Secret wajib — tanpa ini webhook & cron tidak bisa diverifikasi sama sekali
	if MeetingWebhookSecret == "" {
		log.Println("❌ MEETING_WEBHOOK_SECRET belum diset!")
	} else {
		log.Println("✅ MEETING_WEBHOOK_SECRET berhasil dimuat.")
	}
	if CronSecret == "" {
		log.Println("❌ CRON_SECRET belum diset!")
	} else {
		log.Println("✅ CRON_SECRET berhasil dimuat.")
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
// BUSINESS CONFIG ENGINE
// =======================
// Konstanta bisnis dibuat konfigurasi (bukan literal): minggu gratis &
// persentase fee platform bisa berubah tanpa deploy ulang.

func FreeTrialDays() int {
	return GetEnvInt("FREE_TRIAL_DAYS", 7)
}

func PlatformFeePercent() int {
	return GetEnvInt("PLATFORM_FEE_PERCENT", 20)
}

func DefaultTimezone() string {
	return GetEnv("DEFAULT_TIMEZONE", "Asia/Jakarta")
}

// Location: *time.Location dari DEFAULT_TIMEZONE. Fallback WIB kalau tzdata
// tidak tersedia di image runtime.
func Location() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone())
	if err != nil {
		return time.FixedZone("WIB", 7*3600)
	}
	return loc
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
