package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"afrikticket_backend/internals/configs"
)

var DB *gorm.DB

func BuildDSN() string {
	if url := configs.GetEnv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=afrikticket&options=-c statement_timeout=%s",
		configs.GetEnv("DB_USER"),
		configs.GetEnv("DB_PASSWORD"),
		configs.GetEnv("DB_HOST", "localhost"),
		configs.GetEnv("DB_PORT", "5432"),
		configs.GetEnv("DB_NAME"),
		configs.GetEnv("DB_SSLMODE", "require"),
		configs.GetEnv("DB_STATEMENT_TIMEOUT_MS", "3000"),
	)
}

func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer (transaction pooling) friendly
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
}

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")
	db, err := Open(BuildDSN())
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(configs.GetInt("DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(configs.GetInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := Ping(ctx, DB); err != nil {
			log.Printf("warm-up ping err: %v", err)
			return
		}
		// most frequent public query
		DB.WithContext(ctx).Exec("SELECT 1 FROM events WHERE event_status = 'active' LIMIT 1")
	}()
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
