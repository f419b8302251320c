package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ibuc_backend/internals/configs"
)

var DB *gorm.DB

// NowUTC dipakai sebagai NowFunc gorm: UTC, presisi mikrodetik (sesuai timestamptz).
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// GormConfig dipakai bersama oleh koneksi produksi dan DB test.
func GormConfig(log logrus.FieldLogger) *gorm.Config {
	return &gorm.Config{
		Logger:         configs.NewGormLogger(log),
		NowFunc:        NowUTC,
		TranslateError: true,
	}
}

func ConnectDB(cfg configs.AppConfig, log logrus.FieldLogger) error {
	log.Info("connecting to PostgreSQL")

	// statement_timeout selaras dengan timeout request HTTP
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=ibuc&options=-c statement_timeout=3000",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // cocok untuk PgBouncer (transaction pooling)
	}), GormConfig(log))
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	DB = db
	log.Info("DB connected")
	return nil
}

func TunePool(log logrus.FieldLogger) {
	sqlDB, err := DB.DB()
	if err != nil {
		log.WithError(err).Warn("pool tune failed")
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries(log logrus.FieldLogger) {
	go func() {
		time.Sleep(500 * time.Millisecond) // beri waktu server naik
		if err := Ping(); err != nil {
			log.WithError(err).Warn("warm-up ping failed")
		}
	}()
}

func Ping() error {
	if DB == nil {
		return fmt.Errorf("database not initialised")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
