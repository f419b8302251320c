// Package testutil menyediakan fixture bersama untuk test package finance.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	database "ibuc_backend/internals/databases"
)

// NewDB membuka SQLite in-memory yang terisolasi per test dan menjalankan migrasi finance.
// Satu koneksi saja: transaksi konkuren antri di pool, mirip serialisasi row lock.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	log, _ := logtest.NewNullLogger()
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(log))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewLogger mengembalikan logger yang tidak menulis ke mana pun plus hook untuk assert entry.
func NewLogger(t *testing.T) (*logrus.Logger, *logtest.Hook) {
	t.Helper()
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return log, hook
}
