package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	batchModel "absenku_backend/internals/features/attendance/batch/model"
	recordModel "absenku_backend/internals/features/attendance/record/model"
	userModel "absenku_backend/internals/features/users/user/model"
)

var DB *gorm.DB

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// DSN lengkap, dipakai juga oleh pq.Listener (LISTEN/NOTIFY)
func DSN() string {
	sslmode := getenv("DB_SSLMODE", "require")
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=absenku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)
}

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  DSN(),
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

// TunePool: atur pool koneksi sesuai beban kecil-menengah
func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("⚠️ Gagal ambil sql.DB: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
}

func Migrate() {
	if err := DB.AutoMigrate(
		&userModel.UserModel{},
		&recordModel.TimeRecordModel{},
		&batchModel.BatchSyncLogModel{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate gagal: %v", err)
	}
}

// WarmUpQueries: sentuh tabel utama supaya plan cache & koneksi siap
func WarmUpQueries() {
	var n int64
	if err := DB.Table("time_records").Count(&n).Error; err != nil {
		log.Printf("⚠️ Warm-up time_records gagal: %v", err)
		return
	}
	log.Printf("🔥 Warm-up OK (time_records=%d)", n)
}
