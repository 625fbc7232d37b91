package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
	GoogleClientID   string
	QRBaseURL        string
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
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")
	QRBaseURL = GetEnvOr("QR_BASE_URL", "https://absenku.app")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	}
	if JWTRefreshSecret == "" {
		log.Println("❌ JWT_REFRESH_SECRET belum diset!")
	}
	if GoogleClientID == "" {
		log.Println("⚠️ GOOGLE_CLIENT_ID belum diset, login Google dimatikan")
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvOr: ambil ENV dengan fallback default
func GetEnvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
