package configs

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var (
	JWTSecret       string
	UpstreamBaseURL string
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
		log.Println("🚀 Running on Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	UpstreamBaseURL = strings.TrimRight(GetEnv("UPSTREAM_BASE_URL"), "/")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set, admin routes will reject every request")
	}
	if UpstreamBaseURL == "" {
		log.Println("⚠️ UPSTREAM_BASE_URL is not set, every request will be served from mirror/seed data")
	}
}

func GetEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetEnvOr(key, def string) string {
	if v := GetEnv(key); v != "" {
		return v
	}
	return def
}
