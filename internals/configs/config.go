package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	OpenAIAPIKey       string
	FrontendURL        string
	UploadDir          string
	MaxUploadSize      int64
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using system ENV")
	} else {
		log.Println("✅ .env file loaded")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")
	GoogleClientSecret = GetEnv("GOOGLE_CLIENT_SECRET")
	GoogleRedirectURI = GetEnv("GOOGLE_REDIRECT_URI")
	OpenAIAPIKey = GetEnv("OPENAI_API_KEY")
	FrontendURL = GetEnv("FRONTEND_URL", "http://localhost:3000")
	UploadDir = GetEnv("UPLOAD_DIR", "uploads")
	MaxUploadSize = getEnvInt64("MAX_FILE_SIZE", 10<<20)

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	}
	if GoogleClientID == "" {
		log.Println("⚠️ GOOGLE_CLIENT_ID is not set, Google login disabled")
	}
	if OpenAIAPIKey == "" {
		log.Println("⚠️ OPENAI_API_KEY is not set, quiz generation will use fallback questions")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}
