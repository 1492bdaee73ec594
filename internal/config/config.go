package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Mailcow  MailcowConfig
	Keys     APIKeys
	Ai       AIConfig
	Quota    QuotaConfig
	Karomah  KaromahConfig
}

type AppConfig struct {
	Port               string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	AppDSN string
	PKLDSN string
}

type AuthConfig struct {
	JWTSecret  string
	CookieName string
}

type SMTPConfig struct {
	Host string
	Port int
}

type MailcowConfig struct {
	APIHost  string
	APIKey   string
	Protocol string
}

type APIKeys struct {
	GeminiAPIKeys string // comma-separated pool
	GroqAPIKey    string
}

type AIConfig struct {
	GeminiModel string
	GroqModel   string
}

type QuotaConfig struct {
	DailyLimit int
	Timezone   string
}

type KaromahConfig struct {
	BaseURL string
	Token   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			AppDSN: getEnv("APP_DB_DSN", ""),
			PKLDSN: getEnv("PKL_DB_DSN", ""),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", "rahasia12345"),
			CookieName: getEnv("AUTH_COOKIE_NAME", "baknus_auth"),
		},
		SMTP: SMTPConfig{
			Host: getEnv("SMTP_HOST", ""),
			Port: getEnvAsInt("SMTP_PORT", 465),
		},
		Mailcow: MailcowConfig{
			APIHost:  getEnv("MAILCOW_API_HOST", ""),
			APIKey:   getEnv("MAILCOW_API_KEY", ""),
			Protocol: getEnv("MAILCOW_PROTOCOL", "https"),
		},
		Keys: APIKeys{
			GeminiAPIKeys: getEnv("GEMINI_API_KEYS", ""),
			GroqAPIKey:    getEnv("GROQ_API_KEY", ""),
		},
		Ai: AIConfig{
			GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			GroqModel:   getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		},
		Quota: QuotaConfig{
			DailyLimit: getEnvAsInt("DAILY_REQUEST_LIMIT", 100),
			Timezone:   getEnv("QUOTA_TIMEZONE", "Asia/Jakarta"),
		},
		Karomah: KaromahConfig{
			BaseURL: getEnv("KAROMAH_API_URL", ""),
			Token:   getEnv("KAROMAH_API_TOKEN", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
