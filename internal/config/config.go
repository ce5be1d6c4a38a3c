package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	JWT       JWTConfig
	OAuth     OAuthConfig
	Providers ProviderConfig
	Gateways  GatewayConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type JWTConfig struct {
	Secret           string
	AccessTTLMinutes int
	RefreshTTLDays   int
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// ProviderConfig holds credentials for the image generation backends.
type ProviderConfig struct {
	Default        string // "openai" or "gemini"
	OpenAIKey      string
	OpenAIURL      string
	GeminiKey      string
	GeminiURL      string
	ImageCost      int
	InitialCredits int
}

// GatewayConfig holds per-gateway payment credentials. Empty secrets keep a
// gateway in sandbox mode.
type GatewayConfig struct {
	KhaltiSecretKey   string
	KhaltiBaseURL     string
	ESewaMerchantCode string
	ESewaBaseURL      string
	StripeSecretKey   string
	RazorpayKeyID     string
	RazorpayKeySecret string
	BinanceAPIKey     string
	MidtransServerKey string
	MidtransEnv       string // "sandbox" or "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "ImageGen"),
		},
		JWT: JWTConfig{
			Secret:           getEnv("JWT_SECRET", ""),
			AccessTTLMinutes: getEnvAsInt("JWT_ACCESS_TTL_MINUTES", 60),
			RefreshTTLDays:   getEnvAsInt("JWT_REFRESH_TTL_DAYS", 30),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		},
		Providers: ProviderConfig{
			Default:        getEnv("IMAGE_PROVIDER", "openai"),
			OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			GeminiKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			GeminiURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			ImageCost:      getEnvAsInt("IMAGE_CREDIT_COST", 1),
			InitialCredits: getEnvAsInt("INITIAL_CREDITS", 3),
		},
		Gateways: GatewayConfig{
			KhaltiSecretKey:   getEnv("KHALTI_SECRET_KEY", ""),
			KhaltiBaseURL:     getEnv("KHALTI_BASE_URL", "https://khalti.com/api/v2"),
			ESewaMerchantCode: getEnv("ESEWA_MERCHANT_CODE", ""),
			ESewaBaseURL:      getEnv("ESEWA_BASE_URL", "https://esewa.com.np"),
			StripeSecretKey:   getEnv("STRIPE_SECRET_KEY", ""),
			RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
			RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
			BinanceAPIKey:     getEnv("BINANCE_API_KEY", ""),
			MidtransServerKey: getEnv("MIDTRANS_SERVER_KEY", ""),
			MidtransEnv:       getEnv("MIDTRANS_ENV", "sandbox"),
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
