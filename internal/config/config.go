package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DBDSN              string
	LogFile            string
	BaseURL            string
	JWTSigningKey      string
	JWTExpirationHours int
	OTPCountryCode     string
	MailgunAPIKey      string
	MailgunDomain      string
	MailgunSender      string
	MailgunSenderName  string
}

func Load() Config {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:               getEnv("PORT", "8082"),
		DBDSN:              getEnv("DB_DSN", "airdee.db"),
		LogFile:            getEnv("LOG_FILE", "./airdee.log"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8082"),
		JWTSigningKey:      getEnv("JWT_SIGNING_KEY", "dev-signing-key-change-me"),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		OTPCountryCode:     getEnv("OTP_COUNTRY_CODE", "+66"),
		MailgunAPIKey:      getEnv("MAILGUN_API_KEY", ""),
		MailgunDomain:      getEnv("MAILGUN_DOMAIN", ""),
		MailgunSender:      getEnv("MAILGUN_SENDER", "no-reply@airdee.test"),
		MailgunSenderName:  getEnv("MAILGUN_SENDER_NAME", "AirDee"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s BASE_URL=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.BaseURL, cfg.LogFile)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
