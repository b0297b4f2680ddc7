package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Helper function to get environment variable with fallback default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get environment variable as integer with fallback
func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// Config collects every setting the binaries read from the environment.
type Config struct {
	AppPort    string
	AppEnv     string
	LogLevel   string
	DBDriver   string
	DBDSN      string
	StorageKey string
	StagesFile string
	SMTP       SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether a mail relay is configured.
func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

const DefaultStorageKey = "offboardingRequests"

// Load reads .env (if present) and the process environment. The returned
// bool is false when no .env file was found.
func Load() (Config, bool) {
	envLoaded := godotenv.Load() == nil

	driver := GetEnv("DB_DRIVER", "sqlite")
	defaultDSN := "offboarding.db"
	if driver == "mysql" {
		// Format: user:password@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local
		defaultDSN = "root:@tcp(127.0.0.1:3306)/offboarding_db?charset=utf8mb4&parseTime=True&loc=Local"
	}

	cfg := Config{
		AppPort:    GetEnv("APP_PORT", "3000"),
		AppEnv:     GetEnv("APP_ENV", "development"),
		LogLevel:   GetEnv("LOG_LEVEL", "info"),
		DBDriver:   driver,
		DBDSN:      GetEnv("DB_DSN", defaultDSN),
		StorageKey: GetEnv("STORAGE_KEY", DefaultStorageKey),
		StagesFile: GetEnv("STAGES_FILE", ""),
		SMTP: SMTPConfig{
			Host:     GetEnv("SMTP_HOST", ""),
			Port:     GetEnvAsInt("SMTP_PORT", 587),
			User:     GetEnv("SMTP_USER", ""),
			Password: GetEnv("SMTP_PASSWORD", ""),
			From:     GetEnv("MAIL_FROM", "offboarding@localhost"),
		},
	}
	return cfg, envLoaded
}
