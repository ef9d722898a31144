package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	TelegramToken     string // empty disables the bot
	AdminTelegramID   int64
	ManagerTelegramID int64 // 0 disables the digest
	LogLevel          string
	Environment       string
	HTTPAddr          string // empty disables the HTTP API
	GradingPerPage    int
	GradingScreenURL  string
	LearnerRole       string
	CronSpecDigest    string
}

// BotEnabled reports whether a Telegram token was configured.
func (c *AppConfig) BotEnabled() bool {
	return c.TelegramToken != ""
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load does not override variables already set.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.BotEnabled() {
		adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
		if adminIDStr == "" {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
		}
		cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	if managerIDStr := os.Getenv("MANAGER_TELEGRAM_ID"); managerIDStr != "" {
		cfg.ManagerTelegramID, err = strconv.ParseInt(managerIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MANAGER_TELEGRAM_ID: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	var ok bool
	cfg.HTTPAddr, ok = os.LookupEnv("HTTP_ADDR")
	if !ok {
		cfg.HTTPAddr = ":8080"
	}

	if cfg.GradingPerPage, err = intEnv("GRADING_PER_PAGE", 20); err != nil {
		return nil, err
	}
	if cfg.GradingPerPage < 1 || cfg.GradingPerPage > 100 {
		return nil, fmt.Errorf("GRADING_PER_PAGE must be between 1 and 100, got %d", cfg.GradingPerPage)
	}

	cfg.GradingScreenURL = os.Getenv("GRADING_SCREEN_URL")
	if cfg.GradingScreenURL == "" {
		cfg.GradingScreenURL = "/admin/grading"
	}

	cfg.LearnerRole = strings.TrimSpace(os.Getenv("LEARNER_ROLE"))

	cfg.CronSpecDigest = os.Getenv("CRON_SPEC_DIGEST")
	if cfg.CronSpecDigest == "" {
		cfg.CronSpecDigest = "0 9 * * 1-5" // 9 AM on weekdays
	}

	if cfg.DBMaxOpenConns, err = intEnv("DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = intEnv("DB_MAX_IDLE_CONNS", 25); err != nil {
		return nil, err
	}

	return cfg, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
