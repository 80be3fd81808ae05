package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string

	// Хранилище
	DataBackend  string
	SQLiteDBPath string
	DatabaseURL  string
	SupabaseURL  string
	SupabaseKey  string

	// События
	AMQPURL      string
	AMQPExchange string

	MetricsAddr string
	BotWorkers  int
	ListLimit   int
	Location    *time.Location
	LogLevel    string
}

// LoadConfig читает .env (если он есть) и переменные окружения
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv собирает конфигурацию из окружения без проверки
func FromEnv() (*Config, error) {
	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	return &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/walriust.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SupabaseURL:  os.Getenv("SUPABASE_URL"),
		SupabaseKey:  os.Getenv("SUPABASE_KEY"),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "walriust"),

		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
		BotWorkers:  getEnvInt("BOT_WORKERS", 8),
		ListLimit:   getEnvInt("LIST_LIMIT", 20),
		Location:    loc,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Validate проверяет конфигурацию и возвращает все найденные ошибки разом
func (c *Config) Validate() error {
	var problems []string

	if c.TelegramToken == "" {
		problems = append(problems, "TELEGRAM_TOKEN is required")
	}

	switch c.DataBackend {
	case "memory":
	case "sqlite":
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLITE_DB_PATH cannot be empty when using sqlite backend")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when using postgres backend")
		}
	case "supabase":
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			problems = append(problems, "SUPABASE_URL and SUPABASE_KEY are required when using supabase backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of [memory sqlite postgres supabase]", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP_EXCHANGE cannot be empty when AMQP_URL is provided")
		}
	}

	if c.BotWorkers < 1 || c.BotWorkers > 1024 {
		problems = append(problems, fmt.Sprintf("invalid BOT_WORKERS %d: must be between 1 and 1024", c.BotWorkers))
	}
	if c.ListLimit < 1 || c.ListLimit > 100 {
		problems = append(problems, fmt.Sprintf("invalid LIST_LIMIT %d: must be between 1 and 100", c.ListLimit))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
