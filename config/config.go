package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver    string // postgres or sqlite
	DatabaseURL string

	JWTSecret  string
	SessionTTL time.Duration
	CostAPIKey string

	UploadsDir      string
	BackupDir       string
	BackupRetention time.Duration
	BackupHour      int

	KafkaBrokers     string
	KafkaOrdersTopic string
	RabbitMQURL      string
	RabbitMQQueue    string
	ChannelPoolSize  int

	CORSOrigins []string
}

// LoadConfig reads .env (when present) and then the process environment.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "release"),

		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DatabaseURL: databaseURL(),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		SessionTTL: getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		CostAPIKey: getEnv("COST_API_KEY", ""),

		UploadsDir:      getEnv("UPLOADS_DIR", "./uploads"),
		BackupDir:       getEnv("BACKUP_DIR", "./backup/uploads"),
		BackupRetention: getEnvAsDuration("BACKUP_RETENTION", 4*24*time.Hour),
		BackupHour:      getEnvAsInt("BACKUP_HOUR", 2),

		KafkaBrokers:     getEnv("KAFKA_BROKERS", ""),
		KafkaOrdersTopic: getEnv("KAFKA_ORDERS_TOPIC", "bidaya.orders"),
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQQueue:    getEnv("RABBITMQ_QUEUE", "fulfilment_orders"),
		ChannelPoolSize:  getEnvAsInt("CHANNEL_POOL_SIZE", 10),

		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL or DB_HOST/DB_NAME must be set")
	}
	return nil
}

func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := os.Getenv("DB_HOST")
	name := os.Getenv("DB_NAME")
	if host == "" || name == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), name, getEnv("DB_PORT", "5432"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
