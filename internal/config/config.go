package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vkhromov/retail_orders/internal/models"
)

type Config struct {
	HTTP_ADDR       string
	DB_HOST         string
	DB_PORT         string
	DB_USER         string
	DB_PASSWORD     string
	DB_NAME         string
	ES_URL          string
	ES_USER         string
	ES_PASSWORD     string
	JWT_SECRET      string
	KAFKA_ADDRESS   string
	SMTP_HOST       string
	SMTP_PORT       string
	SMTP_USER       string
	SMTP_PASSWORD   string
	EMAIL_HOST_USER string
	LOG_LEVEL       string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		HTTP_ADDR:       getEnv("HTTP_ADDR", ":8080"),
		DB_HOST:         os.Getenv("DB_HOST"),
		DB_PORT:         getEnv("DB_PORT", "5432"),
		DB_USER:         os.Getenv("DB_USER"),
		DB_PASSWORD:     os.Getenv("DB_PASSWORD"),
		DB_NAME:         os.Getenv("DB_NAME"),
		ES_URL:          os.Getenv("ES_URL"),
		ES_USER:         os.Getenv("ES_USER"),
		ES_PASSWORD:     os.Getenv("ES_PASSWORD"),
		JWT_SECRET:      os.Getenv("JWT_SECRET"),
		KAFKA_ADDRESS:   os.Getenv("KAFKA_ADDRESS"),
		SMTP_HOST:       os.Getenv("SMTP_HOST"),
		SMTP_PORT:       getEnv("SMTP_PORT", "587"),
		SMTP_USER:       os.Getenv("SMTP_USER"),
		SMTP_PASSWORD:   os.Getenv("SMTP_PASSWORD"),
		EMAIL_HOST_USER: os.Getenv("EMAIL_HOST_USER"),
		LOG_LEVEL:       getEnv("LOG_LEVEL", "info"),
	}

	if config.JWT_SECRET == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return config, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DB_HOST, c.DB_PORT, c.DB_USER, c.DB_PASSWORD, c.DB_NAME,
	)
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
