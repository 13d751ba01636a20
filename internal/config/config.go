// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"ledger/internal/logger"
	"ledger/internal/models"
)

// Store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration
type Config struct {
	// Server
	Env        string
	Port       string
	CORSOrigin string

	// Store
	DBDriver        string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	SQLitePath      string
	MigrationsPath  string

	// Type vocabulary
	TypeVocabulary string
	IncomeType     string
	ExpenseType    string

	// Change events
	AMQPURL      string
	AMQPExchange string
}

// Load loads configuration from a .env file, if present, and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Get().Debugw(".env file not loaded", "error", err)
	}

	cfg := &Config{
		Env:        getEnv("ENV", "development"),
		Port:       getEnv("PORT", "3000"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:4200"),

		DBDriver:        strings.ToLower(getEnv("DB_DRIVER", DriverMongo)),
		MongoURI:        getEnv("MONGODB_URI", ""),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "ledger"),
		MongoCollection: getEnv("MONGODB_COLLECTION", "transactions"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "ledger"),
		DBPassword:      getEnv("DB_PASSWORD", "ledger"),
		DBName:          getEnv("DB_NAME", "ledger"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		SQLitePath:      getEnv("SQLITE_PATH", "ledger.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),

		TypeVocabulary: getEnv("TYPE_VOCABULARY", models.VocabularyReceita.Name),
		IncomeType:     getEnv("INCOME_TYPE", ""),
		ExpenseType:    getEnv("EXPENSE_TYPE", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ledger.events"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %q", c.Port))
	}

	switch c.DBDriver {
	case DriverMongo, DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be one of %s, %s, %s; got %q", DriverMongo, DriverPostgres, DriverSQLite, c.DBDriver))
	}

	if _, err := c.Vocabulary(); err != nil {
		errs = append(errs, err)
	}

	if c.AMQPURL != "" {
		u, err := url.Parse(c.AMQPURL)
		if err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
			errs = append(errs, errors.New("AMQP_URL must use the amqp or amqps scheme"))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, errors.New("AMQP_EXCHANGE is required when AMQP_URL is set"))
		}
	}

	return errors.Join(errs...)
}

// Vocabulary resolves the configured type vocabulary. An explicit
// INCOME_TYPE/EXPENSE_TYPE pair overrides TYPE_VOCABULARY.
func (c *Config) Vocabulary() (models.TypeVocabulary, error) {
	if c.IncomeType != "" || c.ExpenseType != "" {
		v, err := models.CustomVocabulary(c.IncomeType, c.ExpenseType)
		if err != nil {
			return models.TypeVocabulary{}, fmt.Errorf("INCOME_TYPE/EXPENSE_TYPE: %w", err)
		}
		return v, nil
	}
	v, err := models.LookupVocabulary(c.TypeVocabulary)
	if err != nil {
		return models.TypeVocabulary{}, fmt.Errorf("TYPE_VOCABULARY: %w", err)
	}
	return v, nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
