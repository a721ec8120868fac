// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"strings"

	"catalogbench/pkg/database"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds every setting the benchmark reads.
type Config struct {
	AppEnv string

	MongoURI        string `validate:"required"`
	MongoDB         string `validate:"required"`
	MongoCollection string `validate:"required"`

	Postgres database.PostgresConfig

	Records    int    `validate:"gte=0"`
	DeleteMode string `validate:"oneof=hard soft"`

	ExportDir       string `validate:"required"`
	MongoExportFile string `validate:"required"`
	ExportXLSX      bool
	XLSXExportFile  string

	RabbitMQURL   string
	RabbitMQQueue string

	ServeAddr        string
	APIJWTSecret     string
	APIRunsPerMinute int `validate:"gte=1"`
}

// Load reads .env if present, then the environment, applying defaults.
func Load() (*Config, error) {
	// A missing .env is fine; variables may come from the environment.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	// viper's GetInt and GetBool read a malformed value as zero.
	records, err := getInt(v, "RECORDS")
	if err != nil {
		return nil, err
	}
	runsPerMinute, err := getInt(v, "API_RUNS_PER_MINUTE")
	if err != nil {
		return nil, err
	}
	exportXLSX, err := getBool(v, "EXPORT_XLSX")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppEnv:          v.GetString("APP_ENV"),
		MongoURI:        v.GetString("MONGO_URI"),
		MongoDB:         v.GetString("MONGO_DB"),
		MongoCollection: v.GetString("MONGO_COLLECTION"),
		Postgres: database.PostgresConfig{
			Name:     v.GetString("PG_DB"),
			User:     v.GetString("PG_USER"),
			Password: v.GetString("PG_PASSWORD"),
			Host:     v.GetString("PG_HOST"),
			Port:     v.GetString("PG_PORT"),
			SSLMode:  v.GetString("PG_SSLMODE"),
		},
		Records:          records,
		DeleteMode:       strings.ToLower(strings.TrimSpace(v.GetString("DELETE_MODE"))),
		ExportDir:        v.GetString("EXPORT_DIR"),
		MongoExportFile:  v.GetString("MONGO_EXPORT_FILE"),
		ExportXLSX:       exportXLSX,
		XLSXExportFile:   v.GetString("XLSX_EXPORT_FILE"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQQueue:    v.GetString("RABBITMQ_QUEUE"),
		ServeAddr:        v.GetString("SERVE_ADDR"),
		APIJWTSecret:     v.GetString("API_JWT_SECRET"),
		APIRunsPerMinute: runsPerMinute,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getInt(v *viper.Viper, key string) (int, error) {
	n, err := cast.ToIntE(v.Get(key))
	if err != nil {
		return 0, fmt.Errorf("invalid configuration: %s must be an integer: %w", key, err)
	}
	return n, nil
}

func getBool(v *viper.Viper, key string) (bool, error) {
	b, err := cast.ToBoolE(v.Get(key))
	if err != nil {
		return false, fmt.Errorf("invalid configuration: %s must be a boolean: %w", key, err)
	}
	return b, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/")
	v.SetDefault("MONGO_DB", "store")
	v.SetDefault("MONGO_COLLECTION", "products")
	v.SetDefault("PG_DB", "products")
	v.SetDefault("PG_USER", "postgres")
	v.SetDefault("PG_PASSWORD", "")
	v.SetDefault("PG_HOST", "localhost")
	v.SetDefault("PG_PORT", "5432")
	v.SetDefault("PG_SSLMODE", "disable")
	v.SetDefault("RECORDS", 100)
	v.SetDefault("DELETE_MODE", "hard")
	v.SetDefault("EXPORT_DIR", ".")
	v.SetDefault("MONGO_EXPORT_FILE", "mongo_export.json")
	v.SetDefault("EXPORT_XLSX", false)
	v.SetDefault("XLSX_EXPORT_FILE", "postgres_export.xlsx")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "benchmark_reports")
	v.SetDefault("SERVE_ADDR", "")
	v.SetDefault("API_JWT_SECRET", "")
	v.SetDefault("API_RUNS_PER_MINUTE", 6)
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.ServeAddr != "" && c.APIJWTSecret == "" {
		return fmt.Errorf("invalid configuration: API_JWT_SECRET is required when SERVE_ADDR is set")
	}
	return nil
}

// WorkbookFile is the XLSX file name, or empty when the workbook is disabled.
func (c *Config) WorkbookFile() string {
	if !c.ExportXLSX {
		return ""
	}
	return c.XLSXExportFile
}
