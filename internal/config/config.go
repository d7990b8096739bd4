package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RMahshie/autoeq/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Storage    storage.Config
	Correction CorrectionConfig
	LogLevel   zerolog.Level
}

// DatabaseConfig holds database configuration. An empty URL disables run history.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// CorrectionConfig holds the default inputs and output of a correction run
type CorrectionConfig struct {
	MeasurementFiles []string
	TargetFile       string
	OutputFile       string
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "dev")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("STORAGE_BACKEND", storage.BackendLocal)
	viper.SetDefault("STORAGE_DIR", ".")
	viper.SetDefault("S3_BUCKET", "autoeq")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_ACCESS_KEY_ID", "")
	viper.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("MEASUREMENT_FILES", "spectrum1.txt,spectrum2.txt")
	viper.SetDefault("TARGET_FILE", "target.txt")
	viper.SetDefault("OUTPUT_FILE", "autoeq.csv")

	// Environment variables override .env file values
	viper.AutomaticEnv()

	for _, key := range []string{
		"DATABASE_URL", "PORT", "ENVIRONMENT", "LOG_LEVEL", "ALLOWED_ORIGINS",
		"STORAGE_BACKEND", "STORAGE_DIR", "S3_BUCKET", "S3_ENDPOINT",
		"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "MINIO_USE_SSL",
		"MEASUREMENT_FILES", "TARGET_FILE", "OUTPUT_FILE",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	// Try to read .env file for the current environment
	env := viper.GetString("ENVIRONMENT")
	viper.SetConfigName(".env." + env)
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read .env.%s: %w", env, err)
		}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("LOG_LEVEL")))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	var config Config
	config.LogLevel = level
	config.Database.URL = viper.GetString("DATABASE_URL")
	config.Server.Port = viper.GetString("PORT")
	config.Server.Env = env
	config.Server.AllowedOrigins = splitList(viper.GetString("ALLOWED_ORIGINS"))
	config.Storage = storage.Config{
		Backend:   strings.ToLower(viper.GetString("STORAGE_BACKEND")),
		Dir:       viper.GetString("STORAGE_DIR"),
		Bucket:    viper.GetString("S3_BUCKET"),
		Endpoint:  viper.GetString("S3_ENDPOINT"),
		Region:    viper.GetString("AWS_REGION"),
		AccessKey: viper.GetString("AWS_ACCESS_KEY_ID"),
		SecretKey: viper.GetString("AWS_SECRET_ACCESS_KEY"),
		UseSSL:    viper.GetBool("MINIO_USE_SSL"),
	}
	config.Correction.MeasurementFiles = splitList(viper.GetString("MEASUREMENT_FILES"))
	config.Correction.TargetFile = viper.GetString("TARGET_FILE")
	config.Correction.OutputFile = viper.GetString("OUTPUT_FILE")

	switch config.Storage.Backend {
	case storage.BackendLocal, storage.BackendS3, storage.BackendMinio:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q", config.Storage.Backend)
	}

	log.Debug().
		Str("environment", env).
		Str("storage", config.Storage.Backend).
		Bool("database", config.Database.URL != "").
		Strs("allowed_origins", config.Server.AllowedOrigins).
		Msg("Configuration loaded")

	return &config, nil
}

// splitList splits a comma-separated value, dropping blank entries
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
