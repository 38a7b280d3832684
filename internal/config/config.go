package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"motifsig/domain/core"
)

// Config represents the complete application configuration
type Config struct {
	Run      RunConfig
	Scanner  ScannerConfig
	Database DatabaseConfig
	Report   ReportConfig
}

// RunConfig holds the Monte-Carlo run settings
type RunConfig struct {
	Trials    int
	Seed      int64
	Strategy  string
	Workers   int
	Window    string
	Pattern   string
	MinRepeat int
	PatWindow int

	// AnalyticP is the externally computed p-value for the observed window,
	// negative when the caller has none.
	AnalyticP float64
}

// ScannerConfig selects the pattern engine
type ScannerConfig struct {
	// Command is the external tool to invoke; empty selects the in-process
	// regexp engine.
	Command string
	Args    []string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ReportConfig holds output settings
type ReportConfig struct {
	ExcelFile string
}

// Load reads configuration from the environment, honoring a .env file when
// one is present, and validates it.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional; real env wins

	config := &Config{
		Run: RunConfig{
			Trials:    getEnvIntOrDefault("TRIALS", 100000),
			Seed:      getEnvInt64OrDefault("SEED", 42),
			Strategy:  getEnvOrDefault("STRATEGY", "resample"),
			Workers:   getEnvIntOrDefault("WORKERS", 1),
			Window:    getEnvOrDefault("WINDOW", ""),
			Pattern:   getEnvOrDefault("PATTERN", ""),
			MinRepeat: getEnvIntOrDefault("MIN_REPEATS", 0),
			PatWindow: getEnvIntOrDefault("PATTERN_WINDOW", 0),
			AnalyticP: getEnvFloatOrDefault("ANALYTIC_P", -1),
		},
		Scanner: ScannerConfig{
			Command: getEnvOrDefault("SCANNER_COMMAND", ""),
			Args:    strings.Fields(getEnvOrDefault("SCANNER_ARGS", "")),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Report: ReportConfig{
			ExcelFile: getEnvOrDefault("REPORT_XLSX", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Run.Trials < 1 {
		return core.NewValidationError("TRIALS", "must be >= 1")
	}
	if config.Run.Workers < 1 {
		return core.NewValidationError("WORKERS", "must be >= 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
