package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	RefDBEnabled   bool
	RefDBPath      string
	RefDBTimeoutMs int

	Circuito         string
	LogLevel         string
	ReviewExport     bool
	ObligatoryFields bool
	InServiceYearMin int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "cargue.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		RefDBEnabled:   getEnvBool("REFDB_ENABLED", true),
		RefDBPath:      getEnv("REFDB_PATH", filepath.Join(cwd, "data", "refdb.db")),
		RefDBTimeoutMs: getEnvInt("REFDB_TIMEOUT_MS", 5000),

		Circuito:         getEnv("CIRCUITO", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		ReviewExport:     getEnvBool("REVIEW_EXPORT", true),
		ObligatoryFields: getEnvBool("OBLIGATORY_FIELDS", true),
		InServiceYearMin: getEnvInt("IN_SERVICE_YEAR_MIN", 1900),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
