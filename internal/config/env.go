package config

import (
	"os"
	"path/filepath"
	"sync"

	"fjacquet/betterment-ynab/internal/logging"

	"github.com/joho/godotenv"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file in the current or
// parent directory, once per process. Variables already set win.
func LoadEnv(logger logging.Logger) {
	once.Do(func() {
		loadEnvFile(logger, ".env", filepath.Join("..", ".env"))
	})
}

func loadEnvFile(logger logging.Logger, candidates ...string) string {
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file",
				logging.Field{Key: logging.FieldFile, Value: envFile})
			return ""
		}
		logger.Debug("Loaded environment variables",
			logging.Field{Key: logging.FieldFile, Value: envFile})
		return envFile
	}
	logger.Debug("No .env file found, using environment variables")
	return ""
}
