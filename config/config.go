package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                 string
	LocalDatabaseURL    string
	FirebaseCredentials string
	PlannerBaseURL      string
	PlannerTimeoutSecs  int
}

// Load reads configuration from the environment, picking up a .env file
// when one is present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:                 getEnv("APP_ENV", "development"),
		LocalDatabaseURL:    getEnv("LOCAL_DATABASE_URL", "goalpath.db"),
		FirebaseCredentials: getEnv("FIREBASE_SERVICE_ACCOUNT", ""),
		PlannerBaseURL:      getEnv("PLANNER_BASE_URL", "http://localhost:3000"),
		PlannerTimeoutSecs:  getEnvInt("PLANNER_TIMEOUT_SECONDS", 120),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
