package config

import "os"

type Config struct {
	ApiPort      string
	DBPath       string
	BlobRoot     string
	WebhookURL   string
	WebhookToken string
}

// Load reads the configuration from the environment. Called after the .env
// file has been loaded so values from it are picked up.
func Load() Config {
	return Config{
		ApiPort:      GetEnv("API_PORT", "8080"),
		DBPath:       GetEnv("DB_PATH", "./platform.db"),
		BlobRoot:     GetEnv("BLOB_ROOT", "./blobs"),
		WebhookURL:   GetEnv("TASK_WEBHOOK_URL", ""),
		WebhookToken: GetEnv("TASK_WEBHOOK_TOKEN", ""),
	}
}

// GetEnv returns the value of the environment variable or a default value
func GetEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
