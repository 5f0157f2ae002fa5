package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ServerConfig holds the HTTP serving and logging settings.
type ServerConfig struct {
	Port      string
	BasePath  string
	LogLevel  string
	LogFormat string
}

func LoadServerConfigFromEnv() (ServerConfig, error) {
	cfg := ServerConfig{
		Port:      getenv("PORT", "8080"),
		BasePath:  getenv("API_BASE_PATH", "/api/v1"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),
	}

	if p, err := strconv.Atoi(cfg.Port); err != nil || p <= 0 || p > 65535 {
		return ServerConfig{}, fmt.Errorf("PORT must be a TCP port number, got %q", cfg.Port)
	}
	if !strings.HasPrefix(cfg.BasePath, "/") {
		return ServerConfig{}, fmt.Errorf("API_BASE_PATH must start with '/', got %q", cfg.BasePath)
	}
	cfg.BasePath = strings.TrimRight(cfg.BasePath, "/")
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return ServerConfig{}, fmt.Errorf("LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
