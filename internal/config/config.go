package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
	Host string
}

// GameConfig holds game defaults applied to new sessions.
type GameConfig struct {
	Lang              string
	DefaultDifficulty string
	SuccessDelay      time.Duration
	ErrorDelay        time.Duration
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
		},
		Game: GameConfig{
			Lang:              getEnv("GAME_LANG", "tr"),
			DefaultDifficulty: getEnv("GAME_DIFFICULTY", "medium"),
			SuccessDelay:      getEnvDuration("SUCCESS_DELAY_MS", 2000),
			ErrorDelay:        getEnvDuration("ERROR_DELAY_MS", 1000),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Addr returns the server address in host:port form.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultMillis int) time.Duration {
	millis := defaultMillis
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			millis = parsed
		}
	}
	return time.Duration(millis) * time.Millisecond
}
