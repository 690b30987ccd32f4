package main

import (
	"log/slog"
	"time"
)

type apiConfig struct {
	Port            uint16        `env:"API_PORT" envDefault:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"INFO"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// Optional export target. When empty the service runs purely in memory.
	PostgresDSN string `env:"PG_DSN" envDefault:""`
}
