/*
Package config loads service configuration from the environment.

PURPOSE:
  Central place for every tunable: port, database path, log level. A .env
  file is loaded when present so local development needs no exported
  variables; real deployments set the environment directly.

PRECEDENCE:
  1. Real environment variables
  2. .env file values (godotenv does not override existing variables)
  3. Defaults below
*/
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Calendar names a base holiday source implementation.
type Calendar string

const (
	// CalendarOntario is the hand-curated statutory calendar (default).
	CalendarOntario Calendar = "ontario"
	// CalendarBusiness is the rickar/cal-backed national calendar.
	CalendarBusiness Calendar = "business"
)

// Config holds all service settings.
type Config struct {
	Port     int
	DBPath   string
	Calendar Calendar
	LogLevel zerolog.Level
	Pretty   bool
}

// Load reads configuration from .env (if present) and the environment.
func Load() Config {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	return Config{
		Port:     envInt("PORT", 8080),
		DBPath:   envStr("DB_PATH", "schedules.db"),
		Calendar: envCalendar("CALENDAR", CalendarOntario),
		LogLevel: envLevel("LOG_LEVEL", zerolog.InfoLevel),
		Pretty:   envBool("LOG_PRETTY", false),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envCalendar(key string, fallback Calendar) Calendar {
	switch Calendar(os.Getenv(key)) {
	case CalendarOntario:
		return CalendarOntario
	case CalendarBusiness:
		return CalendarBusiness
	default:
		return fallback
	}
}

func envLevel(key string, fallback zerolog.Level) zerolog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	level, err := zerolog.ParseLevel(v)
	if err != nil {
		return fallback
	}
	return level
}
