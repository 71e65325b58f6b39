package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BotToken        string
	OMDbAPIKey      string
	TraktClientID   string // пусто — /today и /week отключены
	WatchmodeAPIKey string // пусто — /platform и кнопка «где смотреть» отключены
	Region          string // регион Watchmode, по умолчанию SA
	HTTPAddr        string
	LogLevel        string
	Env             string // dev|prod
	SentryDSN       string

	// Настройки исходящих запросов.
	FetchTimeout   time.Duration
	FetchAttempts  int
	PosterMaxBytes int64
}

func Load() (*Config, error) {
	attempts, err := parsePositiveInt(getenv("FETCH_ATTEMPTS", "3"))
	if err != nil {
		return nil, fmt.Errorf("FETCH_ATTEMPTS: %w", err)
	}
	timeout, err := parseSeconds(getenv("FETCH_TIMEOUT_SEC", "20"))
	if err != nil {
		return nil, fmt.Errorf("FETCH_TIMEOUT_SEC: %w", err)
	}
	posterMax, err := parsePositiveInt(getenv("POSTER_MAX_MB", "5"))
	if err != nil {
		return nil, fmt.Errorf("POSTER_MAX_MB: %w", err)
	}

	cfg := &Config{
		BotToken:        mustEnv("BOT_TOKEN"),
		OMDbAPIKey:      mustEnv("OMDB_API_KEY"),
		TraktClientID:   strings.TrimSpace(os.Getenv("TRAKT_CLIENT_ID")),
		WatchmodeAPIKey: strings.TrimSpace(os.Getenv("WATCHMODE_API_KEY")),
		Region:          normalizeRegion(os.Getenv("REGION")),
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		Env:             getenv("ENV", "dev"),
		SentryDSN:       os.Getenv("SENTRY_DSN"),
		FetchTimeout:    timeout,
		FetchAttempts:   attempts,
		PosterMaxBytes:  int64(posterMax) << 20,
	}
	return cfg, nil
}

func normalizeRegion(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "SA"
	}
	return s
}

func mustEnv(k string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("value %d must be positive", n)
	}
	return n, nil
}

func parseSeconds(s string) (time.Duration, error) {
	n, err := parsePositiveInt(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second, nil
}
