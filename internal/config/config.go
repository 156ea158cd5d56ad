// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"flat_watch/internal/model"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath    string
	LogLevel        string
	Sources         []string
	IntervalMinutes int

	SMTPHost      string
	SMTPPort      int
	EmailFrom     string
	EmailPassword string
	EmailTo       string

	TelegramToken  string
	TelegramChatID int64

	Criteria model.SearchCriteria
}

var knownSources = map[string]bool{
	"otodom": true,
	"olx":    true,
}

// defaultCriteria is the fixed search: a 2–3 room apartment in Wrocław,
// 35–55 m², at most 12 000 zł/m², with elevator and balcony. Floor
// position is reviewed manually from the summary.
func defaultCriteria() model.SearchCriteria {
	return model.SearchCriteria{
		Location:      "wroclaw",
		MaxPricePerM2: 12000,
		MinArea:       35,
		MaxArea:       55,
		MinRooms:      2,
		MaxRooms:      3,
		RequiredAmenities: []model.Amenity{
			model.AmenityElevator,
			model.AmenityBalcony,
		},
		PageLimit: 72,
	}
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath: "./data/flat_watch.db",
		LogLevel:     "info",
		Sources:      []string{"otodom", "olx"},
		SMTPHost:     "smtp.gmail.com",
		SMTPPort:     465,
		Criteria:     defaultCriteria(),
	}

	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if raw := os.Getenv("SOURCES"); raw != "" {
		var sources []string
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(strings.ToLower(s))
			if s == "" {
				continue
			}
			if !knownSources[s] {
				return nil, fmt.Errorf("unknown source %q in SOURCES", s)
			}
			sources = append(sources, s)
		}
		if len(sources) == 0 {
			return nil, fmt.Errorf("SOURCES is set but names no source")
		}
		cfg.Sources = sources
	}

	if err := intEnv("CHECK_INTERVAL_MINUTES", &cfg.IntervalMinutes); err != nil {
		return nil, err
	}
	if cfg.IntervalMinutes < 0 {
		return nil, fmt.Errorf("CHECK_INTERVAL_MINUTES must not be negative")
	}

	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.SMTPHost = v
	}
	if err := intEnv("SMTP_PORT", &cfg.SMTPPort); err != nil {
		return nil, err
	}
	cfg.EmailFrom = os.Getenv("EMAIL_FROM")
	cfg.EmailPassword = os.Getenv("EMAIL_PASSWORD")
	cfg.EmailTo = os.Getenv("EMAIL_TO")
	if cfg.EmailFrom != "" && cfg.EmailTo == "" {
		return nil, fmt.Errorf("EMAIL_TO is required when EMAIL_FROM is set")
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", v, err)
		}
		cfg.TelegramChatID = id
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	if err := floatEnv("MAX_PRICE_PER_M2", &cfg.Criteria.MaxPricePerM2); err != nil {
		return nil, err
	}
	if err := floatEnv("MIN_AREA", &cfg.Criteria.MinArea); err != nil {
		return nil, err
	}
	if err := floatEnv("MAX_AREA", &cfg.Criteria.MaxArea); err != nil {
		return nil, err
	}
	if err := intEnv("MIN_ROOMS", &cfg.Criteria.MinRooms); err != nil {
		return nil, err
	}
	if err := intEnv("MAX_ROOMS", &cfg.Criteria.MaxRooms); err != nil {
		return nil, err
	}
	if cfg.Criteria.MinArea > cfg.Criteria.MaxArea {
		return nil, fmt.Errorf("MIN_AREA must not exceed MAX_AREA")
	}
	if cfg.Criteria.MinRooms > cfg.Criteria.MaxRooms {
		return nil, fmt.Errorf("MIN_ROOMS must not exceed MAX_ROOMS")
	}

	return cfg, nil
}

func intEnv(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func floatEnv(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = f
	return nil
}
