package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"flat_watch/internal/model"
)

// configEnvVars lists every variable Load reads, so tests start from a
// clean environment regardless of the host shell.
var configEnvVars = []string{
	"DATABASE_PATH", "LOG_LEVEL", "SOURCES", "CHECK_INTERVAL_MINUTES",
	"SMTP_HOST", "SMTP_PORT", "EMAIL_FROM", "EMAIL_PASSWORD", "EMAIL_TO",
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	"MAX_PRICE_PER_M2", "MIN_AREA", "MAX_AREA", "MIN_ROOMS", "MAX_ROOMS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := &Config{
		DatabasePath: "./data/flat_watch.db",
		LogLevel:     "info",
		Sources:      []string{"otodom", "olx"},
		SMTPHost:     "smtp.gmail.com",
		SMTPPort:     465,
		Criteria: model.SearchCriteria{
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
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_PATH", "/tmp/test.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SOURCES", "Otodom")
	t.Setenv("CHECK_INTERVAL_MINUTES", "60")
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("EMAIL_FROM", "watcher@example.com")
	t.Setenv("EMAIL_PASSWORD", "secret")
	t.Setenv("EMAIL_TO", "me@example.com")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token123")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")
	t.Setenv("MAX_PRICE_PER_M2", "13500")
	t.Setenv("MIN_AREA", "40")
	t.Setenv("MAX_AREA", "70")
	t.Setenv("MIN_ROOMS", "3")
	t.Setenv("MAX_ROOMS", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DatabasePath != "/tmp/test.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if diff := cmp.Diff([]string{"otodom"}, cfg.Sources); diff != "" {
		t.Errorf("Sources mismatch (-want +got):\n%s", diff)
	}
	if cfg.IntervalMinutes != 60 {
		t.Errorf("IntervalMinutes = %d", cfg.IntervalMinutes)
	}
	if cfg.SMTPHost != "mail.example.com" || cfg.SMTPPort != 587 {
		t.Errorf("SMTP = %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
	if cfg.TelegramChatID != -100200300 {
		t.Errorf("TelegramChatID = %d", cfg.TelegramChatID)
	}

	wantCriteria := model.SearchCriteria{
		Location:      "wroclaw",
		MaxPricePerM2: 13500,
		MinArea:       40,
		MaxArea:       70,
		MinRooms:      3,
		MaxRooms:      4,
		RequiredAmenities: []model.Amenity{
			model.AmenityElevator,
			model.AmenityBalcony,
		},
		PageLimit: 72,
	}
	if diff := cmp.Diff(wantCriteria, cfg.Criteria); diff != "" {
		t.Errorf("Criteria mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "unknown source",
			env:  map[string]string{"SOURCES": "otodom,gumtree"},
		},
		{
			name: "sources set but empty",
			env:  map[string]string{"SOURCES": " , "},
		},
		{
			name: "negative interval",
			env:  map[string]string{"CHECK_INTERVAL_MINUTES": "-5"},
		},
		{
			name: "interval not a number",
			env:  map[string]string{"CHECK_INTERVAL_MINUTES": "hourly"},
		},
		{
			name: "smtp port not a number",
			env:  map[string]string{"SMTP_PORT": "ssl"},
		},
		{
			name: "email from without to",
			env:  map[string]string{"EMAIL_FROM": "watcher@example.com"},
		},
		{
			name: "telegram token without chat id",
			env:  map[string]string{"TELEGRAM_BOT_TOKEN": "token123"},
		},
		{
			name: "telegram chat id not a number",
			env: map[string]string{
				"TELEGRAM_BOT_TOKEN": "token123",
				"TELEGRAM_CHAT_ID":   "group",
			},
		},
		{
			name: "price cap not a number",
			env:  map[string]string{"MAX_PRICE_PER_M2": "cheap"},
		},
		{
			name: "min area above max",
			env:  map[string]string{"MIN_AREA": "80", "MAX_AREA": "60"},
		},
		{
			name: "min rooms above max",
			env:  map[string]string{"MIN_ROOMS": "4", "MAX_ROOMS": "2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load should fail")
			}
		})
	}
}
