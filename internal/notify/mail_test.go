package notify

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRenderSummary(t *testing.T) {
	body, err := RenderSummary(sampleListings(), time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}

	for _, want := range []string{
		"New Apartments in Wrocław (2)",
		"2026-08-30 09:15",
		"Mieszkanie na Krzykach",
		"https://www.otodom.pl/pl/oferta/a1",
		"540 000 zł",
		"12 000 zł/m²",
		"Wrocław, Krzyki",
		"? (check manually)",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("rendered summary missing %q", want)
		}
	}
}

func TestRenderSummaryAssumedAmenities(t *testing.T) {
	listings := sampleListings()
	listings[0].AmenitiesAssumed = true

	body, err := RenderSummary(listings, time.Now())
	if err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	if !strings.Contains(body, "✓ (search filter)") {
		t.Error("assumed amenities should be flagged in the summary")
	}
}

func TestRenderSummaryEscapesHTML(t *testing.T) {
	listings := sampleListings()
	listings[0].Title = `Okazja <script>alert("x")</script>`

	body, err := RenderSummary(listings, time.Now())
	if err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Error("listing title was not escaped")
	}
}

func TestMailerUnconfigured(t *testing.T) {
	m := NewMailer(EmailConfig{}, testLogger())

	// Without credentials the summary is logged, not sent, and the
	// run proceeds.
	if err := m.SendSummary(context.Background(), sampleListings()); err != nil {
		t.Errorf("SendSummary without credentials should not fail, got %v", err)
	}
}

func TestEmailConfigConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  EmailConfig
		want bool
	}{
		{name: "empty", cfg: EmailConfig{}, want: false},
		{name: "from only", cfg: EmailConfig{From: "a@example.com"}, want: false},
		{name: "password only", cfg: EmailConfig{Password: "secret"}, want: false},
		{name: "both", cfg: EmailConfig{From: "a@example.com", Password: "secret"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Configured(); got != tt.want {
				t.Errorf("Configured() = %v, want %v", got, tt.want)
			}
		})
	}
}
