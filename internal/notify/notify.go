// Package notify delivers summaries of new listings over the
// configured channels.
package notify

import (
	"context"
	"log/slog"

	"flat_watch/internal/model"
)

// Sender delivers a summary of new listings.
type Sender interface {
	SendSummary(ctx context.Context, listings []model.Listing) error
}

// Tee sends through a primary channel and, best-effort, a secondary
// one. Only a primary failure is reported to the caller.
type Tee struct {
	primary   Sender
	secondary Sender
	log       *slog.Logger
}

// NewTee creates a Tee. secondary may be nil.
func NewTee(primary, secondary Sender, log *slog.Logger) *Tee {
	return &Tee{primary: primary, secondary: secondary, log: log}
}

// SendSummary delivers the summary on both channels.
func (t *Tee) SendSummary(ctx context.Context, listings []model.Listing) error {
	if err := t.primary.SendSummary(ctx, listings); err != nil {
		return err
	}
	if t.secondary != nil {
		if err := t.secondary.SendSummary(ctx, listings); err != nil {
			t.log.Error("secondary notification failed", "error", err)
		}
	}
	return nil
}
