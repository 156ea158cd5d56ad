package notify

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"flat_watch/internal/model"
)

var (
	_ Sender = (*Mailer)(nil)
	_ Sender = (*Telegram)(nil)
	_ Sender = (*Tee)(nil)
)

type stubSender struct {
	err   error
	calls int
}

func (s *stubSender) SendSummary(_ context.Context, _ []model.Listing) error {
	s.calls++
	return s.err
}

func TestTeeSendSummary(t *testing.T) {
	primary := &stubSender{}
	secondary := &stubSender{}
	tee := NewTee(primary, secondary, testLogger())

	if err := tee.SendSummary(context.Background(), sampleListings()); err != nil {
		t.Fatalf("SendSummary: %v", err)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("calls = primary %d, secondary %d, want 1 each", primary.calls, secondary.calls)
	}
}

func TestTeePrimaryFailure(t *testing.T) {
	wantErr := errors.New("smtp down")
	primary := &stubSender{err: wantErr}
	secondary := &stubSender{}
	tee := NewTee(primary, secondary, testLogger())

	err := tee.SendSummary(context.Background(), sampleListings())
	if !errors.Is(err, wantErr) {
		t.Fatalf("SendSummary error = %v, want %v", err, wantErr)
	}
	if secondary.calls != 0 {
		t.Error("secondary should not be tried after a primary failure")
	}
}

func TestTeeSecondaryFailure(t *testing.T) {
	primary := &stubSender{}
	secondary := &stubSender{err: errors.New("telegram down")}
	tee := NewTee(primary, secondary, testLogger())

	// A secondary failure is logged, not surfaced.
	if err := tee.SendSummary(context.Background(), sampleListings()); err != nil {
		t.Errorf("SendSummary = %v, want nil", err)
	}
}

func TestTeeNoSecondary(t *testing.T) {
	primary := &stubSender{}
	tee := NewTee(primary, nil, testLogger())

	if err := tee.SendSummary(context.Background(), sampleListings()); err != nil {
		t.Errorf("SendSummary = %v, want nil", err)
	}
	if primary.calls != 1 {
		t.Errorf("primary calls = %d, want 1", primary.calls)
	}
}

type stubTelegramAPI struct {
	err  error
	sent []tgbotapi.Chattable
}

func (s *stubTelegramAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, s.err
}

func TestTelegramSendSummary(t *testing.T) {
	api := &stubTelegramAPI{}
	tg := newTelegramWithAPI(api, 42, testLogger())

	if err := tg.SendSummary(context.Background(), sampleListings()); err != nil {
		t.Fatalf("SendSummary: %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(api.sent))
	}

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("sent %T, want tgbotapi.MessageConfig", api.sent[0])
	}
	if msg.ChatID != 42 {
		t.Errorf("ChatID = %d, want 42", msg.ChatID)
	}
	if !msg.DisableWebPagePreview {
		t.Error("web page previews should be disabled")
	}
	if msg.Text != FormatSummary(sampleListings()) {
		t.Errorf("unexpected message text:\n%s", msg.Text)
	}
}

func TestTelegramSendError(t *testing.T) {
	api := &stubTelegramAPI{err: errors.New("bad token")}
	tg := newTelegramWithAPI(api, 42, testLogger())

	if err := tg.SendSummary(context.Background(), sampleListings()); err == nil {
		t.Fatal("SendSummary should surface an API error")
	}
}
