package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"flat_watch/internal/model"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends a plain-text summary to a chat. It is the optional
// secondary channel beside the email summary.
type Telegram struct {
	api    telegramAPI
	chatID int64
	log    *slog.Logger
}

// NewTelegram creates a Telegram sender from a bot token.
func NewTelegram(token string, chatID int64, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Telegram{api: api, chatID: chatID, log: log}, nil
}

func newTelegramWithAPI(api telegramAPI, chatID int64, log *slog.Logger) *Telegram {
	return &Telegram{api: api, chatID: chatID, log: log}
}

// SendSummary sends the formatted summary message.
func (t *Telegram) SendSummary(_ context.Context, listings []model.Listing) error {
	msg := tgbotapi.NewMessage(t.chatID, FormatSummary(listings))
	msg.DisableWebPagePreview = true
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	t.log.Info("telegram summary sent", "chat_id", t.chatID, "listings", len(listings))
	return nil
}
