package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Dispatcher converts a (user, message) pair into an outbound send. The
// reminder scheduler retries failed sends implicitly on its next scan, so
// implementations should not retry on their own.
type Dispatcher interface {
	Send(ctx context.Context, userID int64, text string) error
}

// TelegramDispatcher sends messages through the Telegram Bot API. The
// underlying HTTP client carries a timeout so one unreachable recipient
// cannot stall a scheduler tick.
type TelegramDispatcher struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramDispatcher wraps an already-authorized bot client
func NewTelegramDispatcher(bot *tgbotapi.BotAPI) *TelegramDispatcher {
	return &TelegramDispatcher{bot: bot}
}

// NewBotAPI authorizes against Telegram with a bounded-timeout HTTP client
func NewBotAPI(token string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize telegram bot: %w", err)
	}

	return bot, nil
}

// Send delivers one plain-text message. The Bot API client does not take a
// context, so cancellation is checked up front and the HTTP timeout bounds
// the call itself.
func (d *TelegramDispatcher) Send(ctx context.Context, userID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(userID, text)
	if _, err := d.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to %d: %w", userID, err)
	}

	return nil
}
