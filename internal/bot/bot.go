package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ulule/limiter/v3"
	"go.uber.org/zap"

	"task-reminder-bot/internal/conversation"
	"task-reminder-bot/internal/database"
	"task-reminder-bot/internal/logger"
)

const longPollTimeout = 60 // seconds

// Bot is the Telegram transport adapter. It routes inbound messages and
// button presses into the conversation manager and the task store, and
// renders replies back out. One update is handled at a time, so a single
// user's replies arrive at the conversation layer already in order.
type Bot struct {
	api           *tgbotapi.BotAPI
	store         database.TaskRepositoryInterface
	conversations *conversation.Manager
	limiter       *limiter.Limiter
	logger        *zap.Logger
}

// New wires the transport adapter. rate is a ulule/limiter formatted rate
// such as "20-M" bounding inbound messages per chat.
func New(api *tgbotapi.BotAPI, store database.TaskRepositoryInterface, conversations *conversation.Manager, log *zap.Logger, rate string) (*Bot, error) {
	lim, err := newChatLimiter(rate)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate limiter: %w", err)
	}

	return &Bot{
		api:           api,
		store:         store,
		conversations: conversations,
		limiter:       lim,
		logger:        log,
	}, nil
}

// Run consumes updates via long polling until ctx is cancelled
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = longPollTimeout

	updates := b.api.GetUpdatesChan(cfg)
	b.logger.Info("bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("bot stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("update channel closed")
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	allowed, err := b.allow(ctx, chatID)
	if err != nil {
		b.logger.Warn("rate limiter failed", zap.Int64("chat_id", chatID), zap.Error(err))
	} else if !allowed {
		b.send(chatID, replySlowDown)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, msg.Command(), msg.CommandArguments())
		return
	}

	reply, handled, err := b.conversations.HandleMessage(ctx, chatID, msg.Text)
	if err != nil {
		// The error may quote what the user typed, so it is sanitized
		// like the text itself
		b.logger.Error("conversation failed",
			zap.Int64("chat_id", chatID),
			zap.String("text", logger.SanitizeTaskText(msg.Text)),
			zap.String("error", logger.SanitizeError(err)),
		)
	}
	if handled {
		b.sendReply(chatID, reply)
		return
	}

	b.send(chatID, replyNoDialog)
}

// send delivers a plain text message, logging delivery failures
func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// sendReply delivers a conversation reply, rendering choices as an inline
// keyboard
func (b *Bot) sendReply(chatID int64, reply conversation.Reply) {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if len(reply.Choices) > 0 {
		msg.ReplyMarkup = choiceKeyboard(reply.Choices)
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
