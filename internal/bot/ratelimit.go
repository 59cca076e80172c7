package bot

import (
	"context"
	"strconv"

	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
)

// newChatLimiter builds an in-process limiter keyed by chat id. The bot is
// a single process, so the memory store is enough; the limit only guards
// against one chat flooding the dialog loop.
func newChatLimiter(rate string) (*limiter.Limiter, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	return limiter.New(memorystore.NewStore(), parsed), nil
}

// allow reports whether a message from this chat is within the rate limit
func (b *Bot) allow(ctx context.Context, chatID int64) (bool, error) {
	lctx, err := b.limiter.Get(ctx, strconv.FormatInt(chatID, 10))
	if err != nil {
		return true, err
	}
	return !lctx.Reached, nil
}
