package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"task-reminder-bot/internal/conversation"
	"task-reminder-bot/internal/logger"
	"task-reminder-bot/internal/models"
)

const (
	replyHelp = `I keep track of your tasks and remind you before deadlines.

/add - create a task step by step
/list - show your active tasks, /list <category> or /list <1-3> to filter
/overdue - show tasks past their deadline
/done <id> - mark a task completed
/delete <id> - delete a task
/edit <id> - change a task's text, deadline or priority
/stats - your task counts
/cancel - abandon the current dialog`

	replySlowDown     = "Too many messages, give me a second."
	replyNoDialog     = "Use /add to create a task, or /help to see what I can do."
	replyNeedID       = "Please pass a task id, e.g. /done 12. Ids are shown by /list."
	replyTaskNotFound = "No such task."
	replyGenericError = "Something went wrong. Please try again."
	replyNoTasks      = "No active tasks. Use /add to create one."
	replyNoMatch      = "No active tasks match that filter."
	replyNoOverdue    = "Nothing overdue. Well done."
)

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command, args string) {
	switch command {
	case "start", "help":
		b.send(chatID, replyHelp)

	case "add":
		b.sendReply(chatID, b.conversations.StartAdd(chatID))

	case "cancel":
		reply, _ := b.conversations.Cancel(chatID)
		b.sendReply(chatID, reply)

	case "list":
		b.handleList(ctx, chatID, parseListFilter(args))

	case "overdue":
		b.handleOverdue(ctx, chatID)

	case "done":
		b.handleDone(ctx, chatID, args)

	case "delete":
		b.handleDelete(ctx, chatID, args)

	case "edit":
		b.handleEdit(ctx, chatID, args)

	case "stats":
		b.handleStats(ctx, chatID)

	default:
		b.send(chatID, replyNoDialog)
	}
}

// listFilter narrows /list output to one category or one priority rank.
// The zero value means no filter.
type listFilter struct {
	category string
	priority models.Priority
}

// parseListFilter interprets the /list argument: a bare priority rank, a
// category name, or nothing
func parseListFilter(args string) listFilter {
	switch args = strings.TrimSpace(args); args {
	case "":
		return listFilter{}
	case "1", "2", "3":
		return listFilter{priority: models.Priority(args[0] - '0')}
	default:
		return listFilter{category: args}
	}
}

// listTasks queries the active tasks matching the filter
func (b *Bot) listTasks(ctx context.Context, chatID int64, filter listFilter) ([]*models.Task, error) {
	switch {
	case filter.priority != 0:
		return b.store.ListByPriority(ctx, chatID, filter.priority, models.TaskStatusActive)
	case filter.category != "":
		return b.store.ListByCategory(ctx, chatID, filter.category, models.TaskStatusActive)
	default:
		return b.store.List(ctx, chatID, models.TaskStatusActive)
	}
}

func (b *Bot) handleList(ctx context.Context, chatID int64, filter listFilter) {
	tasks, err := b.listTasks(ctx, chatID, filter)
	if err != nil {
		b.logger.Error("list failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.send(chatID, replyGenericError)
		return
	}
	if len(tasks) == 0 {
		if filter == (listFilter{}) {
			b.send(chatID, replyNoTasks)
		} else {
			b.send(chatID, replyNoMatch)
		}
		return
	}

	msg := tgbotapi.NewMessage(chatID, formatTaskList("Your tasks:", tasks, time.Now()))

	// An unfiltered list gets one-tap category filters when the user
	// actually spreads tasks over several categories
	if filter == (listFilter{}) {
		categories, err := b.store.Categories(ctx, chatID)
		if err != nil {
			b.logger.Warn("categories query failed", zap.Int64("chat_id", chatID), zap.Error(err))
		} else if len(categories) > 1 {
			msg.ReplyMarkup = categoryKeyboard(categories)
		}
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) handleOverdue(ctx context.Context, chatID int64) {
	tasks, err := b.store.Overdue(ctx, chatID, time.Now())
	if err != nil {
		b.logger.Error("overdue list failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.send(chatID, replyGenericError)
		return
	}
	if len(tasks) == 0 {
		b.send(chatID, replyNoOverdue)
		return
	}
	b.send(chatID, formatTaskList("Overdue tasks:", tasks, time.Now()))
}

func (b *Bot) handleDone(ctx context.Context, chatID int64, args string) {
	taskID, ok := parseTaskID(args)
	if !ok {
		b.send(chatID, replyNeedID)
		return
	}

	done, err := b.store.Complete(ctx, chatID, taskID, time.Now())
	if err != nil {
		b.logger.Error("complete failed", zap.Int64("chat_id", chatID), zap.Int64("task_id", taskID), zap.Error(err))
		b.send(chatID, replyGenericError)
		return
	}
	if !done {
		b.send(chatID, replyTaskNotFound)
		return
	}
	b.send(chatID, "Task completed ✅")
}

func (b *Bot) handleDelete(ctx context.Context, chatID int64, args string) {
	taskID, ok := parseTaskID(args)
	if !ok {
		b.send(chatID, replyNeedID)
		return
	}

	deleted, err := b.store.Delete(ctx, chatID, taskID)
	if err != nil {
		b.logger.Error("delete failed", zap.Int64("chat_id", chatID), zap.Int64("task_id", taskID), zap.Error(err))
		b.send(chatID, replyGenericError)
		return
	}
	if !deleted {
		b.send(chatID, replyTaskNotFound)
		return
	}
	b.send(chatID, "Task deleted.")
}

func (b *Bot) handleEdit(ctx context.Context, chatID int64, args string) {
	taskID, ok := parseTaskID(args)
	if !ok {
		b.send(chatID, replyNeedID)
		return
	}

	task, err := b.store.GetByID(ctx, chatID, taskID)
	if err != nil {
		b.logger.Error("get failed", zap.Int64("chat_id", chatID), zap.Int64("task_id", taskID), zap.Error(err))
		b.send(chatID, replyGenericError)
		return
	}
	if task == nil {
		b.send(chatID, replyTaskNotFound)
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("What do you want to change on #%d?", taskID))
	msg.ReplyMarkup = editKeyboard(taskID)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	active, err := b.store.Count(ctx, chatID, models.TaskStatusActive)
	if err != nil {
		b.logger.Error("count failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.send(chatID, replyGenericError)
		return
	}
	completed, err := b.store.Count(ctx, chatID, models.TaskStatusCompleted)
	if err != nil {
		b.logger.Error("count failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.send(chatID, replyGenericError)
		return
	}
	b.send(chatID, fmt.Sprintf("Active: %d\nCompleted: %d", active, completed))
}

// handleCallback routes inline keyboard presses. Choice buttons feed the
// dialog exactly like a typed reply would; edit buttons open a new
// single-field dialog.
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Acknowledge the press so the client stops its spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warn("callback ack failed", zap.Error(err))
	}

	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	prefix, payload := splitCallback(cb.Data)
	switch prefix {
	case cbChoice:
		reply, handled, err := b.conversations.HandleMessage(ctx, chatID, payload)
		if err != nil {
			b.logger.Error("conversation failed",
				zap.Int64("chat_id", chatID),
				zap.String("error", logger.SanitizeError(err)),
			)
		}
		if handled {
			b.sendReply(chatID, reply)
		}

	case cbListCategory:
		b.handleList(ctx, chatID, listFilter{category: payload})

	case cbEditText, cbEditDeadline, cbEditPriority:
		taskID, ok := parseTaskID(payload)
		if !ok {
			return
		}
		phase := conversation.PhaseAwaitingEditText
		switch prefix {
		case cbEditDeadline:
			phase = conversation.PhaseAwaitingEditDeadline
		case cbEditPriority:
			phase = conversation.PhaseAwaitingEditPriority
		}
		b.sendReply(chatID, b.conversations.StartEdit(chatID, taskID, phase))
	}
}

func parseTaskID(args string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// formatTaskList renders tasks one per line, most urgent first (the store
// already orders them)
func formatTaskList(header string, tasks []*models.Task, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(header)
	for _, task := range tasks {
		sb.WriteString(fmt.Sprintf("\n#%d [P%d] %s — %s, due %s",
			task.ID,
			task.Priority,
			task.Text,
			task.Category,
			task.Deadline.Format(conversation.DeadlineLayout),
		))
		if task.Status == models.TaskStatusActive && task.Deadline.Before(now) {
			sb.WriteString(" ⚠️ overdue")
		}
	}
	return sb.String()
}
