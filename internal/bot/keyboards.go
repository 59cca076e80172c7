package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data prefixes. Telegram limits callback data to 64 bytes, so
// the payloads stay short: a choice label or a task id.
const (
	cbChoice       = "choice:"
	cbEditText     = "edit_text:"
	cbEditDeadline = "edit_deadline:"
	cbEditPriority = "edit_priority:"
	cbListCategory = "list_cat:"
)

// choiceKeyboard renders dialog choices as one button per row
func choiceKeyboard(choices []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, choice := range choices {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(choice, cbChoice+choice),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// editKeyboard offers the single-field edit entry points for one task
func editKeyboard(taskID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Text", fmt.Sprintf("%s%d", cbEditText, taskID)),
			tgbotapi.NewInlineKeyboardButtonData("Deadline", fmt.Sprintf("%s%d", cbEditDeadline, taskID)),
			tgbotapi.NewInlineKeyboardButtonData("Priority", fmt.Sprintf("%s%d", cbEditPriority, taskID)),
		),
	)
}

// categoryKeyboard offers one-tap category filters under a task list
func categoryKeyboard(categories []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(categories))
	for _, category := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(category, cbListCategory+category),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// splitCallback separates a known prefix from its payload
func splitCallback(data string) (prefix, payload string) {
	for _, p := range []string{cbChoice, cbEditText, cbEditDeadline, cbEditPriority, cbListCategory} {
		if strings.HasPrefix(data, p) {
			return p, strings.TrimPrefix(data, p)
		}
	}
	return "", data
}
