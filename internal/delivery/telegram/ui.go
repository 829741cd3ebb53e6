package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quiz-fulfillment/internal/dialog"
)

// buildButtonsKeyboard builds one row per card button. Buttons whose value
// does not fit in callback data are left out.
func buildButtonsKeyboard(buttons []dialog.Button) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, b := range buttons {
		data, ok := buildReplyCallback(b.Value)
		if !ok {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(b.Text, data)))
	}
	if len(rows) == 0 {
		return nil
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}
