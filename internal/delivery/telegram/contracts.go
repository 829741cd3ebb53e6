package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quiz-fulfillment/internal/dialog"
)

// Dispatcher fulfills one turn.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev dialog.Event) (dialog.Response, error)
}

// Bot is the part of the Telegram API client the handler uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}
