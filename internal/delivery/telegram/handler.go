// Package telegram lets a Telegram chat talk to the quiz core. The handler
// keeps each chat's session attributes and plays the dialog platform's part.
package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-fulfillment/internal/service"
	"github.com/aliskhannn/quiz-fulfillment/internal/storage"
)

const defaultUpdateTimeout = 60

type Handler struct {
	bot           Bot
	logger        *zap.Logger
	bridge        *Bridge
	convs         *storage.ConversationStore
	tr            service.Translator
	updateTimeout int
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	bridge *Bridge,
	convs *storage.ConversationStore,
	tr service.Translator,
	updateTimeout int,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if updateTimeout <= 0 {
		updateTimeout = defaultUpdateTimeout
	}
	return &Handler{
		bot:           bot,
		logger:        logger,
		bridge:        bridge,
		convs:         convs,
		tr:            tr,
		updateTimeout: updateTimeout,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = h.updateTimeout

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			h.convs.Delete(chatID)
			_ = h.withErrorHandling(h.beginHandler(service.IntentWelcome, update.Message.Text))(ctx, chatID)

		case "chapter":
			_ = h.withErrorHandling(h.beginHandler(service.IntentCheckChapter, update.Message.Text))(ctx, chatID)

		case "quiz":
			_ = h.withErrorHandling(h.beginHandler(service.IntentStartQuiz, update.Message.Text))(ctx, chatID)

		default:
			h.send(newHTMLMessage(chatID, h.tr.T("AskIntent")))
		}

		return
	}

	_ = h.withErrorHandling(h.inputHandler(update.Message.Text))(ctx, chatID)
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	defer func() {
		// Remove the user's "clock".
		if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			h.logger.Warn("callback answer error", zap.Error(err))
		}
	}()

	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}

	data := decodeCallback(cb.Data)
	if data.Action != actionReply {
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	_ = h.withErrorHandling(h.inputHandler(data.value()))(ctx, cb.Message.Chat.ID)
}

func (h *Handler) beginHandler(intent service.IntentName, transcript string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		conv, msgs, err := h.bridge.Begin(ctx, h.convs.Get(chatID), intent, transcript)
		h.convs.Store(chatID, conv)
		if err != nil {
			return err
		}
		h.sendAll(render(chatID, msgs))
		return nil
	}
}

func (h *Handler) inputHandler(text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		conv, msgs, err := h.bridge.Input(ctx, h.convs.Get(chatID), text)
		h.convs.Store(chatID, conv)
		if err != nil {
			return err
		}
		h.sendAll(render(chatID, msgs))
		return nil
	}
}

func (h *Handler) sendAll(cs []tgbotapi.Chattable) {
	for _, c := range cs {
		h.send(c)
	}
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
