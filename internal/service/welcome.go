package service

import (
	"context"

	"github.com/aliskhannn/quiz-fulfillment/internal/dialog"
	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

// WelcomeHandler registers the user's name.
type WelcomeHandler struct {
	tr Translator
}

// NewWelcomeHandler creates a WelcomeHandler.
func NewWelcomeHandler(tr Translator) *WelcomeHandler {
	return &WelcomeHandler{tr: tr}
}

// Handle greets the user once the name slot is filled.
func (h *WelcomeHandler) Handle(_ context.Context, turn Turn) (Reply, error) {
	ev := turn.Event

	name, ok := ev.SlotValue(SlotUserName)
	if !ok {
		return Reply{Response: dialog.Delegate(ev, nil, ev.Slots()), State: turn.State}, nil
	}

	greeting := h.tr.Td("Greeting", map[string]any{"UserName": name})
	return Reply{
		Response: dialog.Close(ev, nil, dialog.StateFulfilled, []dialog.Message{dialog.CustomPayload(greeting)}),
		State:    turn.State.WithUserProfile(entities.UserProfile{UserName: name}),
	}, nil
}
