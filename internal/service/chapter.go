package service

import (
	"context"

	"github.com/aliskhannn/quiz-fulfillment/internal/dialog"
	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

// ChapterHandler lets the user pick a chapter and a question count.
type ChapterHandler struct {
	validator *Validator
	cards     *CardBuilder
	tr        Translator
}

// NewChapterHandler creates a ChapterHandler.
func NewChapterHandler(validator *Validator, cards *CardBuilder, tr Translator) *ChapterHandler {
	return &ChapterHandler{validator: validator, cards: cards, tr: tr}
}

// Handle validates the slots in the dialog phase and asks for confirmation.
// Once confirmed, the fulfillment phase stores the selection and asks the
// user to start the quiz.
func (h *ChapterHandler) Handle(_ context.Context, turn Turn) (Reply, error) {
	ev := turn.Event
	code, _ := ev.SlotValue(SlotChapterCode)
	count, _ := ev.SlotValue(SlotQuestionCount)
	user := displayName(turn.State, h.tr)

	// Both phases validate.
	res := h.validator.Chapter(code, count)
	if !res.IsValid {
		slots := dialog.WithSlot(ev.Slots(), res.ViolatedSlot, nil)
		return Reply{
			Response: dialog.ElicitSlot(ev, nil, slots, res.ViolatedSlot,
				[]dialog.Message{dialog.PlainText(res.Message)},
				h.cards.SelectCard(res.ViolatedSlot),
			),
			State: turn.State,
		}, nil
	}

	code = entities.NormalizeChapterCode(code)
	n, _ := h.validator.ParseCount(count)

	// The selection is written once; a different choice is refused until the
	// running quiz is canceled.
	if cur := turn.State.ChapterSelection; cur != nil && (cur.ChapterCode != code || cur.QuestionCount != n) {
		msg := h.tr.Td("ChapterInProgress", map[string]any{"Chapter": cur.ChapterCode, "Count": cur.QuestionCount})
		return Reply{
			Response: dialog.ElicitIntent(ev, nil, []dialog.Message{dialog.PlainText(msg)}, nil),
			State:    turn.State,
		}, nil
	}

	if ev.InvocationSource == dialog.FulfillmentCodeHook {
		st := turn.State.WithChapterSelection(entities.ChapterSelection{ChapterCode: code, QuestionCount: n})
		return Reply{
			Response: dialog.ConfirmIntent(ev, nil, ev.Slots(),
				[]dialog.Message{dialog.CustomPayload(h.tr.Td("ReadyPrompt", map[string]any{"UserName": user}))},
				h.cards.ReadyCard(user),
			),
			State: st,
		}, nil
	}

	summary := h.tr.Td("ConfirmChapter", map[string]any{"Chapter": code, "Count": n, "UserName": user})
	return Reply{
		Response: dialog.ConfirmIntent(ev, nil, ev.Slots(),
			[]dialog.Message{dialog.PlainText(summary)},
			h.cards.ConfirmCard(),
		),
		State: turn.State,
	}, nil
}
