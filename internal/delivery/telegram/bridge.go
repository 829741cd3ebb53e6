package telegram

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-fulfillment/internal/dialog"
	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
	"github.com/aliskhannn/quiz-fulfillment/internal/service"
	"github.com/aliskhannn/quiz-fulfillment/internal/storage"
)

const botName = "QuizBot"

// requiredSlots are prompted by the bridge when a handler delegates.
var requiredSlots = map[string][]string{
	string(service.IntentWelcome):      {service.SlotUserName},
	string(service.IntentCheckChapter): {service.SlotChapterCode, service.SlotQuestionCount},
}

// Bridge stands in for the dialog platform: it turns chat input into turns,
// follows the dialog actions the core returns and keeps the session
// attributes between turns. It does no language understanding.
type Bridge struct {
	dispatcher     Dispatcher
	cards          *service.CardBuilder
	tr             service.Translator
	startUtterance string
	logger         *zap.Logger
}

func NewBridge(d Dispatcher, tr service.Translator, opts service.Options, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := opts.StartUtterance
	if start == "" {
		start = service.DefaultStartUtterance
	}
	return &Bridge{
		dispatcher:     d,
		cards:          service.NewCardBuilder(tr, opts),
		tr:             tr,
		startUtterance: start,
		logger:         logger,
	}
}

// Begin starts intent with no slots filled.
func (b *Bridge) Begin(ctx context.Context, conv storage.Conversation, intent service.IntentName, transcript string) (storage.Conversation, []dialog.Message, error) {
	conv = conv.Idle()
	conv.Intent = string(intent)
	conv.Slots = map[string]*dialog.Slot{}
	return b.turn(ctx, conv, dialog.DialogCodeHook, transcript, "")
}

// Input feeds free text or a pressed button's value into the conversation.
func (b *Bridge) Input(ctx context.Context, conv storage.Conversation, text string) (storage.Conversation, []dialog.Message, error) {
	text = strings.TrimSpace(text)

	switch conv.Awaiting {
	case storage.AwaitSlot:
		conv.Slots = dialog.WithSlot(conv.Slots, conv.Slot, &dialog.SlotValue{OriginalValue: text, InterpretedValue: text})
		return b.turn(ctx, conv, dialog.DialogCodeHook, text, "")

	case storage.AwaitConfirm:
		switch {
		case text == b.startUtterance, conv.Fulfilled && isYes(text):
			return b.Begin(ctx, conv, service.IntentStartQuiz, text)
		case isYes(text):
			return b.turn(ctx, conv, dialog.FulfillmentCodeHook, text, "Confirmed")
		default:
			b.logger.Debug("intent declined", zap.String("session_id", conv.SessionID), zap.String("intent", conv.Intent))
			return conv.Idle(), []dialog.Message{dialog.PlainText(b.tr.T("IntentDeclined"))}, nil
		}

	default:
		if text == b.startUtterance {
			return b.Begin(ctx, conv, service.IntentStartQuiz, text)
		}
		return conv, []dialog.Message{dialog.PlainText(b.tr.T("AskIntent"))}, nil
	}
}

func (b *Bridge) turn(
	ctx context.Context,
	conv storage.Conversation,
	source dialog.InvocationSource,
	transcript string,
	confirmation string,
) (storage.Conversation, []dialog.Message, error) {
	ev := dialog.Event{
		SessionID:        conv.SessionID,
		InputTranscript:  transcript,
		InvocationSource: source,
		Bot:              dialog.Bot{Name: botName},
		SessionState: dialog.SessionState{
			Intent: dialog.Intent{
				Name:              conv.Intent,
				Slots:             conv.Slots,
				ConfirmationState: confirmation,
			},
			SessionAttributes: conv.Attributes,
		},
	}

	resp, err := b.dispatcher.Dispatch(ctx, ev)
	if err != nil {
		return conv.Idle(), nil, err
	}

	conv.Attributes = resp.SessionState.SessionAttributes
	if resp.SessionState.Intent != nil {
		conv.Slots = resp.SessionState.Intent.Slots
	}
	msgs := resp.Messages
	action := resp.SessionState.DialogAction

	switch action.Type {
	case dialog.ActionElicitSlot:
		conv.Awaiting = storage.AwaitSlot
		conv.Slot = action.SlotToElicit
		conv.Fulfilled = false

	case dialog.ActionConfirmIntent:
		conv.Awaiting = storage.AwaitConfirm
		conv.Slot = ""
		conv.Fulfilled = source == dialog.FulfillmentCodeHook

	case dialog.ActionDelegate:
		if slot, ok := missingSlot(conv); ok {
			conv.Awaiting = storage.AwaitSlot
			conv.Slot = slot
			conv.Fulfilled = false
			return conv, append(msgs, b.prompt(slot)), nil
		}
		if source == dialog.DialogCodeHook {
			next, more, err := b.turn(ctx, conv, dialog.FulfillmentCodeHook, transcript, confirmation)
			return next, append(msgs, more...), err
		}
		return conv.Idle(), append(msgs, dialog.PlainText(b.tr.T("AskIntent"))), nil

	default:
		conv = conv.Idle()
	}

	return conv, msgs, nil
}

func (b *Bridge) prompt(slot string) dialog.Message {
	if slot == service.SlotUserName {
		return dialog.PlainText(b.tr.T("AskUserName"))
	}
	return *b.cards.SelectCard(slot)
}

func missingSlot(conv storage.Conversation) (string, bool) {
	for _, name := range requiredSlots[conv.Intent] {
		s := conv.Slots[name]
		if s == nil || s.Value == nil {
			return name, true
		}
	}
	return "", false
}

func isYes(text string) bool {
	return text == entities.AnswerYes || strings.EqualFold(text, "yes")
}
