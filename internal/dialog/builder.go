package dialog

import "maps"

// MaxButtons is the platform's cap on card buttons. Extra options are dropped.
const MaxButtons = 5

// PlainText builds a plain text message segment.
func PlainText(content string) Message {
	return Message{ContentType: ContentPlainText, Content: content}
}

// CustomPayload builds a message segment rendered by the client (markdown, html).
func CustomPayload(content string) Message {
	return Message{ContentType: ContentCustomPayload, Content: content}
}

// ButtonCard builds a card listing at most MaxButtons options.
func ButtonCard(content, title, subtitle string, buttons []Button) *Message {
	return ImageCard(content, title, subtitle, "", buttons)
}

// ImageCard builds a card with an optional image and at most MaxButtons options.
func ImageCard(content, title, subtitle, imageURL string, buttons []Button) *Message {
	var bs []Button
	if len(buttons) > 0 {
		bs = make([]Button, min(MaxButtons, len(buttons)))
		copy(bs, buttons)
	}
	return &Message{
		ContentType: ContentImageCard,
		Content:     content,
		ImageResponseCard: &ImageResponseCard{
			Title:    title,
			Subtitle: subtitle,
			ImageURL: imageURL,
			Buttons:  bs,
		},
	}
}

// WithSlot returns a copy of slots with name set to value. A nil value clears the slot.
func WithSlot(slots map[string]*Slot, name string, value *SlotValue) map[string]*Slot {
	out := make(map[string]*Slot, len(slots)+1)
	maps.Copy(out, slots)
	if value == nil {
		out[name] = nil
		return out
	}
	v := *value
	out[name] = &Slot{Value: &v}
	return out
}

// ElicitIntent asks the user what they want to do next.
func ElicitIntent(ev Event, attrs map[string]string, msgs []Message, card *Message) Response {
	return Response{
		SessionState: ResponseState{
			DialogAction:      DialogAction{Type: ActionElicitIntent},
			SessionAttributes: attrs,
		},
		Messages:          withCard(msgs, card),
		RequestAttributes: ev.RequestAttributes,
	}
}

// ElicitSlot asks the user for a specific slot of the current intent.
func ElicitSlot(ev Event, attrs map[string]string, slots map[string]*Slot, slotToElicit string, msgs []Message, card *Message) Response {
	return Response{
		SessionState: ResponseState{
			DialogAction: DialogAction{Type: ActionElicitSlot, SlotToElicit: slotToElicit},
			Intent: &Intent{
				Name:  ev.IntentName(),
				Slots: slots,
			},
			SessionAttributes: attrs,
		},
		Messages:          withCard(msgs, card),
		RequestAttributes: ev.RequestAttributes,
	}
}

// ConfirmIntent asks the user to confirm the intent before fulfillment.
func ConfirmIntent(ev Event, attrs map[string]string, slots map[string]*Slot, msgs []Message, card *Message) Response {
	return Response{
		SessionState: ResponseState{
			DialogAction: DialogAction{Type: ActionConfirmIntent},
			Intent: &Intent{
				Name:  ev.IntentName(),
				Slots: slots,
				State: StateInProgress,
			},
			SessionAttributes: attrs,
		},
		Messages:          withCard(msgs, card),
		RequestAttributes: ev.RequestAttributes,
	}
}

// Close ends the intent with the given fulfillment state.
func Close(ev Event, attrs map[string]string, state IntentState, msgs []Message) Response {
	intent := ev.SessionState.Intent
	intent.Slots = maps.Clone(intent.Slots)
	intent.State = state
	return Response{
		SessionState: ResponseState{
			DialogAction:      DialogAction{Type: ActionClose},
			Intent:            &intent,
			SessionAttributes: attrs,
		},
		Messages:          msgs,
		SessionID:         ev.SessionID,
		RequestAttributes: ev.RequestAttributes,
	}
}

// Delegate lets the platform choose the next step (built-in slot prompting).
func Delegate(ev Event, attrs map[string]string, slots map[string]*Slot) Response {
	return Response{
		SessionState: ResponseState{
			DialogAction: DialogAction{Type: ActionDelegate},
			Intent: &Intent{
				Name:  ev.IntentName(),
				Slots: slots,
			},
			SessionAttributes: attrs,
		},
	}
}

func withCard(msgs []Message, card *Message) []Message {
	out := make([]Message, 0, len(msgs)+1)
	out = append(out, msgs...)
	if card != nil {
		out = append(out, *card)
	}
	return out
}
