// Package dialog contains the turn protocol spoken with the dialog platform
// and the builders for every response variant it accepts.
package dialog

import "strings"

// InvocationSource tells whether the turn validates input or fulfills the intent.
type InvocationSource string

const (
	DialogCodeHook      InvocationSource = "DialogCodeHook"
	FulfillmentCodeHook InvocationSource = "FulfillmentCodeHook"
)

// DialogActionType is the next step the platform should take.
type DialogActionType string

const (
	ActionElicitIntent  DialogActionType = "ElicitIntent"
	ActionElicitSlot    DialogActionType = "ElicitSlot"
	ActionConfirmIntent DialogActionType = "ConfirmIntent"
	ActionClose         DialogActionType = "Close"
	ActionDelegate      DialogActionType = "Delegate"
)

// IntentState is the fulfillment state of an intent.
type IntentState string

const (
	StateInProgress IntentState = "InProgress"
	StateFulfilled  IntentState = "Fulfilled"
	StateFailed     IntentState = "Failed"
)

// ContentType of a message segment.
type ContentType string

const (
	ContentPlainText     ContentType = "PlainText"
	ContentCustomPayload ContentType = "CustomPayload"
	ContentImageCard     ContentType = "ImageResponseCard"
)

// Event is one inbound turn.
type Event struct {
	SessionID         string            `json:"sessionId"`
	InputTranscript   string            `json:"inputTranscript,omitempty"`
	InvocationSource  InvocationSource  `json:"invocationSource"`
	Bot               Bot               `json:"bot"`
	SessionState      SessionState      `json:"sessionState"`
	RequestAttributes map[string]string `json:"requestAttributes,omitempty"`
}

// Bot identifies the calling bot.
type Bot struct {
	Name     string `json:"name,omitempty"`
	LocaleID string `json:"localeId,omitempty"`
}

// SessionState is the platform's view of the session.
type SessionState struct {
	DialogAction      *DialogAction     `json:"dialogAction,omitempty"`
	Intent            Intent            `json:"intent"`
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
}

// Intent is the intent being handled, with its slots.
type Intent struct {
	Name              string           `json:"name"`
	Slots             map[string]*Slot `json:"slots"`
	State             IntentState      `json:"state,omitempty"`
	ConfirmationState string           `json:"confirmationState,omitempty"`
}

// Slot wraps a possibly missing slot value.
type Slot struct {
	Value *SlotValue `json:"value,omitempty"`
}

// SlotValue carries what the platform resolved from user input.
type SlotValue struct {
	OriginalValue    string   `json:"originalValue,omitempty"`
	InterpretedValue string   `json:"interpretedValue,omitempty"`
	ResolvedValues   []string `json:"resolvedValues,omitempty"`
}

// DialogAction is the action part of a response.
type DialogAction struct {
	Type         DialogActionType `json:"type"`
	SlotToElicit string           `json:"slotToElicit,omitempty"`
}

// Response is the outbound reply to a turn.
type Response struct {
	SessionState      ResponseState     `json:"sessionState"`
	Messages          []Message         `json:"messages,omitempty"`
	SessionID         string            `json:"sessionId,omitempty"`
	RequestAttributes map[string]string `json:"requestAttributes,omitempty"`
}

// ResponseState is the session state returned to the platform.
type ResponseState struct {
	DialogAction      DialogAction      `json:"dialogAction"`
	Intent            *Intent           `json:"intent,omitempty"`
	SessionAttributes map[string]string `json:"sessionAttributes"`
}

// Message is one segment of the reply.
type Message struct {
	ContentType       ContentType        `json:"contentType"`
	Content           string             `json:"content"`
	ImageResponseCard *ImageResponseCard `json:"imageResponseCard,omitempty"`
}

// ImageResponseCard is the visual card attached after text messages.
type ImageResponseCard struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

// Button is one card option.
type Button struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// IntentName returns the name of the intent the turn belongs to.
func (e Event) IntentName() string {
	return e.SessionState.Intent.Name
}

// Slots returns the turn's slots. The map belongs to the event; use WithSlot to change it.
func (e Event) Slots() map[string]*Slot {
	return e.SessionState.Intent.Slots
}

// Attributes returns the caller-persisted session attributes.
func (e Event) Attributes() map[string]string {
	return e.SessionState.SessionAttributes
}

// SlotValue returns the resolved value of a slot, preferring the interpreted value.
func (e Event) SlotValue(name string) (string, bool) {
	s, ok := e.Slots()[name]
	if !ok || s == nil || s.Value == nil {
		return "", false
	}
	if v := strings.TrimSpace(s.Value.InterpretedValue); v != "" {
		return v, true
	}
	if v := strings.TrimSpace(s.Value.OriginalValue); v != "" {
		return v, true
	}
	return "", false
}
