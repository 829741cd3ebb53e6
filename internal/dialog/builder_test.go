package dialog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() Event {
	return Event{
		SessionID:        "sess-1",
		InvocationSource: DialogCodeHook,
		SessionState: SessionState{
			Intent: Intent{
				Name: "StartQuiz",
				Slots: map[string]*Slot{
					"Answer": {Value: &SlotValue{OriginalValue: "はい"}},
				},
			},
			SessionAttributes: map[string]string{"k": "v"},
		},
		RequestAttributes: map[string]string{"x-trace": "1"},
	}
}

func TestSlotValue(t *testing.T) {
	tests := []struct {
		name   string
		slot   *Slot
		want   string
		wantOK bool
	}{
		{"missing", nil, "", false},
		{"nil value", &Slot{}, "", false},
		{"interpreted preferred", &Slot{Value: &SlotValue{OriginalValue: "a", InterpretedValue: "A"}}, "A", true},
		{"original fallback", &Slot{Value: &SlotValue{OriginalValue: "b"}}, "b", true},
		{"blank", &Slot{Value: &SlotValue{OriginalValue: "  "}}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Event{SessionState: SessionState{Intent: Intent{Slots: map[string]*Slot{"S": tt.slot}}}}
			got, ok := ev.SlotValue("S")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestButtonCardTruncatesToFive(t *testing.T) {
	buttons := make([]Button, 7)
	for i := range buttons {
		buttons[i] = Button{Text: string(rune('a' + i)), Value: string(rune('a' + i))}
	}

	card := ButtonCard("pick", "title", "sub", buttons)

	require.NotNil(t, card.ImageResponseCard)
	assert.Equal(t, ContentImageCard, card.ContentType)
	assert.Len(t, card.ImageResponseCard.Buttons, MaxButtons)
	assert.Equal(t, "e", card.ImageResponseCard.Buttons[4].Value)
	assert.Len(t, buttons, 7, "input must not be modified")
}

func TestWithSlotCopies(t *testing.T) {
	ev := testEvent()

	cleared := WithSlot(ev.Slots(), "Answer", nil)

	assert.Nil(t, cleared["Answer"])
	_, ok := ev.SlotValue("Answer")
	assert.True(t, ok, "original slots must stay untouched")
}

func TestElicitSlotShape(t *testing.T) {
	ev := testEvent()
	card := ButtonCard("pick", "t", "s", []Button{{Text: "yes", Value: "はい"}})

	resp := ElicitSlot(ev, map[string]string{"a": "b"}, ev.Slots(), "Answer", []Message{PlainText("q1")}, card)

	assert.Equal(t, ActionElicitSlot, resp.SessionState.DialogAction.Type)
	assert.Equal(t, "Answer", resp.SessionState.DialogAction.SlotToElicit)
	require.NotNil(t, resp.SessionState.Intent)
	assert.Equal(t, "StartQuiz", resp.SessionState.Intent.Name)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, ContentImageCard, resp.Messages[1].ContentType)
	assert.Equal(t, ev.RequestAttributes, resp.RequestAttributes)
}

func TestCloseCarriesIntentStateAndSessionID(t *testing.T) {
	ev := testEvent()

	resp := Close(ev, map[string]string{}, StateFulfilled, []Message{PlainText("bye")})

	assert.Equal(t, ActionClose, resp.SessionState.DialogAction.Type)
	assert.Equal(t, StateFulfilled, resp.SessionState.Intent.State)
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Empty(t, ev.SessionState.Intent.State, "event intent must not be modified")
}

func TestDelegateJSON(t *testing.T) {
	resp := Delegate(testEvent(), map[string]string{}, nil)

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "messages")
	state := raw["sessionState"].(map[string]any)
	assert.Equal(t, "Delegate", state["dialogAction"].(map[string]any)["type"])
	assert.Equal(t, "StartQuiz", state["intent"].(map[string]any)["name"])
}

func TestConfirmIntentInProgress(t *testing.T) {
	resp := ConfirmIntent(testEvent(), nil, nil, []Message{PlainText("ok?")}, nil)

	assert.Equal(t, ActionConfirmIntent, resp.SessionState.DialogAction.Type)
	assert.Equal(t, StateInProgress, resp.SessionState.Intent.State)
	assert.Len(t, resp.Messages, 1)
}
