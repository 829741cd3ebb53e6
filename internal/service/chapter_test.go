package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quiz-fulfillment/internal/dialog"
	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

func chapterSlots(code, count string) map[string]*dialog.Slot {
	slots := map[string]*dialog.Slot{SlotChapterCode: nil, SlotQuestionCount: nil}
	if code != "" {
		slots[SlotChapterCode] = slot(code)
	}
	if count != "" {
		slots[SlotQuestionCount] = slot(count)
	}
	return slots
}

func TestChapterInvalidCodeElicitsChapter(t *testing.T) {
	d := newTestDispatcher(t, &fakeRepo{})
	slots := chapterSlots("Z", "3")

	resp, err := d.Dispatch(context.Background(), event(IntentCheckChapter, dialog.DialogCodeHook, slots, nil))
	require.NoError(t, err)

	assert.Equal(t, dialog.ActionElicitSlot, resp.SessionState.DialogAction.Type)
	assert.Equal(t, SlotChapterCode, resp.SessionState.DialogAction.SlotToElicit)
	require.NotNil(t, resp.SessionState.Intent)
	assert.Nil(t, resp.SessionState.Intent.Slots[SlotChapterCode])
	assert.NotNil(t, resp.SessionState.Intent.Slots[SlotQuestionCount])
	assert.NotNil(t, slots[SlotChapterCode], "event slots are not modified")

	require.Len(t, resp.Messages, 2)
	assert.Contains(t, resp.Messages[0].Content, "A, B, C")

	card := lastCard(t, resp)
	assert.Equal(t, []dialog.Button{
		{Text: "A章 消化器", Value: "A"},
		{Text: "B章 肝胆膵", Value: "B"},
		{Text: "C章 循環器", Value: "C"},
	}, card.Buttons)
}

func TestChapterInvalidCountElicitsCount(t *testing.T) {
	d := newTestDispatcher(t, &fakeRepo{})

	resp, err := d.Dispatch(context.Background(), event(IntentCheckChapter, dialog.DialogCodeHook, chapterSlots("a", "4"), nil))
	require.NoError(t, err)

	assert.Equal(t, SlotQuestionCount, resp.SessionState.DialogAction.SlotToElicit)
	card := lastCard(t, resp)
	assert.Equal(t, []dialog.Button{
		{Text: "3問", Value: "3"},
		{Text: "5問", Value: "5"},
		{Text: "7問", Value: "7"},
	}, card.Buttons)
}

func TestChapterDialogPhaseConfirms(t *testing.T) {
	d := newTestDispatcher(t, &fakeRepo{})
	attrs := encode(t, entities.SessionState{}.WithUserProfile(entities.UserProfile{UserName: "Yui"}))

	resp, err := d.Dispatch(context.Background(), event(IntentCheckChapter, dialog.DialogCodeHook, chapterSlots("b", "5"), attrs))
	require.NoError(t, err)

	assert.Equal(t, dialog.ActionConfirmIntent, resp.SessionState.DialogAction.Type)
	assert.Equal(t, dialog.StateInProgress, resp.SessionState.Intent.State)
	assert.Equal(t, "B章から5問出題しますがよろしいですか？ Yuiさん", resp.Messages[0].Content)
	assert.Equal(t, "最終確認", lastCard(t, resp).Title)
	assert.Nil(t, decode(t, resp).ChapterSelection, "nothing is stored before confirmation")
}

func TestChapterFulfillmentStoresSelection(t *testing.T) {
	d := newTestDispatcher(t, &fakeRepo{})

	resp, err := d.Dispatch(context.Background(), event(IntentCheckChapter, dialog.FulfillmentCodeHook, chapterSlots("c", "7"), nil))
	require.NoError(t, err)

	assert.Equal(t, dialog.ActionConfirmIntent, resp.SessionState.DialogAction.Type)
	assert.Equal(t, dialog.ContentCustomPayload, resp.Messages[0].ContentType)
	assert.Contains(t, resp.Messages[0].Content, "匿名")

	card := lastCard(t, resp)
	assert.Equal(t, DefaultReadyImageURL, card.ImageURL)
	require.Len(t, card.Buttons, 2)
	assert.Equal(t, DefaultStartUtterance, card.Buttons[0].Value)

	st := decode(t, resp)
	require.NotNil(t, st.ChapterSelection)
	assert.Equal(t, entities.ChapterSelection{ChapterCode: "C", QuestionCount: 7}, *st.ChapterSelection)
	assert.Nil(t, st.UserProfile, "the anonymous default is not stored")
}

func TestChapterSelectionIsWrittenOnce(t *testing.T) {
	d := newTestDispatcher(t, &fakeRepo{items: testItems()})
	attrs := encode(t, withChapter("A", 3))

	for _, src := range []dialog.InvocationSource{dialog.DialogCodeHook, dialog.FulfillmentCodeHook} {
		t.Run(string(src), func(t *testing.T) {
			resp, err := d.Dispatch(context.Background(), event(IntentCheckChapter, src, chapterSlots("B", "5"), attrs))
			require.NoError(t, err)

			assert.Equal(t, dialog.ActionElicitIntent, resp.SessionState.DialogAction.Type)
			require.Len(t, resp.Messages, 1)
			assert.Equal(t, "A章3問のクイズが進行中です。別の章にするには一度クイズを中断してください", resp.Messages[0].Content)
			assert.NotContains(t, resp.Messages[0].Content, "B章")

			st := decode(t, resp)
			require.NotNil(t, st.ChapterSelection)
			assert.Equal(t, entities.ChapterSelection{ChapterCode: "A", QuestionCount: 3}, *st.ChapterSelection)
		})
	}

	// The next quiz turn still serves the stored chapter.
	resp, err := d.Dispatch(context.Background(), event(IntentStartQuiz, dialog.DialogCodeHook, answerSlots(""), attrs))
	require.NoError(t, err)
	assert.Equal(t, "A章からの出題", resp.Messages[0].Content)
}

func TestChapterSameSelectionConfirmsAgain(t *testing.T) {
	d := newTestDispatcher(t, &fakeRepo{})
	attrs := encode(t, withChapter("A", 3))

	resp, err := d.Dispatch(context.Background(), event(IntentCheckChapter, dialog.DialogCodeHook, chapterSlots("a", "3"), attrs))
	require.NoError(t, err)

	assert.Equal(t, dialog.ActionConfirmIntent, resp.SessionState.DialogAction.Type)
	assert.Contains(t, resp.Messages[0].Content, "A章から3問")
}

func TestChapterFulfillmentRevalidates(t *testing.T) {
	d := newTestDispatcher(t, &fakeRepo{})

	resp, err := d.Dispatch(context.Background(), event(IntentCheckChapter, dialog.FulfillmentCodeHook, chapterSlots("A", "9"), nil))
	require.NoError(t, err)

	assert.Equal(t, dialog.ActionElicitSlot, resp.SessionState.DialogAction.Type)
	assert.Equal(t, SlotQuestionCount, resp.SessionState.DialogAction.SlotToElicit)
	assert.Nil(t, decode(t, resp).ChapterSelection)
}
