package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quiz-fulfillment/internal/dialog"
	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
	"github.com/aliskhannn/quiz-fulfillment/internal/i18n"
	"github.com/aliskhannn/quiz-fulfillment/internal/session"
)

var errNotFound = errors.New("quiz not found")

type fakeRepo struct {
	items []entities.QuizItem
	lists int
}

func (r *fakeRepo) ListByChapter(_ context.Context, chapterCode string) ([]entities.QuizItem, error) {
	r.lists++
	var out []entities.QuizItem
	for _, it := range r.items {
		if it.ChapterCode == chapterCode {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetByChapterAndID(_ context.Context, chapterCode string, id int) (*entities.QuizItem, error) {
	for _, it := range r.items {
		if it.ChapterCode == chapterCode && it.ID == id {
			return &it, nil
		}
	}
	return nil, errNotFound
}

func testItems() []entities.QuizItem {
	return []entities.QuizItem{
		{
			ID: 1, ChapterCode: "A", Prompt: "胃は消化器である？", Kind: entities.KindChoiceBool,
			CorrectAnswers: []string{"はい"}, Explanation: "胃は消化管の一部です", Hint: "食べ物の通り道",
		},
		{
			ID: 2, ChapterCode: "A", Prompt: "食道の次に続く臓器は？", Kind: entities.KindDescription,
			CorrectAnswers: []string{"胃"}, PartialAnswers: []string{"十二指腸"}, Explanation: "食道は胃に続きます", Hint: "漢字一文字",
		},
		{
			ID: 3, ChapterCode: "A", Prompt: "この画像の臓器は？", Kind: entities.KindImage,
			CorrectAnswers: []string{"肝臓"}, Explanation: "右上腹部にあります", Hint: "沈黙の臓器",
			ImageURL: "https://example.com/liver.png",
		},
		{
			ID: 10, ChapterCode: "B", Prompt: "胆汁を作るのは肝臓である？", Kind: entities.KindChoiceBool,
			CorrectAnswers: []string{"はい"}, Explanation: "胆嚢は貯めるだけです", Hint: "貯める臓器とは別",
		},
	}
}

func newTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.New("ja", nil)
	require.NoError(t, err)
	return tr
}

func newTestDispatcher(t *testing.T, repo QuizRepository) *Dispatcher {
	t.Helper()
	tr := newTranslator(t)
	opts := Options{}.withDefaults()
	validator := NewValidator(opts.QuestionCounts, tr)
	cards := NewCardBuilder(tr, opts)
	selector := NewQuizSelector(repo)
	selector.rng = func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

	d, err := NewDispatcher(map[IntentName]Handler{
		IntentWelcome:      NewWelcomeHandler(tr),
		IntentCheckChapter: NewChapterHandler(validator, cards, tr),
		IntentStartQuiz:    NewQuizHandler(repo, selector, validator, cards, tr, nil),
	}, tr, nil)
	require.NoError(t, err)
	return d
}

func slot(v string) *dialog.Slot {
	return &dialog.Slot{Value: &dialog.SlotValue{OriginalValue: v, InterpretedValue: v}}
}

func event(intent IntentName, src dialog.InvocationSource, slots map[string]*dialog.Slot, attrs map[string]string) dialog.Event {
	return dialog.Event{
		SessionID:        "session-1",
		InvocationSource: src,
		Bot:              dialog.Bot{Name: "QuizBot", LocaleID: "ja_JP"},
		SessionState: dialog.SessionState{
			Intent:            dialog.Intent{Name: string(intent), Slots: slots},
			SessionAttributes: attrs,
		},
	}
}

func encode(t *testing.T, st entities.SessionState) map[string]string {
	t.Helper()
	attrs, err := session.Encode(nil, st)
	require.NoError(t, err)
	return attrs
}

func decode(t *testing.T, resp dialog.Response) entities.SessionState {
	t.Helper()
	st, err := session.Decode(resp.SessionState.SessionAttributes)
	require.NoError(t, err)
	return st
}

func withChapter(code string, count int) entities.SessionState {
	return entities.SessionState{}.
		WithUserProfile(entities.UserProfile{UserName: "Yui"}).
		WithChapterSelection(entities.ChapterSelection{ChapterCode: code, QuestionCount: count})
}

func lastCard(t *testing.T, resp dialog.Response) *dialog.ImageResponseCard {
	t.Helper()
	require.NotEmpty(t, resp.Messages)
	last := resp.Messages[len(resp.Messages)-1]
	require.Equal(t, dialog.ContentImageCard, last.ContentType)
	require.NotNil(t, last.ImageResponseCard)
	return last.ImageResponseCard
}
