package service

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

func TestValidatorAcceptsEveryAllowedPair(t *testing.T) {
	v := NewValidator(nil, newTranslator(t))

	for _, c := range []string{"A", "B", "C", "a", " b "} {
		for _, n := range entities.DefaultQuestionCounts {
			res := v.Chapter(c, strconv.Itoa(n))
			assert.True(t, res.IsValid, "%s/%d", c, n)
			assert.Empty(t, res.ViolatedSlot)
		}
	}
}

func TestValidatorChapterBeforeCount(t *testing.T) {
	v := NewValidator(nil, newTranslator(t))

	tests := []struct {
		name    string
		code    string
		count   string
		slot    string
		message string
	}{
		{"missing chapter", "", "4", SlotChapterCode, "Chapterを選んでください"},
		{"unknown chapter", "Z", "4", SlotChapterCode, "選択可能なChapterは A, B, C のみとなっています。"},
		{"unknown chapter no count", "D", "", SlotChapterCode, "選択可能なChapterは A, B, C のみとなっています。"},
		{"missing count", "A", "", SlotQuestionCount, "何問出題しますか？"},
		{"unknown count", "A", "4", SlotQuestionCount, "選択可能な出題数は 3, 5, 7 のみとなっています。"},
		{"not a number", "A", "three", SlotQuestionCount, "選択可能な出題数は 3, 5, 7 のみとなっています。"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Chapter(tt.code, tt.count)
			assert.False(t, res.IsValid)
			assert.Equal(t, tt.slot, res.ViolatedSlot)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestValidatorCustomCounts(t *testing.T) {
	v := NewValidator([]int{5, 10, 15}, newTranslator(t))

	assert.True(t, v.Chapter("A", "10").IsValid)
	assert.False(t, v.Chapter("A", "3").IsValid)
	assert.Equal(t, []int{5, 10, 15}, v.QuestionCounts())
}

func TestValidatorAnswer(t *testing.T) {
	v := NewValidator(nil, newTranslator(t))

	tests := []struct {
		name   string
		answer string
		kind   entities.QuizKind
		valid  bool
	}{
		{"yes", "はい", entities.KindChoiceBool, true},
		{"no", "いいえ", entities.KindChoiceBool, true},
		{"free text on bool", "たぶん", entities.KindChoiceBool, false},
		{"empty bool", " ", entities.KindChoiceBool, false},
		{"free text", "胃", entities.KindDescription, true},
		{"empty text", "", entities.KindDescription, false},
		{"image", "肝臓", entities.KindImage, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Answer(tt.answer, tt.kind)
			assert.Equal(t, tt.valid, res.IsValid)
			if !tt.valid {
				assert.Equal(t, SlotAnswer, res.ViolatedSlot)
				assert.NotEmpty(t, res.Message)
			}
		})
	}

	assert.Equal(t, "有効な回答ではありません。", v.Answer("", entities.KindChoiceBool).Message,
		"emptiness is reported before the vocabulary")
}
