package service

import (
	"slices"
	"strconv"
	"strings"

	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

// ValidationResult is the verdict on user-supplied slot values.
// ViolatedSlot names the first slot that failed, Message explains why.
type ValidationResult struct {
	IsValid      bool
	ViolatedSlot string
	Message      string
}

func valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

// Validator checks slot values against the closed vocabularies of the quiz.
type Validator struct {
	counts []int
	tr     Translator
}

// NewValidator creates a Validator accepting the given question counts.
func NewValidator(counts []int, tr Translator) *Validator {
	if len(counts) == 0 {
		counts = entities.DefaultQuestionCounts
	}
	return &Validator{
		counts: slices.Clone(counts),
		tr:     tr,
	}
}

// QuestionCounts returns the allowed question counts.
func (v *Validator) QuestionCounts() []int {
	return slices.Clone(v.counts)
}

// Chapter validates a chapter code and a question count. Empty values count
// as missing. The chapter is always checked before the count.
func (v *Validator) Chapter(code, count string) ValidationResult {
	code = entities.NormalizeChapterCode(code)
	if code == "" {
		return v.invalid(SlotChapterCode, v.tr.T("ChapterRequired"))
	}
	if !entities.IsChapterCode(code) {
		return v.invalid(SlotChapterCode, v.tr.Td("ChapterInvalid", map[string]any{
			"Chapters": strings.Join(entities.ChapterCodes, ", "),
		}))
	}

	count = strings.TrimSpace(count)
	if count == "" {
		return v.invalid(SlotQuestionCount, v.tr.T("CountRequired"))
	}
	if _, ok := v.ParseCount(count); !ok {
		return v.invalid(SlotQuestionCount, v.tr.Td("CountInvalid", map[string]any{
			"Counts": joinInts(v.counts, ", "),
		}))
	}

	return valid()
}

// ParseCount parses count and reports whether it is an allowed question count.
func (v *Validator) ParseCount(count string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil || !slices.Contains(v.counts, n) {
		return 0, false
	}
	return n, true
}

// Answer validates an answer for a question of the given kind. Emptiness is
// checked before the vocabulary.
func (v *Validator) Answer(answer string, kind entities.QuizKind) ValidationResult {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return v.invalid(SlotAnswer, v.tr.T("AnswerRequired"))
	}

	if kind == entities.KindChoiceBool && !slices.Contains(entities.BoolAnswers, answer) {
		return v.invalid(SlotAnswer, v.tr.Td("AnswerInvalid", map[string]any{
			"Choices": strings.Join(entities.BoolAnswers, " , "),
		}))
	}

	return valid()
}

func (v *Validator) invalid(slot, msg string) ValidationResult {
	return ValidationResult{ViolatedSlot: slot, Message: msg}
}

func joinInts(ns []int, sep string) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, sep)
}
