package entities

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// QuizKind defines how a question is presented and which answers it accepts.
type QuizKind string

const (
	KindChoiceBool  QuizKind = "ChoiceBool" // yes/no question answered with buttons
	KindImage       QuizKind = "Image"      // free-text answer about a picture
	KindDescription QuizKind = "Desc"       // free-text answer
)

// Valid reports whether k is one of the known kinds.
func (k QuizKind) Valid() bool {
	switch k {
	case KindChoiceBool, KindImage, KindDescription:
		return true
	}
	return false
}

// Boolean answer tokens accepted for ChoiceBool questions.
const (
	AnswerYes = "はい"
	AnswerNo  = "いいえ"
)

// BoolAnswers is the closed vocabulary for ChoiceBool answers.
var BoolAnswers = []string{AnswerYes, AnswerNo}

var ErrInvalidQuizItem = errors.New("invalid quiz item")

// QuizItem is one question unit of the content store.
// JSON attribute names follow the store schema used by the loaders.
type QuizItem struct {
	ID             int      `json:"id"`
	ChapterCode    string   `json:"chapter_code"`
	Prompt         string   `json:"q"`
	Kind           QuizKind `json:"kind"`
	CorrectAnswers []string `json:"a"`
	PartialAnswers []string `json:"secondary_a"`
	Explanation    string   `json:"comment"`
	ImageURL       string   `json:"image,omitempty"`
	Hint           string   `json:"hint"`
}

// Validate checks the item against the content store contract.
func (q QuizItem) Validate() error {
	switch {
	case !IsChapterCode(q.ChapterCode):
		return fmt.Errorf("%w: id %d: unknown chapter %q", ErrInvalidQuizItem, q.ID, q.ChapterCode)
	case !q.Kind.Valid():
		return fmt.Errorf("%w: id %d: unknown kind %q", ErrInvalidQuizItem, q.ID, q.Kind)
	case strings.TrimSpace(q.Prompt) == "":
		return fmt.Errorf("%w: id %d: empty prompt", ErrInvalidQuizItem, q.ID)
	case len(q.CorrectAnswers) == 0:
		return fmt.Errorf("%w: id %d: no correct answers", ErrInvalidQuizItem, q.ID)
	case q.Kind == KindImage && q.ImageURL == "":
		return fmt.Errorf("%w: id %d: image question without image", ErrInvalidQuizItem, q.ID)
	case q.Kind != KindImage && q.ImageURL != "":
		return fmt.Errorf("%w: id %d: image set on %s question", ErrInvalidQuizItem, q.ID, q.Kind)
	}
	return nil
}

// CanonicalAnswer returns the answer shown to the user when they miss.
func (q QuizItem) CanonicalAnswer() string {
	if len(q.CorrectAnswers) == 0 {
		return ""
	}
	return q.CorrectAnswers[0]
}

// Verdict is the judged quality of an answer. Only Correct scores.
type Verdict int

const (
	VerdictIncorrect Verdict = iota
	VerdictClose             // in the partial-credit list, still incorrect
	VerdictCorrect
)

// Judge compares an answer with the item's answer lists.
func (q QuizItem) Judge(answer string) Verdict {
	answer = strings.TrimSpace(answer)
	switch {
	case slices.Contains(q.CorrectAnswers, answer):
		return VerdictCorrect
	case slices.Contains(q.PartialAnswers, answer):
		return VerdictClose
	default:
		return VerdictIncorrect
	}
}

// Outcome returns the persisted outcome for the verdict.
func (v Verdict) Outcome() Outcome {
	if v == VerdictCorrect {
		return OutcomeCorrect
	}
	return OutcomeIncorrect
}
