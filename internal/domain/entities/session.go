package entities

import (
	"errors"
	"fmt"
	"slices"
)

// Outcome is the persisted result of one answered question.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// ResultEntry records the outcome for a quiz id.
type ResultEntry struct {
	QuizID  int     `json:"quizId"`
	Outcome Outcome `json:"outcome"`
}

var ErrInvalidProgress = errors.New("invalid exam progress")

// ExamProgress tracks a quiz run. Methods never modify the receiver;
// they return an updated copy.
type ExamProgress struct {
	IsFinished   bool          `json:"isFinished"`
	MaxIndex     int           `json:"maxIndex"`
	CurrentIndex int           `json:"currentIndex"` // 0-based
	Results      []ResultEntry `json:"results"`
	QuestionIDs  []int         `json:"questionIds"`
}

// NewExamProgress creates progress for a quiz of maxIndex questions.
func NewExamProgress(maxIndex int) ExamProgress {
	return ExamProgress{
		MaxIndex:    maxIndex,
		Results:     []ResultEntry{},
		QuestionIDs: []int{},
	}
}

// HasQuestions reports whether the question sequence was already fetched.
func (p ExamProgress) HasQuestions() bool {
	return len(p.QuestionIDs) > 0
}

// WithQuestions fixes the question sequence. A non-empty sequence is never replaced.
func (p ExamProgress) WithQuestions(ids []int) ExamProgress {
	if p.HasQuestions() {
		return p
	}
	next := p.clone()
	next.QuestionIDs = slices.Clone(ids)
	next.MaxIndex = len(ids)
	return next
}

// CurrentQuizID returns the id of the question to be answered next.
func (p ExamProgress) CurrentQuizID() (int, bool) {
	if p.CurrentIndex < 0 || p.CurrentIndex >= len(p.QuestionIDs) {
		return 0, false
	}
	return p.QuestionIDs[p.CurrentIndex], true
}

// Record appends the outcome for the current question and advances the index.
func (p ExamProgress) Record(quizID int, outcome Outcome) ExamProgress {
	next := p.clone()
	next.Results = append(next.Results, ResultEntry{QuizID: quizID, Outcome: outcome})
	next.CurrentIndex++
	return next
}

// HasNext reports whether questions remain after CurrentIndex.
func (p ExamProgress) HasNext() bool {
	return p.CurrentIndex < p.MaxIndex
}

// Finish marks the quiz as finished.
func (p ExamProgress) Finish() ExamProgress {
	next := p.clone()
	next.IsFinished = true
	return next
}

// CorrectCount counts correct outcomes.
func (p ExamProgress) CorrectCount() int {
	n := 0
	for _, r := range p.Results {
		if r.Outcome == OutcomeCorrect {
			n++
		}
	}
	return n
}

// Validate checks the index invariants.
func (p ExamProgress) Validate() error {
	switch {
	case p.MaxIndex < 0:
		return fmt.Errorf("%w: negative max index %d", ErrInvalidProgress, p.MaxIndex)
	case p.CurrentIndex < 0 || p.CurrentIndex > p.MaxIndex:
		return fmt.Errorf("%w: current index %d out of [0, %d]", ErrInvalidProgress, p.CurrentIndex, p.MaxIndex)
	case len(p.Results) != p.CurrentIndex:
		return fmt.Errorf("%w: %d results at index %d", ErrInvalidProgress, len(p.Results), p.CurrentIndex)
	case len(p.QuestionIDs) != 0 && len(p.QuestionIDs) != p.MaxIndex:
		return fmt.Errorf("%w: %d question ids for %d questions", ErrInvalidProgress, len(p.QuestionIDs), p.MaxIndex)
	}
	for _, r := range p.Results {
		if r.Outcome != OutcomeCorrect && r.Outcome != OutcomeIncorrect {
			return fmt.Errorf("%w: unknown outcome %q", ErrInvalidProgress, r.Outcome)
		}
	}
	return nil
}

func (p ExamProgress) clone() ExamProgress {
	next := p
	next.Results = slices.Clone(p.Results)
	next.QuestionIDs = slices.Clone(p.QuestionIDs)
	if next.Results == nil {
		next.Results = []ResultEntry{}
	}
	if next.QuestionIDs == nil {
		next.QuestionIDs = []int{}
	}
	return next
}

// SessionState is everything the core keeps between turns. The caller
// round-trips it opaquely; nil sub-states mean "not yet set".
type SessionState struct {
	UserProfile      *UserProfile      `json:"userProfile,omitempty"`
	ChapterSelection *ChapterSelection `json:"chapterSelection,omitempty"`
	ExamProgress     *ExamProgress     `json:"examProgress,omitempty"`
}

// IsEmpty reports whether no sub-state is set.
func (s SessionState) IsEmpty() bool {
	return s.UserProfile == nil && s.ChapterSelection == nil && s.ExamProgress == nil
}

// WithUserProfile returns a copy with the profile replaced.
func (s SessionState) WithUserProfile(p UserProfile) SessionState {
	s.UserProfile = &p
	return s
}

// WithChapterSelection returns a copy with the selection set. An existing
// selection is kept as is.
func (s SessionState) WithChapterSelection(c ChapterSelection) SessionState {
	if s.ChapterSelection != nil {
		return s
	}
	s.ChapterSelection = &c
	return s
}

// WithExamProgress returns a copy with the progress replaced.
func (s SessionState) WithExamProgress(p ExamProgress) SessionState {
	s.ExamProgress = &p
	return s
}
