package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

var ErrNoQuestionsAvailable = errors.New("no questions available")

// QuizSelector picks the question sequence of a quiz run.
type QuizSelector struct {
	repo QuizRepository

	// rng returns a fresh generator for every selection; no state is shared
	// between calls.
	rng func() *rand.Rand
}

// NewQuizSelector creates a QuizSelector seeded from the clock on every call.
func NewQuizSelector(repo QuizRepository) *QuizSelector {
	return &QuizSelector{
		repo: repo,
		rng: func() *rand.Rand {
			now := uint64(time.Now().UnixNano())
			return rand.New(rand.NewPCG(now, now>>32|now<<32))
		},
	}
}

// SelectQuestions shuffles the chapter's items and returns the ids of the
// first total of them. Fewer ids are returned when the chapter is smaller.
func (s *QuizSelector) SelectQuestions(ctx context.Context, chapterCode string, total int) ([]int, error) {
	if total <= 0 {
		return nil, fmt.Errorf("select questions: non-positive count %d", total)
	}

	items, err := s.repo.ListByChapter(ctx, chapterCode)
	if err != nil {
		return nil, fmt.Errorf("list chapter %s: %w", chapterCode, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("chapter %s: %w", chapterCode, ErrNoQuestionsAvailable)
	}

	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	s.rng().Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	return takeFirst(ids, total), nil
}

func takeFirst(xs []int, n int) []int {
	if n >= len(xs) {
		return xs
	}
	return xs[:n]
}
