// Package repository provides the quiz content stores.
package repository

import (
	"context"
	"errors"

	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

var ErrQuizNotFound = errors.New("quiz not found")

// QuizReader is the read side shared by every store.
type QuizReader interface {
	ListByChapter(ctx context.Context, chapterCode string) ([]entities.QuizItem, error)
	GetByChapterAndID(ctx context.Context, chapterCode string, id int) (*entities.QuizItem, error)
}
