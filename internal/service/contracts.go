package service

import (
	"context"

	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

// QuizRepository reads quiz content of one chapter.
type QuizRepository interface {
	ListByChapter(ctx context.Context, chapterCode string) ([]entities.QuizItem, error)
	GetByChapterAndID(ctx context.Context, chapterCode string, id int) (*entities.QuizItem, error)
}

// Translator renders user-facing messages.
type Translator interface {
	T(msgID string) string
	Td(msgID string, data map[string]any) string
}
