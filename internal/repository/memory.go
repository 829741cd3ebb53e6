package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

//go:embed seed/quiz_items.json
var seedItems []byte

type itemKey struct {
	chapter string
	id      int
}

// MemoryRepository serves quiz items held in memory. It is read-only after
// construction and safe for concurrent use.
type MemoryRepository struct {
	items []entities.QuizItem
	index map[itemKey]int
}

// NewMemoryRepository loads items from the JSON file at path, or from the
// embedded seed when path is empty.
func NewMemoryRepository(path string) (*MemoryRepository, error) {
	data := seedItems
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read quiz items: %w", err)
		}
	}

	var items []entities.QuizItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quiz items JSON: %w", err)
	}

	return NewMemoryRepositoryFromItems(items)
}

// NewMemoryRepositoryFromItems validates items and indexes them by chapter and id.
func NewMemoryRepositoryFromItems(items []entities.QuizItem) (*MemoryRepository, error) {
	r := &MemoryRepository{
		items: make([]entities.QuizItem, 0, len(items)),
		index: make(map[itemKey]int, len(items)),
	}

	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
		key := itemKey{chapter: it.ChapterCode, id: it.ID}
		if _, dup := r.index[key]; dup {
			return nil, fmt.Errorf("duplicate quiz %s/%d", it.ChapterCode, it.ID)
		}
		r.index[key] = len(r.items)
		r.items = append(r.items, it)
	}

	return r, nil
}

// ListByChapter returns the chapter's items in load order.
func (r *MemoryRepository) ListByChapter(_ context.Context, chapterCode string) ([]entities.QuizItem, error) {
	var out []entities.QuizItem
	for _, it := range r.items {
		if it.ChapterCode == chapterCode {
			out = append(out, it)
		}
	}
	return out, nil
}

// GetByChapterAndID returns one item or ErrQuizNotFound.
func (r *MemoryRepository) GetByChapterAndID(_ context.Context, chapterCode string, id int) (*entities.QuizItem, error) {
	i, ok := r.index[itemKey{chapter: chapterCode, id: id}]
	if !ok {
		return nil, ErrQuizNotFound
	}
	it := r.items[i]
	return &it, nil
}

// Len returns the number of loaded items.
func (r *MemoryRepository) Len() int {
	return len(r.items)
}
