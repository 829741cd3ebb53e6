package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

func TestMemoryRepositorySeed(t *testing.T) {
	repo, err := NewMemoryRepository("")
	require.NoError(t, err)

	for _, code := range entities.ChapterCodes {
		items, err := repo.ListByChapter(context.Background(), code)
		require.NoError(t, err)
		assert.NotEmpty(t, items, "chapter %s", code)
	}

	it, err := repo.GetByChapterAndID(context.Background(), "A", 2)
	require.NoError(t, err)
	assert.Equal(t, entities.KindImage, it.Kind)
	assert.Equal(t, "結腸", it.CanonicalAnswer())

	_, err = repo.GetByChapterAndID(context.Background(), "A", 99)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestMemoryRepositoryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": 5, "chapter_code": "B", "q": "q", "kind": "Desc", "a": ["x"], "secondary_a": [], "comment": "", "hint": ""}
	]`), 0o600))

	repo, err := NewMemoryRepository(path)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Len())

	items, err := repo.ListByChapter(context.Background(), "A")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryRepositoryRejects(t *testing.T) {
	valid := entities.QuizItem{ID: 1, ChapterCode: "A", Prompt: "q", Kind: entities.KindDescription, CorrectAnswers: []string{"x"}}

	_, err := NewMemoryRepositoryFromItems([]entities.QuizItem{valid, valid})
	assert.ErrorContains(t, err, "duplicate")

	bad := valid
	bad.Kind = "Multiple"
	_, err = NewMemoryRepositoryFromItems([]entities.QuizItem{bad})
	assert.ErrorIs(t, err, entities.ErrInvalidQuizItem)

	_, err = NewMemoryRepository(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
