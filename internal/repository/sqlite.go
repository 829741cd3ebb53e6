package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

// SQLiteRepository stores quiz items in the quiz_items table of a local
// database. Answer lists are kept as JSON arrays.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const sqliteColumns = `chapter_code, id, q, kind, a, secondary_a, comment, image, hint`

func (r *SQLiteRepository) ListByChapter(ctx context.Context, chapterCode string) ([]entities.QuizItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sqliteColumns+` FROM quiz_items WHERE chapter_code = ? ORDER BY id`, chapterCode)
	if err != nil {
		return nil, fmt.Errorf("list quiz items: %w", err)
	}
	defer rows.Close()

	var items []entities.QuizItem
	for rows.Next() {
		it, err := scanSQLiteItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quiz items: %w", err)
	}

	return items, nil
}

func (r *SQLiteRepository) GetByChapterAndID(ctx context.Context, chapterCode string, id int) (*entities.QuizItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sqliteColumns+` FROM quiz_items WHERE chapter_code = ? AND id = ?`, chapterCode, id)

	it, err := scanSQLiteItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// PutItem inserts the item or replaces the one with the same key.
func (r *SQLiteRepository) PutItem(ctx context.Context, it entities.QuizItem) error {
	a, err := json.Marshal(nonNil(it.CorrectAnswers))
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	secondary, err := json.Marshal(nonNil(it.PartialAnswers))
	if err != nil {
		return fmt.Errorf("encode partial answers: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO quiz_items (`+sqliteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (chapter_code, id) DO UPDATE SET
			q = excluded.q,
			kind = excluded.kind,
			a = excluded.a,
			secondary_a = excluded.secondary_a,
			comment = excluded.comment,
			image = excluded.image,
			hint = excluded.hint`,
		it.ChapterCode, it.ID, it.Prompt, string(it.Kind), string(a), string(secondary),
		it.Explanation, it.ImageURL, it.Hint,
	)
	if err != nil {
		return fmt.Errorf("put quiz item %s/%d: %w", it.ChapterCode, it.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteItem(row rowScanner) (entities.QuizItem, error) {
	var (
		it           entities.QuizItem
		kind         string
		a, secondary string
	)
	if err := row.Scan(&it.ChapterCode, &it.ID, &it.Prompt, &kind, &a, &secondary, &it.Explanation, &it.ImageURL, &it.Hint); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return it, err
		}
		return it, fmt.Errorf("scan quiz item: %w", err)
	}
	it.Kind = entities.QuizKind(kind)

	if err := json.Unmarshal([]byte(a), &it.CorrectAnswers); err != nil {
		return it, fmt.Errorf("decode answers of %s/%d: %w", it.ChapterCode, it.ID, err)
	}
	if err := json.Unmarshal([]byte(secondary), &it.PartialAnswers); err != nil {
		return it, fmt.Errorf("decode partial answers of %s/%d: %w", it.ChapterCode, it.ID, err)
	}
	return it, nil
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
