package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
	"github.com/aliskhannn/quiz-fulfillment/internal/infra/postgres"
)

// PostgresRepository stores quiz items in PostgreSQL.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewPostgresRepository creates a PostgresRepository on a pool or a transaction.
func NewPostgresRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByChapter returns every item of the chapter ordered by id.
func (r *PostgresRepository) ListByChapter(ctx context.Context, chapterCode string) ([]entities.QuizItem, error) {
	query := `
		SELECT chapter_code, id, q, kind, a, secondary_a, comment, image, hint
		FROM quiz_items
		WHERE chapter_code = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, chapterCode)
	if err != nil {
		return nil, fmt.Errorf("list quiz items: %w", err)
	}
	defer rows.Close()

	var items []entities.QuizItem
	for rows.Next() {
		var it entities.QuizItem
		if err := scanPostgresItem(rows, &it); err != nil {
			return nil, fmt.Errorf("scan quiz item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quiz items: %w", err)
	}

	return items, nil
}

// GetByChapterAndID returns one item or ErrQuizNotFound.
func (r *PostgresRepository) GetByChapterAndID(ctx context.Context, chapterCode string, id int) (*entities.QuizItem, error) {
	query := `
		SELECT chapter_code, id, q, kind, a, secondary_a, comment, image, hint
		FROM quiz_items
		WHERE chapter_code = $1 AND id = $2
	`

	var it entities.QuizItem
	err := scanPostgresItem(r.db.QueryRow(ctx, query, chapterCode, id), &it)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz item: %w", err)
	}

	return &it, nil
}

// PutItem inserts the item or replaces the one with the same key.
func (r *PostgresRepository) PutItem(ctx context.Context, it entities.QuizItem) error {
	query := `
		INSERT INTO quiz_items (chapter_code, id, q, kind, a, secondary_a, comment, image, hint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (chapter_code, id) DO UPDATE SET
			q = EXCLUDED.q,
			kind = EXCLUDED.kind,
			a = EXCLUDED.a,
			secondary_a = EXCLUDED.secondary_a,
			comment = EXCLUDED.comment,
			image = EXCLUDED.image,
			hint = EXCLUDED.hint
	`

	_, err := r.db.Exec(ctx, query,
		it.ChapterCode,
		it.ID,
		it.Prompt,
		string(it.Kind),
		nonNil(it.CorrectAnswers),
		nonNil(it.PartialAnswers),
		it.Explanation,
		it.ImageURL,
		it.Hint,
	)
	if err != nil {
		return fmt.Errorf("put quiz item %s/%d: %w", it.ChapterCode, it.ID, err)
	}

	return nil
}

func scanPostgresItem(row pgx.Row, it *entities.QuizItem) error {
	var kind string
	if err := row.Scan(
		&it.ChapterCode,
		&it.ID,
		&it.Prompt,
		&kind,
		&it.CorrectAnswers,
		&it.PartialAnswers,
		&it.Explanation,
		&it.ImageURL,
		&it.Hint,
	); err != nil {
		return err
	}
	it.Kind = entities.QuizKind(kind)
	return nil
}
