package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS quiz_items (
		chapter_code TEXT    NOT NULL,
		id           INTEGER NOT NULL,
		q            TEXT    NOT NULL,
		kind         TEXT    NOT NULL,
		a            TEXT[]  NOT NULL DEFAULT '{}',
		secondary_a  TEXT[]  NOT NULL DEFAULT '{}',
		comment      TEXT    NOT NULL DEFAULT '',
		image        TEXT    NOT NULL DEFAULT '',
		hint         TEXT    NOT NULL DEFAULT '',
		PRIMARY KEY (chapter_code, id)
	)`,
	`CREATE INDEX IF NOT EXISTS quiz_items_kind_idx ON quiz_items (chapter_code, kind)`,
}

// Migrate creates the content store schema in one transaction.
func Migrate(ctx context.Context, t *Transactor) error {
	return t.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for i, stmt := range migrations {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d: %w", i, err)
			}
		}
		return nil
	})
}
