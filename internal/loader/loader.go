// Package loader seeds the quiz content store from local files.
package loader

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

// DefaultWriteRate is the default number of items written per second.
const DefaultWriteRate = 5

// ItemWriter stores one quiz item, replacing any item with the same key.
type ItemWriter interface {
	PutItem(ctx context.Context, item entities.QuizItem) error
}

type Options struct {
	WriteRate float64 // items per second
	Delimiter rune    // CSV field delimiter
	Logger    *zap.Logger
}

// Loader writes parsed items to the store at a bounded rate.
type Loader struct {
	w         ItemWriter
	limiter   *rate.Limiter
	delimiter rune
	logger    *zap.Logger
}

func New(w ItemWriter, opts Options) *Loader {
	if opts.WriteRate <= 0 {
		opts.WriteRate = DefaultWriteRate
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Loader{
		w:         w,
		limiter:   rate.NewLimiter(rate.Limit(opts.WriteRate), 1),
		delimiter: opts.Delimiter,
		logger:    opts.Logger,
	}
}

// ImportJSON reads a JSON array of items and writes them.
func (l *Loader) ImportJSON(ctx context.Context, r io.Reader) (int, error) {
	items, err := parseJSON(r)
	if err != nil {
		return 0, err
	}
	return l.write(ctx, items)
}

// ImportCSV reads a CSV file with a header row and writes its rows.
func (l *Loader) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	items, err := parseCSV(r, l.delimiter)
	if err != nil {
		return 0, err
	}
	return l.write(ctx, items)
}

// write validates every item before writing any of them.
func (l *Loader) write(ctx context.Context, items []entities.QuizItem) (int, error) {
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return 0, fmt.Errorf("item %d: %w", i+1, err)
		}
	}

	for i, it := range items {
		if err := l.limiter.Wait(ctx); err != nil {
			return i, fmt.Errorf("wait for write slot: %w", err)
		}
		if err := l.w.PutItem(ctx, it); err != nil {
			return i, err
		}
		l.logger.Debug("quiz item written", zap.String("chapter", it.ChapterCode), zap.Int("id", it.ID))
	}

	l.logger.Info("items written", zap.Int("items", len(items)))
	return len(items), nil
}
