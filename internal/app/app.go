// Package app wires configuration, stores and the dispatcher together for
// every entrypoint.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-fulfillment/internal/config"
	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
	"github.com/aliskhannn/quiz-fulfillment/internal/i18n"
	"github.com/aliskhannn/quiz-fulfillment/internal/infra/postgres"
	"github.com/aliskhannn/quiz-fulfillment/internal/infra/sqlite"
	"github.com/aliskhannn/quiz-fulfillment/internal/loader"
	"github.com/aliskhannn/quiz-fulfillment/internal/repository"
	"github.com/aliskhannn/quiz-fulfillment/internal/service"
)

// Store is the configured quiz content store.
type Store struct {
	Reader repository.QuizReader
	Writer loader.ItemWriter // nil for the read-only memory store
	Cache  *repository.CachedRepository

	pg      *postgres.Transactor
	closers []func()
}

// OpenStore opens the store selected by cfg.Repository.Driver, with the
// redis cache in front when cfg.Redis.Addr is set.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	s := &Store{}

	switch cfg.Repository.Driver {
	case config.DriverMemory:
		repo, err := repository.NewMemoryRepository(cfg.Repository.QuizJSONPath)
		if err != nil {
			return nil, fmt.Errorf("load quiz items: %w", err)
		}
		logger.Info("memory store loaded", zap.Int("items", repo.Len()))
		s.Reader = repo

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Repository.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = db.Close() })
		repo := repository.NewSQLiteRepository(db)
		s.Reader, s.Writer = repo, repo

	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		s.pg = postgres.NewTransactor(pool)
		repo := repository.NewPostgresRepository(pool)
		s.Reader, s.Writer = repo, repo

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Repository.Driver)
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, reads go to the store", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		s.closers = append(s.closers, func() { _ = rdb.Close() })
		s.Cache = repository.NewCachedRepository(s.Reader, rdb, cfg.Redis.TTL, logger)
		s.Reader = s.Cache
	}

	return s, nil
}

// Migrate creates the schema of database-backed stores.
func (s *Store) Migrate(ctx context.Context) error {
	if s.pg != nil {
		return postgres.Migrate(ctx, s.pg)
	}
	// sqlite migrates on open; memory has no schema.
	return nil
}

// Invalidate drops cached entries of every chapter.
func (s *Store) Invalidate(ctx context.Context) error {
	if s.Cache == nil {
		return nil
	}
	for _, code := range entities.ChapterCodes {
		if err := s.Cache.Invalidate(ctx, code); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// App is the fulfillment core ready to serve turns.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Translator *i18n.Translator
	Store      *Store
	Dispatcher *service.Dispatcher
}

// Build opens the store and creates the dispatcher.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	tr, err := i18n.New(cfg.Lang, logger)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	d, err := service.New(store.Reader, tr, QuizOptions(cfg), logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		Translator: tr,
		Store:      store,
		Dispatcher: d,
	}, nil
}

// QuizOptions returns the handler options configured in cfg.
func QuizOptions(cfg *config.Config) service.Options {
	return service.Options{
		QuestionCounts: cfg.Quiz.QuestionCounts,
		StartUtterance: cfg.Quiz.StartUtterance,
		ReadyImageURL:  cfg.Quiz.ReadyImageURL,
	}
}

func (a *App) Close() {
	a.Store.Close()
	_ = a.Logger.Sync()
}
