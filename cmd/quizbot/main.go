package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-fulfillment/internal/app"
	"github.com/aliskhannn/quiz-fulfillment/internal/config"
	httpdelivery "github.com/aliskhannn/quiz-fulfillment/internal/delivery/http"
	"github.com/aliskhannn/quiz-fulfillment/internal/delivery/telegram"
	"github.com/aliskhannn/quiz-fulfillment/internal/loader"
	"github.com/aliskhannn/quiz-fulfillment/internal/logger"
	"github.com/aliskhannn/quiz-fulfillment/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quizbot",
		Short:        "Fulfillment core of the quiz bot",
		SilenceUsage: true,
	}

	f := root.PersistentFlags()
	f.String("config", "", "config file (default ./config/config.yaml)")
	f.String("env", "local", "application environment (local, dev, production)")
	f.String("lang", "ja", "language of user-facing messages")
	f.String("driver", config.DriverMemory, "quiz store: memory, sqlite or postgres")
	f.String("sqlite-path", "quiz.db", "database file of the sqlite store")
	f.String("quiz-json", "", "quiz items file of the memory store (default: built-in items)")

	root.AddCommand(newServeCmd(), newTelegramCmd(), newImportCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the fulfillment webhook over HTTP",
		RunE:  runServe,
	}
	cmd.Flags().StringP("addr", "a", ":8080", "listen address")
	return cmd
}

func newTelegramCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "telegram",
		Short: "Talk to the quiz through a Telegram bot",
		RunE:  runTelegram,
	}
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load quiz items into the store",
	}
	f := cmd.PersistentFlags()
	f.Float64("writerate", loader.DefaultWriteRate, "items written per second")
	f.String("delimiter", ",", `CSV field delimiter ("\t" or "tab" for tabs)`)

	cmd.AddCommand(
		&cobra.Command{
			Use:   "csv <file>",
			Short: "Import items from a CSV file",
			Args:  cobra.ExactArgs(1),
			RunE:  runImport(false),
		},
		&cobra.Command{
			Use:   "json <file>",
			Short: "Import items from a JSON array",
			Args:  cobra.ExactArgs(1),
			RunE:  runImport(true),
		},
	)
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the quiz store schema",
		RunE:  runMigrate,
	}
}

func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	zl, err := logger.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, zl, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, zl, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      httpdelivery.NewRouter(httpdelivery.NewHandler(a.Dispatcher, zl)),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("starting server",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("driver", cfg.Repository.Driver),
			zap.String("lang", cfg.Lang),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		zl.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runTelegram(cmd *cobra.Command, _ []string) error {
	cfg, zl, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireTelegram(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer a.Close()

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.APIToken)
	if err != nil {
		return fmt.Errorf("connect to telegram: %w", err)
	}
	bot.Debug = cfg.Telegram.Debug

	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: a.Translator.T("CommandStart")},
		{Command: "chapter", Description: a.Translator.T("CommandChapter")},
		{Command: "quiz", Description: a.Translator.T("CommandQuiz")},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zl.Warn("failed to set bot commands", zap.Error(err))
	}
	zl.Info("authorized on account", zap.String("username", bot.Self.UserName))

	bridge := telegram.NewBridge(a.Dispatcher, a.Translator, app.QuizOptions(cfg), zl)
	handler := telegram.NewHandler(bot, zl, bridge, storage.NewConversationStore(), a.Translator, cfg.Telegram.UpdateTimeout)

	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	zl.Info("shutdown signal received")
	return nil
}

func runImport(asJSON bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, zl, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = zl.Sync() }()

		delim, err := parseDelimiter(cfg.Loader.Delimiter)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := app.OpenStore(ctx, cfg, zl)
		if err != nil {
			return err
		}
		defer store.Close()
		if store.Writer == nil {
			return fmt.Errorf("the %s store is read-only", cfg.Repository.Driver)
		}
		if err := store.Migrate(ctx); err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()

		l := loader.New(store.Writer, loader.Options{
			WriteRate: cfg.Loader.WriteRate,
			Delimiter: delim,
			Logger:    zl,
		})

		var n int
		if asJSON {
			n, err = l.ImportJSON(ctx, f)
		} else {
			n, err = l.ImportCSV(ctx, f)
		}
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}

		if err := store.Invalidate(ctx); err != nil {
			zl.Warn("cache invalidation failed", zap.Error(err))
		}
		zl.Info("import finished", zap.String("file", args[0]), zap.Int("items", n))
		return nil
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, zl, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	store, err := app.OpenStore(cmd.Context(), cfg, zl)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(cmd.Context()); err != nil {
		return err
	}
	zl.Info("schema ready", zap.String("driver", cfg.Repository.Driver))
	return nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "", ",":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
