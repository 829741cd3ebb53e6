package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-fulfillment/internal/app"
	"github.com/aliskhannn/quiz-fulfillment/internal/config"
	"github.com/aliskhannn/quiz-fulfillment/internal/dialog"
	"github.com/aliskhannn/quiz-fulfillment/internal/logger"
)

type dispatcher interface {
	Dispatch(ctx context.Context, ev dialog.Event) (dialog.Response, error)
}

func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	// Built once per container and reused across invocations.
	a, err := app.Build(context.Background(), cfg, zl)
	if err != nil {
		zl.Fatal("build app", zap.Error(err))
	}
	defer a.Close()

	lambda.Start(newHandler(a.Dispatcher, zl))
}

func newHandler(d dispatcher, zl *zap.Logger) func(context.Context, dialog.Event) (dialog.Response, error) {
	return func(ctx context.Context, ev dialog.Event) (dialog.Response, error) {
		resp, err := d.Dispatch(ctx, ev)
		if err != nil {
			zl.Error("dispatch failed",
				zap.String("session_id", ev.SessionID),
				zap.String("intent", ev.IntentName()),
				zap.Error(err),
			)
			return dialog.Response{}, err
		}
		return resp, nil
	}
}
