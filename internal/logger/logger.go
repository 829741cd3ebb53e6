package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aliskhannn/quiz-fulfillment/internal/config"
)

// New builds the application logger. Timestamps are rendered in the
// configured timezone regardless of the process TZ.
func New(cfg *config.Config) (*zap.Logger, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.EncodeTime = timeEncoder(loc, time.RFC3339Nano)
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeTime = timeEncoder(loc, "2006-01-02T15:04:05.000Z0700")
	}

	return zc.Build()
}

func timeEncoder(loc *time.Location, layout string) zapcore.TimeEncoder {
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(loc).Format(layout))
	}
}
