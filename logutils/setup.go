package logutils

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/flashbots/ethcall/config"
)

var (
	errLoggerInvalidLevel = errors.New("invalid log-level")
	errLoggerInvalidMode  = errors.New("invalid log-mode")
)

// NewLogger builds a logger that writes to stderr: stdout is reserved for
// call results. Dev mode is human-readable, prod mode emits json.
func NewLogger(cfg *config.Log, fields ...zap.Field) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w",
			errLoggerInvalidLevel, cfg.Level, err,
		)
	}

	var (
		encoder zapcore.Encoder
		options []zap.Option
	)
	switch strings.ToLower(cfg.Mode) {
	case "dev":
		ecfg := zap.NewDevelopmentEncoderConfig()
		ecfg.EncodeTime = zapcore.ISO8601TimeEncoder
		ecfg.EncodeCaller = nil
		encoder = zapcore.NewConsoleEncoder(ecfg)
		options = append(options, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	case "prod":
		ecfg := zap.NewProductionEncoderConfig()
		ecfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(ecfg)
		options = append(options, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	default:
		return nil, fmt.Errorf("%w: %s",
			errLoggerInvalidMode, cfg.Mode,
		)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	if len(fields) > 0 {
		options = append(options, zap.Fields(fields...))
	}

	return zap.New(core, options...), nil
}
