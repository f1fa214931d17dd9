package logutils

import (
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type fasthttpLogger struct {
	logger *zap.SugaredLogger
}

// FasthttpLogger adapts zap to fasthttp's printf-style logger. Messages
// that report an error go out at warn level, the rest at debug.
func FasthttpLogger(logger *zap.Logger) fasthttp.Logger {
	return fasthttpLogger{
		logger: logger.WithOptions(zap.AddCallerSkip(1)).Sugar(),
	}
}

func (l fasthttpLogger) Printf(format string, args ...any) {
	if strings.Contains(format, "error") {
		l.logger.Warnf(format, args...)
		return
	}
	l.logger.Debugf(format, args...)
}
