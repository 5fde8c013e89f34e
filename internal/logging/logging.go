// Package logging builds the zap logger used throughout edgehop.
//
// The tool is invoked one-shot from a launcher, so all log output goes to
// stderr (stdout carries command output) and every run is stamped with a
// fresh run id so interleaved launcher invocations stay distinguishable.
package logging

import (
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs the process logger. verbose enables debug level.
func New(verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)

	return zap.New(core).With(zap.String("run", uuid.NewString()))
}
