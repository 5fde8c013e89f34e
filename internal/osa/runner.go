// Package osa wraps the macOS automation surface edgehop drives: osascript
// execution, the native window helpers, and detached browser launches.
//
// Every call here is a blocking subprocess invocation bounded by a
// context deadline. Failures carry trimmed stderr so callers can log a
// useful line before falling back.
package osa

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Script languages accepted by osascript.
const (
	LangJavaScript  = "JavaScript"
	LangAppleScript = "AppleScript"
)

// AppName is the scripting name of the automated browser.
const AppName = "Microsoft Edge"

// Runner executes one osascript invocation and returns its stdout.
// Implementations must honor ctx cancellation.
type Runner interface {
	Run(ctx context.Context, lang, script string) ([]byte, error)
}

// ScriptError reports a failed osascript invocation with its stderr.
type ScriptError struct {
	Op     string
	Stderr string
	Err    error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("osascript %s failed: %v (stderr: %s)", e.Op, e.Err, e.Stderr)
	}
	return fmt.Sprintf("osascript %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying exec error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}

// ExecRunner runs scripts through the osascript binary.
type ExecRunner struct {
	logger *zap.Logger
}

// NewExecRunner creates a Runner backed by osascript. A nil logger means
// no logging.
func NewExecRunner(logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{logger: logger}
}

// Run executes the script and returns trimmed stdout. Deadline expiry is
// reported as a wrapped context.DeadlineExceeded; any other failure is a
// *ScriptError carrying stderr.
func (r *ExecRunner) Run(ctx context.Context, lang, script string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-l", lang, "-e", script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("osascript timed out: %w", ctx.Err())
		}
		scriptErr := &ScriptError{
			Op:     lang,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
		r.logger.Debug("osascript failed",
			zap.String("lang", lang),
			zap.String("stderr", scriptErr.Stderr),
			zap.Error(err))
		return nil, scriptErr
	}

	return bytes.TrimSpace(stdout.Bytes()), nil
}
