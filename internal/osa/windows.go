package osa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Helper binary names. These are small native tools that list and raise
// individual browser windows by Core Graphics window number, which the
// scripting interface cannot do without raising every window.
const (
	listWindowsHelper = "edge-list-windows"
	raiseWindowHelper = "edge-raise-window"
)

// ErrHelperNotFound indicates a native window helper could not be
// resolved. Callers treat this like a denied raise and fall back.
var ErrHelperNotFound = errors.New("window helper binary not found")

// WindowHandle identifies one native browser window, front-to-back order.
type WindowHandle struct {
	PID    int `json:"pid"`
	Number int `json:"windowNumber"`
}

// HelperTools invokes the native window helpers.
type HelperTools struct {
	dir     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewHelperTools creates a helper client. dir optionally pins the helper
// directory; empty means look beside the running executable, then PATH.
func NewHelperTools(dir string, timeout time.Duration, logger *zap.Logger) *HelperTools {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HelperTools{dir: dir, timeout: timeout, logger: logger}
}

// ListWindows returns the browser's native windows, frontmost first.
func (h *HelperTools) ListWindows(ctx context.Context) ([]WindowHandle, error) {
	path, err := h.resolve(listWindowsHelper)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path).Output()
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", listWindowsHelper, err)
	}

	var handles []WindowHandle
	if err := json.Unmarshal(out, &handles); err != nil {
		return nil, fmt.Errorf("%s returned malformed JSON: %w", listWindowsHelper, err)
	}
	return handles, nil
}

// RaiseWindow raises exactly one window by pid and window number.
func (h *HelperTools) RaiseWindow(ctx context.Context, pid, number int) error {
	path, err := h.resolve(raiseWindowHelper)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, fmt.Sprint(pid), fmt.Sprint(number))
	if out, err := cmd.CombinedOutput(); err != nil {
		h.logger.Debug("targeted raise failed",
			zap.Int("pid", pid),
			zap.Int("window", number),
			zap.ByteString("output", out),
			zap.Error(err))
		return fmt.Errorf("%s %d %d failed: %w", raiseWindowHelper, pid, number, err)
	}
	return nil
}

// Resolve reports the resolved path of a helper by name, for diagnostics.
func (h *HelperTools) Resolve(name string) (string, error) {
	return h.resolve(name)
}

// HelperNames lists the helper binaries this client depends on.
func HelperNames() []string {
	return []string{listWindowsHelper, raiseWindowHelper}
}

func (h *HelperTools) resolve(name string) (string, error) {
	if h.dir != "" {
		p := filepath.Join(h.dir, name)
		if fileExists(p) {
			return p, nil
		}
	}
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), name)
		if fileExists(p) {
			return p, nil
		}
	}
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("%w: %s", ErrHelperNotFound, name)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
