package osa

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"edgehop/internal/config"
)

// ErrBrowserNotFound indicates no Microsoft Edge installation could be
// located through any discovery step.
var ErrBrowserNotFound = errors.New("browser binary not found")

const binaryInBundle = "Contents/MacOS/Microsoft Edge"

// FindBrowser locates the Edge binary. Resolution order: configured
// binary path, configured app bundle, the default /Applications bundle,
// then an mdfind lookup by bundle id.
func FindBrowser(cfg *config.Config) (string, error) {
	if cfg.Bin != "" && fileExists(cfg.Bin) {
		return cfg.Bin, nil
	}
	if cfg.App != "" {
		if p := filepath.Join(cfg.App, binaryInBundle); fileExists(p) {
			return p, nil
		}
	}
	if p := filepath.Join("/Applications/Microsoft Edge.app", binaryInBundle); fileExists(p) {
		return p, nil
	}
	if p := findByBundleID(cfg.BundleID); p != "" {
		return p, nil
	}
	return "", ErrBrowserNotFound
}

func findByBundleID(bundleID string) string {
	if bundleID == "" {
		return ""
	}
	query := fmt.Sprintf("kMDItemCFBundleIdentifier == '%s' && kMDItemKind == 'Application'", bundleID)
	out, err := exec.Command("mdfind", query).Output()
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasSuffix(line, ".app") {
			continue
		}
		if p := filepath.Join(line, binaryInBundle); fileExists(p) {
			return p
		}
	}
	return ""
}

// BrowserLauncher starts the browser binary as a detached process. The
// launch never inherits stdio and runs in its own session so the OS does
// not implicitly foreground the new window.
type BrowserLauncher struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewBrowserLauncher creates a launcher for the configured browser.
func NewBrowserLauncher(cfg *config.Config, logger *zap.Logger) *BrowserLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrowserLauncher{cfg: cfg, logger: logger}
}

// LaunchWorkspace asks the browser to open a workspace under a profile
// without foregrounding anything. Raising the resulting window is the
// caller's job once it appears.
func (l *BrowserLauncher) LaunchWorkspace(profileDir, workspaceID string) error {
	args := []string{
		fmt.Sprintf("--profile-directory=%s", profileDir),
		fmt.Sprintf("--launch-workspace=%s", workspaceID),
		"--silent-launch",
		// Keeps the silent launch from triggering foreground UI work.
		"--disable-features=AutofillShowTypePredictions,MediaRouter",
	}
	return l.launch(args)
}

// LaunchProfile opens a browser window for a profile, optionally at a url.
func (l *BrowserLauncher) LaunchProfile(profileDir, url string) error {
	args := []string{fmt.Sprintf("--profile-directory=%s", profileDir)}
	if url != "" {
		args = append(args, url)
	}
	return l.launch(args)
}

func (l *BrowserLauncher) launch(args []string) error {
	bin, err := FindBrowser(l.cfg)
	if err != nil {
		return err
	}

	cmd := exec.Command(bin, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Env = append(os.Environ(), "NSUnbufferedIO=YES")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	l.logger.Debug("browser launched detached",
		zap.String("bin", bin),
		zap.Strings("args", args),
		zap.Int("pid", cmd.Process.Pid))

	// Detach fully; the browser outlives this process.
	return cmd.Process.Release()
}
