// Package activate raises exactly one browser window among many.
//
// macOS offers two activation primitives: a narrow per-window raise that
// can fail silently (stale handle, accessibility denied, helper missing)
// and a whole-application activate that always works but brings every
// window forward. The activator runs a strict fallback chain preferring
// the narrow primitive, and for workspaces that are not open yet it
// launches the browser detached and polls for the new window by url probe
// and window-handle snapshot diff.
//
// All collaborators are interfaces and the clock is injectable, so the
// whole chain is testable without a running browser.
package activate

import (
	"context"
	"time"

	"go.uber.org/zap"

	"edgehop/internal/osa"
)

// WindowLister returns the native window handles, frontmost first.
type WindowLister interface {
	ListWindows(ctx context.Context) ([]osa.WindowHandle, error)
}

// WindowRaiser raises a single window by pid and window number.
type WindowRaiser interface {
	RaiseWindow(ctx context.Context, pid, number int) error
}

// TabScripter is the scripting-model surface the chain needs:
// tab selection, tab close, and the whole-application fallback raise.
type TabScripter interface {
	SelectTab(ctx context.Context, window, tab int) error
	CloseTab(ctx context.Context, window, tab int) error
	RaiseAll(ctx context.Context, window, tab int) error
}

// WorkspaceProber reports whether a workspace already has an open tab,
// and at which 1-based (window, tab) ordinals.
type WorkspaceProber interface {
	ProbeWorkspace(ctx context.Context, workspaceID string) (window, tab int, found bool, err error)
}

// WorkspaceLauncher starts a detached browser launch for a workspace.
type WorkspaceLauncher interface {
	LaunchWorkspace(profileDir, workspaceID string) error
}

// Clock abstracts the poll sleep so tests run without real timers.
type Clock interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Options configures an Activator. Zero values get defaults.
type Options struct {
	Lister   WindowLister
	Raiser   WindowRaiser
	Scripter TabScripter
	Prober   WorkspaceProber
	Launcher WorkspaceLauncher
	Clock    Clock

	// New-window polling budget after a detached launch.
	PollAttempts int
	PollInterval time.Duration

	Logger *zap.Logger
}

// Activator executes the targeted activation chains.
type Activator struct {
	lister   WindowLister
	raiser   WindowRaiser
	scripter TabScripter
	prober   WorkspaceProber
	launcher WorkspaceLauncher
	clock    Clock

	pollAttempts int
	pollInterval time.Duration

	logger *zap.Logger
}

// New creates an Activator.
func New(opts Options) *Activator {
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.PollAttempts <= 0 {
		opts.PollAttempts = 15
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 200 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Activator{
		lister:       opts.Lister,
		raiser:       opts.Raiser,
		scripter:     opts.Scripter,
		prober:       opts.Prober,
		launcher:     opts.Launcher,
		clock:        opts.Clock,
		pollAttempts: opts.PollAttempts,
		pollInterval: opts.PollInterval,
		logger:       opts.Logger,
	}
}

// ActivateTab raises the window at the 1-based window ordinal and selects
// the tab at the 1-based tab ordinal. Chain: resolve the native handle,
// raise just that window, select the tab best-effort; any stage failure
// falls through to the whole-application raise, whose outcome is then the
// overall outcome. Malformed ordinals are rejected before any platform
// call.
func (a *Activator) ActivateTab(ctx context.Context, window, tab int) bool {
	if window < 1 || tab < 1 {
		a.logger.Debug("rejected ordinals", zap.Int("window", window), zap.Int("tab", tab))
		return false
	}

	if a.raiseTargeted(ctx, window) {
		// Window is already raised; tab selection is best effort.
		if err := a.scripter.SelectTab(ctx, window, tab); err != nil {
			a.logger.Debug("tab selection failed after raise", zap.Error(err))
		}
		return true
	}

	a.logger.Debug("falling back to whole-app raise",
		zap.Int("window", window), zap.Int("tab", tab))
	if err := a.scripter.RaiseAll(ctx, window, tab); err != nil {
		a.logger.Warn("whole-app raise failed", zap.Error(err))
		return false
	}
	return true
}

// raiseTargeted resolves the window ordinal to a native handle and raises
// only that window. False means advance to the fallback.
func (a *Activator) raiseTargeted(ctx context.Context, window int) bool {
	handles, err := a.lister.ListWindows(ctx)
	if err != nil {
		a.logger.Debug("window listing unavailable", zap.Error(err))
		return false
	}
	if window > len(handles) {
		a.logger.Debug("window ordinal out of range",
			zap.Int("window", window), zap.Int("open", len(handles)))
		return false
	}

	h := handles[window-1]
	if err := a.raiser.RaiseWindow(ctx, h.PID, h.Number); err != nil {
		a.logger.Debug("targeted raise denied", zap.Error(err))
		return false
	}
	return true
}

// ActivateWorkspace brings a workspace to the foreground. If a tab with
// the workspace's marker url is already open, its window is raised via
// ActivateTab. Otherwise the browser is launched detached and a bounded
// poll watches for either the marker url or a window handle that was not
// in the pre-launch snapshot. Once a new window is confirmed, a failed
// raise still counts as success; a poll that exhausts with no signal is
// failure.
func (a *Activator) ActivateWorkspace(ctx context.Context, workspaceID, profileDir string) bool {
	if workspaceID == "" {
		return false
	}

	if w, t, found, err := a.prober.ProbeWorkspace(ctx, workspaceID); err == nil && found {
		a.logger.Debug("workspace already open",
			zap.String("workspace", workspaceID), zap.Int("window", w), zap.Int("tab", t))
		return a.ActivateTab(ctx, w, t)
	}

	before := a.handleNumbers(ctx)

	if err := a.launcher.LaunchWorkspace(profileDir, workspaceID); err != nil {
		a.logger.Warn("workspace launch failed",
			zap.String("workspace", workspaceID), zap.Error(err))
		return false
	}

	for attempt := 0; attempt < a.pollAttempts; attempt++ {
		a.clock.Sleep(a.pollInterval)

		if w, t, found, err := a.prober.ProbeWorkspace(ctx, workspaceID); err == nil && found {
			a.logger.Debug("workspace resolved by url probe",
				zap.String("workspace", workspaceID), zap.Int("attempt", attempt+1))
			// The workspace opened; raising it is best effort now.
			a.ActivateTab(ctx, w, t)
			return true
		}

		if h, ok := a.newHandle(ctx, before); ok {
			a.logger.Debug("new window detected by snapshot diff",
				zap.String("workspace", workspaceID),
				zap.Int("pid", h.PID), zap.Int("number", h.Number),
				zap.Int("attempt", attempt+1))
			if err := a.raiser.RaiseWindow(ctx, h.PID, h.Number); err != nil {
				a.logger.Debug("raise of new window failed", zap.Error(err))
			}
			return true
		}
	}

	a.logger.Warn("workspace launch produced no detectable window",
		zap.String("workspace", workspaceID), zap.Int("attempts", a.pollAttempts))
	return false
}

// CloseTab closes the tab at the 1-based (window, tab) ordinals.
func (a *Activator) CloseTab(ctx context.Context, window, tab int) bool {
	if window < 1 || tab < 1 {
		return false
	}
	if err := a.scripter.CloseTab(ctx, window, tab); err != nil {
		a.logger.Debug("close tab failed",
			zap.Int("window", window), zap.Int("tab", tab), zap.Error(err))
		return false
	}
	return true
}

// handleNumbers snapshots the current native window numbers. Listing
// failure degrades to an empty set, which makes every later handle look
// new; acceptable, since a launch was requested either way.
func (a *Activator) handleNumbers(ctx context.Context) map[int]bool {
	numbers := make(map[int]bool)
	handles, err := a.lister.ListWindows(ctx)
	if err != nil {
		return numbers
	}
	for _, h := range handles {
		numbers[h.Number] = true
	}
	return numbers
}

// newHandle reports the first window handle not present in the
// pre-launch snapshot.
func (a *Activator) newHandle(ctx context.Context, before map[int]bool) (osa.WindowHandle, bool) {
	handles, err := a.lister.ListWindows(ctx)
	if err != nil {
		return osa.WindowHandle{}, false
	}
	for _, h := range handles {
		if !before[h.Number] {
			return h, true
		}
	}
	return osa.WindowHandle{}, false
}
