package osa

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Scripter performs the window and tab mutations that go through the
// browser's own scripting object model. These are the coarse primitives:
// anything that calls activate here raises every browser window, which is
// acceptable only on the fallback path.
type Scripter struct {
	runner  Runner
	timeout time.Duration
	logger  *zap.Logger
}

// NewScripter creates a Scripter on top of a Runner.
func NewScripter(runner Runner, timeout time.Duration, logger *zap.Logger) *Scripter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Scripter{runner: runner, timeout: timeout, logger: logger}
}

// jxaOutcome is the envelope every mutation script returns.
type jxaOutcome struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SelectTab sets the active tab ordinal of a window. Window and tab are
// 1-based. The window itself is not raised.
func (s *Scripter) SelectTab(ctx context.Context, window, tab int) error {
	script := fmt.Sprintf(`(() => {
	let app = Application(%q);
	try {
		let windows = app.windows();
		if (%d >= windows.length) {
			return JSON.stringify({success: false, error: "window out of range"});
		}
		windows[%d].activeTabIndex = %d;
		return JSON.stringify({success: true});
	} catch (e) {
		return JSON.stringify({success: false, error: e.toString()});
	}
})();`, AppName, window-1, window-1, tab)

	return s.runOutcome(ctx, "select-tab", script)
}

// CloseTab closes tab ordinal tab of window ordinal window.
func (s *Scripter) CloseTab(ctx context.Context, window, tab int) error {
	script := fmt.Sprintf(`(() => {
	let app = Application(%q);
	try {
		if (!app.running()) {
			return JSON.stringify({success: false, error: "app is not running"});
		}
		let windows = app.windows();
		if (%d >= windows.length) {
			return JSON.stringify({success: false, error: "window out of range"});
		}
		let tabs = windows[%d].tabs();
		if (%d >= tabs.length) {
			return JSON.stringify({success: false, error: "tab out of range"});
		}
		tabs[%d].close();
		return JSON.stringify({success: true});
	} catch (e) {
		return JSON.stringify({success: false, error: e.toString()});
	}
})();`, AppName, window-1, window-1, tab-1, tab-1)

	return s.runOutcome(ctx, "close-tab", script)
}

// RaiseAll is the whole-application fallback: move the target window to
// the front, select the tab, then activate the application. All browser
// windows come forward.
func (s *Scripter) RaiseAll(ctx context.Context, window, tab int) error {
	script := fmt.Sprintf(`tell application %q
	set index of window %d to 1
	set active tab index of window 1 to %d
	activate
end tell`, AppName, window, tab)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.runner.Run(ctx, LangAppleScript, script); err != nil {
		return fmt.Errorf("whole-app raise failed: %w", err)
	}
	return nil
}

func (s *Scripter) runOutcome(ctx context.Context, op, script string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.runner.Run(ctx, LangJavaScript, script)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var outcome jxaOutcome
	if err := json.Unmarshal(out, &outcome); err != nil {
		return fmt.Errorf("%s returned malformed payload: %w", op, err)
	}
	if !outcome.Success {
		return fmt.Errorf("%s rejected: %s", op, outcome.Error)
	}
	return nil
}
