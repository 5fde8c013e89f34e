// Package session queries the running browser for its live windows and
// tabs through the scripting interface.
//
// The query is inherently racy: windows open and close while it runs, the
// browser may not be running at all, and automation permission may be
// denied. Every failure mode surfaces as an error the caller treats as
// "session unavailable"; nothing here panics or retries.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"edgehop/internal/osa"
)

// Tab is one open tab as reported by the scripting query.
type Tab struct {
	Index  int    // 1-based within its window
	Title  string
	URL    string
	Active bool
}

// Window is one open browser window with its tabs.
type Window struct {
	ID          int    // scripting window id
	Index       int    // 1-based, front-to-back query order
	Name        string // window display name, often the workspace name
	ProfileHint string // best-effort profile label, may be empty
	Tabs        []Tab
}

// The accessibility window title carries a " - Microsoft Edge - <Profile>"
// suffix. This is host-OS metadata, not browser state: a hint, never an
// identity.
var profileHintRe = regexp.MustCompile(` - Microsoft Edge - ([^-]+)$`)

// Client runs the live-session scripting queries.
type Client struct {
	runner  osa.Runner
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a snapshot client. timeout bounds each query.
func NewClient(runner osa.Runner, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{runner: runner, timeout: timeout, logger: logger}
}

// snapshotPayload is the JSON envelope the snapshot script emits.
type snapshotPayload struct {
	Error   string `json:"error"`
	Windows []struct {
		ID      int    `json:"id"`
		Name    string `json:"name"`
		SETitle string `json:"seTitle"`
		Tabs    []struct {
			Title  string `json:"title"`
			URL    string `json:"url"`
			Active bool   `json:"active"`
		} `json:"tabs"`
	} `json:"windows"`
}

const snapshotScript = `(() => {
	let app = Application("Microsoft Edge");
	let se = Application("System Events");
	let windows = [];
	try {
		if (app.running()) {
			let appWindows = app.windows();
			let seTitles = [];
			try {
				seTitles = se.processes.byName("Microsoft Edge").windows().map(w => w.title());
			} catch (e) {
				// Accessibility may be denied; titles stay empty.
			}
			for (let i = 0; i < appWindows.length; i++) {
				let w = appWindows[i];
				let entry = {
					id: w.id(),
					name: w.name(),
					seTitle: i < seTitles.length ? seTitles[i] : "",
					tabs: []
				};
				let active = w.activeTab();
				let tabs = w.tabs();
				for (let j = 0; j < tabs.length; j++) {
					entry.tabs.push({
						title: tabs[j].title(),
						url: tabs[j].url(),
						active: tabs[j] === active
					});
				}
				windows.push(entry);
			}
		}
	} catch (e) {
		return JSON.stringify({error: e.toString()});
	}
	return JSON.stringify({windows: windows});
})();`

// Query returns every open window with its tabs. Any failure (timeout,
// app not running with a scripting error, malformed payload, automation
// denied) is returned as an error; callers degrade to an empty session.
func (c *Client) Query(ctx context.Context) ([]Window, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.runner.Run(ctx, osa.LangJavaScript, snapshotScript)
	if err != nil {
		return nil, fmt.Errorf("session query failed: %w", err)
	}

	var payload snapshotPayload
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, fmt.Errorf("session query returned malformed payload: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("session query rejected: %s", payload.Error)
	}

	windows := make([]Window, 0, len(payload.Windows))
	for i, raw := range payload.Windows {
		w := Window{
			ID:          raw.ID,
			Index:       i + 1,
			Name:        raw.Name,
			ProfileHint: ExtractProfileHint(raw.SETitle),
		}
		for j, t := range raw.Tabs {
			title := t.Title
			if title == "" {
				title = "Untitled"
			}
			url := t.URL
			if url == "" {
				url = "about:blank"
			}
			w.Tabs = append(w.Tabs, Tab{
				Index:  j + 1,
				Title:  title,
				URL:    url,
				Active: t.Active,
			})
		}
		windows = append(windows, w)
	}

	c.logger.Debug("session snapshot", zap.Int("windows", len(windows)))
	return windows, nil
}

// WindowNames returns just the open window display names. Used to badge
// workspaces that are open right now; failures degrade to nil.
func (c *Client) WindowNames(ctx context.Context) ([]string, error) {
	const script = `(() => {
	let app = Application("Microsoft Edge");
	let names = [];
	try {
		if (app.running()) {
			names = app.windows().map(w => w.name());
		}
	} catch (e) {
		// App not running or automation denied.
	}
	return JSON.stringify(names);
})();`

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.runner.Run(ctx, osa.LangJavaScript, script)
	if err != nil {
		return nil, fmt.Errorf("window-name query failed: %w", err)
	}

	var names []string
	if err := json.Unmarshal(out, &names); err != nil {
		return nil, fmt.Errorf("window-name query returned malformed payload: %w", err)
	}

	filtered := names[:0]
	for _, n := range names {
		if n != "" {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}

// probePayload is the envelope the workspace probe script emits.
type probePayload struct {
	Found       bool   `json:"found"`
	WindowIndex int    `json:"windowIndex"`
	TabIndex    int    `json:"tabIndex"`
	Error       string `json:"error"`
}

// ProbeWorkspace scans every open tab for the workspace marker url
// edge://workspaces/<id> and returns the 1-based ordinals of the first
// hit. found is false when the workspace has no open tab.
func (c *Client) ProbeWorkspace(ctx context.Context, workspaceID string) (window, tab int, found bool, err error) {
	marker := "edge://workspaces/" + workspaceID
	script := fmt.Sprintf(`(() => {
	let app = Application("Microsoft Edge");
	try {
		if (!app.running()) {
			return JSON.stringify({found: false});
		}
		let windows = app.windows();
		for (let i = 0; i < windows.length; i++) {
			let tabs = windows[i].tabs();
			for (let j = 0; j < tabs.length; j++) {
				let url = tabs[j].url();
				if (url && url.includes(%q)) {
					return JSON.stringify({found: true, windowIndex: i + 1, tabIndex: j + 1});
				}
			}
		}
		return JSON.stringify({found: false});
	} catch (e) {
		return JSON.stringify({found: false, error: e.toString()});
	}
})();`, marker)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.runner.Run(ctx, osa.LangJavaScript, script)
	if err != nil {
		return 0, 0, false, fmt.Errorf("workspace probe failed: %w", err)
	}

	var payload probePayload
	if err := json.Unmarshal(out, &payload); err != nil {
		return 0, 0, false, fmt.Errorf("workspace probe returned malformed payload: %w", err)
	}
	if !payload.Found {
		return 0, 0, false, nil
	}
	return payload.WindowIndex, payload.TabIndex, true, nil
}

// ExtractProfileHint pulls the profile label out of an accessibility
// window title. Empty when the title does not carry the suffix.
func ExtractProfileHint(seTitle string) string {
	m := profileHintRe.FindStringSubmatch(seTitle)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
