// Package alfred emits Script Filter JSON for the Alfred launcher.
package alfred

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"edgehop/internal/profile"
	"edgehop/internal/tabs"
	"edgehop/internal/workspace"
)

// MaxItems caps one result list; past it a single overflow notice is
// appended.
const MaxItems = 50

// Icon is an Alfred item icon.
type Icon struct {
	Path string `json:"path"`
}

// Mod is a modifier-key variant of an item.
type Mod struct {
	Subtitle  string            `json:"subtitle,omitempty"`
	Arg       string            `json:"arg,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

// Item is one Script Filter result row.
type Item struct {
	UID       string            `json:"uid,omitempty"`
	Title     string            `json:"title"`
	Subtitle  string            `json:"subtitle"`
	Arg       string            `json:"arg,omitempty"`
	Icon      *Icon             `json:"icon,omitempty"`
	Valid     bool              `json:"valid"`
	Variables map[string]string `json:"variables,omitempty"`
	Mods      map[string]Mod    `json:"mods,omitempty"`
}

// List is the Script Filter envelope.
type List struct {
	Items []Item `json:"items"`
}

// Write marshals the list to w.
func (l List) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("failed to encode alfred items: %w", err)
	}
	return nil
}

// Truncate caps items at MaxItems, appending an overflow notice naming
// the number of hidden rows.
func Truncate(items []Item) []Item {
	if len(items) <= MaxItems {
		return items
	}
	hidden := len(items) - MaxItems
	out := append([]Item(nil), items[:MaxItems]...)
	out = append(out, Item{
		Title:    fmt.Sprintf("… and %d more", hidden),
		Subtitle: "Refine your search to narrow the results",
		Valid:    false,
	})
	return out
}

// NoMatches is the single invalid row shown for an empty result set.
func NoMatches(message, hint string) Item {
	return Item{Title: message, Subtitle: hint, Valid: false}
}

// TabItem formats one open tab. Arg is "W:T" for the switch command;
// cmd copies the url, alt closes the tab.
func TabItem(t tabs.OpenTab) Item {
	title := t.Title
	if t.Active {
		title += " ⭐"
	}

	parts := []string{t.ProfileName}
	if t.WorkspaceName != "" {
		ws := t.WorkspaceName
		if t.WorkspaceShared {
			ws += " 👥"
		}
		parts = append(parts, "📂 "+ws)
	}
	parts = append(parts, truncateURL(t.URL, 50))

	arg := fmt.Sprintf("%d:%d", t.WindowIndex, t.TabIndex)
	return Item{
		UID:      fmt.Sprintf("tab_%d_%d", t.WindowID, t.TabIndex),
		Title:    title,
		Subtitle: strings.Join(parts, " | "),
		Arg:      arg,
		Valid:    true,
		Variables: map[string]string{
			"window_index": fmt.Sprint(t.WindowIndex),
			"tab_index":    fmt.Sprint(t.TabIndex),
			"profile_dir":  t.ProfileDir,
			"workspace_id": t.WorkspaceID,
		},
		Mods: map[string]Mod{
			"cmd": {
				Subtitle:  "Copy URL: " + t.URL,
				Arg:       t.URL,
				Variables: map[string]string{"action": "copy_url"},
			},
			"alt": {
				Subtitle:  "Close this tab",
				Arg:       arg,
				Variables: map[string]string{"action": "close_tab"},
			},
		},
	}
}

// WorkspaceItem formats one workspace. Arg is "<id>|<profile-dir>" for
// the open command.
func WorkspaceItem(ws workspace.Workspace) Item {
	title := ws.Name
	if ws.Active {
		title += " ●"
	}
	if ws.Shared {
		title += " 👥"
	}

	parts := []string{ws.ProfileName}
	if ws.TabCount == 1 {
		parts = append(parts, "1 tab")
	} else {
		parts = append(parts, fmt.Sprintf("%d tabs", ws.TabCount))
	}
	if ws.LastActive > 0 {
		parts = append(parts, "active "+humanize.Time(time.Unix(ws.LastActive, 0)))
	}

	return Item{
		UID:      "workspace_" + ws.ID,
		Title:    title,
		Subtitle: strings.Join(parts, " · "),
		Arg:      ws.ID + "|" + ws.ProfileDir,
		Valid:    true,
		Variables: map[string]string{
			"workspace_id": ws.ID,
			"profile_dir":  ws.ProfileDir,
		},
	}
}

// ProfileItem formats one profile. Arg is the directory key.
func ProfileItem(p profile.Profile) Item {
	subtitle := p.Dir
	if p.Email != "" {
		subtitle += " · " + p.Email
	}
	return Item{
		UID:      "profile_" + p.Dir,
		Title:    p.Name,
		Subtitle: subtitle,
		Arg:      p.Dir,
		Valid:    true,
	}
}

func truncateURL(url string, max int) string {
	if len(url) <= max {
		return url
	}
	return url[:max-3] + "..."
}
