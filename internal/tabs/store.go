// Package tabs joins the live session snapshot with the workspace and
// profile catalogs into one searchable open-tab view.
//
// The join keys are best-effort: a window's display name usually equals
// its workspace name, and the accessibility title sometimes names the
// profile. Neither is guaranteed, so correlation runs an ordered chain of
// fallback rules and every row always ends up with an identity, synthetic
// if need be.
package tabs

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"edgehop/internal/profile"
	"edgehop/internal/session"
	"edgehop/internal/workspace"
)

// Relevance scores for Search, strongest signal first. The active bonus
// only reorders rows that already match.
const (
	scoreTitleExact     = 1000
	scoreURLExact       = 900
	scoreTitleSubstring = 500
	scoreTitlePrefix    = 100 // on top of substring
	scoreURLSubstring   = 300
	scoreURLHost        = 100 // on top of substring, query at a host boundary
	scoreWorkspaceName  = 200
	scoreProfileName    = 150
	scoreActiveBonus    = 50
)

// OpenTab is the correlated view of one live tab.
type OpenTab struct {
	Title       string
	URL         string
	WindowIndex int
	WindowID    int
	WindowName  string
	TabIndex    int
	Active      bool

	ProfileName  string
	ProfileEmail string
	ProfileDir   string

	WorkspaceName   string
	WorkspaceID     string
	WorkspaceShared bool
}

// Snapshotter supplies the live windows. *session.Client implements it.
type Snapshotter interface {
	Query(ctx context.Context) ([]session.Window, error)
}

// Store correlates and memoizes the open-tab view for one run.
type Store struct {
	session    Snapshotter
	workspaces *workspace.Store
	profiles   *profile.Store
	logger     *zap.Logger
	cache      []OpenTab
	loaded     bool
}

// NewStore creates the correlation store over the three sources.
func NewStore(snap Snapshotter, workspaces *workspace.Store, profiles *profile.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{session: snap, workspaces: workspaces, profiles: profiles, logger: logger}
}

// LoadAll returns every open tab with its resolved workspace and profile.
// An unavailable or empty session yields an empty slice and is not
// memoized, so a later call may retry.
func (s *Store) LoadAll(ctx context.Context) []OpenTab {
	if s.loaded {
		return s.cache
	}

	windows, err := s.session.Query(ctx)
	if err != nil {
		s.logger.Debug("session unavailable", zap.Error(err))
		return nil
	}
	if len(windows) == 0 {
		return nil
	}

	allWorkspaces := s.workspaces.LoadAll()

	var tabs []OpenTab
	for _, win := range windows {
		ws, wsFound := correlateWorkspace(win.Name, allWorkspaces)
		prof := s.resolveProfile(win.ProfileHint, ws, wsFound)

		for _, t := range win.Tabs {
			row := OpenTab{
				Title:       t.Title,
				URL:         t.URL,
				WindowIndex: win.Index,
				WindowID:    win.ID,
				WindowName:  win.Name,
				TabIndex:    t.Index,
				Active:      t.Active,

				ProfileName:  prof.Name,
				ProfileEmail: prof.Email,
				ProfileDir:   prof.Dir,
			}
			if wsFound {
				row.WorkspaceName = ws.Name
				row.WorkspaceID = ws.ID
				row.WorkspaceShared = ws.Shared
			}
			tabs = append(tabs, row)
		}
	}

	s.cache = tabs
	s.loaded = true
	s.logger.Debug("tabs correlated", zap.Int("count", len(tabs)))
	return tabs
}

// correlateWorkspace finds the workspace a window belongs to. Exact name
// match wins over substring; within each rule the aggregate order (most
// recently active first) decides ties.
func correlateWorkspace(windowName string, workspaces []workspace.Workspace) (workspace.Workspace, bool) {
	for _, ws := range workspaces {
		if ws.Name == windowName {
			return ws, true
		}
	}
	for _, ws := range workspaces {
		if ws.Name != "" && strings.Contains(windowName, ws.Name) {
			return ws, true
		}
	}
	return workspace.Workspace{}, false
}

// resolveProfile picks the identity for a window: the profile named by
// the accessibility hint, else the matched workspace's owner, else the
// synthetic default. Never empty.
func (s *Store) resolveProfile(hint string, ws workspace.Workspace, wsFound bool) profile.Profile {
	if hint != "" {
		if p, ok := s.profiles.ByName(hint); ok {
			return p
		}
	}
	if wsFound {
		if p, ok := s.profiles.ByDir(ws.ProfileDir); ok {
			return p
		}
	}
	return profile.Default()
}

// Search ranks open tabs against a query. Empty query returns load
// order. Rows with no text match are dropped; matches sort by score
// descending only, ties keep encounter order.
func (s *Store) Search(ctx context.Context, query string) []OpenTab {
	tabs := s.LoadAll(ctx)
	if query == "" {
		return tabs
	}

	q := strings.ToLower(query)
	type scored struct {
		score int
		tab   OpenTab
	}
	var results []scored

	for _, tab := range tabs {
		score := tabTextScore(q, tab)
		if score == 0 {
			continue
		}
		if tab.Active {
			score += scoreActiveBonus
		}
		results = append(results, scored{score: score, tab: tab})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	out := make([]OpenTab, len(results))
	for i, r := range results {
		out[i] = r.tab
	}
	return out
}

func tabTextScore(q string, tab OpenTab) int {
	title := strings.ToLower(tab.Title)
	url := strings.ToLower(tab.URL)

	switch {
	case q == title:
		return scoreTitleExact
	case q == url:
		return scoreURLExact
	case strings.Contains(title, q):
		score := scoreTitleSubstring
		if strings.HasPrefix(title, q) {
			score += scoreTitlePrefix
		}
		return score
	case strings.Contains(url, q):
		score := scoreURLSubstring
		if strings.Contains(url, "://"+q) || strings.Contains(url, "."+q+".") {
			score += scoreURLHost
		}
		return score
	case tab.WorkspaceName != "" && strings.Contains(strings.ToLower(tab.WorkspaceName), q):
		return scoreWorkspaceName
	case strings.Contains(strings.ToLower(tab.ProfileName), q):
		return scoreProfileName
	}
	return 0
}

// GetByOrdinals returns the tab at the 1-based (window, tab) position.
func (s *Store) GetByOrdinals(ctx context.Context, window, tab int) (OpenTab, bool) {
	for _, t := range s.LoadAll(ctx) {
		if t.WindowIndex == window && t.TabIndex == tab {
			return t, true
		}
	}
	return OpenTab{}, false
}

// ClearCache drops the memoized join so the next call re-queries the
// live session.
func (s *Store) ClearCache() {
	s.cache = nil
	s.loaded = false
}
