// Package workspace loads named browser workspaces from the per-profile
// WorkspacesCache documents and ranks them against search queries.
package workspace

import (
	"encoding/json"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"edgehop/internal/profile"
)

// Relevance scores for Search. Name matches dominate; the active bonus
// only reorders rows that already match.
const (
	scoreNameExact     = 100
	scoreNamePrefix    = 50
	scoreNameSubstring = 30
	scoreProfileName   = 20
	scoreProfileEmail  = 10
	scoreActiveBonus   = 5
)

var tabCountRe = regexp.MustCompile(`^(\d+)\s+tabs?`)

// Workspace is one named workspace, stamped with its owning profile.
type Workspace struct {
	ID           string
	Name         string
	ProfileDir   string
	ProfileName  string
	ProfileEmail string
	Active       bool
	Color        int
	TabCount     int
	LastActive   int64 // epoch seconds, 0 = never
	Owner        bool
	Shared       bool
}

// cacheDocument mirrors one WorkspacesCache file.
type cacheDocument struct {
	Workspaces []cacheEntry `json:"workspaces"`
}

type cacheEntry struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Active         bool    `json:"active"`
	Color          int     `json:"color"`
	MenuSubtitle   string  `json:"menuSubtitle"`
	LastActiveTime float64 `json:"last_active_time"`
	IsOwner        *bool   `json:"isOwner"`
	Shared         bool    `json:"shared"`
}

// Store loads and memoizes the aggregate workspace catalog for one run.
type Store struct {
	profiles   *profile.Store
	cachePath  func(profileDir string) string
	logger     *zap.Logger
	workspaces []Workspace
	loaded     bool
}

// NewStore creates a store. cachePath maps a profile directory key to its
// WorkspacesCache document path.
func NewStore(profiles *profile.Store, cachePath func(string) string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{profiles: profiles, cachePath: cachePath, logger: logger}
}

// LoadAll returns every profile's workspaces merged, most recently active
// first. A profile whose cache is missing or malformed contributes
// nothing. Memoized per run.
func (s *Store) LoadAll() []Workspace {
	if s.loaded {
		return s.workspaces
	}
	s.loaded = true

	var all []Workspace
	for _, p := range s.profiles.Load() {
		all = append(all, s.loadProfile(p)...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].LastActive > all[j].LastActive
	})

	s.workspaces = all
	s.logger.Debug("workspaces loaded", zap.Int("count", len(all)))
	return s.workspaces
}

func (s *Store) loadProfile(p profile.Profile) []Workspace {
	path := s.cachePath(p.Dir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var doc cacheDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Debug("workspace cache malformed",
			zap.String("profile", p.Dir),
			zap.String("path", path),
			zap.Error(err))
		return nil
	}

	workspaces := make([]Workspace, 0, len(doc.Workspaces))
	for _, entry := range doc.Workspaces {
		name := entry.Name
		if name == "" {
			name = "Unnamed"
		}
		owner := true
		if entry.IsOwner != nil {
			owner = *entry.IsOwner
		}
		workspaces = append(workspaces, Workspace{
			ID:           entry.ID,
			Name:         name,
			ProfileDir:   p.Dir,
			ProfileName:  p.Name,
			ProfileEmail: p.Email,
			Active:       entry.Active,
			Color:        entry.Color,
			TabCount:     ParseTabCount(entry.MenuSubtitle),
			LastActive:   int64(entry.LastActiveTime),
			Owner:        owner,
			Shared:       entry.Shared,
		})
	}
	return workspaces
}

// Search ranks workspaces against a query. Empty query returns the full
// aggregate order. A workspace with no text match is dropped even when
// active; matching workspaces sort by (score, last active) descending.
func (s *Store) Search(query string) []Workspace {
	workspaces := s.LoadAll()
	if query == "" {
		return workspaces
	}

	q := strings.ToLower(query)
	type scored struct {
		score int
		ws    Workspace
	}
	var results []scored

	for _, ws := range workspaces {
		score := textScore(q, ws)
		if score == 0 {
			continue
		}
		if ws.Active {
			score += scoreActiveBonus
		}
		results = append(results, scored{score: score, ws: ws})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].ws.LastActive > results[j].ws.LastActive
	})

	out := make([]Workspace, len(results))
	for i, r := range results {
		out[i] = r.ws
	}
	return out
}

func textScore(q string, ws Workspace) int {
	score := 0
	name := strings.ToLower(ws.Name)
	switch {
	case q == name:
		score += scoreNameExact
	case strings.HasPrefix(name, q):
		score += scoreNamePrefix
	case strings.Contains(name, q):
		score += scoreNameSubstring
	}
	if strings.Contains(strings.ToLower(ws.ProfileName), q) {
		score += scoreProfileName
	}
	if ws.ProfileEmail != "" && strings.Contains(strings.ToLower(ws.ProfileEmail), q) {
		score += scoreProfileEmail
	}
	return score
}

// GetByID returns the workspace with the given id.
func (s *Store) GetByID(id string) (Workspace, bool) {
	for _, ws := range s.LoadAll() {
		if ws.ID == id {
			return ws, true
		}
	}
	return Workspace{}, false
}

// ParseTabCount extracts N from a leading "N tab(s)" menu subtitle
// phrase; anything else is 0.
func ParseTabCount(menuSubtitle string) int {
	m := tabCountRe.FindStringSubmatch(menuSubtitle)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
