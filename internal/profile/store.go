// Package profile loads the browser's profile catalog from the shared
// Local State document.
package profile

import (
	"encoding/json"
	"os"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// DefaultDir is the well-known directory key of the default profile.
const DefaultDir = "Default"

var avatarIDRe = regexp.MustCompile(`IDR_PROFILE_AVATAR_(\d+)`)

// Profile is one browser profile. Dir is the stable identifier.
type Profile struct {
	Dir      string
	Name     string
	Email    string
	AvatarID string
}

// Default returns the synthetic profile used when correlation cannot
// resolve a real one.
func Default() Profile {
	return Profile{Dir: DefaultDir, Name: "Default Profile"}
}

// localState mirrors the slice of Local State this package reads.
type localState struct {
	Profile struct {
		InfoCache map[string]profileEntry `json:"info_cache"`
	} `json:"profile"`
}

type profileEntry struct {
	Name            string `json:"name"`
	GaiaGivenName   string `json:"gaia_given_name"`
	GaiaName        string `json:"gaia_name"`
	UserName        string `json:"user_name"`
	GaiaEmail       string `json:"gaia_email"`
	IsOmittedFromUI bool   `json:"is_omitted_from_ui"`
	AvatarIcon      string `json:"avatar_icon"`
	ProfileAvatar   string `json:"profile_avatar"`
}

// Store loads and memoizes the profile catalog for one run.
type Store struct {
	path     string
	logger   *zap.Logger
	profiles []Profile
	loaded   bool
}

// NewStore creates a store reading the Local State document at path.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Load returns all visible profiles, default profile first, then by
// display name case-insensitively. A missing or malformed document yields
// an empty catalog, never an error. Memoized per run.
func (s *Store) Load() []Profile {
	if s.loaded {
		return s.profiles
	}
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Debug("local state unreadable", zap.String("path", s.path), zap.Error(err))
		return nil
	}

	var state localState
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Debug("local state malformed", zap.String("path", s.path), zap.Error(err))
		return nil
	}

	profiles := make([]Profile, 0, len(state.Profile.InfoCache))
	for dir, entry := range state.Profile.InfoCache {
		if entry.IsOmittedFromUI {
			continue
		}
		profiles = append(profiles, Profile{
			Dir:      dir,
			Name:     displayName(dir, entry),
			Email:    firstNonEmpty(entry.UserName, entry.GaiaEmail),
			AvatarID: avatarID(firstNonEmpty(entry.AvatarIcon, entry.ProfileAvatar)),
		})
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		if (profiles[i].Dir == DefaultDir) != (profiles[j].Dir == DefaultDir) {
			return profiles[i].Dir == DefaultDir
		}
		return strings.ToLower(profiles[i].Name) < strings.ToLower(profiles[j].Name)
	})

	s.profiles = profiles
	s.logger.Debug("profiles loaded", zap.Int("count", len(profiles)))
	return s.profiles
}

// Search filters the catalog: the query is lowercased and whitespace
// tokenized, and a profile matches when every token is a substring of its
// concatenated name, directory, and email. Base order is preserved; an
// empty query returns the full catalog.
func (s *Store) Search(query string) []Profile {
	profiles := s.Load()
	if strings.TrimSpace(query) == "" {
		return profiles
	}

	tokens := strings.Fields(strings.ToLower(query))
	var out []Profile
	for _, p := range profiles {
		haystack := strings.ToLower(p.Name + " " + p.Dir + " " + p.Email)
		if matchesAll(haystack, tokens) {
			out = append(out, p)
		}
	}
	return out
}

// ByDir looks up a profile by directory key.
func (s *Store) ByDir(dir string) (Profile, bool) {
	for _, p := range s.Load() {
		if p.Dir == dir {
			return p, true
		}
	}
	return Profile{}, false
}

// ByName looks up a profile by exact display name.
func (s *Store) ByName(name string) (Profile, bool) {
	for _, p := range s.Load() {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

func matchesAll(haystack string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(haystack, tok) {
			return false
		}
	}
	return true
}

func displayName(dir string, entry profileEntry) string {
	return firstNonEmpty(entry.Name, entry.GaiaGivenName, entry.GaiaName, dir)
}

func avatarID(icon string) string {
	m := avatarIDRe.FindStringSubmatch(icon)
	if m == nil {
		return ""
	}
	return m[1]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
