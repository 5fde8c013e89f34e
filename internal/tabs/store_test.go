package tabs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgehop/internal/profile"
	"edgehop/internal/session"
	"edgehop/internal/workspace"
)

// fakeSession returns canned windows and counts queries.
type fakeSession struct {
	windows []session.Window
	err     error
	queries int
}

func (f *fakeSession) Query(ctx context.Context) ([]session.Window, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	return f.windows, nil
}

// newFixtureStore builds the full three-source store: profiles and
// workspaces from a temp user-data layout, live windows from the fake.
func newFixtureStore(t *testing.T, snap Snapshotter) *Store {
	t.Helper()
	root := t.TempDir()

	localState := `{
	  "profile": {
	    "info_cache": {
	      "Default": {"name": "Alex", "user_name": "alex@example.com"},
	      "Profile 1": {"name": "Sam", "user_name": "sam@corp.example"}
	    }
	  }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "Local State"), []byte(localState), 0o644))

	caches := map[string]string{
		"Default": `{"workspaces": [
			{"id": "ws-work", "name": "Work", "last_active_time": 300},
			{"id": "ws-wo", "name": "Wo", "last_active_time": 100}
		]}`,
		"Profile 1": `{"workspaces": [
			{"id": "ws-res", "name": "Research", "last_active_time": 200, "shared": true}
		]}`,
	}
	for dir, body := range caches {
		cacheDir := filepath.Join(root, dir, "Workspaces")
		require.NoError(t, os.MkdirAll(cacheDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "WorkspacesCache"), []byte(body), 0o644))
	}

	profiles := profile.NewStore(filepath.Join(root, "Local State"), nil)
	workspaces := workspace.NewStore(profiles, func(dir string) string {
		return filepath.Join(root, dir, "Workspaces", "WorkspacesCache")
	}, nil)

	return NewStore(snap, workspaces, profiles, nil)
}

func window(id, index int, name, hint string, tabs ...session.Tab) session.Window {
	return session.Window{ID: id, Index: index, Name: name, ProfileHint: hint, Tabs: tabs}
}

func tab(index int, title, url string, active bool) session.Tab {
	return session.Tab{Index: index, Title: title, URL: url, Active: active}
}

func TestLoadAll_Correlation(t *testing.T) {
	snap := &fakeSession{windows: []session.Window{
		// Exact workspace name match.
		window(1, 1, "Work", "", tab(1, "GitHub", "https://github.com", true)),
		// Substring match: "Research" is contained in the window name.
		window(2, 2, "Research and notes", "", tab(1, "Paper", "https://arxiv.org", true)),
		// No workspace, no hint: synthetic default identity.
		window(3, 3, "Stray window", "", tab(1, "Mail", "https://mail.example.com", true)),
	}}
	s := newFixtureStore(t, snap)

	rows := s.LoadAll(context.Background())
	require.Len(t, rows, 3)

	assert.Equal(t, "ws-work", rows[0].WorkspaceID)
	assert.Equal(t, "Alex", rows[0].ProfileName, "workspace owner resolves the identity")
	assert.Equal(t, "Default", rows[0].ProfileDir)

	assert.Equal(t, "ws-res", rows[1].WorkspaceID)
	assert.True(t, rows[1].WorkspaceShared)
	assert.Equal(t, "Sam", rows[1].ProfileName)

	assert.Empty(t, rows[2].WorkspaceID)
	assert.Equal(t, "Default Profile", rows[2].ProfileName)
	assert.Equal(t, "Default", rows[2].ProfileDir)
}

func TestLoadAll_ExactWorkspaceBeatsSubstring(t *testing.T) {
	// "Wo" is a substring of "Work" and sits lower in the aggregate
	// order; the exact match must still win.
	snap := &fakeSession{windows: []session.Window{
		window(1, 1, "Work", "", tab(1, "A", "https://a.example", true)),
	}}
	s := newFixtureStore(t, snap)

	rows := s.LoadAll(context.Background())
	require.Len(t, rows, 1)
	assert.Equal(t, "ws-work", rows[0].WorkspaceID)
}

func TestLoadAll_HintBeatsWorkspaceOwner(t *testing.T) {
	// The window correlates to Work (owned by Alex/Default) but the
	// accessibility hint names Sam; the hint wins.
	snap := &fakeSession{windows: []session.Window{
		window(1, 1, "Work", "Sam", tab(1, "A", "https://a.example", true)),
	}}
	s := newFixtureStore(t, snap)

	rows := s.LoadAll(context.Background())
	require.Len(t, rows, 1)
	assert.Equal(t, "Sam", rows[0].ProfileName)
	assert.Equal(t, "Profile 1", rows[0].ProfileDir)
}

func TestLoadAll_UnknownHintFallsThrough(t *testing.T) {
	snap := &fakeSession{windows: []session.Window{
		window(1, 1, "Work", "Nobody", tab(1, "A", "https://a.example", true)),
	}}
	s := newFixtureStore(t, snap)

	rows := s.LoadAll(context.Background())
	require.Len(t, rows, 1)
	assert.Equal(t, "Alex", rows[0].ProfileName, "unknown hint falls through to the workspace owner")
}

func TestLoadAll_IdentityNeverEmpty(t *testing.T) {
	snap := &fakeSession{windows: []session.Window{
		window(1, 1, "", "", tab(1, "A", "https://a.example", false), tab(2, "B", "https://b.example", true)),
		window(2, 2, "zzz", "ghost", tab(1, "C", "https://c.example", true)),
	}}
	s := newFixtureStore(t, snap)

	for _, row := range s.LoadAll(context.Background()) {
		assert.NotEmpty(t, row.ProfileDir)
		assert.NotEmpty(t, row.ProfileName)
	}
}

func TestLoadAll_Memoization(t *testing.T) {
	snap := &fakeSession{windows: []session.Window{
		window(1, 1, "Work", "", tab(1, "A", "https://a.example", true)),
	}}
	s := newFixtureStore(t, snap)

	s.LoadAll(context.Background())
	s.LoadAll(context.Background())
	assert.Equal(t, 1, snap.queries, "successful load must be memoized")

	s.ClearCache()
	s.LoadAll(context.Background())
	assert.Equal(t, 2, snap.queries, "ClearCache must force a re-query")
}

func TestLoadAll_UnavailableSessionNotMemoized(t *testing.T) {
	snap := &fakeSession{err: errors.New("automation denied")}
	s := newFixtureStore(t, snap)

	assert.Empty(t, s.LoadAll(context.Background()))
	assert.Empty(t, s.LoadAll(context.Background()))
	assert.Equal(t, 2, snap.queries, "failed load must not be memoized")

	// The session comes back; the next load sees it.
	snap.err = nil
	snap.windows = []session.Window{window(1, 1, "Work", "", tab(1, "A", "https://a.example", true))}
	assert.Len(t, s.LoadAll(context.Background()), 1)
}

func TestSearch(t *testing.T) {
	snap := &fakeSession{windows: []session.Window{
		window(1, 1, "Work", "",
			tab(1, "GitHub - repo", "https://github.com/x", true),
			tab(2, "Docs", "https://docs.github.com", false),
		),
		window(2, 2, "Research and notes", "",
			tab(1, "Paper", "https://arxiv.org", true),
		),
	}}
	s := newFixtureStore(t, snap)
	ctx := context.Background()

	t.Run("empty query returns load order", func(t *testing.T) {
		rows := s.Search(ctx, "")
		require.Len(t, rows, 3)
		assert.Equal(t, "GitHub - repo", rows[0].Title)
		assert.Equal(t, "Docs", rows[1].Title)
		assert.Equal(t, "Paper", rows[2].Title)
	})

	t.Run("title match outranks url match", func(t *testing.T) {
		rows := s.Search(ctx, "github")
		require.Len(t, rows, 2)
		// Title substring 500 + active 50 = 550; url substring 300 +
		// host boundary 100 = 400.
		assert.Equal(t, "GitHub - repo", rows[0].Title)
		assert.Equal(t, "Docs", rows[1].Title)
	})

	t.Run("exact title outranks substring", func(t *testing.T) {
		rows := s.Search(ctx, "docs")
		require.NotEmpty(t, rows)
		assert.Equal(t, "Docs", rows[0].Title)
	})

	t.Run("workspace name match", func(t *testing.T) {
		rows := s.Search(ctx, "research")
		require.Len(t, rows, 1)
		assert.Equal(t, "Paper", rows[0].Title)
	})

	t.Run("profile name match", func(t *testing.T) {
		rows := s.Search(ctx, "sam")
		require.Len(t, rows, 1)
		assert.Equal(t, "Paper", rows[0].Title)
	})

	t.Run("no match drops the row", func(t *testing.T) {
		assert.Empty(t, s.Search(ctx, "zzyzx"))
	})

	t.Run("ties keep encounter order", func(t *testing.T) {
		tied := &fakeSession{windows: []session.Window{
			window(1, 1, "", "",
				tab(1, "alpha page", "https://one.example", false),
				tab(2, "alpha site", "https://two.example", false),
			),
		}}
		ts := newFixtureStore(t, tied)
		rows := ts.Search(ctx, "alpha")
		require.Len(t, rows, 2)
		assert.Equal(t, "alpha page", rows[0].Title)
		assert.Equal(t, "alpha site", rows[1].Title)
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		first := s.Search(ctx, "github")
		second := s.Search(ctx, "github")
		assert.Equal(t, first, second)
	})
}

func TestGetByOrdinals(t *testing.T) {
	snap := &fakeSession{windows: []session.Window{
		window(1, 1, "Work", "",
			tab(1, "A", "https://a.example", false),
			tab(2, "B", "https://b.example", true),
		),
	}}
	s := newFixtureStore(t, snap)
	ctx := context.Background()

	row, ok := s.GetByOrdinals(ctx, 1, 2)
	require.True(t, ok)
	assert.Equal(t, "B", row.Title)

	_, ok = s.GetByOrdinals(ctx, 2, 1)
	assert.False(t, ok)
	_, ok = s.GetByOrdinals(ctx, 1, 9)
	assert.False(t, ok)
}
