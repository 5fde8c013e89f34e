package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgehop/internal/osa"
)

// fakeRunner returns canned script output and records the scripts it ran.
type fakeRunner struct {
	out     []byte
	err     error
	scripts []string
}

func (f *fakeRunner) Run(ctx context.Context, lang, script string) ([]byte, error) {
	f.scripts = append(f.scripts, script)
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func newTestClient(runner osa.Runner) *Client {
	return NewClient(runner, time.Second, nil)
}

func TestQuery(t *testing.T) {
	payload := `{"windows": [
		{"id": 77, "name": "Work", "seTitle": "GitHub - Microsoft Edge - Alex",
		 "tabs": [
			{"title": "GitHub", "url": "https://github.com", "active": true},
			{"title": "", "url": "", "active": false}
		 ]},
		{"id": 78, "name": "Untitled window", "seTitle": "",
		 "tabs": [{"title": "Docs", "url": "https://docs.example.com", "active": true}]}
	]}`
	c := newTestClient(&fakeRunner{out: []byte(payload)})

	windows, err := c.Query(context.Background())
	require.NoError(t, err)
	require.Len(t, windows, 2)

	w := windows[0]
	assert.Equal(t, 77, w.ID)
	assert.Equal(t, 1, w.Index)
	assert.Equal(t, "Work", w.Name)
	assert.Equal(t, "Alex", w.ProfileHint)
	require.Len(t, w.Tabs, 2)
	assert.Equal(t, 1, w.Tabs[0].Index)
	assert.True(t, w.Tabs[0].Active)

	// Empty title and url fall back to placeholders.
	assert.Equal(t, "Untitled", w.Tabs[1].Title)
	assert.Equal(t, "about:blank", w.Tabs[1].URL)

	assert.Equal(t, 2, windows[1].Index)
	assert.Empty(t, windows[1].ProfileHint)
}

func TestQuery_Unavailable(t *testing.T) {
	tests := []struct {
		name   string
		runner *fakeRunner
	}{
		{"runner error", &fakeRunner{err: errors.New("osascript blew up")}},
		{"malformed payload", &fakeRunner{out: []byte("not json")}},
		{"script-level error", &fakeRunner{out: []byte(`{"error": "Application isn't running"}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(tt.runner)
			windows, err := c.Query(context.Background())
			assert.Error(t, err)
			assert.Nil(t, windows)
		})
	}
}

func TestQuery_EmptySession(t *testing.T) {
	c := newTestClient(&fakeRunner{out: []byte(`{"windows": []}`)})
	windows, err := c.Query(context.Background())
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestWindowNames(t *testing.T) {
	c := newTestClient(&fakeRunner{out: []byte(`["Work", "", "Personal"]`)})
	names, err := c.WindowNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Work", "Personal"}, names)
}

func TestProbeWorkspace(t *testing.T) {
	t.Run("hit", func(t *testing.T) {
		runner := &fakeRunner{out: []byte(`{"found": true, "windowIndex": 2, "tabIndex": 3}`)}
		c := newTestClient(runner)

		w, tab, found, err := c.ProbeWorkspace(context.Background(), "ws-123")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 2, w)
		assert.Equal(t, 3, tab)

		// The probe script must carry the workspace marker url.
		require.Len(t, runner.scripts, 1)
		assert.Contains(t, runner.scripts[0], "edge://workspaces/ws-123")
	})

	t.Run("miss", func(t *testing.T) {
		c := newTestClient(&fakeRunner{out: []byte(`{"found": false}`)})
		_, _, found, err := c.ProbeWorkspace(context.Background(), "ws-123")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("failure", func(t *testing.T) {
		c := newTestClient(&fakeRunner{err: errors.New("timeout")})
		_, _, found, err := c.ProbeWorkspace(context.Background(), "ws-123")
		assert.Error(t, err)
		assert.False(t, found)
	})
}

func TestExtractProfileHint(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"GitHub - Microsoft Edge - Alex", "Alex"},
		{"Some Page - Microsoft Edge - Work Profile", "Work Profile"},
		{"Plain window title", ""},
		{"Microsoft Edge", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractProfileHint(tt.title), "title %q", tt.title)
	}
}
