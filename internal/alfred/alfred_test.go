package alfred

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgehop/internal/profile"
	"edgehop/internal/tabs"
	"edgehop/internal/workspace"
)

func TestTabItem(t *testing.T) {
	item := TabItem(tabs.OpenTab{
		Title:           "GitHub - repo",
		URL:             "https://github.com/x",
		WindowIndex:     2,
		WindowID:        77,
		TabIndex:        5,
		Active:          true,
		ProfileName:     "Alex",
		ProfileDir:      "Default",
		WorkspaceName:   "Work",
		WorkspaceID:     "ws-1",
		WorkspaceShared: true,
	})

	assert.Equal(t, "tab_77_5", item.UID)
	assert.Contains(t, item.Title, "GitHub - repo")
	assert.Contains(t, item.Title, "⭐")
	assert.Equal(t, "2:5", item.Arg)
	assert.True(t, item.Valid)

	assert.Contains(t, item.Subtitle, "Alex")
	assert.Contains(t, item.Subtitle, "Work")
	assert.Contains(t, item.Subtitle, "👥")
	assert.Contains(t, item.Subtitle, "https://github.com/x")

	require.Contains(t, item.Mods, "cmd")
	assert.Equal(t, "https://github.com/x", item.Mods["cmd"].Arg)
	assert.Equal(t, "copy_url", item.Mods["cmd"].Variables["action"])

	require.Contains(t, item.Mods, "alt")
	assert.Equal(t, "2:5", item.Mods["alt"].Arg)
	assert.Equal(t, "close_tab", item.Mods["alt"].Variables["action"])

	assert.Equal(t, "Default", item.Variables["profile_dir"])
	assert.Equal(t, "ws-1", item.Variables["workspace_id"])
}

func TestTabItem_LongURLTruncated(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("x", 100)
	item := TabItem(tabs.OpenTab{Title: "T", URL: long, WindowIndex: 1, TabIndex: 1})
	assert.NotContains(t, item.Subtitle, long)
	assert.Contains(t, item.Subtitle, "...")
}

func TestWorkspaceItem(t *testing.T) {
	item := WorkspaceItem(workspace.Workspace{
		ID:          "ws-1",
		Name:        "Work",
		ProfileDir:  "Profile 1",
		ProfileName: "Sam",
		Active:      true,
		TabCount:    1,
		LastActive:  1700000000,
	})

	assert.Equal(t, "workspace_ws-1", item.UID)
	assert.Equal(t, "ws-1|Profile 1", item.Arg)
	assert.Contains(t, item.Subtitle, "Sam")
	assert.Contains(t, item.Subtitle, "1 tab")
	assert.NotContains(t, item.Subtitle, "1 tabs")
	assert.Contains(t, item.Subtitle, "active ")
}

func TestWorkspaceItem_NeverActive(t *testing.T) {
	item := WorkspaceItem(workspace.Workspace{ID: "ws-2", Name: "Idle", TabCount: 3})
	assert.Contains(t, item.Subtitle, "3 tabs")
	assert.NotContains(t, item.Subtitle, "active ")
}

func TestProfileItem(t *testing.T) {
	item := ProfileItem(profile.Profile{Dir: "Profile 1", Name: "Sam", Email: "sam@corp.example"})
	assert.Equal(t, "profile_Profile 1", item.UID)
	assert.Equal(t, "Sam", item.Title)
	assert.Equal(t, "Profile 1 · sam@corp.example", item.Subtitle)
	assert.Equal(t, "Profile 1", item.Arg)
}

func TestTruncate(t *testing.T) {
	short := make([]Item, 10)
	assert.Len(t, Truncate(short), 10)

	long := make([]Item, MaxItems+7)
	for i := range long {
		long[i] = Item{Title: fmt.Sprintf("item %d", i), Valid: true}
	}
	got := Truncate(long)
	require.Len(t, got, MaxItems+1)
	overflow := got[MaxItems]
	assert.False(t, overflow.Valid)
	assert.Contains(t, overflow.Title, "7 more")
}

func TestListWrite(t *testing.T) {
	var buf bytes.Buffer
	list := List{Items: []Item{
		{Title: "A", Subtitle: "s", Arg: "1:1", Valid: true},
		NoMatches("nothing", "hint"),
	}}
	require.NoError(t, list.Write(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	items, ok := decoded["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)

	first := items[0].(map[string]any)
	assert.Equal(t, true, first["valid"])
	second := items[1].(map[string]any)
	assert.Equal(t, false, second["valid"])
	_, hasArg := second["arg"]
	assert.False(t, hasArg, "invalid items carry no arg")
}
