package main

import (
	"fmt"
	"io"
	"net/url"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"edgehop/internal/profile"
	"edgehop/internal/tabs"
	"edgehop/internal/workspace"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	workspaceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func renderTabs(w io.Writer, rows []tabs.OpenTab) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerStyle.Render("TARGET")+"\t"+headerStyle.Render("TITLE")+"\t"+headerStyle.Render("HOST")+"\t"+headerStyle.Render("WORKSPACE")+"\t"+headerStyle.Render("PROFILE"))
	for _, t := range rows {
		target := fmt.Sprintf("%d:%d", t.WindowIndex, t.TabIndex)
		if t.Active {
			target = activeStyle.Render(target + " *")
		}
		ws := ""
		if t.WorkspaceName != "" {
			ws = workspaceStyle.Render(t.WorkspaceName)
			if t.WorkspaceShared {
				ws += dimStyle.Render(" (shared)")
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			target,
			titleStyle.Render(truncate(t.Title, 48)),
			dimStyle.Render(urlHost(t.URL)),
			ws,
			t.ProfileName,
		)
	}
	tw.Flush()
}

func renderWorkspaces(w io.Writer, rows []workspace.Workspace, openNames map[string]bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerStyle.Render("NAME")+"\t"+headerStyle.Render("PROFILE")+"\t"+headerStyle.Render("TABS")+"\t"+headerStyle.Render("LAST ACTIVE")+"\t"+headerStyle.Render("STATUS"))
	for _, ws := range rows {
		status := ""
		switch {
		case openNames[ws.Name]:
			status = activeStyle.Render("open")
		case ws.Active:
			status = okStyle.Render("active")
		}
		if ws.Shared {
			if status != "" {
				status += " "
			}
			status += dimStyle.Render("shared")
		}
		lastActive := dimStyle.Render("never")
		if ws.LastActive > 0 {
			lastActive = dimStyle.Render(humanize.Time(time.Unix(ws.LastActive, 0)))
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			titleStyle.Render(truncate(ws.Name, 32)),
			ws.ProfileName,
			ws.TabCount,
			lastActive,
			status,
		)
	}
	tw.Flush()
}

func renderProfiles(w io.Writer, rows []profile.Profile) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerStyle.Render("NAME")+"\t"+headerStyle.Render("DIRECTORY")+"\t"+headerStyle.Render("EMAIL"))
	for _, p := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			titleStyle.Render(p.Name),
			dimStyle.Render(p.Dir),
			p.Email,
		)
	}
	tw.Flush()
}

func urlHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return truncate(raw, 40)
	}
	return u.Host
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
