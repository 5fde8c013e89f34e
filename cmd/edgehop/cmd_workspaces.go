package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"edgehop/internal/alfred"
)

var workspacesCmd = &cobra.Command{
	Use:   "workspaces [query]",
	Short: "Search the workspaces of every profile",
	Long: `Lists workspaces from every profile's cache, most recently active
first. With a query, workspaces are ranked by name, profile, and email
relevance. Workspaces whose name matches an open window are badged as
open; that check degrades silently when the browser is not scriptable.`,
	RunE: runWorkspaces,
}

func runWorkspaces(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	results := theApp.workspaces.Search(query)

	// Best-effort open-now badge from the live window names.
	openNames := make(map[string]bool)
	if names, err := theApp.session.WindowNames(context.Background()); err == nil {
		for _, n := range names {
			openNames[n] = true
		}
	}

	if alfredOut {
		items := make([]alfred.Item, 0, len(results))
		for _, ws := range results {
			items = append(items, alfred.WorkspaceItem(ws))
		}
		list := alfred.List{Items: alfred.Truncate(items)}
		if len(items) == 0 {
			msg := "No workspaces found"
			if query != "" {
				msg = fmt.Sprintf("No workspaces matching %q", query)
			}
			list.Items = []alfred.Item{alfred.NoMatches(msg, "Workspaces are read from each profile's cache")}
		}
		return list.Write(os.Stdout)
	}

	if len(results) == 0 {
		if query != "" {
			fmt.Printf("No workspaces matching %q.\n", query)
		} else {
			fmt.Println("No workspaces found.")
		}
		return nil
	}

	if limitFlag > 0 && len(results) > limitFlag {
		results = results[:limitFlag]
	}
	renderWorkspaces(os.Stdout, results, openNames)
	return nil
}
