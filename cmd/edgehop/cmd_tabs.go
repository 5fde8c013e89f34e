package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"edgehop/internal/alfred"
)

var tabsCmd = &cobra.Command{
	Use:   "tabs [query]",
	Short: "Search the open tabs across all windows and profiles",
	Long: `Queries the running browser for every open window and tab, joins them
with workspace and profile information, and ranks them against the query.
No query lists everything in window order.`,
	RunE: runTabs,
}

func runTabs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := strings.Join(args, " ")

	results := theApp.tabs.Search(ctx, query)

	if alfredOut {
		items := make([]alfred.Item, 0, len(results))
		for _, t := range results {
			items = append(items, alfred.TabItem(t))
		}
		list := alfred.List{Items: alfred.Truncate(items)}
		if len(items) == 0 {
			msg := "No open Edge tabs found"
			if query != "" {
				msg = fmt.Sprintf("No tabs matching %q", query)
			}
			list.Items = []alfred.Item{alfred.NoMatches(msg, "Make sure Microsoft Edge is running with open tabs")}
		}
		return list.Write(os.Stdout)
	}

	if len(results) == 0 {
		if query != "" {
			fmt.Printf("No tabs matching %q.\n", query)
		} else {
			fmt.Println("No open tabs. Is Microsoft Edge running?")
		}
		return nil
	}

	if limitFlag > 0 && len(results) > limitFlag {
		results = results[:limitFlag]
	}
	renderTabs(os.Stdout, results)
	return nil
}
