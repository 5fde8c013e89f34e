package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"edgehop/internal/alfred"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles [query]",
	Short: "Search the browser profiles",
	RunE:  runProfiles,
}

func runProfiles(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	results := theApp.profiles.Search(query)

	if alfredOut {
		items := make([]alfred.Item, 0, len(results))
		for _, p := range results {
			items = append(items, alfred.ProfileItem(p))
		}
		list := alfred.List{Items: alfred.Truncate(items)}
		if len(items) == 0 {
			msg := "No profiles found"
			if query != "" {
				msg = fmt.Sprintf("No profiles matching %q", query)
			}
			list.Items = []alfred.Item{alfred.NoMatches(msg, "Profiles are read from the browser's Local State")}
		}
		return list.Write(os.Stdout)
	}

	if len(results) == 0 {
		if query != "" {
			fmt.Printf("No profiles matching %q.\n", query)
		} else {
			fmt.Println("No profiles found. Is Microsoft Edge installed?")
		}
		return nil
	}

	if limitFlag > 0 && len(results) > limitFlag {
		results = results[:limitFlag]
	}
	renderProfiles(os.Stdout, results)
	return nil
}
