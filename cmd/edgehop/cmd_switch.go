package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var switchCmd = &cobra.Command{
	Use:   "switch <window>:<tab>",
	Short: "Raise one window and select one of its tabs",
	Long: `Raises the window at the given 1-based ordinal and selects the tab at
the given 1-based ordinal, using a targeted single-window raise where the
native helpers allow it and whole-application activation otherwise.

Example:
  edgehop switch 2:5`,
	Args: cobra.ExactArgs(1),
	RunE: runSwitch,
}

func runSwitch(cmd *cobra.Command, args []string) error {
	window, tab, err := parseOrdinals(args[0])
	if err != nil {
		return err
	}

	if !theApp.activator.ActivateTab(context.Background(), window, tab) {
		return fmt.Errorf("failed to switch to tab %d in window %d", tab, window)
	}
	fmt.Printf("Switched to tab %d in window %d.\n", tab, window)
	return nil
}

// parseOrdinals parses the "W:T" argument form; both ordinals must be
// positive integers.
func parseOrdinals(arg string) (window, tab int, err error) {
	parts := strings.Split(arg, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid target %q: expected <window>:<tab>", arg)
	}
	window, err = strconv.Atoi(parts[0])
	if err == nil {
		tab, err = strconv.Atoi(parts[1])
	}
	if err != nil || window < 1 || tab < 1 {
		return 0, 0, fmt.Errorf("invalid target %q: window and tab must be positive integers", arg)
	}
	return window, tab, nil
}
