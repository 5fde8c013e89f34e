package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var closeCmd = &cobra.Command{
	Use:   "close <window>:<tab>",
	Short: "Close one tab",
	Args:  cobra.ExactArgs(1),
	RunE:  runClose,
}

func runClose(cmd *cobra.Command, args []string) error {
	window, tab, err := parseOrdinals(args[0])
	if err != nil {
		return err
	}

	if !theApp.activator.CloseTab(context.Background(), window, tab) {
		return fmt.Errorf("failed to close tab %d in window %d", tab, window)
	}
	fmt.Printf("Closed tab %d in window %d.\n", tab, window)
	return nil
}
