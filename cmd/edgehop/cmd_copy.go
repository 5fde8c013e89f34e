package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var copyCmd = &cobra.Command{
	Use:   "copy <url>",
	Short: "Copy a url to the system clipboard",
	Args:  cobra.ExactArgs(1),
	RunE:  runCopy,
}

func runCopy(cmd *cobra.Command, args []string) error {
	url := args[0]
	if url == "" {
		return fmt.Errorf("nothing to copy")
	}
	if err := clipboard.WriteAll(url); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	fmt.Printf("Copied to clipboard: %s\n", url)
	return nil
}
