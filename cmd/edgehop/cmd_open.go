package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var openProfileFlag string

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a workspace or a profile window",
}

var openWorkspaceCmd = &cobra.Command{
	Use:   "workspace <id>",
	Short: "Open a workspace, raising it if it is already open",
	Long: `Looks the workspace up in the catalog, then either raises its already
open window or launches the browser detached and waits for the new window
to appear. Unknown workspace ids are rejected before any platform call.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpenWorkspace,
}

var openProfileCmd = &cobra.Command{
	Use:   "profile <dir> [url]",
	Short: "Open a browser window for a profile, optionally at a url",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runOpenProfile,
}

func init() {
	openWorkspaceCmd.Flags().StringVar(&openProfileFlag, "profile", "", "profile directory (defaults to the workspace's owner)")
}

func runOpenWorkspace(cmd *cobra.Command, args []string) error {
	id := args[0]

	ws, ok := theApp.workspaces.GetByID(id)
	if !ok {
		return fmt.Errorf("unknown workspace id %q", id)
	}

	profileDir := openProfileFlag
	if profileDir == "" {
		profileDir = ws.ProfileDir
	}

	if !theApp.activator.ActivateWorkspace(context.Background(), id, profileDir) {
		return fmt.Errorf("failed to open workspace %q", ws.Name)
	}
	fmt.Printf("Opened workspace %q (profile %s).\n", ws.Name, profileDir)
	return nil
}

func runOpenProfile(cmd *cobra.Command, args []string) error {
	dir := args[0]
	url := ""
	if len(args) == 2 {
		url = args[1]
	}

	if _, ok := theApp.profiles.ByDir(dir); !ok {
		return fmt.Errorf("unknown profile directory %q", dir)
	}

	if err := theApp.launcher.LaunchProfile(dir, url); err != nil {
		return fmt.Errorf("failed to open profile %s: %w", dir, err)
	}
	fmt.Printf("Opened a window for profile %s.\n", dir)
	return nil
}
