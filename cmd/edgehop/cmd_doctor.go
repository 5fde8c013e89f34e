package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"edgehop/internal/osa"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the environment edgehop depends on",
	Long: `Checks each external dependency in turn: the browser's user data
directory and profile catalog, the browser binary, the native window
helpers, and the scripting interface. Warnings do not fail the check; a
missing user data directory does.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println(headerStyle.Render("edgehop doctor"))
	failed := false

	// User data directory and profile catalog.
	if info, err := os.Stat(theApp.cfg.UserDataDir); err != nil || !info.IsDir() {
		printCheck(false, "user data dir: %s (not found)", theApp.cfg.UserDataDir)
		failed = true
	} else {
		printCheck(true, "user data dir: %s", theApp.cfg.UserDataDir)
		if _, err := os.Stat(theApp.cfg.LocalStatePath()); err != nil {
			printWarn("Local State missing; no profiles will be listed")
		} else {
			printCheck(true, "Local State present")
		}
	}

	// Browser binary.
	if bin, err := osa.FindBrowser(theApp.cfg); err != nil {
		printWarn("browser binary not found; open/launch commands will fail")
	} else {
		printCheck(true, "browser binary: %s", bin)
	}

	// Native window helpers.
	for _, name := range osa.HelperNames() {
		if path, err := theApp.helpers.Resolve(name); err != nil {
			printWarn("%s not found; targeted raises will fall back to whole-app activation", name)
		} else {
			printCheck(true, "%s: %s", name, path)
		}
	}

	// Scripting interface.
	if windows, err := theApp.session.Query(context.Background()); err != nil {
		printWarn("scripting query failed: %v", err)
	} else {
		tabCount := 0
		for _, w := range windows {
			tabCount += len(w.Tabs)
		}
		printCheck(true, "scripting interface: %d windows, %d tabs", len(windows), tabCount)
	}

	// Catalog sizes.
	profiles := theApp.profiles.Load()
	workspaces := theApp.workspaces.LoadAll()
	printCheck(true, "catalogs: %d profiles, %d workspaces", len(profiles), len(workspaces))

	if failed {
		return fmt.Errorf("environment check failed")
	}
	return nil
}

func printCheck(ok bool, format string, args ...interface{}) {
	mark := okStyle.Render("✓")
	if !ok {
		mark = errStyle.Render("✗")
	}
	fmt.Printf("  %s %s\n", mark, fmt.Sprintf(format, args...))
}

func printWarn(format string, args ...interface{}) {
	fmt.Printf("  %s %s\n", warnStyle.Render("!"), fmt.Sprintf(format, args...))
}
