package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <mod-id>",
	Short: "Remove a mod from the manifest and lockfile",
	Args:  cobra.ExactArgs(1),
	RunE:  runUninstall,
}

func runUninstall(cmd *cobra.Command, args []string) error {
	manifestPath, lockfilePath, err := manifestAndLockfilePaths(cmd)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.loadState(manifestPath, lockfilePath); err != nil {
		return err
	}

	id := args[0]
	if err := a.resolver.Uninstall(a.graph, a.manifest, id); err != nil {
		return fmt.Errorf("uninstall %s: %w", id, err)
	}

	if err := writeManifest(manifestPath, a.manifest); err != nil {
		return err
	}
	if err := a.saveState(lockfilePath); err != nil {
		return err
	}

	fmt.Printf("uninstalled %s\n", id)
	return nil
}
