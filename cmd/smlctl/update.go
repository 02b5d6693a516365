package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <mod-id> <constraint>",
	Short: "Change an existing manifest pin's constraint and re-resolve",
	Args:  cobra.ExactArgs(2),
	RunE:  runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
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

	id, constraint := args[0], args[1]
	if err := a.resolver.Update(context.Background(), a.graph, a.manifest, id, constraint); err != nil {
		return fmt.Errorf("update %s@%s: %w", id, constraint, err)
	}

	if err := writeManifest(manifestPath, a.manifest); err != nil {
		return err
	}
	if err := a.saveState(lockfilePath); err != nil {
		return err
	}

	fmt.Printf("updated %s to %s\n", id, constraint)
	return nil
}
