package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <mod-id> <constraint>",
	Short: "Add a mod to the manifest and resolve it into the lockfile",
	Args:  cobra.ExactArgs(2),
	RunE:  runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
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
	if err := a.resolver.Install(context.Background(), a.graph, a.manifest, id, constraint); err != nil {
		return fmt.Errorf("install %s@%s: %w", id, constraint, err)
	}

	if err := writeManifest(manifestPath, a.manifest); err != nil {
		return err
	}
	if err := a.saveState(lockfilePath); err != nil {
		return err
	}

	fmt.Printf("installed %s@%s\n", id, constraint)
	return nil
}

func manifestAndLockfilePaths(cmd *cobra.Command) (string, string, error) {
	manifestPath, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return "", "", err
	}
	lockfilePath, err := cmd.Flags().GetString("lockfile")
	if err != nil {
		return "", "", err
	}
	return manifestPath, lockfilePath, nil
}
