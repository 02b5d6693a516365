package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mrhid6/SatisfactoryModLauncherAPI/resolver"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show what resolving the current manifest would install or uninstall",
	Args:  cobra.NoArgs,
	RunE:  runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
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

	before := a.graph.ToLockfile()
	if err := a.resolver.ValidateAll(context.Background(), a.graph); err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	after := a.graph.ToLockfile()

	d := resolver.DiffLockfiles(before, after)
	printDiff(d)
	return nil
}

func printDiff(d resolver.Diff) {
	ids := make([]string, 0, len(d.Install))
	for id := range d.Install {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("+ %s@%s\n", id, d.Install[id])
	}

	for _, id := range d.Uninstall {
		fmt.Printf("- %s\n", id)
	}

	if len(d.Install) == 0 && len(d.Uninstall) == 0 {
		fmt.Println("no changes")
	}
}
