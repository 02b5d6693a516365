// Command smlctl drives the resolver against a manifest and lockfile on
// disk, the orchestration layer spec.md places out of the core engine's
// scope. Structured after mappa's root command, with each subcommand in
// its own file of this package rather than its own package.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrhid6/SatisfactoryModLauncherAPI/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "smlctl",
	Short: "Resolve and lock Satisfactory mod dependencies",
	Long: `smlctl resolves a manifest of mod ids and constraints against a
remote mod catalog, writing the result to a lockfile.`,
}

func init() {
	config.Bind(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().String("manifest", "manifest.json", "path to the manifest file")
	rootCmd.PersistentFlags().String("lockfile", "lockfile.json", "path to the lockfile")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(diffCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
