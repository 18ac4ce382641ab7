// Command cm manages versioned migrations for a workspace of JSON
// configuration files: schema templates, user-owned custom configs and their
// named subconfig variants.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgrid/confmigrate/internal/config"
	"github.com/ledgrid/confmigrate/internal/debug"
	"github.com/ledgrid/confmigrate/internal/migrate"

	// Migration definitions self-register at init time.
	_ "github.com/ledgrid/confmigrate/migrations"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "cm",
	Short: "Migration manager for JSON configuration files",
	Long: `cm evolves a family of JSON configuration files through ordered,
versioned migrations, tracking per-file history so schema templates, custom
configs and subconfigs can each lag or advance independently.

Every migration runs inside a copy-on-write transaction: a failure leaves
every file byte-identical to its pre-migration state, and the history ledger
only records migrations that actually committed.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if err := config.Initialize(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
			// Non-fatal - continue with defaults
		}
		if !cmd.Flags().Changed("json") {
			jsonOutput = config.GetBool("json")
		}
		if ws, err := migrate.FindWorkspace(); err == nil {
			debug.Init(filepath.Join(ws.StateDir(), "debug.log"))
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddGroup(
		&cobra.Group{ID: "setup", Title: "Setup Commands:"},
		&cobra.Group{ID: "migrate", Title: "Migration Commands:"},
		&cobra.Group{ID: "views", Title: "View Commands:"},
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
