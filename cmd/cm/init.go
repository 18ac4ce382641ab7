package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgrid/confmigrate/internal/migrate"
)

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: "setup",
	Short:   "Set up migration tracking and create custom configs from schemas",
	Long: `Creates the workspace state directory with empty ledgers, then gives
every schema file a custom sibling: config.schema.json produces config.json
as a copy of the schema, inheriting the schema's migration history so the new
file is not re-migrated through changes its content already reflects.

Existing custom files are never overwritten; an untracked one is registered
with an empty history instead, so 'cm up' will bring it forward.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ws := openOrCreateWorkspace()
		unlock := lockWorkspace(ws)
		defer unlock()

		if err := migrate.WriteInitialLedgers(ws); err != nil {
			FatalError("writing ledgers: %v", err)
		}

		status, err := migrate.LoadStatus(ws)
		if err != nil {
			FatalError("%v", err)
		}
		files, err := migrate.NewManager(ws).ConfigFiles()
		if err != nil {
			FatalError("%v", err)
		}

		var created, registered, skipped []string
		entries := make(map[string][]string)

		for _, p := range files {
			d, _ := migrate.ParseName(p)
			if !d.IsSchema {
				continue
			}
			target := d.CustomSibling().Path()
			if _, err := os.Stat(ws.Abs(target)); err == nil {
				// Pre-existing custom file: leave the content alone. If it
				// is untracked, adopt it with an empty history so up can
				// migrate it rather than refusing the whole workspace.
				if !status.Tracked(target) {
					entries[target] = []string{}
					registered = append(registered, target)
				} else {
					skipped = append(skipped, target)
				}
				continue
			}

			data, err := os.ReadFile(ws.Abs(p))
			if err != nil {
				FatalError("reading %s: %v", p, err)
			}
			if err := os.WriteFile(ws.Abs(target), data, 0o644); err != nil {
				FatalError("creating %s: %v", target, err)
			}
			versions := append([]string{}, status.Applied(p)...)
			entries[target] = versions
			created = append(created, target)
		}

		if len(entries) > 0 {
			if err := recordCustomEntries(ws, entries); err != nil {
				FatalError("recording custom configs: %v", err)
			}
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"workspace":  ws.Root,
				"created":    stringsOrEmpty(created),
				"registered": stringsOrEmpty(registered),
				"skipped":    stringsOrEmpty(skipped),
			})
			return
		}

		fmt.Printf("Initialized migration tracking in %s\n", ws.StateDir())
		for _, p := range created {
			fmt.Printf("  created    %s\n", p)
		}
		for _, p := range registered {
			fmt.Printf("  registered %s\n", p)
		}
		for _, p := range skipped {
			fmt.Printf("  unchanged  %s\n", p)
		}
	},
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func init() {
	rootCmd.AddCommand(initCmd)
}
