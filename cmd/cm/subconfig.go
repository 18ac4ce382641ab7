package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgrid/confmigrate/internal/migrate"
)

var subconfigReference string

var subconfigCmd = &cobra.Command{
	Use:     "subconfig <path>",
	GroupID: "setup",
	Short:   "Create a named subconfig variant of a custom config",
	Long: `Creates a subconfig as a copy of its reference config, inheriting the
reference's migration history so the new file is not re-migrated through
changes it already contains.

The reference defaults to the family's plain custom file, inferred from the
name: 'cm subconfig colors/config.beta.json' copies colors/config.json. Use
--reference to copy from another family member instead.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ws := openWorkspace()
		requireInitialized(ws)
		unlock := lockWorkspace(ws)
		defer unlock()

		norm, err := ws.Normalize(args[0])
		if err != nil {
			FatalError("%v", err)
		}
		d, ok := migrate.ParseName(norm)
		if !ok {
			FatalError("%s is not a config file path", args[0])
		}
		if d.IsSchema {
			FatalError("%s names a schema file; subconfigs are custom files", norm)
		}
		if d.Variant == "" {
			FatalErrorWithHint(
				fmt.Sprintf("%s has no variant name", norm),
				"subconfig names follow <family>.<variant>.json, e.g. config.beta.json",
			)
		}

		ref := d.CustomSibling().Path()
		if subconfigReference != "" {
			ref, err = ws.Normalize(subconfigReference)
			if err != nil {
				FatalError("%v", err)
			}
		}
		if _, err := os.Stat(ws.Abs(ref)); err != nil {
			FatalError("reference config %s does not exist", ref)
		}

		status, err := migrate.LoadStatus(ws)
		if err != nil {
			FatalError("%v", err)
		}
		if !status.Tracked(ref) {
			FatalErrorWithHint(
				fmt.Sprintf("reference config %s is not tracked", ref),
				"run 'cm init' to register it first",
			)
		}
		versions := append([]string{}, status.Applied(ref)...)

		if _, err := os.Stat(ws.Abs(norm)); err == nil {
			// Re-registering an existing subconfig is fine as long as its
			// recorded history matches the reference; anything else would
			// silently rewrite history.
			if status.Tracked(norm) && sameVersions(status.Applied(norm), versions) {
				if !jsonOutput {
					fmt.Printf("%s is already registered.\n", norm)
				} else {
					outputJSON(map[string]interface{}{"path": norm, "created": false})
				}
				return
			}
			FatalError("%s already exists with a different migration history", norm)
		}

		data, err := os.ReadFile(ws.Abs(ref))
		if err != nil {
			FatalError("reading %s: %v", ref, err)
		}
		if err := os.WriteFile(ws.Abs(norm), data, 0o644); err != nil {
			FatalError("creating %s: %v", norm, err)
		}
		if err := recordCustomEntries(ws, map[string][]string{norm: versions}); err != nil {
			FatalError("recording %s: %v", norm, err)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"path":      norm,
				"reference": ref,
				"versions":  versions,
				"created":   true,
			})
			return
		}
		fmt.Printf("Created %s from %s (%d migration(s) inherited)\n", norm, ref, len(versions))
	},
}

func sameVersions(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func init() {
	subconfigCmd.Flags().StringVarP(&subconfigReference, "reference", "r", "", "Config file to copy from (default: the family's custom file)")
	rootCmd.AddCommand(subconfigCmd)
}
