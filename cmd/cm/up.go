package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgrid/confmigrate/internal/migrate"
	"github.com/ledgrid/confmigrate/internal/ui"
)

var upStep int

var upCmd = &cobra.Command{
	Use:     "up",
	GroupID: "migrate",
	Short:   "Apply pending migrations",
	Long: `Applies registered migrations in version order. Each migration runs
only against the files that do not have it yet, so a config that lags behind
its siblings is brought forward without re-migrating the others.

A failing migration rolls back completely and stops the batch; files already
migrated by earlier versions in the batch keep their progress.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateStep(upStep, 0); err != nil {
			FatalError("%v", err)
		}
		ws := openWorkspace()
		requireInitialized(ws)
		unlock := lockWorkspace(ws)
		defer unlock()

		plan, err := migrate.BuildPlan(ws, migrate.ModeUp)
		if err != nil {
			FatalError("%v", err)
		}
		if !plan.HasWork(migrate.ModeUp) {
			if jsonOutput {
				outputJSON(map[string]interface{}{"applied": []interface{}{}})
			} else {
				fmt.Println("All configs are up to date.")
			}
			return
		}

		type applied struct {
			Version string   `json:"version"`
			Name    string   `json:"name"`
			Files   []string `json:"files"`
		}
		var results []applied

		executed := 0
		for _, def := range plan.Migrations {
			files := plan.FilesNeeding(def.Version)
			if len(files) == 0 {
				continue
			}
			if !jsonOutput {
				fmt.Printf("%s %s %s (%d files)\n",
					ui.RenderAccent("up"), def.Version, def.Name, len(files))
			}
			if err := def.Execute(ws, migrate.ModeUp, files); err != nil {
				FatalError("migration %s (%s) failed: %v", def.Version, def.Name, err)
			}
			results = append(results, applied{def.Version, def.Name, files})
			executed++
			if upStep > 0 && executed >= upStep {
				break
			}
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{"applied": results})
			return
		}
		fmt.Printf("%s %d migration(s) applied.\n", ui.RenderPass("Done."), executed)
	},
}

func init() {
	upCmd.Flags().IntVar(&upStep, "step", 0, "Apply at most N migrations (0 = all)")
	rootCmd.AddCommand(upCmd)
}
