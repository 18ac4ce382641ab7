package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgrid/confmigrate/internal/migrate"
	"github.com/ledgrid/confmigrate/internal/ui"
)

var downStep int

var downCmd = &cobra.Command{
	Use:     "down",
	GroupID: "migrate",
	Short:   "Roll back applied migrations",
	Long: `Rolls back migrations in reverse version order, newest first. By
default only the most recent migration is reverted; use --step to go further.

A migration without a rollback stops the command with a non-zero exit; files
already rolled back by later versions in the batch keep that state.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateStep(downStep, 1); err != nil {
			FatalError("%v", err)
		}
		ws := openWorkspace()
		requireInitialized(ws)
		unlock := lockWorkspace(ws)
		defer unlock()

		plan, err := migrate.BuildPlan(ws, migrate.ModeDown)
		if err != nil {
			FatalError("%v", err)
		}
		if !plan.HasWork(migrate.ModeDown) {
			if jsonOutput {
				outputJSON(map[string]interface{}{"reverted": []interface{}{}})
			} else {
				fmt.Println("Nothing to roll back.")
			}
			return
		}

		type reverted struct {
			Version string   `json:"version"`
			Name    string   `json:"name"`
			Files   []string `json:"files"`
		}
		var results []reverted

		executed := 0
		for i := len(plan.Migrations) - 1; i >= 0; i-- {
			def := plan.Migrations[i]
			files := plan.FilesHaving(def.Version)
			if len(files) == 0 {
				continue
			}
			if !jsonOutput {
				fmt.Printf("%s %s %s (%d files)\n",
					ui.RenderWarn("down"), def.Version, def.Name, len(files))
			}
			if err := def.Execute(ws, migrate.ModeDown, files); err != nil {
				if errors.Is(err, migrate.ErrIrreversible) {
					FatalError("migration %s (%s) cannot be rolled back", def.Version, def.Name)
				}
				FatalError("rollback of %s (%s) failed: %v", def.Version, def.Name, err)
			}
			results = append(results, reverted{def.Version, def.Name, files})
			executed++
			if executed >= downStep {
				break
			}
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{"reverted": results})
			return
		}
		fmt.Printf("%s %d migration(s) rolled back.\n", ui.RenderPass("Done."), executed)
	},
}

func init() {
	downCmd.Flags().IntVar(&downStep, "step", 1, "Roll back at most N migrations")
	rootCmd.AddCommand(downCmd)
}
