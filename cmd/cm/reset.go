package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ledgrid/confmigrate/internal/migrate"
	"github.com/ledgrid/confmigrate/internal/ui"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:     "reset",
	GroupID: "setup",
	Short:   "Delete all custom configs and their migration history",
	Long: `Deletes every custom config and subconfig along with the custom
ledger, returning the workspace to a schemas-only state. Schema files and
their history are preserved. Run 'cm init' afterwards to regenerate custom
configs from the schemas.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ws := openWorkspace()

		victims, err := customConfigs(ws)
		if err != nil {
			FatalError("%v", err)
		}
		if len(victims) == 0 {
			if !jsonOutput {
				fmt.Println("No custom configs to remove.")
			} else {
				outputJSON(map[string]interface{}{"removed": []string{}})
			}
			return
		}

		if !resetForce && !confirmReset(victims) {
			fmt.Println("Aborting.")
			return
		}

		unlock := lockWorkspace(ws)
		defer unlock()

		for _, p := range victims {
			if err := os.Remove(ws.Abs(p)); err != nil && !os.IsNotExist(err) {
				FatalError("removing %s: %v", p, err)
			}
		}
		if err := os.WriteFile(ws.CustomLedgerPath(), []byte("{}\n"), 0o644); err != nil {
			FatalError("resetting custom ledger: %v", err)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{"removed": victims})
			return
		}
		for _, p := range victims {
			fmt.Printf("  removed %s\n", p)
		}
		fmt.Printf("%s %d custom config(s) removed. Run 'cm init' to regenerate them.\n",
			ui.RenderPass("Done."), len(victims))
	},
}

// customConfigs returns every custom-side file the reset should remove: the
// non-schema members of families that have a schema, plus anything tracked in
// the custom ledger that still exists on disk.
func customConfigs(ws *migrate.Workspace) ([]string, error) {
	files, err := migrate.NewManager(ws).ConfigFiles()
	if err != nil {
		return nil, err
	}

	schemas := make(map[string]struct{})
	for _, p := range files {
		if d, _ := migrate.ParseName(p); d.IsSchema {
			schemas[d.CustomSibling().Path()] = struct{}{}
		}
	}

	set := make(map[string]struct{})
	for _, p := range files {
		d, _ := migrate.ParseName(p)
		if d.IsSchema {
			continue
		}
		if _, ok := schemas[d.CustomSibling().Path()]; ok {
			set[p] = struct{}{}
		}
	}

	if status, err := migrate.LoadStatus(ws); err == nil {
		for _, p := range status.CustomTracked() {
			if _, err := os.Stat(ws.Abs(p)); err == nil {
				set[p] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func confirmReset(victims []string) bool {
	prompt := fmt.Sprintf("Remove %d custom config(s) and their migration history?", len(victims))

	if !ui.IsTerminal() {
		return ui.PromptYesNo(prompt, false)
	}

	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(prompt).
			Description("Schema files are preserved. This cannot be undone.").
			Affirmative("Reset").
			Negative("Cancel").
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return false
	}
	return confirmed
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}
