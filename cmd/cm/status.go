package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgrid/confmigrate/internal/migrate"
	"github.com/ledgrid/confmigrate/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: "views",
	Short:   "Show per-file migration status",
	Long: `Shows every tracked config file with the number of migrations it has
applied and the versions it is still missing. Files migrate independently, so
a freshly created subconfig can show pending work while its siblings are
current.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ws := openWorkspace()
		requireInitialized(ws)

		plan, err := migrate.BuildPlan(ws, migrate.ModeUp)
		if err != nil {
			FatalError("%v", err)
		}

		names := make(map[string]string, len(plan.Migrations))
		for _, def := range plan.Migrations {
			names[def.Version] = def.Name
		}

		paths := make([]string, 0, len(plan.Files))
		for p := range plan.Files {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		if jsonOutput {
			type fileStatus struct {
				Path    string   `json:"path"`
				Kind    string   `json:"kind"`
				Applied int      `json:"applied"`
				Pending []string `json:"pending"`
			}
			out := make([]fileStatus, 0, len(paths))
			for _, p := range paths {
				fs := plan.Files[p]
				out = append(out, fileStatus{
					Path:    p,
					Kind:    fileKind(p),
					Applied: len(fs.Applied),
					Pending: stringsOrEmpty(fs.Pending),
				})
			}
			outputJSON(map[string]interface{}{
				"migrations": len(plan.Migrations),
				"files":      out,
			})
			return
		}

		tbl := ui.NewStatusTable(ui.GetWidth())
		tbl.Headers("FILE", "KIND", "APPLIED", "PENDING")
		for _, p := range paths {
			fs := plan.Files[p]
			pending := ui.RenderPass("up to date")
			if len(fs.Pending) > 0 {
				var labels []string
				for _, v := range fs.Pending {
					labels = append(labels, fmt.Sprintf("%s %s", v, names[v]))
				}
				pending = ui.RenderWarn(strings.Join(labels, ", "))
			}
			tbl.Row(p, fileKind(p), fmt.Sprintf("%d", len(fs.Applied)), pending)
		}
		fmt.Println(tbl.Render())
		fmt.Printf("%d migration(s) registered, %d file(s) tracked.\n",
			len(plan.Migrations), len(paths))
	},
}

func fileKind(p string) string {
	d, _ := migrate.ParseName(p)
	switch {
	case d.IsSchema:
		return "schema"
	case d.Variant != "":
		return "subconfig"
	default:
		return "custom"
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
