package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"text/template"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgrid/confmigrate/internal/config"
)

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

const migrationTemplate = `package {{.Package}}

import (
	"github.com/ledgrid/confmigrate"
)

func init() {
	confmigrate.Register(&confmigrate.Definition{
		Version: "{{.Version}}",
		Name:    "{{.Name}}",
		Up: func(ctx *confmigrate.Context) error {
			// TODO: implement the forward migration
			return nil
		},
		// Set Down to nil to mark this migration irreversible.
		Down: func(ctx *confmigrate.Context) error {
			// TODO: implement the rollback
			return nil
		},
	})
}
`

var generateCmd = &cobra.Command{
	Use:     "generate <name>",
	GroupID: "setup",
	Aliases: []string{"gen"},
	Short:   "Create a new migration file",
	Long: `Creates a timestamped migration file in the migrations directory. The
unix timestamp is the migration's version; its fixed width keeps lexical and
chronological order identical, so files sort into execution order on disk.

The name must be lowercase snake_case, e.g.:

  cm generate rename_team_colors`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		if !namePattern.MatchString(name) {
			FatalErrorWithHint(
				fmt.Sprintf("invalid migration name %q", name),
				"use lowercase letters, digits and underscores, starting with a letter",
			)
		}

		dir := config.GetString("migrations-dir")
		pkg := config.GetString("migrations-package")
		version := fmt.Sprintf("%d", time.Now().Unix())
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.go", version, name))

		if _, err := os.Stat(path); err == nil {
			FatalError("migration file %s already exists", path)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			FatalError("creating %s: %v", dir, err)
		}

		tmpl := template.Must(template.New("migration").Parse(migrationTemplate))
		f, err := os.Create(path)
		if err != nil {
			FatalError("creating %s: %v", path, err)
		}
		defer f.Close()
		err = tmpl.Execute(f, struct {
			Package, Version, Name string
		}{pkg, version, name})
		if err != nil {
			FatalError("writing %s: %v", path, err)
		}

		if jsonOutput {
			outputJSON(map[string]string{
				"path":    path,
				"version": version,
				"name":    name,
			})
			return
		}
		fmt.Printf("Created %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
