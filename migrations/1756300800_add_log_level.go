package migrations

import (
	"github.com/ledgrid/confmigrate"
)

func init() {
	confmigrate.Register(&confmigrate.Definition{
		Version: "1756300800",
		Name:    "add_log_level",
		Up: func(ctx *confmigrate.Context) error {
			// Once against the schema template itself, once expanded over
			// the custom file and every subconfig.
			if err := ctx.AddKey("settings.schema.json", "logging.level", "info", true, false); err != nil {
				return err
			}
			return ctx.AddKey("settings.schema.json", "logging.level", "info", true, true)
		},
		Down: func(ctx *confmigrate.Context) error {
			if err := ctx.RemoveKey("settings.schema.json", "logging.level", false); err != nil {
				return err
			}
			return ctx.RemoveKey("settings.schema.json", "logging.level", true)
		},
	})
}
