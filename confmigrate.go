// Package confmigrate evolves JSON configuration files through ordered,
// versioned migrations.
//
// A project ships schema files (templates named <family>.schema.json); users
// own a custom copy (<family>.json) and any number of subconfig variants
// (<family>.<variant>.json). Migration files register a Definition from
// init() and express changes once against a family; the engine applies them
// to every member file that does not have the version yet, inside a
// copy-on-write transaction, and records per-file history in ledger files so
// every config can lag or advance independently.
//
// This package is the surface migration files import:
//
//	func init() {
//		confmigrate.Register(&confmigrate.Definition{
//			Version: "1756300800",
//			Name:    "rename_primary_color",
//			Up: func(ctx *confmigrate.Context) error {
//				return ctx.RenameKey("colors/config.json", "colours.main", "primary", true)
//			},
//			Down: func(ctx *confmigrate.Context) error {
//				return ctx.RenameKey("colors/config.json", "colours.primary", "main", true)
//			},
//		})
//	}
//
// The engine lives in internal/migrate; the cm command drives it.
package confmigrate

import (
	"github.com/ledgrid/confmigrate/internal/migrate"
)

// Core types, aliased from the engine.
type (
	// Definition is one versioned migration; see Register.
	Definition = migrate.Definition

	// Context is the execution environment handed to Up/Down functions.
	Context = migrate.Context

	// Workspace is a root directory owning migratable config files.
	Workspace = migrate.Workspace

	// Transaction stages copy-on-write file changes for atomic commit.
	Transaction = migrate.Transaction

	// Keypath addresses a value inside a JSON document, e.g. "server.port".
	Keypath = migrate.Keypath

	// Registry holds registered migration definitions.
	Registry = migrate.Registry

	// Mode selects the migration direction.
	Mode = migrate.Mode

	// Plan maps registered migrations onto per-file applicability.
	Plan = migrate.Plan
)

const (
	ModeUp   = migrate.ModeUp
	ModeDown = migrate.ModeDown
)

// Errors migration code is expected to return or match against.
var (
	// ErrRollback aborts the current migration without surfacing a failure.
	ErrRollback = migrate.ErrRollback

	// ErrIrreversible marks a rollback as impossible for the data at hand.
	ErrIrreversible = migrate.ErrIrreversible

	ErrKeyNotFound = migrate.ErrKeyNotFound
	ErrKeyConflict = migrate.ErrKeyConflict
)

// Register adds a migration to the default registry. Migration files call
// this from init(), so importing the migrations package is what determines
// the migration set.
func Register(d *Definition) { migrate.Register(d) }

// NewWorkspace creates a workspace rooted at the given directory.
func NewWorkspace(root string) *Workspace { return migrate.NewWorkspace(root) }

// FindWorkspace locates the workspace enclosing the current directory.
func FindWorkspace() (*Workspace, error) { return migrate.FindWorkspace() }

// BuildPlan computes per-file applicability of the registered migrations.
func BuildPlan(ws *Workspace, mode Mode) (*Plan, error) { return migrate.BuildPlan(ws, mode) }

// ParseKeypath parses a dot-separated keypath string.
func ParseKeypath(s string) Keypath { return migrate.ParseKeypath(s) }
