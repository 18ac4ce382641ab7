package migrate

import (
	"fmt"

	"github.com/ledgrid/confmigrate/internal/debug"
)

// Mode selects the direction of a migration run.
type Mode int

const (
	ModeUp Mode = iota
	ModeDown
)

func (m Mode) String() string {
	if m == ModeDown {
		return "down"
	}
	return "up"
}

// Definition is one versioned migration. Versions are unix-timestamp strings
// assigned at generation time; their fixed width makes lexical order equal
// chronological order.
//
// A nil Down marks the migration as irreversible in principle, which is
// distinguishable at compile time from a Down that discovers at run time it
// cannot undo the data at hand and returns ErrIrreversible.
type Definition struct {
	Version string
	Name    string
	Up      func(*Context) error
	Down    func(*Context) error
}

// Reversible reports whether the migration defines a rollback.
func (d *Definition) Reversible() bool { return d.Down != nil }

// Execute runs the migration in the given direction against the target file
// subset, inside a fresh transaction/context pair. The ledger delta is
// computed from the files the transaction actually touched and written
// through the same transaction, so content changes and history changes land
// atomically or not at all. Any error from Up/Down rolls the transaction
// back before propagating; no ledger entry is written for a failed run.
func (d *Definition) Execute(ws *Workspace, mode Mode, targetFiles []string) error {
	if mode == ModeDown && d.Down == nil {
		return fmt.Errorf("migration %s (%s): %w", d.Version, d.Name, ErrIrreversible)
	}

	debug.Logf("EXECUTE %s %s (%s), %d target file(s)", mode, d.Version, d.Name, len(targetFiles))

	return ws.RunTransaction(func(txn *Transaction) error {
		ctx := NewContext(txn, targetFiles)

		var err error
		switch mode {
		case ModeDown:
			err = d.Down(ctx)
		default:
			err = d.Up(ctx)
		}
		if err != nil {
			return err
		}

		// Ledger update rides in the same transaction as the content it
		// records. Deltas must be computed before the ledgers are staged.
		status, err := LoadStatus(ws)
		if err != nil {
			return err
		}
		upd, err := status.BuildUpdated(d.Version, mode, txn.ModifiedFiles())
		if err != nil {
			return err
		}
		if upd.SchemaDirty {
			if err := txn.Write(ws.SchemaLedgerPath(), upd.SchemaDoc); err != nil {
				return err
			}
		}
		if upd.CustomDirty {
			if err := txn.Write(ws.CustomLedgerPath(), upd.CustomDoc); err != nil {
				return err
			}
		}
		return nil
	})
}
