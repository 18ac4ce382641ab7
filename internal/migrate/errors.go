package migrate

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for transaction lifecycle misuse. These indicate programmer
// error and are never silently recovered.
var (
	// ErrExistingTransaction is returned when a transaction is begun while
	// another one is already open. Nesting is not supported: migrations run
	// as a single short-lived batch, one transaction at a time.
	ErrExistingTransaction = errors.New("a transaction is already active; nested transactions are not supported")

	// ErrTransactionNotOpen is returned when a transaction is read from or
	// written to before Begin or after Commit/Rollback.
	ErrTransactionNotOpen = errors.New("transaction is not open")

	// ErrTransactionClosed is returned when a committed or rolled-back
	// transaction is used again. Transactions are single-use.
	ErrTransactionClosed = errors.New("transaction already committed or rolled back")
)

// ErrRollback is an intentional cancellation signal. Migration code returns it
// to abort the current transaction; the engine rolls back and swallows it
// rather than surfacing a fatal error.
var ErrRollback = errors.New("transaction rolled back")

// ErrIrreversible is returned when a migration cannot be rolled back.
// A Definition with a nil Down func is irreversible in principle; a Down
// func may also return this error when reversal is impossible for the
// data at hand.
var ErrIrreversible = errors.New("migration is irreversible")

// ErrNotInitialized is returned when the migration ledgers do not exist yet.
var ErrNotInitialized = errors.New("migration status files not found")

// Keypath operation sentinels. KeypathError wraps one of these so callers can
// match with errors.Is while still seeing which file and keypath failed.
var (
	ErrKeyNotFound = errors.New("keypath does not exist")
	ErrKeyConflict = errors.New("keypath already exists")
)

// KeypathError reports a failed keypath operation on a single config file.
type KeypathError struct {
	Op      string // "add", "remove", "move", "rename"
	File    string // normalized config path
	Keypath string
	Err     error // ErrKeyNotFound or ErrKeyConflict
}

func (e *KeypathError) Error() string {
	return fmt.Sprintf("%s %q in %s: %v", e.Op, e.Keypath, e.File, e.Err)
}

func (e *KeypathError) Unwrap() error { return e.Err }

// UntrackedConfigError reports config files that exist on disk but have no
// entry in either ledger. Adopting an unknown file's assumed version history
// would be unsafe, so this is surfaced with remediation guidance instead of
// being auto-fixed.
type UntrackedConfigError struct {
	Files []string
}

func (e *UntrackedConfigError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "found %d config file(s) not tracked by the migration system:\n", len(e.Files))
	for _, f := range e.Files {
		fmt.Fprintf(&b, "  - %s\n", f)
	}
	b.WriteString("\nThese files may have been created by copying configs by hand (e.g. with 'cp').\n")
	b.WriteString("To fix this, either:\n")
	b.WriteString("  1. Delete the untracked file(s) and recreate them with 'cm subconfig <path>'\n")
	b.WriteString("  2. Run 'cm reset' to remove all custom configs, then 'cm init' to start fresh")
	return b.String()
}
