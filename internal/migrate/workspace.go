// Package migrate implements transactional, versioned migrations for a
// workspace of JSON configuration files.
//
// A workspace owns one or more config families. Each family has a schema file
// (the template shipped with the project, marked by a ".schema." name
// segment), an optional user-owned custom file, and any number of named
// subconfig variants. Migrations evolve these documents in version order;
// the per-file history lives in two ledger files under the workspace state
// directory, and every migration executes inside a copy-on-write transaction
// so a failure leaves every file byte-identical to its pre-migration state.
package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StateDirName is the workspace state directory, holding the ledgers, the
// transaction staging area and the lock file.
const StateDirName = ".confmig"

// Workspace is the root directory owning migratable config files.
type Workspace struct {
	// Root is the absolute workspace root.
	Root string

	// SearchDirs are root-relative directories scanned for config files.
	// Empty string means the root itself.
	SearchDirs []string

	// Ignore lists reserved basenames excluded from config discovery and
	// family expansion.
	Ignore []string

	guard txnGuard
}

// NewWorkspace creates a workspace rooted at the given directory, scanning
// only the root for config files.
func NewWorkspace(root string) *Workspace {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &Workspace{Root: abs, SearchDirs: []string{""}}
}

// FindWorkspace walks up from the current directory looking for a state
// directory, so commands work from any subdirectory of a workspace.
func FindWorkspace() (*Workspace, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	for dir := cwd; ; dir = filepath.Dir(dir) {
		if fi, err := os.Stat(filepath.Join(dir, StateDirName)); err == nil && fi.IsDir() {
			return NewWorkspace(dir), nil
		}
		if dir == filepath.Dir(dir) {
			return nil, fmt.Errorf("no %s directory found in %s or any parent", StateDirName, cwd)
		}
	}
}

// StateDir returns the absolute path of the workspace state directory.
func (w *Workspace) StateDir() string { return filepath.Join(w.Root, StateDirName) }

// SchemaLedgerPath returns the absolute path of the schema ledger.
func (w *Workspace) SchemaLedgerPath() string {
	return filepath.Join(w.StateDir(), SchemaLedgerName)
}

// CustomLedgerPath returns the absolute path of the custom ledger.
func (w *Workspace) CustomLedgerPath() string {
	return filepath.Join(w.StateDir(), CustomLedgerName)
}

// TxnDir returns the absolute path of the transaction staging area.
func (w *Workspace) TxnDir() string { return filepath.Join(w.StateDir(), "txn") }

// LockPath returns the absolute path of the workspace lock file.
func (w *Workspace) LockPath() string { return filepath.Join(w.StateDir(), "lock") }

// Initialized reports whether both ledger files exist.
func (w *Workspace) Initialized() bool {
	if _, err := os.Stat(w.SchemaLedgerPath()); err != nil {
		return false
	}
	if _, err := os.Stat(w.CustomLedgerPath()); err != nil {
		return false
	}
	return true
}

// Normalize converts an absolute or workspace-relative path to the canonical
// form used for ledger keys and file comparisons: forward slashes, relative
// to the workspace root.
func (w *Workspace) Normalize(p string) (string, error) {
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(w.Root, p)
		if err != nil {
			return "", fmt.Errorf("normalizing %s: %w", p, err)
		}
		p = rel
	}
	p = filepath.ToSlash(filepath.Clean(p))
	if p == "." {
		return "", fmt.Errorf("normalizing: %q is not a file path", p)
	}
	if strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("normalizing: %s is outside the workspace", p)
	}
	return p, nil
}

// Abs converts a normalized path back to an absolute filesystem path.
func (w *Workspace) Abs(normalized string) string {
	return filepath.Join(w.Root, filepath.FromSlash(normalized))
}

// Ignored reports whether a basename is on the workspace ignore list.
func (w *Workspace) Ignored(basename string) bool {
	for _, ig := range w.Ignore {
		if ig == basename {
			return true
		}
	}
	return false
}
