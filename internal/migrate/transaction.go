package migrate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/ledgrid/confmigrate/internal/debug"
)

// TxnState is the lifecycle state of a Transaction.
type TxnState int

const (
	TxnUnstarted TxnState = iota
	TxnOpen
	TxnCommitted
	TxnRolledBack
)

func (s TxnState) String() string {
	switch s {
	case TxnUnstarted:
		return "unstarted"
	case TxnOpen:
		return "open"
	case TxnCommitted:
		return "committed"
	case TxnRolledBack:
		return "rolled back"
	}
	return "unknown"
}

// Transaction stages copy-on-write versions of JSON config files and swaps
// them in atomically on commit. Reads and writes inside an open transaction
// go through the staged copy, so work in progress is invisible on disk until
// Commit renames every staged file over its original. Rollback discards the
// staging area without touching any original.
//
// Transactions are single-use: Unstarted -> Open -> Committed or RolledBack.
type Transaction struct {
	ws    *Workspace
	state TxnState

	stagingDir string
	counter    int
	staged     map[string]string // normalized original path -> staged copy path
	order      []string          // staging order of normalized paths
}

// NewTransaction creates an unstarted transaction for the workspace.
func (w *Workspace) NewTransaction() *Transaction {
	return &Transaction{
		ws:     w,
		staged: make(map[string]string),
	}
}

// State returns the transaction's lifecycle state.
func (t *Transaction) State() TxnState { return t.state }

// Begin opens the transaction and creates the staging area. Beginning an
// already-open transaction is a no-op; a committed or rolled-back one cannot
// be reopened. Only one transaction may be open per workspace at a time.
func (t *Transaction) Begin() error {
	switch t.state {
	case TxnOpen:
		return nil
	case TxnCommitted, TxnRolledBack:
		return ErrTransactionClosed
	}

	if err := t.ws.guard.acquire(t); err != nil {
		return err
	}

	t.stagingDir = t.ws.TxnDir()
	if err := os.MkdirAll(t.stagingDir, 0o755); err != nil {
		t.ws.guard.release(t)
		return fmt.Errorf("creating staging dir: %w", err)
	}

	debug.Logf("BEGIN TRANSACTION (%s)", t.ws.Root)
	t.state = TxnOpen
	return nil
}

// Read returns the JSON content of a file as seen inside the transaction,
// staging the file on first touch. Reads must go through the transaction:
// a raw read would not see writes staged earlier in the same transaction.
func (t *Transaction) Read(p string) ([]byte, error) {
	copyPath, err := t.stage(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(copyPath)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: not valid JSON", p)
	}
	return data, nil
}

// Write replaces the staged content of a file with a normalized rendering of
// the given JSON document. The original on disk is untouched until Commit.
func (t *Transaction) Write(p string, doc []byte) error {
	copyPath, err := t.stage(p)
	if err != nil {
		return err
	}
	return os.WriteFile(copyPath, normalizeDoc(doc), 0o644)
}

// Update reads a file, applies fn to its content, and writes the result back,
// all inside the transaction. The write-back happens whenever fn returns nil,
// so a caller cannot forget it.
func (t *Transaction) Update(p string, fn func(doc []byte) ([]byte, error)) error {
	doc, err := t.Read(p)
	if err != nil {
		return err
	}
	updated, err := fn(doc)
	if err != nil {
		return err
	}
	return t.Write(p, updated)
}

// ModifiedFiles returns the normalized paths of every file staged in this
// transaction, in staging order.
func (t *Transaction) ModifiedFiles() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Commit atomically replaces every staged file's original with its staged
// copy, then removes the staging area. Rename semantics, not copy+delete:
// there is never a window where an original is missing. A transaction with
// nothing staged degrades to a rollback.
func (t *Transaction) Commit() error {
	if t.state != TxnOpen {
		if t.state == TxnUnstarted {
			return ErrTransactionNotOpen
		}
		return ErrTransactionClosed
	}

	if len(t.staged) == 0 {
		debug.Logf("COMMIT with nothing staged, rolling back")
		return t.Rollback()
	}

	for _, orig := range t.order {
		if err := os.Rename(t.staged[orig], t.ws.Abs(orig)); err != nil {
			t.ws.guard.release(t)
			return fmt.Errorf("committing %s: %w", orig, err)
		}
	}

	if err := os.RemoveAll(t.stagingDir); err != nil {
		debug.Logf("removing staging dir: %v", err)
	}

	t.state = TxnCommitted
	t.ws.guard.release(t)
	debug.Logf("COMMIT TRANSACTION (%d files)", len(t.staged))
	return nil
}

// Rollback discards every staged copy without touching any original.
func (t *Transaction) Rollback() error {
	if t.state != TxnOpen {
		if t.state == TxnUnstarted {
			return ErrTransactionNotOpen
		}
		return ErrTransactionClosed
	}

	if err := os.RemoveAll(t.stagingDir); err != nil {
		debug.Logf("removing staging dir: %v", err)
	}

	t.state = TxnRolledBack
	t.ws.guard.release(t)
	debug.Logf("ROLLBACK TRANSACTION")
	return nil
}

// RunTransaction runs fn inside a fresh transaction. On a nil return the
// transaction commits; on ErrRollback it rolls back and the error is
// swallowed; on any other error it rolls back and the error propagates.
// The workspace guard is released on every exit path.
func (w *Workspace) RunTransaction(fn func(txn *Transaction) error) error {
	txn := w.NewTransaction()
	if err := txn.Begin(); err != nil {
		return err
	}
	defer func() {
		// Covers a panic inside fn; normal paths have already settled.
		if txn.state == TxnOpen {
			_ = txn.Rollback()
		}
	}()

	if err := fn(txn); err != nil {
		if rbErr := txn.Rollback(); rbErr != nil {
			debug.Logf("rollback failed: %v", rbErr)
		}
		if errors.Is(err, ErrRollback) {
			return nil
		}
		return err
	}
	return txn.Commit()
}

// stage copies a file into the staging area on first touch and returns the
// staged copy's path. Staged names are "<counter>_<basename>" so two files
// with the same basename in different directories never collide.
func (t *Transaction) stage(p string) (string, error) {
	if t.state != TxnOpen {
		return "", ErrTransactionNotOpen
	}

	norm, err := t.ws.Normalize(p)
	if err != nil {
		return "", err
	}
	if copyPath, ok := t.staged[norm]; ok {
		return copyPath, nil
	}

	orig := t.ws.Abs(norm)
	if _, err := os.Stat(orig); err != nil {
		return "", fmt.Errorf("staging %s: %w", norm, err)
	}

	copyPath := filepath.Join(t.stagingDir, fmt.Sprintf("%d_%s", t.counter, filepath.Base(orig)))
	t.counter++

	if err := copyFile(orig, copyPath); err != nil {
		return "", fmt.Errorf("staging %s: %w", norm, err)
	}

	t.staged[norm] = copyPath
	t.order = append(t.order, norm)
	debug.Logf("STAGING %s", norm)
	return copyPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
