package migrate

import (
	"fmt"
)

// Context is the execution environment handed to a migration's Up/Down
// function. It shadows the transaction's read/write surface and adds keypath
// helpers that express a change once against a config family and apply it to
// every member file, filtered down to the files the execution plan says need
// this migration.
//
// A Context is created fresh for each migration execution and carries no
// state across executions.
type Context struct {
	ws      *Workspace
	txn     *Transaction
	targets map[string]struct{} // normalized; nil means no filter
}

// NewContext wraps a transaction with an optional target-file filter.
func NewContext(txn *Transaction, targetFiles []string) *Context {
	ctx := &Context{ws: txn.ws, txn: txn}
	if targetFiles != nil {
		ctx.targets = make(map[string]struct{}, len(targetFiles))
		for _, f := range targetFiles {
			if norm, err := txn.ws.Normalize(f); err == nil {
				ctx.targets[norm] = struct{}{}
			}
		}
	}
	return ctx
}

// Read reads a file within the transaction.
func (c *Context) Read(path string) ([]byte, error) { return c.txn.Read(path) }

// Write writes a file within the transaction.
func (c *Context) Write(path string, doc []byte) error { return c.txn.Write(path, doc) }

// Update loads a file for update within the transaction; see Transaction.Update.
func (c *Context) Update(path string, fn func(doc []byte) ([]byte, error)) error {
	return c.txn.Update(path, fn)
}

// ModifiedFiles returns the files modified so far in this transaction.
func (c *Context) ModifiedFiles() []string { return c.txn.ModifiedFiles() }

// Configs resolves a reference path to the config family members a migration
// should touch. A schema reference with expandSchema true expands to every
// custom file and subconfig in the family (never the schema itself); with
// expandSchema false it resolves only to the schema file. A custom reference
// expands to the whole custom side of its family. Results are intersected
// with the context's target files when a filter is set.
func (c *Context) Configs(ref string, expandSchema bool) ([]string, error) {
	norm, err := c.ws.Normalize(ref)
	if err != nil {
		return nil, err
	}
	d, ok := ParseName(norm)
	if !ok {
		return nil, fmt.Errorf("%s is not a config file path", ref)
	}

	if d.IsSchema && !expandSchema {
		return c.filterTargets([]string{norm}), nil
	}

	listing, err := c.ws.listDescriptors(d.Dir)
	if err != nil {
		return nil, err
	}

	members := ExpandFamily(d, listing, c.ws.Ignore)
	paths := make([]string, 0, len(members))
	for _, m := range members {
		paths = append(paths, m.Path())
	}
	return c.filterTargets(paths), nil
}

func (c *Context) filterTargets(paths []string) []string {
	if c.targets == nil {
		return paths
	}
	out := paths[:0]
	for _, p := range paths {
		if _, ok := c.targets[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// AddKey adds a value at the keypath in every resolved family member.
// Missing intermediate objects are created when createParents is true and
// reported as ErrKeyNotFound otherwise. An existing final segment is an
// ErrKeyConflict; use OverwriteKey to replace values deliberately.
func (c *Context) AddKey(ref, key string, value interface{}, createParents, expandSchema bool) error {
	return c.eachConfig(ref, expandSchema, func(path string, doc []byte) ([]byte, error) {
		return addKey(doc, path, ParseKeypath(key), value, createParents, false)
	})
}

// OverwriteKey adds or replaces a value at the keypath. Unlike AddKey it
// does not fail when the key already exists.
func (c *Context) OverwriteKey(ref, key string, value interface{}, createParents, expandSchema bool) error {
	return c.eachConfig(ref, expandSchema, func(path string, doc []byte) ([]byte, error) {
		return addKey(doc, path, ParseKeypath(key), value, createParents, true)
	})
}

// RemoveKey removes the keypath from every resolved family member. Removal
// is idempotent: a missing intermediate or final segment means the key is
// already gone and is not an error.
func (c *Context) RemoveKey(ref, key string, expandSchema bool) error {
	return c.eachConfig(ref, expandSchema, func(path string, doc []byte) ([]byte, error) {
		return removeKey(doc, ParseKeypath(key))
	})
}

// MoveKey moves the value at src to dst. The source must fully exist and the
// destination's parent must fully exist (ErrKeyNotFound otherwise); an
// existing destination value is an ErrKeyConflict.
func (c *Context) MoveKey(ref, src, dst string, expandSchema bool) error {
	return c.eachConfig(ref, expandSchema, func(path string, doc []byte) ([]byte, error) {
		return moveKey(doc, path, ParseKeypath(src), ParseKeypath(dst))
	})
}

// RenameKey renames the keypath's final segment to name within the same
// parent object. A missing source segment is an ErrKeyNotFound; an existing
// name is an ErrKeyConflict. Missing intermediate segments make the rename a
// no-op, mirroring RemoveKey's already-gone semantics.
func (c *Context) RenameKey(ref, key, name string, expandSchema bool) error {
	return c.eachConfig(ref, expandSchema, func(path string, doc []byte) ([]byte, error) {
		return renameKey(doc, path, ParseKeypath(key), name)
	})
}

// eachConfig applies a document transform to every resolved family member.
// Each file is read once and written once per helper call.
func (c *Context) eachConfig(ref string, expandSchema bool, fn func(path string, doc []byte) ([]byte, error)) error {
	paths, err := c.Configs(ref, expandSchema)
	if err != nil {
		return err
	}
	for _, p := range paths {
		p := p
		if err := c.txn.Update(p, func(doc []byte) ([]byte, error) {
			return fn(p, doc)
		}); err != nil {
			return err
		}
	}
	return nil
}

// Single-file keypath transforms. These operate on one document and know
// nothing about families or transactions.

func addKey(doc []byte, file string, kp Keypath, value interface{}, createParents, overwrite bool) ([]byte, error) {
	if !createParents && !checkParents(doc, kp) {
		return nil, &KeypathError{Op: "add", File: file, Keypath: kp.String(), Err: ErrKeyNotFound}
	}
	if !overwrite && docExists(doc, kp) {
		return nil, &KeypathError{Op: "add", File: file, Keypath: kp.String(), Err: ErrKeyConflict}
	}
	return docSet(doc, kp, value)
}

func removeKey(doc []byte, kp Keypath) ([]byte, error) {
	if !checkParents(doc, kp) || !docExists(doc, kp) {
		return doc, nil
	}
	return docDelete(doc, kp)
}

func moveKey(doc []byte, file string, src, dst Keypath) ([]byte, error) {
	if !checkParents(doc, src) || !docExists(doc, src) {
		return nil, &KeypathError{Op: "move", File: file, Keypath: src.String(), Err: ErrKeyNotFound}
	}
	if !checkParents(doc, dst) {
		return nil, &KeypathError{Op: "move", File: file, Keypath: dst.String(), Err: ErrKeyNotFound}
	}
	if docExists(doc, dst) {
		return nil, &KeypathError{Op: "move", File: file, Keypath: dst.String(), Err: ErrKeyConflict}
	}

	value := docGet(doc, src)
	out, err := docDelete(doc, src)
	if err != nil {
		return nil, err
	}
	return docSetRaw(out, dst, value.Raw)
}

func renameKey(doc []byte, file string, kp Keypath, name string) ([]byte, error) {
	if !checkParents(doc, kp) {
		return doc, nil
	}
	dst := kp.Parent().Child(name)
	if docExists(doc, dst) {
		return nil, &KeypathError{Op: "rename", File: file, Keypath: kp.String(), Err: ErrKeyConflict}
	}
	if !docExists(doc, kp) {
		return nil, &KeypathError{Op: "rename", File: file, Keypath: kp.String(), Err: ErrKeyNotFound}
	}

	value := docGet(doc, kp)
	out, err := docDelete(doc, kp)
	if err != nil {
		return nil, err
	}
	return docSetRaw(out, dst, value.Raw)
}
