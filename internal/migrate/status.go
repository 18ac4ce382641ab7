package migrate

import (
	"encoding/json"
	"fmt"
	"os"
)

// Ledger filenames inside the workspace state directory. Schema (template)
// history and custom (user file) history are tracked separately so the two
// can be reasoned about independently; a given file appears in exactly one.
const (
	SchemaLedgerName = "schema-status.json"
	CustomLedgerName = "custom-status.json"
)

// ledger is one status document: normalized config path -> ordered list of
// applied migration versions. The dirty flag marks in-memory deltas so an
// unchanged ledger is never rewritten.
type ledger struct {
	entries map[string][]string
	dirty   bool
}

func loadLedger(path string) (*ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotInitialized)
		}
		return nil, err
	}
	entries := make(map[string][]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &ledger{entries: entries}, nil
}

func (l *ledger) clone() *ledger {
	entries := make(map[string][]string, len(l.entries))
	for k, v := range l.entries {
		versions := make([]string, len(v))
		copy(versions, v)
		entries[k] = versions
	}
	return &ledger{entries: entries}
}

// add appends a version to a file's history if absent. Versions are never
// duplicated and historical order is never rewritten.
func (l *ledger) add(path, version string) {
	for _, v := range l.entries[path] {
		if v == version {
			return
		}
	}
	l.entries[path] = append(l.entries[path], version)
	l.dirty = true
}

// remove drops a version from a file's history if present.
func (l *ledger) remove(path, version string) {
	versions := l.entries[path]
	for i, v := range versions {
		if v == version {
			l.entries[path] = append(versions[:i], versions[i+1:]...)
			l.dirty = true
			return
		}
	}
}

func (l *ledger) marshal() ([]byte, error) {
	return json.MarshalIndent(l.entries, "", "  ")
}

// Status is the loaded migration ledger pair.
type Status struct {
	ws     *Workspace
	schema *ledger
	custom *ledger
}

// LoadStatus reads both ledgers from the workspace state directory. Returns
// an error wrapping ErrNotInitialized when either file is missing.
func LoadStatus(ws *Workspace) (*Status, error) {
	schema, err := loadLedger(ws.SchemaLedgerPath())
	if err != nil {
		return nil, err
	}
	custom, err := loadLedger(ws.CustomLedgerPath())
	if err != nil {
		return nil, err
	}
	return &Status{ws: ws, schema: schema, custom: custom}, nil
}

// Applied returns the versions applied to a file, merged across both ledgers.
// The key spaces are disjoint so no entry can shadow another. Untracked paths
// yield an empty list.
func (s *Status) Applied(p string) []string {
	norm, err := s.ws.Normalize(p)
	if err != nil {
		return nil
	}
	if versions, ok := s.schema.entries[norm]; ok {
		return versions
	}
	return s.custom.entries[norm]
}

// Tracked reports whether a file has an entry in either ledger, even an
// empty one.
func (s *Status) Tracked(p string) bool {
	norm, err := s.ws.Normalize(p)
	if err != nil {
		return false
	}
	if _, ok := s.schema.entries[norm]; ok {
		return true
	}
	_, ok := s.custom.entries[norm]
	return ok
}

// CustomTracked returns every path with an entry in the custom ledger, in
// undefined order.
func (s *Status) CustomTracked() []string {
	out := make([]string, 0, len(s.custom.entries))
	for p := range s.custom.entries {
		out = append(out, p)
	}
	return out
}

// LedgerUpdate carries the serialized ledger documents produced by
// BuildUpdated, with dirty bits telling the caller which ones actually
// changed and need writing.
type LedgerUpdate struct {
	SchemaDoc   []byte
	CustomDoc   []byte
	SchemaDirty bool
	CustomDirty bool
}

// BuildUpdated computes the ledger state after applying (up) or removing
// (down) a version on the given modified files. Each file is routed to the
// schema or custom ledger by its filename; the ledger files themselves are
// skipped since a migration transaction stages them too.
func (s *Status) BuildUpdated(version string, mode Mode, modified []string) (*LedgerUpdate, error) {
	schema := s.schema.clone()
	custom := s.custom.clone()

	schemaLedger, _ := s.ws.Normalize(s.ws.SchemaLedgerPath())
	customLedger, _ := s.ws.Normalize(s.ws.CustomLedgerPath())

	for _, p := range modified {
		if p == schemaLedger || p == customLedger {
			continue
		}
		d, ok := ParseName(p)
		if !ok {
			return nil, fmt.Errorf("modified file %s is not a config file", p)
		}
		target := custom
		if d.IsSchema {
			target = schema
		}
		switch mode {
		case ModeUp:
			target.add(p, version)
		case ModeDown:
			target.remove(p, version)
		}
	}

	upd := &LedgerUpdate{SchemaDirty: schema.dirty, CustomDirty: custom.dirty}
	var err error
	if upd.SchemaDoc, err = schema.marshal(); err != nil {
		return nil, err
	}
	if upd.CustomDoc, err = custom.marshal(); err != nil {
		return nil, err
	}
	return upd, nil
}

// WriteInitialLedgers creates empty ledger files for a fresh workspace,
// leaving any existing ledger untouched.
func WriteInitialLedgers(ws *Workspace) error {
	if err := os.MkdirAll(ws.StateDir(), 0o755); err != nil {
		return err
	}
	for _, p := range []string{ws.SchemaLedgerPath(), ws.CustomLedgerPath()} {
		if _, err := os.Stat(p); err == nil {
			continue
		}
		if err := os.WriteFile(p, []byte("{}\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}
