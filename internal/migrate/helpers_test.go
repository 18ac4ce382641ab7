package migrate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// testWorkspace creates an initialized workspace in a temp dir.
func testWorkspace(t *testing.T) *Workspace {
	t.Helper()
	ws := NewWorkspace(t.TempDir())
	if err := WriteInitialLedgers(ws); err != nil {
		t.Fatalf("WriteInitialLedgers: %v", err)
	}
	return ws
}

func writeConfig(t *testing.T, ws *Workspace, path, content string) {
	t.Helper()
	abs := ws.Abs(path)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readConfig(t *testing.T, ws *Workspace, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(ws.Abs(path))
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return data
}

func trackCustom(t *testing.T, ws *Workspace, path string, versions ...string) {
	t.Helper()
	setLedgerEntry(t, ws.CustomLedgerPath(), path, versions)
}

func trackSchema(t *testing.T, ws *Workspace, path string, versions ...string) {
	t.Helper()
	setLedgerEntry(t, ws.SchemaLedgerPath(), path, versions)
}

func setLedgerEntry(t *testing.T, ledgerPath, config string, versions []string) {
	t.Helper()
	data, err := os.ReadFile(ledgerPath)
	if err != nil {
		t.Fatalf("reading ledger: %v", err)
	}
	entries := make(map[string][]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("parsing ledger: %v", err)
	}
	if versions == nil {
		versions = []string{}
	}
	entries[config] = versions
	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ledgerPath, out, 0o644); err != nil {
		t.Fatal(err)
	}
}

// normalizeFile rewrites a config file in canonical form through a
// transaction, so byte-level comparisons are not confused by formatting.
func normalizeFile(t *testing.T, ws *Workspace, path string) {
	t.Helper()
	err := ws.RunTransaction(func(txn *Transaction) error {
		return txn.Update(path, func(doc []byte) ([]byte, error) {
			return doc, nil
		})
	})
	if err != nil {
		t.Fatalf("normalizing %s: %v", path, err)
	}
}
