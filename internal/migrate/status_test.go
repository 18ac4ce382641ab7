package migrate

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestLedgerAddIsIdempotent(t *testing.T) {
	l := &ledger{entries: make(map[string][]string)}
	l.add("a.json", "100")
	l.add("a.json", "200")
	l.add("a.json", "100")

	want := []string{"100", "200"}
	if !reflect.DeepEqual(l.entries["a.json"], want) {
		t.Errorf("entries = %v, want %v", l.entries["a.json"], want)
	}
}

func TestLedgerRemove(t *testing.T) {
	l := &ledger{entries: map[string][]string{"a.json": {"100", "200"}}}
	l.remove("a.json", "100")
	l.remove("a.json", "999") // absent, no-op

	want := []string{"200"}
	if !reflect.DeepEqual(l.entries["a.json"], want) {
		t.Errorf("entries = %v, want %v", l.entries["a.json"], want)
	}
}

func TestStatusAppliedAndTracked(t *testing.T) {
	ws := testWorkspace(t)
	trackSchema(t, ws, "a.schema.json", "100")
	trackCustom(t, ws, "a.json", "100", "200")
	trackCustom(t, ws, "a.beta.json") // tracked, nothing applied

	status, err := LoadStatus(ws)
	if err != nil {
		t.Fatalf("LoadStatus: %v", err)
	}

	if got := status.Applied("a.json"); !reflect.DeepEqual(got, []string{"100", "200"}) {
		t.Errorf("Applied(a.json) = %v", got)
	}
	if got := status.Applied("a.schema.json"); !reflect.DeepEqual(got, []string{"100"}) {
		t.Errorf("Applied(a.schema.json) = %v", got)
	}
	if !status.Tracked("a.beta.json") {
		t.Error("empty entry must still count as tracked")
	}
	if status.Tracked("stranger.json") {
		t.Error("unknown file reported tracked")
	}
	if got := status.Applied("stranger.json"); len(got) != 0 {
		t.Errorf("Applied(stranger.json) = %v, want empty", got)
	}
}

func TestBuildUpdatedRoutesByFileKind(t *testing.T) {
	ws := testWorkspace(t)
	trackCustom(t, ws, "a.json")

	status, err := LoadStatus(ws)
	if err != nil {
		t.Fatalf("LoadStatus: %v", err)
	}

	upd, err := status.BuildUpdated("100", ModeUp, []string{"a.schema.json", "a.json"})
	if err != nil {
		t.Fatalf("BuildUpdated: %v", err)
	}
	if !upd.SchemaDirty || !upd.CustomDirty {
		t.Fatalf("dirty flags = %v/%v, want both", upd.SchemaDirty, upd.CustomDirty)
	}

	schema := unmarshalLedger(t, upd.SchemaDoc)
	custom := unmarshalLedger(t, upd.CustomDoc)

	if !reflect.DeepEqual(schema["a.schema.json"], []string{"100"}) {
		t.Errorf("schema ledger = %v", schema)
	}
	if !reflect.DeepEqual(custom["a.json"], []string{"100"}) {
		t.Errorf("custom ledger = %v", custom)
	}
	// The key spaces stay disjoint.
	if _, ok := schema["a.json"]; ok {
		t.Error("custom file leaked into schema ledger")
	}
	if _, ok := custom["a.schema.json"]; ok {
		t.Error("schema file leaked into custom ledger")
	}
}

func TestBuildUpdatedDown(t *testing.T) {
	ws := testWorkspace(t)
	trackCustom(t, ws, "a.json", "100", "200")

	status, err := LoadStatus(ws)
	if err != nil {
		t.Fatalf("LoadStatus: %v", err)
	}

	upd, err := status.BuildUpdated("200", ModeDown, []string{"a.json"})
	if err != nil {
		t.Fatalf("BuildUpdated: %v", err)
	}
	if upd.SchemaDirty {
		t.Error("schema ledger dirtied by a custom-only change")
	}
	custom := unmarshalLedger(t, upd.CustomDoc)
	if !reflect.DeepEqual(custom["a.json"], []string{"100"}) {
		t.Errorf("custom ledger = %v", custom)
	}
}

func TestBuildUpdatedSkipsLedgerFiles(t *testing.T) {
	ws := testWorkspace(t)
	trackCustom(t, ws, "a.json")

	status, err := LoadStatus(ws)
	if err != nil {
		t.Fatalf("LoadStatus: %v", err)
	}

	ledgerPath, _ := ws.Normalize(ws.CustomLedgerPath())
	upd, err := status.BuildUpdated("100", ModeUp, []string{"a.json", ledgerPath})
	if err != nil {
		t.Fatalf("BuildUpdated: %v", err)
	}
	custom := unmarshalLedger(t, upd.CustomDoc)
	if _, ok := custom[ledgerPath]; ok {
		t.Error("ledger recorded itself as a migrated config")
	}
}

func unmarshalLedger(t *testing.T, doc []byte) map[string][]string {
	t.Helper()
	out := make(map[string][]string)
	if err := json.Unmarshal(doc, &out); err != nil {
		t.Fatalf("parsing ledger doc: %v", err)
	}
	return out
}
