package migrate

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/tidwall/gjson"
)

// addLogLevel writes logging.level into the schema and its whole custom side.
func addLogLevel() *Definition {
	return &Definition{
		Version: "1756300800",
		Name:    "add_log_level",
		Up: func(ctx *Context) error {
			if err := ctx.AddKey("settings.schema.json", "logging.level", "info", true, false); err != nil {
				return err
			}
			return ctx.AddKey("settings.schema.json", "logging.level", "info", true, true)
		},
		Down: func(ctx *Context) error {
			if err := ctx.RemoveKey("settings.schema.json", "logging.level", false); err != nil {
				return err
			}
			return ctx.RemoveKey("settings.schema.json", "logging.level", true)
		},
	}
}

func TestExecuteUpRecordsHistory(t *testing.T) {
	ws := testWorkspace(t)
	writeConfig(t, ws, "settings.schema.json", `{}`)
	writeConfig(t, ws, "settings.json", `{}`)
	trackCustom(t, ws, "settings.json")

	def := addLogLevel()
	if err := def.Execute(ws, ModeUp, []string{"settings.schema.json", "settings.json"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for _, p := range []string{"settings.schema.json", "settings.json"} {
		if got := gjson.GetBytes(readConfig(t, ws, p), "logging.level").String(); got != "info" {
			t.Errorf("%s: logging.level = %q, want info", p, got)
		}
	}

	status, err := LoadStatus(ws)
	if err != nil {
		t.Fatalf("LoadStatus: %v", err)
	}
	for _, p := range []string{"settings.schema.json", "settings.json"} {
		if got := status.Applied(p); !reflect.DeepEqual(got, []string{def.Version}) {
			t.Errorf("Applied(%s) = %v, want [%s]", p, got, def.Version)
		}
	}
}

func TestExecuteTargetsLimitScope(t *testing.T) {
	ws := testWorkspace(t)
	writeConfig(t, ws, "settings.schema.json", `{}`)
	writeConfig(t, ws, "settings.json", `{}`)
	writeConfig(t, ws, "settings.beta.json", `{}`)
	trackCustom(t, ws, "settings.json")
	trackCustom(t, ws, "settings.beta.json")
	betaBefore := readConfig(t, ws, "settings.beta.json")

	def := addLogLevel()
	if err := def.Execute(ws, ModeUp, []string{"settings.json"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !bytes.Equal(readConfig(t, ws, "settings.beta.json"), betaBefore) {
		t.Error("file outside the target set was modified")
	}

	status, err := LoadStatus(ws)
	if err != nil {
		t.Fatalf("LoadStatus: %v", err)
	}
	if got := status.Applied("settings.json"); !reflect.DeepEqual(got, []string{def.Version}) {
		t.Errorf("Applied(settings.json) = %v", got)
	}
	if got := status.Applied("settings.beta.json"); len(got) != 0 {
		t.Errorf("Applied(settings.beta.json) = %v, want empty", got)
	}
}

func TestExecuteFailureIsAtomic(t *testing.T) {
	ws := testWorkspace(t)
	writeConfig(t, ws, "settings.json", `{"n": 1}`)
	trackCustom(t, ws, "settings.json")
	before := readConfig(t, ws, "settings.json")
	ledgerBefore := readConfig(t, ws, ".confmig/custom-status.json")

	boom := errors.New("boom")
	def := &Definition{
		Version: "100",
		Name:    "partial_failure",
		Up: func(ctx *Context) error {
			if err := ctx.OverwriteKey("settings.json", "n", 2, false, false); err != nil {
				return err
			}
			return boom
		},
	}

	if err := def.Execute(ws, ModeUp, nil); !errors.Is(err, boom) {
		t.Fatalf("Execute = %v, want boom", err)
	}
	if !bytes.Equal(readConfig(t, ws, "settings.json"), before) {
		t.Error("config changed despite failed migration")
	}
	if !bytes.Equal(readConfig(t, ws, ".confmig/custom-status.json"), ledgerBefore) {
		t.Error("ledger changed despite failed migration")
	}
}

func TestExecuteDownWithoutRollbackFunc(t *testing.T) {
	ws := testWorkspace(t)
	def := &Definition{
		Version: "100",
		Name:    "one_way",
		Up:      func(*Context) error { return nil },
	}

	if def.Reversible() {
		t.Error("nil Down reported reversible")
	}
	if err := def.Execute(ws, ModeDown, nil); !errors.Is(err, ErrIrreversible) {
		t.Fatalf("Execute down = %v, want ErrIrreversible", err)
	}
}

func TestUpDownRoundTrip(t *testing.T) {
	ws := testWorkspace(t)
	writeConfig(t, ws, "settings.schema.json", `{"server": {"host": "localhost"}}`)
	writeConfig(t, ws, "settings.json", `{"server": {"host": "example.com"}}`)
	trackCustom(t, ws, "settings.json")

	// Canonical formatting first, so the comparison sees only the
	// migration's own effect.
	normalizeFile(t, ws, "settings.schema.json")
	normalizeFile(t, ws, "settings.json")
	schemaBefore := readConfig(t, ws, "settings.schema.json")
	customBefore := readConfig(t, ws, "settings.json")

	def := addLogLevel()
	targets := []string{"settings.schema.json", "settings.json"}
	if err := def.Execute(ws, ModeUp, targets); err != nil {
		t.Fatalf("up: %v", err)
	}
	if err := def.Execute(ws, ModeDown, targets); err != nil {
		t.Fatalf("down: %v", err)
	}

	if !bytes.Equal(readConfig(t, ws, "settings.schema.json"), schemaBefore) {
		t.Error("schema not byte-identical after up/down round trip")
	}
	if !bytes.Equal(readConfig(t, ws, "settings.json"), customBefore) {
		t.Error("custom config not byte-identical after up/down round trip")
	}

	status, err := LoadStatus(ws)
	if err != nil {
		t.Fatalf("LoadStatus: %v", err)
	}
	if got := status.Applied("settings.json"); len(got) != 0 {
		t.Errorf("Applied(settings.json) = %v after round trip, want empty", got)
	}
}

func TestExecuteThenPlanShowsNoWork(t *testing.T) {
	ws := testWorkspace(t)
	writeConfig(t, ws, "settings.schema.json", `{}`)
	writeConfig(t, ws, "settings.json", `{}`)
	trackCustom(t, ws, "settings.json")

	def := addLogLevel()
	reg := NewRegistry()
	reg.Register(def)
	mgr := NewManagerWithRegistry(ws, reg)

	plan, err := buildPlan(ws, mgr, ModeUp)
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}
	for _, version := range []string{def.Version} {
		files := plan.FilesNeeding(version)
		if len(files) == 0 {
			t.Fatal("expected pending work before the run")
		}
		if err := def.Execute(ws, ModeUp, files); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}

	plan, err = buildPlan(ws, mgr, ModeUp)
	if err != nil {
		t.Fatalf("buildPlan after run: %v", err)
	}
	if plan.HasWork(ModeUp) {
		t.Error("plan still reports work after migrating everything")
	}
}
