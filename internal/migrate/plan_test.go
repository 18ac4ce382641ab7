package migrate

import (
	"errors"
	"reflect"
	"testing"
)

func noopDef(version string) *Definition {
	return &Definition{
		Version: version,
		Name:    "noop",
		Up:      func(*Context) error { return nil },
		Down:    func(*Context) error { return nil },
	}
}

func testRegistry(versions ...string) *Registry {
	reg := NewRegistry()
	for _, v := range versions {
		reg.Register(noopDef(v))
	}
	return reg
}

func TestRegistryOrdersByVersion(t *testing.T) {
	reg := testRegistry("300", "100", "200")
	var got []string
	for _, d := range reg.Migrations() {
		got = append(got, d.Version)
	}
	if !reflect.DeepEqual(got, []string{"100", "200", "300"}) {
		t.Errorf("Migrations() order = %v", got)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := testRegistry("100")
	defer func() {
		if recover() == nil {
			t.Error("duplicate registration did not panic")
		}
	}()
	reg.Register(noopDef("100"))
}

func TestBuildPlanPerFileApplicability(t *testing.T) {
	ws := testWorkspace(t)
	writeConfig(t, ws, "a.schema.json", `{}`)
	writeConfig(t, ws, "a.json", `{}`)
	writeConfig(t, ws, "a.beta.json", `{}`)
	trackSchema(t, ws, "a.schema.json", "100", "200")
	trackCustom(t, ws, "a.json", "100", "200")
	trackCustom(t, ws, "a.beta.json", "100")

	mgr := NewManagerWithRegistry(ws, testRegistry("100", "200"))
	plan, err := buildPlan(ws, mgr, ModeUp)
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}

	if got := plan.FilesNeeding("200"); !reflect.DeepEqual(got, []string{"a.beta.json"}) {
		t.Errorf("FilesNeeding(200) = %v, want [a.beta.json]", got)
	}
	if got := plan.FilesNeeding("100"); len(got) != 0 {
		t.Errorf("FilesNeeding(100) = %v, want none", got)
	}
	if !plan.HasWork(ModeUp) {
		t.Error("plan with a lagging file reports no work")
	}
	if got := plan.Files["a.beta.json"].Pending; !reflect.DeepEqual(got, []string{"200"}) {
		t.Errorf("a.beta.json pending = %v, want [200]", got)
	}
}

func TestBuildPlanDown(t *testing.T) {
	ws := testWorkspace(t)
	writeConfig(t, ws, "a.json", `{}`)
	writeConfig(t, ws, "a.beta.json", `{}`)
	trackCustom(t, ws, "a.json", "100", "200")
	trackCustom(t, ws, "a.beta.json", "100")

	mgr := NewManagerWithRegistry(ws, testRegistry("100", "200"))
	plan, err := buildPlan(ws, mgr, ModeDown)
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}

	if got := plan.FilesHaving("200"); !reflect.DeepEqual(got, []string{"a.json"}) {
		t.Errorf("FilesHaving(200) = %v, want [a.json]", got)
	}
	if got := plan.FilesHaving("100"); !reflect.DeepEqual(got, []string{"a.beta.json", "a.json"}) {
		t.Errorf("FilesHaving(100) = %v", got)
	}
}

func TestBuildPlanRejectsUntrackedCustoms(t *testing.T) {
	ws := testWorkspace(t)
	writeConfig(t, ws, "a.json", `{}`)
	writeConfig(t, ws, "a.rogue.json", `{}`) // copied by hand, never registered
	trackCustom(t, ws, "a.json")

	mgr := NewManagerWithRegistry(ws, testRegistry("100"))
	_, err := buildPlan(ws, mgr, ModeUp)

	var untracked *UntrackedConfigError
	if !errors.As(err, &untracked) {
		t.Fatalf("err = %v, want UntrackedConfigError", err)
	}
	if !reflect.DeepEqual(untracked.Files, []string{"a.rogue.json"}) {
		t.Errorf("untracked files = %v, want [a.rogue.json]", untracked.Files)
	}
}

func TestBuildPlanSchemasAreExempt(t *testing.T) {
	ws := testWorkspace(t)
	writeConfig(t, ws, "a.schema.json", `{}`) // shipped with the project, never registered

	mgr := NewManagerWithRegistry(ws, testRegistry("100"))
	plan, err := buildPlan(ws, mgr, ModeUp)
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}
	fs, ok := plan.Files["a.schema.json"]
	if !ok {
		t.Fatal("schema file missing from plan")
	}
	if !reflect.DeepEqual(fs.Pending, []string{"100"}) {
		t.Errorf("schema pending = %v, want [100]", fs.Pending)
	}
}

func TestManagerConfigFiles(t *testing.T) {
	ws := testWorkspace(t)
	ws.SearchDirs = []string{"", "colors"}
	ws.Ignore = []string{"scratch.json"}
	writeConfig(t, ws, "a.json", `{}`)
	writeConfig(t, ws, "scratch.json", `{}`)
	writeConfig(t, ws, "notes.txt", "not json")
	writeConfig(t, ws, "colors/config.schema.json", `{}`)

	files, err := NewManagerWithRegistry(ws, NewRegistry()).ConfigFiles()
	if err != nil {
		t.Fatalf("ConfigFiles: %v", err)
	}
	want := []string{"a.json", "colors/config.schema.json"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("ConfigFiles() = %v, want %v", files, want)
	}
}
