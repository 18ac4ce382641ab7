package migrate

import "sort"

// FileState is one config file's position in migration history at plan build
// time.
type FileState struct {
	Path     string
	IsSchema bool
	Applied  map[string]struct{}

	// Pending (up) or Rollbackable (down) versions, in registry order.
	Pending      []string
	Rollbackable []string
}

// Needs reports whether the file still lacks a version (up direction).
func (f *FileState) Needs(version string) bool {
	_, ok := f.Applied[version]
	return !ok
}

// Has reports whether the file carries a version (down direction).
func (f *FileState) Has(version string) bool {
	_, ok := f.Applied[version]
	return ok
}

// Plan is the read-only join of migrations and files: which files still need
// which versions. It enables per-file granularity, so one family member can
// lag behind its siblings without blocking them. The plan never mutates
// anything; callers feed its file subsets into Definition.Execute as target
// files.
type Plan struct {
	Migrations []*Definition
	Files      map[string]*FileState
}

// BuildPlan loads every known config file with its applied versions and
// every registered migration, and computes per-file applicability.
//
// A non-schema file with no entry in either ledger fails the build with an
// UntrackedConfigError: custom files enter the system through init or
// subconfig, and silently adopting an unknown file's assumed history would
// be unsafe. Schema files are exempt; they ship with the project and are
// tracked from their first migration.
func BuildPlan(ws *Workspace, mode Mode) (*Plan, error) {
	return buildPlan(ws, NewManager(ws), mode)
}

func buildPlan(ws *Workspace, mgr *Manager, mode Mode) (*Plan, error) {
	status, err := LoadStatus(ws)
	if err != nil {
		return nil, err
	}
	files, err := mgr.ConfigFiles()
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Migrations: mgr.Migrations(),
		Files:      make(map[string]*FileState, len(files)),
	}

	var untracked []string
	for _, p := range files {
		d, _ := ParseName(p)
		if !d.IsSchema && !status.Tracked(p) {
			untracked = append(untracked, p)
			continue
		}
		fs := &FileState{
			Path:     p,
			IsSchema: d.IsSchema,
			Applied:  make(map[string]struct{}),
		}
		for _, v := range status.Applied(p) {
			fs.Applied[v] = struct{}{}
		}
		plan.Files[p] = fs
	}
	if len(untracked) > 0 {
		sort.Strings(untracked)
		return nil, &UntrackedConfigError{Files: untracked}
	}

	for _, fs := range plan.Files {
		for _, def := range plan.Migrations {
			switch mode {
			case ModeUp:
				if fs.Needs(def.Version) {
					fs.Pending = append(fs.Pending, def.Version)
				}
			case ModeDown:
				if fs.Has(def.Version) {
					fs.Rollbackable = append(fs.Rollbackable, def.Version)
				}
			}
		}
	}

	return plan, nil
}

// FilesNeeding returns the files that do not yet have the version applied.
func (p *Plan) FilesNeeding(version string) []string {
	var out []string
	for path, fs := range p.Files {
		if fs.Needs(version) {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// FilesHaving returns the files that currently have the version applied.
func (p *Plan) FilesHaving(version string) []string {
	var out []string
	for path, fs := range p.Files {
		if fs.Has(version) {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// HasWork reports whether any file has at least one pending (up) or
// rollbackable (down) migration.
func (p *Plan) HasWork(mode Mode) bool {
	for _, fs := range p.Files {
		if mode == ModeUp && len(fs.Pending) > 0 {
			return true
		}
		if mode == ModeDown && len(fs.Rollbackable) > 0 {
			return true
		}
	}
	return false
}
