package migrate

import (
	"fmt"
	"sort"
)

// Manager joins the workspace's config files with the registered migrations.
type Manager struct {
	ws  *Workspace
	reg *Registry
}

// NewManager creates a manager over the default registry.
func NewManager(ws *Workspace) *Manager {
	return &Manager{ws: ws, reg: defaultRegistry}
}

// NewManagerWithRegistry creates a manager over an explicit registry.
func NewManagerWithRegistry(ws *Workspace, reg *Registry) *Manager {
	return &Manager{ws: ws, reg: reg}
}

// Migrations returns the registered migrations in ascending version order.
func (m *Manager) Migrations() []*Definition { return m.reg.Migrations() }

// ConfigFiles enumerates every migratable config file in the workspace
// search directories: JSON files not on the ignore list. The state directory
// is never scanned, so the ledgers do not show up as configs.
func (m *Manager) ConfigFiles() ([]string, error) {
	var out []string
	for _, dir := range m.ws.SearchDirs {
		descs, err := m.ws.listDescriptors(dir)
		if err != nil {
			return nil, fmt.Errorf("scanning %q: %w", dir, err)
		}
		for _, d := range descs {
			if d.Ext != "json" || m.ws.Ignored(d.Name()) {
				continue
			}
			out = append(out, d.Path())
		}
	}
	sort.Strings(out)
	return out, nil
}
