package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/ledgrid/confmigrate/internal/config"
	"github.com/ledgrid/confmigrate/internal/migrate"
)

// openWorkspace locates the enclosing workspace and applies workspace
// settings from config. Exits with guidance when no workspace exists.
func openWorkspace() *migrate.Workspace {
	ws, err := migrate.FindWorkspace()
	if err != nil {
		FatalErrorWithHint(err.Error(), "run 'cm init' to set up the migration system")
	}
	applyWorkspaceConfig(ws)
	return ws
}

// openOrCreateWorkspace is openWorkspace for init: when no workspace exists
// yet, the current directory becomes the root.
func openOrCreateWorkspace() *migrate.Workspace {
	ws, err := migrate.FindWorkspace()
	if err != nil {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			FatalError("%v", cwdErr)
		}
		ws = migrate.NewWorkspace(cwd)
	}
	applyWorkspaceConfig(ws)
	return ws
}

func applyWorkspaceConfig(ws *migrate.Workspace) {
	for _, dir := range config.GetStringSlice("search-dirs") {
		ws.SearchDirs = append(ws.SearchDirs, filepath.ToSlash(filepath.Clean(dir)))
	}
	ws.Ignore = config.GetStringSlice("ignore")
}

// requireInitialized exits with guidance when the ledgers are missing.
func requireInitialized(ws *migrate.Workspace) {
	if !ws.Initialized() {
		FatalErrorWithHint("migration status files not found", "run 'cm init' first")
	}
}

// lockWorkspace takes the workspace file lock, serializing cm invocations
// against each other. Returns the unlock func.
func lockWorkspace(ws *migrate.Workspace) func() {
	if err := os.MkdirAll(ws.StateDir(), 0o755); err != nil {
		FatalError("creating state directory: %v", err)
	}

	lock := flock.New(ws.LockPath())
	timeout := config.GetDuration("lock-timeout")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 250*time.Millisecond)
	if err != nil {
		FatalError("acquiring workspace lock: %v", err)
	}
	if !locked {
		FatalError("another cm command is running in this workspace")
	}
	return func() { _ = lock.Unlock() }
}
