// Package debug provides an opt-in debug log for troubleshooting without
// cluttering user-facing output. Messages go to a size-capped rotating file
// under the workspace state directory, and additionally to stderr when the
// CM_DEBUG environment variable is set.
package debug

import (
	"fmt"
	"log"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.Mutex
	logger *log.Logger
)

// Init routes debug output to a rotating log file at the given path.
// Safe to call more than once; the last path wins.
func Init(path string) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 2,
	}, "", log.LstdFlags)
}

// Logf writes a formatted message to the debug log. Before Init is called,
// messages are dropped unless CM_DEBUG is set.
func Logf(format string, args ...interface{}) {
	mu.Lock()
	l := logger
	mu.Unlock()

	if l != nil {
		l.Printf(format, args...)
	}
	if os.Getenv("CM_DEBUG") != "" {
		fmt.Fprintf(os.Stderr, "debug: "+format+"\n", args...)
	}
}
