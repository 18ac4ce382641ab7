package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// outputJSON prints a value as indented JSON on stdout.
func outputJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to marshal JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// FatalError prints a formatted error to stderr and exits non-zero.
func FatalError(format string, args ...interface{}) {
	if jsonOutput {
		outputJSON(map[string]interface{}{
			"error": fmt.Sprintf(format, args...),
		})
	} else {
		fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	}
	os.Exit(1)
}

// FatalErrorWithHint prints an error plus a remediation hint and exits
// non-zero.
func FatalErrorWithHint(msg, hint string) {
	if jsonOutput {
		outputJSON(map[string]interface{}{
			"error": msg,
			"hint":  hint,
		})
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(1)
}
