package main

import "fmt"

// validateStep checks a --step flag value before any work happens. up accepts
// 0 meaning "no limit"; down requires at least 1.
func validateStep(n, min int) error {
	if n < min {
		return fmt.Errorf("--step must be at least %d, got %d", min, n)
	}
	return nil
}
