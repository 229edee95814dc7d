// Package utils provides utility functions and helpers used throughout the observer project.
package utils

import "github.com/google/uuid"

// uuid.go: helper for generating run-correlation IDs (check_runs.run_id,
// scheduler_logs.run_id).

// NewUUIDString returns a newly generated UUID as a string.
// It wraps uuid.New().String() from the google/uuid package.
func NewUUIDString() string {
	return uuid.New().String()
}
