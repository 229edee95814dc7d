// Package utils provides utility functions and helpers used throughout the observer project.
package utils

import (
	"testing"

	"github.com/google/uuid"
)

// uuid_test.go: Tests for the UUID helper, ensuring generated run IDs are valid.

// TestNewUUIDString verifies that NewUUIDString returns a valid UUID string.
func TestNewUUIDString(t *testing.T) {
	id := NewUUIDString()

	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("NewUUIDString returned invalid UUID string: %v", err)
	}
}
