package utils

import (
	"database/sql"
	"testing"
)

// null_types_test.go: Tests for the nullable-string SQL helper.

// TestToNullString tests the ToNullString function for converting strings to sql.NullString.
func TestToNullString(t *testing.T) {
	t.Helper()
	cases := []struct {
		in   string
		want sql.NullString
	}{
		{"", sql.NullString{String: "", Valid: false}},
		{"foo", sql.NullString{String: "foo", Valid: true}},
	}
	for _, c := range cases {
		got := ToNullString(c.in)
		if got != c.want {
			t.Errorf("ToNullString(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}
