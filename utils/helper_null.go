package utils

import "database/sql"

// ToNullString returns a sql.NullString that is valid if s is not empty.
func ToNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
