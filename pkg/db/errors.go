package db

import "strings"

// IsUniqueViolation reports whether the provided error references a Postgres
// unique violation. When a constraint name is provided, the helper looks for
// that constraint text in the error message.
func IsUniqueViolation(err error, constraintName ...string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if len(constraintName) > 0 && constraintName[0] != "" {
		return strings.Contains(msg, constraintName[0])
	}
	return strings.Contains(msg, "duplicate key value")
}
