// database/errors.go
package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsUniqueViolation recognizes a unique-constraint failure from the driver.
// Callers that pre-check uniqueness can still lose the race against the
// partial unique indexes; this lets them answer 409 instead of 500.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "unique constraint failed")
}
