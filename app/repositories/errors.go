package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches the requested id or code.
	ErrNotFound = errors.New("record not found")

	// ErrConstraintViolation is returned when a write would break a unique or
	// foreign key constraint, e.g. a second product with the same code.
	ErrConstraintViolation = errors.New("constraint violation")
)

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConstraintViolation
	}

	// Not every dialector translates its errors, so fall back to the message.
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"unique constraint", "duplicate key", "duplicate entry", "foreign key constraint"} {
		if strings.Contains(msg, s) {
			return ErrConstraintViolation
		}
	}
	return err
}
