package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("create: %w", gorm.ErrDuplicatedKey)), ErrConstraintViolation)

	for _, msg := range []string{
		"UNIQUE constraint failed: products.code",
		"FOREIGN KEY constraint failed",
		`ERROR: duplicate key value violates unique constraint "idx_products_code"`,
		"Error 1062: Duplicate entry 'A-1' for key 'idx_products_code'",
	} {
		assert.ErrorIs(t, translate(errors.New(msg)), ErrConstraintViolation, msg)
	}

	other := errors.New("connection refused")
	assert.Same(t, other, translate(other))
}
