package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	plain := errors.New("connection reset")

	assert.NoError(t, translate(nil))
	assert.Equal(t, ErrNotFound, translate(pgx.ErrNoRows))
	assert.Equal(t, plain, translate(plain))

	fk := fmt.Errorf("copy marks: %w", &pgconn.PgError{Code: "23503"})
	assert.ErrorIs(t, translate(fk), ErrParentNotFound)

	dup := fmt.Errorf("copy students: %w", &pgconn.PgError{Code: "23505"})
	err := translate(dup)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.NotErrorIs(t, err, ErrParentNotFound)

	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr)
}
