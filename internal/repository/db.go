package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Storage errors translated from PostgreSQL.
var (
	ErrNotFound       = errors.New("record not found")
	ErrParentNotFound = errors.New("referenced record does not exist")
	ErrDuplicateID    = errors.New("record already exists")
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so every
// repository can run inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// translate maps driver errors onto the package's sentinel errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return errors.Join(ErrParentNotFound, err)
		case "23505":
			return errors.Join(ErrDuplicateID, err)
		}
	}
	return err
}

// jsonOrNil returns raw as a JSON parameter, or nil (SQL NULL) when empty.
func jsonOrNil(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
