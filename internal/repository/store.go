package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/reportcard-backend/internal/model"
)

// Store runs the operations that must touch several tables atomically.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Tables in export order.
var snapshotTables = []string{"schools", "media", "classes", "marksheet_schemas", "students", "marks"}

// Tables whose id column is backed by a sequence.
var sequencedTables = []string{"schools", "classes", "marksheet_schemas", "students", "marks"}

func (s *Store) withTx(ctx context.Context, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	// Deferred foreign keys are checked here.
	return translate(tx.Commit(ctx))
}

// CreateSubmission inserts a student and its mark row in one transaction.
// On success mark.StudentID points at the new student.
func (s *Store) CreateSubmission(ctx context.Context, student *model.Student, mark *model.Mark) error {
	return s.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if err := NewStudentRepository(tx).Create(ctx, student); err != nil {
			return fmt.Errorf("insert student: %w", err)
		}
		mark.StudentID = student.ID
		if err := NewMarkRepository(tx).Create(ctx, mark); err != nil {
			return fmt.Errorf("insert mark: %w", err)
		}
		return nil
	})
}

// Snapshot reads every table from one consistent view.
func (s *Store) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	snap := &model.Snapshot{}
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := s.withTx(ctx, opts, func(tx pgx.Tx) error {
		var err error
		if snap.Schools, err = NewSchoolRepository(tx).List(ctx); err != nil {
			return fmt.Errorf("read schools: %w", err)
		}
		if snap.Media, err = NewMediaRepository(tx).List(ctx); err != nil {
			return fmt.Errorf("read media: %w", err)
		}
		if snap.Classes, err = NewClassRepository(tx).List(ctx); err != nil {
			return fmt.Errorf("read classes: %w", err)
		}
		if snap.MarksheetSchemas, err = NewSchemaRepository(tx).List(ctx); err != nil {
			return fmt.Errorf("read marksheet schemas: %w", err)
		}
		if snap.Students, err = NewStudentRepository(tx).List(ctx); err != nil {
			return fmt.Errorf("read students: %w", err)
		}
		if snap.Marks, err = NewMarkRepository(tx).List(ctx); err != nil {
			return fmt.Errorf("read marks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// ReplaceAll clears every table and loads snap in its place. Either all of
// snap becomes visible or the previous data stays untouched.
func (s *Store) ReplaceAll(ctx context.Context, snap *model.Snapshot) error {
	return s.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE `+strings.Join(snapshotTables, ", ")+` RESTART IDENTITY`); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}

		// A pgx.Tx runs one statement at a time, so the loads are sequential.
		// Foreign keys are deferred until commit.
		loads := []struct {
			table string
			load  func() error
		}{
			{"schools", func() error { return NewSchoolRepository(tx).BulkInsert(ctx, snap.Schools) }},
			{"media", func() error { return NewMediaRepository(tx).BulkInsert(ctx, snap.Media) }},
			{"classes", func() error { return NewClassRepository(tx).BulkInsert(ctx, snap.Classes) }},
			{"marksheet_schemas", func() error { return NewSchemaRepository(tx).BulkInsert(ctx, snap.MarksheetSchemas) }},
			{"students", func() error { return NewStudentRepository(tx).BulkInsert(ctx, snap.Students) }},
			{"marks", func() error { return NewMarkRepository(tx).BulkInsert(ctx, snap.Marks) }},
		}
		for _, l := range loads {
			if err := l.load(); err != nil {
				return fmt.Errorf("load %s: %w", l.table, translate(err))
			}
		}

		for _, table := range sequencedTables {
			q := fmt.Sprintf(
				`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM %[1]s`,
				table,
			)
			if _, err := tx.Exec(ctx, q); err != nil {
				return fmt.Errorf("reset %s sequence: %w", table, err)
			}
		}

		// Surface constraint violations here instead of at COMMIT.
		if _, err := tx.Exec(ctx, `SET CONSTRAINTS ALL IMMEDIATE`); err != nil {
			return fmt.Errorf("check constraints: %w", translate(err))
		}
		return nil
	})
}

// Counts returns the number of rows of every table.
func (s *Store) Counts(ctx context.Context) (*model.DashboardCounts, error) {
	return NewDashboardRepository(s.pool).GetCounts(ctx)
}
