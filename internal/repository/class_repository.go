package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/reportcard-backend/internal/model"
)

// ClassRepository handles class data access.
type ClassRepository struct {
	db DBTX
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(db DBTX) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = `id, school_id, name, stream, active_marksheet_schema_id`

func scanClass(row pgx.Row, c *model.SchoolClass) error {
	return row.Scan(&c.ID, &c.SchoolID, &c.Name, &c.Stream, &c.ActiveMarksheetSchemaID)
}

// GetByID retrieves a class by its ID.
func (r *ClassRepository) GetByID(ctx context.Context, id int) (*model.SchoolClass, error) {
	c := &model.SchoolClass{}
	err := scanClass(r.db.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE id = $1`, id), c)
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// ListBySchool retrieves the classes of a school.
func (r *ClassRepository) ListBySchool(ctx context.Context, schoolID int) ([]model.SchoolClass, error) {
	return r.list(ctx, `SELECT `+classColumns+` FROM classes WHERE school_id = $1 ORDER BY id`, schoolID)
}

// List retrieves all classes.
func (r *ClassRepository) List(ctx context.Context) ([]model.SchoolClass, error) {
	return r.list(ctx, `SELECT `+classColumns+` FROM classes ORDER BY id`)
}

func (r *ClassRepository) list(ctx context.Context, query string, args ...any) ([]model.SchoolClass, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := []model.SchoolClass{}
	for rows.Next() {
		var c model.SchoolClass
		if err := scanClass(rows, &c); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, c *model.SchoolClass) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO classes (school_id, name, stream, active_marksheet_schema_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		c.SchoolID, c.Name, c.Stream, c.ActiveMarksheetSchemaID,
	).Scan(&c.ID)
	return translate(err)
}

// SetActiveSchema points a class at one of its marksheet schemas.
func (r *ClassRepository) SetActiveSchema(ctx context.Context, classID, schemaID int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE classes SET active_marksheet_schema_id = $1 WHERE id = $2`,
		schemaID, classID,
	)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkInsert copies classes with their existing IDs.
func (r *ClassRepository) BulkInsert(ctx context.Context, classes []model.SchoolClass) error {
	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"classes"},
		[]string{"id", "school_id", "name", "stream", "active_marksheet_schema_id"},
		pgx.CopyFromSlice(len(classes), func(i int) ([]any, error) {
			c := classes[i]
			return []any{c.ID, c.SchoolID, c.Name, c.Stream, c.ActiveMarksheetSchemaID}, nil
		}),
	)
	return err
}
