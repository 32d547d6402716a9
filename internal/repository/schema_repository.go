package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/reportcard-backend/internal/model"
)

// SchemaRepository handles marksheet schema data access.
type SchemaRepository struct {
	db DBTX
}

// NewSchemaRepository creates a new SchemaRepository.
func NewSchemaRepository(db DBTX) *SchemaRepository {
	return &SchemaRepository{db: db}
}

const schemaColumns = `id, class_id, name, schema_json, ui_schema_json`

func scanSchema(row pgx.Row, s *model.MarksheetSchema) error {
	var ui []byte
	if err := row.Scan(&s.ID, &s.ClassID, &s.Name, &s.SchemaJSON, &ui); err != nil {
		return err
	}
	s.UISchemaJSON = ui
	return nil
}

// GetByID retrieves a marksheet schema by its ID.
func (r *SchemaRepository) GetByID(ctx context.Context, id int) (*model.MarksheetSchema, error) {
	s := &model.MarksheetSchema{}
	err := scanSchema(r.db.QueryRow(ctx,
		`SELECT `+schemaColumns+` FROM marksheet_schemas WHERE id = $1`, id), s)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// ListByClass retrieves the schemas saved for a class.
func (r *SchemaRepository) ListByClass(ctx context.Context, classID int) ([]model.MarksheetSchema, error) {
	return r.list(ctx, `SELECT `+schemaColumns+` FROM marksheet_schemas WHERE class_id = $1 ORDER BY id`, classID)
}

// List retrieves all schemas.
func (r *SchemaRepository) List(ctx context.Context) ([]model.MarksheetSchema, error) {
	return r.list(ctx, `SELECT `+schemaColumns+` FROM marksheet_schemas ORDER BY id`)
}

func (r *SchemaRepository) list(ctx context.Context, query string, args ...any) ([]model.MarksheetSchema, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schemas := []model.MarksheetSchema{}
	for rows.Next() {
		var s model.MarksheetSchema
		if err := scanSchema(rows, &s); err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return schemas, rows.Err()
}

// Create inserts a new schema.
func (r *SchemaRepository) Create(ctx context.Context, s *model.MarksheetSchema) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO marksheet_schemas (class_id, name, schema_json, ui_schema_json)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		s.ClassID, s.Name, s.SchemaJSON, jsonOrNil(s.UISchemaJSON),
	).Scan(&s.ID)
	return translate(err)
}

// BulkInsert copies schemas with their existing IDs.
func (r *SchemaRepository) BulkInsert(ctx context.Context, schemas []model.MarksheetSchema) error {
	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"marksheet_schemas"},
		[]string{"id", "class_id", "name", "schema_json", "ui_schema_json"},
		pgx.CopyFromSlice(len(schemas), func(i int) ([]any, error) {
			s := schemas[i]
			return []any{s.ID, s.ClassID, s.Name, s.SchemaJSON, jsonOrNil(s.UISchemaJSON)}, nil
		}),
	)
	return err
}
