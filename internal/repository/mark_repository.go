package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/reportcard-backend/internal/model"
)

// MarkRepository handles mark data access.
type MarkRepository struct {
	db DBTX
}

// NewMarkRepository creates a new MarkRepository.
func NewMarkRepository(db DBTX) *MarkRepository {
	return &MarkRepository{db: db}
}

const markColumns = `id, student_id, schema_id, entries, total_score, percentage, created_at`

// Create inserts a new mark row.
func (r *MarkRepository) Create(ctx context.Context, m *model.Mark) error {
	entries := m.Entries
	if entries == nil {
		entries = map[string]float64{}
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO marks (student_id, schema_id, entries, total_score, percentage, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		m.StudentID, m.SchemaID, entries, m.TotalScore, m.Percentage, m.CreatedAt,
	).Scan(&m.ID)
	return translate(err)
}

// ListBySchema retrieves the marks entered against a schema together with
// their students, in insertion order.
func (r *MarkRepository) ListBySchema(ctx context.Context, schemaID, limit, offset int) ([]model.MarkEntry, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM marks WHERE schema_id = $1`, schemaID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT m.id, m.student_id, m.schema_id, m.entries, m.total_score, m.percentage, m.created_at,
		        s.id, s.class_id, s.name, s.roll_number, s.additional_info, s.created_at
		 FROM marks m
		 JOIN students s ON s.id = m.student_id
		 WHERE m.schema_id = $1
		 ORDER BY m.id
		 LIMIT $2 OFFSET $3`,
		schemaID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := []model.MarkEntry{}
	for rows.Next() {
		var e model.MarkEntry
		st := &model.Student{}
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.SchemaID, &e.Entries, &e.TotalScore, &e.Percentage, &e.CreatedAt,
			&st.ID, &st.ClassID, &st.Name, &st.RollNumber, &st.AdditionalInfo, &st.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		e.Student = st
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// List retrieves every mark.
func (r *MarkRepository) List(ctx context.Context) ([]model.Mark, error) {
	rows, err := r.db.Query(ctx, `SELECT `+markColumns+` FROM marks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	marks := []model.Mark{}
	for rows.Next() {
		var m model.Mark
		if err := rows.Scan(&m.ID, &m.StudentID, &m.SchemaID, &m.Entries, &m.TotalScore, &m.Percentage, &m.CreatedAt); err != nil {
			return nil, err
		}
		marks = append(marks, m)
	}
	return marks, rows.Err()
}

// BulkInsert copies marks with their existing IDs.
func (r *MarkRepository) BulkInsert(ctx context.Context, marks []model.Mark) error {
	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"marks"},
		[]string{"id", "student_id", "schema_id", "entries", "total_score", "percentage", "created_at"},
		pgx.CopyFromSlice(len(marks), func(i int) ([]any, error) {
			m := marks[i]
			entries := m.Entries
			if entries == nil {
				entries = map[string]float64{}
			}
			return []any{m.ID, m.StudentID, m.SchemaID, entries, m.TotalScore, m.Percentage, m.CreatedAt}, nil
		}),
	)
	return err
}
