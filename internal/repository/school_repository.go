package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/reportcard-backend/internal/model"
)

// SchoolRepository handles school data access.
type SchoolRepository struct {
	db DBTX
}

// NewSchoolRepository creates a new SchoolRepository.
func NewSchoolRepository(db DBTX) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// GetByID retrieves a school by its ID.
func (r *SchoolRepository) GetByID(ctx context.Context, id int) (*model.School, error) {
	s := &model.School{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, address, logo_blob_id FROM schools WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Address, &s.LogoBlobID)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// List retrieves all schools in insertion order.
func (r *SchoolRepository) List(ctx context.Context) ([]model.School, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, address, logo_blob_id FROM schools ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schools := []model.School{}
	for rows.Next() {
		var s model.School
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.LogoBlobID); err != nil {
			return nil, err
		}
		schools = append(schools, s)
	}
	return schools, rows.Err()
}

// Create inserts a new school.
func (r *SchoolRepository) Create(ctx context.Context, s *model.School) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO schools (name, address, logo_blob_id) VALUES ($1, $2, $3) RETURNING id`,
		s.Name, s.Address, s.LogoBlobID,
	).Scan(&s.ID)
	return translate(err)
}

// BulkInsert copies schools with their existing IDs.
func (r *SchoolRepository) BulkInsert(ctx context.Context, schools []model.School) error {
	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"schools"},
		[]string{"id", "name", "address", "logo_blob_id"},
		pgx.CopyFromSlice(len(schools), func(i int) ([]any, error) {
			s := schools[i]
			return []any{s.ID, s.Name, s.Address, s.LogoBlobID}, nil
		}),
	)
	return err
}
