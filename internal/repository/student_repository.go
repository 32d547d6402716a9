package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/reportcard-backend/internal/model"
)

// StudentRepository handles student data access.
type StudentRepository struct {
	db DBTX
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, class_id, name, roll_number, additional_info, created_at`

func scanStudent(row pgx.Row, s *model.Student) error {
	return row.Scan(&s.ID, &s.ClassID, &s.Name, &s.RollNumber, &s.AdditionalInfo, &s.CreatedAt)
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := scanStudent(r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id), s)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// ListPaginated retrieves the students of a class with pagination.
func (r *StudentRepository) ListPaginated(ctx context.Context, classID, limit, offset int) ([]model.Student, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE class_id = $1`, classID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+studentColumns+` FROM students WHERE class_id = $1
		 ORDER BY id LIMIT $2 OFFSET $3`,
		classID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, 0, err
		}
		students = append(students, s)
	}
	return students, total, rows.Err()
}

// List retrieves every student.
func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	rows, err := r.db.Query(ctx, `SELECT `+studentColumns+` FROM students ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	info := s.AdditionalInfo
	if info == nil {
		info = map[string]string{}
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO students (class_id, name, roll_number, additional_info, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		s.ClassID, s.Name, s.RollNumber, info, s.CreatedAt,
	).Scan(&s.ID)
	return translate(err)
}

// BulkInsert copies students with their existing IDs.
func (r *StudentRepository) BulkInsert(ctx context.Context, students []model.Student) error {
	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"students"},
		[]string{"id", "class_id", "name", "roll_number", "additional_info", "created_at"},
		pgx.CopyFromSlice(len(students), func(i int) ([]any, error) {
			s := students[i]
			info := s.AdditionalInfo
			if info == nil {
				info = map[string]string{}
			}
			return []any{s.ID, s.ClassID, s.Name, s.RollNumber, info, s.CreatedAt}, nil
		}),
	)
	return err
}
