package service

import (
	"context"

	"github.com/stemsi/reportcard-backend/internal/model"
	"github.com/stemsi/reportcard-backend/internal/response"
)

type studentStore interface {
	GetByID(ctx context.Context, id int) (*model.Student, error)
	ListPaginated(ctx context.Context, classID, limit, offset int) ([]model.Student, int, error)
}

// StudentService handles student business logic. Students are only created
// through marksheet submissions.
type StudentService struct {
	students studentStore
	classes  classStore
}

// NewStudentService creates a new StudentService.
func NewStudentService(students studentStore, classes classStore) *StudentService {
	return &StudentService{students: students, classes: classes}
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return s.students.GetByID(ctx, id)
}

// ListByClass retrieves the students of a class with pagination.
func (s *StudentService) ListByClass(ctx context.Context, classID, page, perPage int) ([]model.Student, *response.Pagination, error) {
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		return nil, nil, err
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	students, total, err := s.students.ListPaginated(ctx, classID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	return students, response.NewPagination(page, perPage, total), nil
}
