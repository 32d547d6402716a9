package service

import (
	"context"
	"strings"

	"github.com/stemsi/reportcard-backend/internal/model"
)

type classStore interface {
	Create(ctx context.Context, c *model.SchoolClass) error
	GetByID(ctx context.Context, id int) (*model.SchoolClass, error)
	ListBySchool(ctx context.Context, schoolID int) ([]model.SchoolClass, error)
	SetActiveSchema(ctx context.Context, classID, schemaID int) error
}

type schemaGetter interface {
	GetByID(ctx context.Context, id int) (*model.MarksheetSchema, error)
}

// ClassService handles class business logic.
type ClassService struct {
	classes classStore
	schools schoolStore
	schemas schemaGetter
}

// NewClassService creates a new ClassService.
func NewClassService(classes classStore, schools schoolStore, schemas schemaGetter) *ClassService {
	return &ClassService{classes: classes, schools: schools, schemas: schemas}
}

// GetByID retrieves a class by its ID.
func (s *ClassService) GetByID(ctx context.Context, id int) (*model.SchoolClass, error) {
	return s.classes.GetByID(ctx, id)
}

// ListBySchool retrieves the classes of an existing school.
func (s *ClassService) ListBySchool(ctx context.Context, schoolID int) ([]model.SchoolClass, error) {
	if _, err := s.schools.GetByID(ctx, schoolID); err != nil {
		return nil, err
	}
	return s.classes.ListBySchool(ctx, schoolID)
}

// Create adds a class to a school. An unknown school surfaces as
// repository.ErrParentNotFound.
func (s *ClassService) Create(ctx context.Context, schoolID int, req model.CreateClassRequest) (*model.SchoolClass, error) {
	class := &model.SchoolClass{
		SchoolID: schoolID,
		Name:     strings.TrimSpace(req.Name),
		Stream:   req.Stream,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

// SetActiveSchema selects the schema a class enters marks with. The schema
// must belong to the class.
func (s *ClassService) SetActiveSchema(ctx context.Context, classID, schemaID int) (*model.SchoolClass, error) {
	schema, err := s.schemas.GetByID(ctx, schemaID)
	if err != nil {
		return nil, err
	}
	if schema.ClassID != classID {
		return nil, ErrSchemaNotInClass
	}
	if err := s.classes.SetActiveSchema(ctx, classID, schemaID); err != nil {
		return nil, err
	}
	return s.classes.GetByID(ctx, classID)
}
