package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/marksheet"
	"github.com/stemsi/reportcard-backend/internal/model"
)

type schemaStore interface {
	Create(ctx context.Context, s *model.MarksheetSchema) error
	GetByID(ctx context.Context, id int) (*model.MarksheetSchema, error)
	ListByClass(ctx context.Context, classID int) ([]model.MarksheetSchema, error)
}

type formCache interface {
	Get(ctx context.Context, schemaID int) (*model.SchemaWithForm, error)
	Set(ctx context.Context, sf *model.SchemaWithForm) error
}

// SchemaService saves marksheet schemas and serves their compiled forms.
type SchemaService struct {
	schemas schemaStore
	classes classStore
	cache   formCache
	log     zerolog.Logger
}

// NewSchemaService creates a new SchemaService. cache may be nil.
func NewSchemaService(schemas schemaStore, classes classStore, cache formCache, log zerolog.Logger) *SchemaService {
	return &SchemaService{
		schemas: schemas,
		classes: classes,
		cache:   cache,
		log:     log.With().Str("component", "schema_service").Logger(),
	}
}

// Create validates the schema document and saves it for a class. A
// malformed document is rejected with *marksheet.DocumentError or
// *marksheet.DuplicateKeyError before anything is written.
func (s *SchemaService) Create(ctx context.Context, classID int, req model.CreateSchemaRequest) (*model.SchemaWithForm, error) {
	form, err := marksheet.Compile(req.SchemaJSON)
	if err != nil {
		return nil, err
	}

	schema := &model.MarksheetSchema{
		ClassID:      classID,
		Name:         strings.TrimSpace(req.Name),
		SchemaJSON:   req.SchemaJSON,
		UISchemaJSON: req.UISchemaJSON,
	}
	if err := s.schemas.Create(ctx, schema); err != nil {
		return nil, err
	}

	sf := withForm(schema, form)
	s.store(ctx, sf)
	return sf, nil
}

// Load returns a schema with its compiled form, from cache when possible.
func (s *SchemaService) Load(ctx context.Context, schemaID int) (*model.SchemaWithForm, error) {
	if s.cache != nil {
		sf, err := s.cache.Get(ctx, schemaID)
		if err != nil {
			s.log.Warn().Err(err).Int("schema_id", schemaID).Msg("Form cache read failed")
		} else if sf != nil {
			return sf, nil
		}
	}

	schema, err := s.schemas.GetByID(ctx, schemaID)
	if err != nil {
		return nil, err
	}
	form, err := marksheet.Compile(schema.SchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compile schema %d: %w", schemaID, err)
	}

	sf := withForm(schema, form)
	s.store(ctx, sf)
	return sf, nil
}

// ListByClass retrieves the schemas of an existing class.
func (s *SchemaService) ListByClass(ctx context.Context, classID int) ([]model.MarksheetSchema, error) {
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	return s.schemas.ListByClass(ctx, classID)
}

func (s *SchemaService) store(ctx context.Context, sf *model.SchemaWithForm) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, sf); err != nil {
		s.log.Warn().Err(err).Int("schema_id", sf.Schema.ID).Msg("Form cache write failed")
	}
}

func withForm(schema *model.MarksheetSchema, form *marksheet.Form) *model.SchemaWithForm {
	return &model.SchemaWithForm{
		Schema:        schema,
		Form:          form,
		InitialValues: form.InitialValues(),
		Rules:         form.Rules(),
	}
}
