package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/model"
)

type schoolStore interface {
	Create(ctx context.Context, s *model.School) error
	GetByID(ctx context.Context, id int) (*model.School, error)
	List(ctx context.Context) ([]model.School, error)
}

// SchoolService handles school business logic.
type SchoolService struct {
	schools schoolStore
	media   *MediaService
	log     zerolog.Logger
}

// NewSchoolService creates a new SchoolService.
func NewSchoolService(schools schoolStore, media *MediaService, log zerolog.Logger) *SchoolService {
	return &SchoolService{
		schools: schools,
		media:   media,
		log:     log.With().Str("component", "school_service").Logger(),
	}
}

// Create stores the optional logo first, then the school pointing at it.
func (s *SchoolService) Create(ctx context.Context, req model.CreateSchoolRequest, logo *Upload) (*model.School, error) {
	school := &model.School{
		Name:    strings.TrimSpace(req.Name),
		Address: strings.TrimSpace(req.Address),
	}

	if logo != nil {
		m, err := s.media.StoreLogo(ctx, *logo)
		if err != nil {
			return nil, err
		}
		school.LogoBlobID = &m.ID
	}

	if err := s.schools.Create(ctx, school); err != nil {
		return nil, err
	}

	s.log.Info().Int("school_id", school.ID).Str("name", school.Name).Msg("School created")
	return school, nil
}

// GetByID retrieves a school by its ID.
func (s *SchoolService) GetByID(ctx context.Context, id int) (*model.School, error) {
	return s.schools.GetByID(ctx, id)
}

// List retrieves all schools.
func (s *SchoolService) List(ctx context.Context) ([]model.School, error) {
	return s.schools.List(ctx)
}
