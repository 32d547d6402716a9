package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/marksheet"
	"github.com/stemsi/reportcard-backend/internal/model"
	"github.com/stemsi/reportcard-backend/internal/response"
	"github.com/stemsi/reportcard-backend/internal/validator"
)

type schemaLoader interface {
	Load(ctx context.Context, schemaID int) (*model.SchemaWithForm, error)
}

type submissionStore interface {
	CreateSubmission(ctx context.Context, student *model.Student, mark *model.Mark) error
}

type entryLister interface {
	ListBySchema(ctx context.Context, schemaID, limit, offset int) ([]model.MarkEntry, int, error)
}

type entryPublisher interface {
	Publish(ctx context.Context, schemaID int, v any) error
}

// Preview is the running state of a marksheet being filled in.
type Preview struct {
	Tally  marksheet.Tally   `json:"tally"`
	Errors map[string]string `json:"errors,omitempty"`
}

// SubmissionService turns filled-in marksheets into students and marks.
type SubmissionService struct {
	schemas schemaLoader
	store   submissionStore
	entries entryLister
	events  entryPublisher
	log     zerolog.Logger
	now     func() time.Time
}

// NewSubmissionService creates a new SubmissionService. events may be nil.
func NewSubmissionService(
	schemas schemaLoader,
	store submissionStore,
	entries entryLister,
	events entryPublisher,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		schemas: schemas,
		store:   store,
		entries: entries,
		events:  events,
		log:     log.With().Str("component", "submission_service").Logger(),
		now:     time.Now,
	}
}

// Preview validates values and tallies the marks entered so far. It never
// writes anything.
func (s *SubmissionService) Preview(ctx context.Context, schemaID int, values map[string]string) (*Preview, error) {
	sf, err := s.schemas.Load(ctx, schemaID)
	if err != nil {
		return nil, err
	}
	return &Preview{
		Tally:  sf.Form.Tally(values),
		Errors: validator.ValidateValues(sf.Rules, values),
	}, nil
}

// Submit validates values against the schema's rules, then stores the
// student and its mark row together. Invalid values return
// *ValidationError and nothing is written.
func (s *SubmissionService) Submit(ctx context.Context, schemaID int, values map[string]string) (*model.SubmissionSummary, error) {
	sf, err := s.schemas.Load(ctx, schemaID)
	if err != nil {
		return nil, err
	}

	if fields := validator.ValidateValues(sf.Rules, values); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	now := s.now().UTC()
	student := buildStudent(sf.Schema.ClassID, sf.Form.StudentInfo(values), now)
	tally := sf.Form.Tally(values)

	mark := &model.Mark{
		SchemaID:   schemaID,
		Entries:    tally.Entries,
		TotalScore: tally.Obtained,
		CreatedAt:  now,
	}
	if tally.Percentage != nil {
		mark.Percentage = *tally.Percentage
	}

	if err := s.store.CreateSubmission(ctx, student, mark); err != nil {
		s.log.Error().Err(err).Int("schema_id", schemaID).Msg("Submission failed, nothing saved")
		return nil, err
	}

	summary := &model.SubmissionSummary{
		StudentID:      student.ID,
		MarkID:         mark.ID,
		SchemaID:       schemaID,
		Name:           student.Name,
		RollNumber:     student.RollNumber,
		AdditionalInfo: student.AdditionalInfo,
		Entries:        mark.Entries,
		TotalScore:     mark.TotalScore,
		TotalPossible:  tally.Possible,
		Percentage:     mark.Percentage,
		CreatedAt:      now,
	}

	s.log.Info().
		Int("schema_id", schemaID).
		Int("student_id", student.ID).
		Float64("percentage", summary.Percentage).
		Msg("Marksheet submitted")

	if s.events != nil {
		entry := model.MarkEntry{Mark: *mark, Student: student}
		if err := s.events.Publish(ctx, schemaID, entry); err != nil {
			s.log.Warn().Err(err).Int("schema_id", schemaID).Msg("Failed to announce new entry")
		}
	}
	return summary, nil
}

// ListEntries retrieves the marks entered against a schema with their
// students.
func (s *SubmissionService) ListEntries(ctx context.Context, schemaID, page, perPage int) ([]model.MarkEntry, *response.Pagination, error) {
	if _, err := s.schemas.Load(ctx, schemaID); err != nil {
		return nil, nil, err
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 200 {
		perPage = 200
	}

	entries, total, err := s.entries.ListBySchema(ctx, schemaID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	return entries, response.NewPagination(page, perPage, total), nil
}

// buildStudent maps student-info values onto a Student. The name and
// rollNumber keys fill their own columns, everything else goes to
// AdditionalInfo.
func buildStudent(classID int, info map[string]string, now time.Time) *model.Student {
	st := &model.Student{
		ClassID:        classID,
		AdditionalInfo: make(map[string]string),
		CreatedAt:      now,
	}
	for key, v := range info {
		switch key {
		case model.StudentNameKey:
			st.Name = v
		case model.StudentRollNumberKey:
			if v != "" {
				roll := v
				st.RollNumber = &roll
			}
		default:
			st.AdditionalInfo[key] = v
		}
	}
	return st
}
