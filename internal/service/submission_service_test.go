package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stemsi/reportcard-backend/internal/model"
	"github.com/stemsi/reportcard-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubmissionService(store *fakeSubmissionStore, events *fakePublisher) *SubmissionService {
	svc := NewSubmissionService(&fakeSchemaLoader{sf: annualSchema(1, 5)}, store, &fakeEntries{}, events, nopLog)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestSubmitStoresStudentAndMark(t *testing.T) {
	store := &fakeSubmissionStore{}
	events := &fakePublisher{}
	svc := newSubmissionService(store, events)

	summary, err := svc.Submit(context.Background(), 1, map[string]string{
		"name":                "Asha",
		"rollNumber":          "12",
		"guardian":            "Ram",
		"marks_Final_Math":    "80",
		"marks_Final_Science": "40",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 5, store.student.ClassID)
	assert.Equal(t, "Asha", store.student.Name)
	require.NotNil(t, store.student.RollNumber)
	assert.Equal(t, "12", *store.student.RollNumber)
	assert.Equal(t, map[string]string{"guardian": "Ram"}, store.student.AdditionalInfo)

	assert.Equal(t, 7, store.mark.StudentID)
	assert.Equal(t, 120.0, store.mark.TotalScore)
	assert.Equal(t, 80.0, store.mark.Percentage)

	assert.Equal(t, 7, summary.StudentID)
	assert.Equal(t, 11, summary.MarkID)
	assert.Equal(t, 150.0, summary.TotalPossible)
	assert.Equal(t, 80.0, summary.Percentage)
	assert.Equal(t, map[string]float64{"marks_Final_Math": 80, "marks_Final_Science": 40}, summary.Entries)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), summary.CreatedAt)

	require.Len(t, events.events, 1)
	entry, ok := events.events[0].(model.MarkEntry)
	require.True(t, ok)
	assert.Equal(t, "Asha", entry.Student.Name)
}

func TestSubmitInvalidValuesWritesNothing(t *testing.T) {
	store := &fakeSubmissionStore{}
	svc := newSubmissionService(store, nil)

	_, err := svc.Submit(context.Background(), 1, map[string]string{
		"name":                "",
		"marks_Final_Math":    "120",
		"marks_Final_Science": "40",
	})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "is required", ve.Fields["name"])
	assert.Equal(t, "must be between 0 and 100", ve.Fields["marks_Final_Math"])
	assert.NotContains(t, ve.Fields, "rollNumber")
	assert.Zero(t, store.calls)
}

func TestSubmitStorageFailureSurfaces(t *testing.T) {
	store := &fakeSubmissionStore{err: errStorage}
	events := &fakePublisher{}
	svc := newSubmissionService(store, events)

	summary, err := svc.Submit(context.Background(), 1, map[string]string{
		"name":                "Asha",
		"marks_Final_Math":    "80",
		"marks_Final_Science": "40",
	})
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, errStorage)
	assert.Empty(t, events.events)
}

func TestSubmitPublishFailureIsNotFatal(t *testing.T) {
	store := &fakeSubmissionStore{}
	svc := newSubmissionService(store, &fakePublisher{err: errors.New("redis down")})

	_, err := svc.Submit(context.Background(), 1, map[string]string{
		"name":                "Asha",
		"marks_Final_Math":    "80",
		"marks_Final_Science": "40",
	})
	assert.NoError(t, err)
}

func TestSubmitUnknownSchema(t *testing.T) {
	svc := newSubmissionService(&fakeSubmissionStore{}, nil)
	_, err := svc.Submit(context.Background(), 99, map[string]string{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPreviewReportsTallyAndErrors(t *testing.T) {
	store := &fakeSubmissionStore{}
	svc := newSubmissionService(store, nil)

	p, err := svc.Preview(context.Background(), 1, map[string]string{"marks_Final_Math": "75"})
	require.NoError(t, err)

	assert.Equal(t, 75.0, p.Tally.Obtained)
	assert.Equal(t, 150.0, p.Tally.Possible)
	require.NotNil(t, p.Tally.Percentage)
	assert.Equal(t, 50.0, *p.Tally.Percentage)
	assert.Equal(t, "is required", p.Errors["marks_Final_Science"])
	assert.Zero(t, store.calls)
}

func TestListEntriesClampsPaging(t *testing.T) {
	entries := &fakeEntries{entries: make([]model.MarkEntry, 3)}
	svc := NewSubmissionService(&fakeSchemaLoader{sf: annualSchema(1, 5)}, &fakeSubmissionStore{}, entries, nil, nopLog)

	got, page, err := svc.ListEntries(context.Background(), 1, 0, 1000)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 200, page.PerPage)
	assert.Equal(t, []int{200}, entries.limits)
}

func TestBuildStudentBlankRollNumber(t *testing.T) {
	st := buildStudent(3, map[string]string{"name": "Asha", "rollNumber": ""}, time.Now())
	assert.Nil(t, st.RollNumber)
	assert.Empty(t, st.AdditionalInfo)
}
