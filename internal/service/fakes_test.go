package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/marksheet"
	"github.com/stemsi/reportcard-backend/internal/model"
	"github.com/stemsi/reportcard-backend/internal/repository"
)

var nopLog = zerolog.Nop()

func annualDoc() marksheet.Document {
	return marksheet.Document{
		Header: "Annual Report",
		Footer: "Principal",
		Fields: []marksheet.FieldDef{
			{Label: "Name", Key: "name", Type: marksheet.FieldString, Required: true},
			{Label: "Roll No", Key: "rollNumber", Type: marksheet.FieldString},
			{Label: "Guardian", Key: "guardian", Type: marksheet.FieldString},
		},
		Exams: []marksheet.ExamGroup{{Term: "Final", Subjects: []marksheet.Subject{
			{Name: "Math", MaxMarks: 100},
			{Name: "Science", MaxMarks: 50},
		}}},
	}
}

func annualSchema(id, classID int) *model.SchemaWithForm {
	schema := &model.MarksheetSchema{ID: id, ClassID: classID, Name: "Annual", SchemaJSON: annualDoc()}
	form, err := marksheet.Compile(schema.SchemaJSON)
	if err != nil {
		panic(err)
	}
	return withForm(schema, form)
}

type fakeSchemaLoader struct {
	sf *model.SchemaWithForm
}

func (f *fakeSchemaLoader) Load(_ context.Context, id int) (*model.SchemaWithForm, error) {
	if f.sf == nil || f.sf.Schema.ID != id {
		return nil, repository.ErrNotFound
	}
	return f.sf, nil
}

type fakeSubmissionStore struct {
	calls   int
	err     error
	student *model.Student
	mark    *model.Mark
}

func (f *fakeSubmissionStore) CreateSubmission(_ context.Context, st *model.Student, m *model.Mark) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	st.ID = 7
	m.StudentID = st.ID
	m.ID = 11
	f.student, f.mark = st, m
	return nil
}

type fakeEntries struct {
	entries []model.MarkEntry
	limits  []int
}

func (f *fakeEntries) ListBySchema(_ context.Context, _ int, limit, offset int) ([]model.MarkEntry, int, error) {
	f.limits = append(f.limits, limit)
	if offset >= len(f.entries) {
		return []model.MarkEntry{}, len(f.entries), nil
	}
	end := min(offset+limit, len(f.entries))
	return f.entries[offset:end], len(f.entries), nil
}

type fakePublisher struct {
	events []any
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, _ int, v any) error {
	f.events = append(f.events, v)
	return f.err
}

type fakeSnapshotStore struct {
	snap      *model.Snapshot
	replaced  *model.Snapshot
	calls     int
	err       error
	onReplace func()
}

func (f *fakeSnapshotStore) Snapshot(context.Context) (*model.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func (f *fakeSnapshotStore) ReplaceAll(_ context.Context, snap *model.Snapshot) error {
	f.calls++
	if f.onReplace != nil {
		f.onReplace()
	}
	if f.err != nil {
		return f.err
	}
	f.replaced = snap
	return nil
}

type fakePurger struct {
	calls   int
	onPurge func()
}

func (f *fakePurger) Purge(context.Context) (int, error) {
	f.calls++
	if f.onPurge != nil {
		f.onPurge()
	}
	return 3, nil
}

type fakeMediaStore struct {
	byID map[string]*model.Media
	puts int
}

func (f *fakeMediaStore) Put(_ context.Context, m *model.Media) error {
	f.puts++
	if f.byID == nil {
		f.byID = map[string]*model.Media{}
	}
	if _, ok := f.byID[m.ID]; !ok {
		f.byID[m.ID] = m
	}
	return nil
}

func (f *fakeMediaStore) GetByID(_ context.Context, id string) (*model.Media, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

type fakeSchemaStore struct {
	created []*model.MarksheetSchema
	byID    map[int]*model.MarksheetSchema
	gets    int
}

func (f *fakeSchemaStore) Create(_ context.Context, s *model.MarksheetSchema) error {
	s.ID = len(f.created) + 1
	f.created = append(f.created, s)
	if f.byID == nil {
		f.byID = map[int]*model.MarksheetSchema{}
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSchemaStore) GetByID(_ context.Context, id int) (*model.MarksheetSchema, error) {
	f.gets++
	s, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeSchemaStore) ListByClass(_ context.Context, classID int) ([]model.MarksheetSchema, error) {
	out := []model.MarksheetSchema{}
	for _, s := range f.created {
		if s.ClassID == classID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeFormCache struct {
	items map[int]*model.SchemaWithForm
	err   error
}

func (f *fakeFormCache) Get(_ context.Context, id int) (*model.SchemaWithForm, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[id], nil
}

func (f *fakeFormCache) Set(_ context.Context, sf *model.SchemaWithForm) error {
	if f.items == nil {
		f.items = map[int]*model.SchemaWithForm{}
	}
	f.items[sf.Schema.ID] = sf
	return nil
}

type fakeClassStore struct {
	classes map[int]*model.SchoolClass
}

func (f *fakeClassStore) Create(_ context.Context, c *model.SchoolClass) error {
	if f.classes == nil {
		f.classes = map[int]*model.SchoolClass{}
	}
	c.ID = len(f.classes) + 1
	f.classes[c.ID] = c
	return nil
}

func (f *fakeClassStore) GetByID(_ context.Context, id int) (*model.SchoolClass, error) {
	c, ok := f.classes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeClassStore) ListBySchool(_ context.Context, schoolID int) ([]model.SchoolClass, error) {
	out := []model.SchoolClass{}
	for _, c := range f.classes {
		if c.SchoolID == schoolID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeClassStore) SetActiveSchema(_ context.Context, classID, schemaID int) error {
	c, ok := f.classes[classID]
	if !ok {
		return repository.ErrNotFound
	}
	c.ActiveMarksheetSchemaID = &schemaID
	return nil
}

var errStorage = errors.New("connection reset by peer")
