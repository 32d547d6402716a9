package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stemsi/reportcard-backend/internal/marksheet"
	"github.com/stemsi/reportcard-backend/internal/model"
	"github.com/stemsi/reportcard-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSchemaCompilesAndCaches(t *testing.T) {
	store := &fakeSchemaStore{}
	cache := &fakeFormCache{}
	svc := NewSchemaService(store, &fakeClassStore{}, cache, nopLog)

	sf, err := svc.Create(context.Background(), 5, model.CreateSchemaRequest{Name: " Annual ", SchemaJSON: annualDoc()})
	require.NoError(t, err)

	assert.Equal(t, "Annual", sf.Schema.Name)
	assert.Equal(t, 5, sf.Schema.ClassID)
	assert.Equal(t, 150.0, sf.Form.Possible)
	assert.Contains(t, sf.InitialValues, "marks_Final_Math")
	assert.Same(t, sf, cache.items[sf.Schema.ID])
}

func TestCreateSchemaRejectsCollisionsBeforeWriting(t *testing.T) {
	store := &fakeSchemaStore{}
	svc := NewSchemaService(store, &fakeClassStore{}, nil, nopLog)

	doc := marksheet.Document{Exams: []marksheet.ExamGroup{
		{Term: "A!", Subjects: []marksheet.Subject{{Name: "X", MaxMarks: 10}}},
		{Term: "A?", Subjects: []marksheet.Subject{{Name: "X", MaxMarks: 10}}},
	}}
	_, err := svc.Create(context.Background(), 5, model.CreateSchemaRequest{Name: "Bad", SchemaJSON: doc})

	var dup *marksheet.DuplicateKeyError
	assert.True(t, errors.As(err, &dup))
	assert.Empty(t, store.created)
}

func TestLoadFallsBackToStoreOnCacheMiss(t *testing.T) {
	store := &fakeSchemaStore{}
	cache := &fakeFormCache{}
	svc := NewSchemaService(store, &fakeClassStore{}, nil, nopLog)
	created, err := svc.Create(context.Background(), 5, model.CreateSchemaRequest{Name: "Annual", SchemaJSON: annualDoc()})
	require.NoError(t, err)

	svc.cache = cache
	first, err := svc.Load(context.Background(), created.Schema.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.gets)
	assert.NotNil(t, cache.items[created.Schema.ID])

	second, err := svc.Load(context.Background(), created.Schema.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.gets)
	assert.Same(t, first, second)
}

func TestLoadIgnoresCacheErrors(t *testing.T) {
	store := &fakeSchemaStore{}
	svc := NewSchemaService(store, &fakeClassStore{}, &fakeFormCache{err: errors.New("redis down")}, nopLog)
	created, err := svc.Create(context.Background(), 5, model.CreateSchemaRequest{Name: "Annual", SchemaJSON: annualDoc()})
	require.NoError(t, err)

	sf, err := svc.Load(context.Background(), created.Schema.ID)
	require.NoError(t, err)
	assert.Equal(t, "Annual", sf.Schema.Name)

	_, err = svc.Load(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSetActiveSchemaRequiresOwnSchema(t *testing.T) {
	classes := &fakeClassStore{}
	schemas := &fakeSchemaStore{}
	ctx := context.Background()

	own := &model.SchoolClass{SchoolID: 1, Name: "Grade 5"}
	other := &model.SchoolClass{SchoolID: 1, Name: "Grade 6"}
	require.NoError(t, classes.Create(ctx, own))
	require.NoError(t, classes.Create(ctx, other))
	require.NoError(t, schemas.Create(ctx, &model.MarksheetSchema{ClassID: own.ID, Name: "Annual"}))

	svc := NewClassService(classes, nil, schemas)

	_, err := svc.SetActiveSchema(ctx, other.ID, 1)
	assert.ErrorIs(t, err, ErrSchemaNotInClass)

	updated, err := svc.SetActiveSchema(ctx, own.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, updated.ActiveMarksheetSchemaID)
	assert.Equal(t, 1, *updated.ActiveMarksheetSchemaID)
}
