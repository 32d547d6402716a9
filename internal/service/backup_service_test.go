package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stemsi/reportcard-backend/internal/backup"
	"github.com/stemsi/reportcard-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportNamesFileAfterTimestamp(t *testing.T) {
	store := &fakeSnapshotStore{snap: &model.Snapshot{
		Schools: []model.School{{ID: 1, Name: "Sunrise"}},
	}}
	svc := NewBackupService(store, nil, nopLog)
	svc.now = func() time.Time { return time.UnixMilli(1714557600123) }

	file, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "school-export-1714557600123.json", file.FileName)

	snap, meta, err := backup.Decode(file.Data)
	require.NoError(t, err)
	assert.Equal(t, backup.Version, meta.Version)
	assert.Equal(t, "Sunrise", snap.Schools[0].Name)
}

func TestImportRejectsBadFileWithoutTouchingStorage(t *testing.T) {
	store := &fakeSnapshotStore{}
	purger := &fakePurger{}
	svc := NewBackupService(store, purger, nopLog)

	_, err := svc.Import(context.Background(), []byte(`{"meta":{"version":2},"media":[]}`))
	assert.True(t, errors.Is(err, backup.ErrFormat))
	assert.Zero(t, store.calls)
	assert.Zero(t, purger.calls)
}

func TestImportReplacesDataAndPurgesCache(t *testing.T) {
	data, err := backup.Encode(&model.Snapshot{
		Schools:  []model.School{{ID: 4, Name: "Sunrise"}},
		Classes:  []model.SchoolClass{{ID: 2, SchoolID: 4, Name: "Grade 5"}},
		Students: []model.Student{{ID: 9, ClassID: 2, Name: "Asha"}},
	}, time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	store := &fakeSnapshotStore{}
	purger := &fakePurger{}
	svc := NewBackupService(store, purger, nopLog)

	res, err := svc.Import(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 2, purger.calls)
	assert.Equal(t, "2024-05-02T08:30:00.000Z", res.ExportedAt)
	assert.Equal(t, 1, res.Counts.Students)
	assert.Equal(t, 9, store.replaced.Students[0].ID)
}

func TestImportStorageFailure(t *testing.T) {
	data, err := backup.Encode(&model.Snapshot{}, time.Now())
	require.NoError(t, err)

	store := &fakeSnapshotStore{err: errStorage}
	purger := &fakePurger{}
	svc := NewBackupService(store, purger, nopLog)

	_, err = svc.Import(context.Background(), data)
	assert.ErrorIs(t, err, errStorage)
	assert.False(t, errors.Is(err, backup.ErrFormat))
	assert.Equal(t, 1, purger.calls)
}

func TestImportPurgesAroundReplace(t *testing.T) {
	data, err := backup.Encode(&model.Snapshot{}, time.Now())
	require.NoError(t, err)

	var order []string
	store := &fakeSnapshotStore{onReplace: func() { order = append(order, "replace") }}
	purger := &fakePurger{onPurge: func() { order = append(order, "purge") }}
	svc := NewBackupService(store, purger, nopLog)

	_, err = svc.Import(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, []string{"purge", "replace", "purge"}, order)
}
