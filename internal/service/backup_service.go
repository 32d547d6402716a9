package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/backup"
	"github.com/stemsi/reportcard-backend/internal/model"
)

type snapshotStore interface {
	Snapshot(ctx context.Context) (*model.Snapshot, error)
	ReplaceAll(ctx context.Context, snap *model.Snapshot) error
}

type cachePurger interface {
	Purge(ctx context.Context) (int, error)
}

// ExportFile is an encoded export ready to be downloaded.
type ExportFile struct {
	FileName string
	Data     []byte
}

// ImportResult reports what an import loaded.
type ImportResult struct {
	ExportedAt string                `json:"exportedAt"`
	Counts     model.DashboardCounts `json:"counts"`
}

// BackupService exports and restores the whole database.
type BackupService struct {
	store  snapshotStore
	purger cachePurger
	log    zerolog.Logger
	now    func() time.Time
}

// NewBackupService creates a new BackupService. purger may be nil.
func NewBackupService(store snapshotStore, purger cachePurger, log zerolog.Logger) *BackupService {
	return &BackupService{
		store:  store,
		purger: purger,
		log:    log.With().Str("component", "backup_service").Logger(),
		now:    time.Now,
	}
}

// Export reads every table from one consistent snapshot and encodes it.
func (s *BackupService) Export(ctx context.Context) (*ExportFile, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	now := s.now()
	data, err := backup.Encode(snap, now)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	s.log.Info().
		Int("schools", len(snap.Schools)).
		Int("students", len(snap.Students)).
		Int("bytes", len(data)).
		Msg("Database exported")

	return &ExportFile{
		FileName: fmt.Sprintf("school-export-%d.json", now.UnixMilli()),
		Data:     data,
	}, nil
}

// Import replaces every table with the content of an export file. A file
// that fails to decode returns an error wrapping backup.ErrFormat and
// storage is not touched; a storage failure rolls the whole import back.
func (s *BackupService) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	snap, meta, err := backup.Decode(data)
	if err != nil {
		return nil, err
	}

	// Purge on both sides of the swap: a Load racing the transaction can
	// re-cache a form compiled from the old rows.
	s.purgeCache(ctx, "before")
	if err := s.store.ReplaceAll(ctx, snap); err != nil {
		s.log.Error().Err(err).Msg("Import rolled back")
		return nil, fmt.Errorf("replace data: %w", err)
	}
	s.purgeCache(ctx, "after")

	res := &ImportResult{
		ExportedAt: meta.ExportedAt,
		Counts: model.DashboardCounts{
			Schools:          len(snap.Schools),
			Media:            len(snap.Media),
			Classes:          len(snap.Classes),
			MarksheetSchemas: len(snap.MarksheetSchemas),
			Students:         len(snap.Students),
			Marks:            len(snap.Marks),
		},
	}
	s.log.Info().
		Str("exported_at", res.ExportedAt).
		Int("schools", res.Counts.Schools).
		Int("students", res.Counts.Students).
		Msg("Database imported")
	return res, nil
}

func (s *BackupService) purgeCache(ctx context.Context, stage string) {
	if s.purger == nil {
		return
	}
	n, err := s.purger.Purge(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("stage", stage).Msg("Failed to purge marksheet cache")
		return
	}
	s.log.Debug().Int("keys", n).Str("stage", stage).Msg("Marksheet cache purged")
}
