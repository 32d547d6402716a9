package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/reportcard-backend/internal/model"
)

// MediaRepository handles binary asset storage.
type MediaRepository struct {
	db DBTX
}

// NewMediaRepository creates a new MediaRepository.
func NewMediaRepository(db DBTX) *MediaRepository {
	return &MediaRepository{db: db}
}

// Put stores m unless a blob with the same ID already exists.
func (r *MediaRepository) Put(ctx context.Context, m *model.Media) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO media (id, type, blob, file_name, mime_type)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		m.ID, m.Type, m.Blob, m.FileName, m.MimeType,
	)
	return err
}

// GetByID retrieves a media record including its blob.
func (r *MediaRepository) GetByID(ctx context.Context, id string) (*model.Media, error) {
	m := &model.Media{}
	err := r.db.QueryRow(ctx,
		`SELECT id, type, blob, file_name, mime_type FROM media WHERE id = $1`, id,
	).Scan(&m.ID, &m.Type, &m.Blob, &m.FileName, &m.MimeType)
	if err != nil {
		return nil, translate(err)
	}
	return m, nil
}

// List retrieves every media record including blobs.
func (r *MediaRepository) List(ctx context.Context) ([]model.Media, error) {
	rows, err := r.db.Query(ctx, `SELECT id, type, blob, file_name, mime_type FROM media ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := []model.Media{}
	for rows.Next() {
		var m model.Media
		if err := rows.Scan(&m.ID, &m.Type, &m.Blob, &m.FileName, &m.MimeType); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

// BulkInsert copies media records.
func (r *MediaRepository) BulkInsert(ctx context.Context, media []model.Media) error {
	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"media"},
		[]string{"id", "type", "blob", "file_name", "mime_type"},
		pgx.CopyFromSlice(len(media), func(i int) ([]any, error) {
			m := media[i]
			return []any{m.ID, string(m.Type), m.Blob, m.FileName, m.MimeType}, nil
		}),
	)
	return err
}
