// Package backup encodes and decodes the whole-database export file.
//
// The file is a single JSON document:
//
//	{
//	  "meta": {"version": 2, "exportedAt": "2024-05-01T10:00:00.000Z"},
//	  "schools": [...], "media": [...], "classes": [...],
//	  "marksheetSchemas": [...], "students": [...], "marks": [...]
//	}
//
// Media rows carry their payload as a base64 data URL in "blobBase64".
// Decode checks the whole document and decodes every payload before
// returning, so a caller never starts mutating storage with a bad file.
package backup

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stemsi/reportcard-backend/internal/model"
	"golang.org/x/sync/errgroup"
)

// Version is the only export format version Decode accepts.
const Version = 2

// ErrFormat is wrapped by every Decode error.
var ErrFormat = errors.New("invalid backup format")

const exportedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// decodeWorkers bounds the number of media payloads decoded at once.
const decodeWorkers = 8

// Meta is the header of an export file.
type Meta struct {
	Version    int    `json:"version"`
	ExportedAt string `json:"exportedAt"`
}

// MediaRecord is a media row as written to the export file.
type MediaRecord struct {
	ID         string          `json:"id"`
	Type       model.MediaType `json:"type"`
	FileName   string          `json:"fileName"`
	MimeType   string          `json:"mimeType"`
	BlobBase64 string          `json:"blobBase64"`
}

type file struct {
	Meta             *Meta                    `json:"meta"`
	Schools          *[]model.School          `json:"schools"`
	Media            *[]MediaRecord           `json:"media"`
	Classes          *[]model.SchoolClass     `json:"classes"`
	MarksheetSchemas *[]model.MarksheetSchema `json:"marksheetSchemas"`
	Students         *[]model.Student         `json:"students"`
	Marks            *[]model.Mark            `json:"marks"`
}

// Encode renders snap as an export file stamped with exportedAt.
func Encode(snap *model.Snapshot, exportedAt time.Time) ([]byte, error) {
	media := make([]MediaRecord, 0, len(snap.Media))
	for _, m := range snap.Media {
		media = append(media, MediaRecord{
			ID:         m.ID,
			Type:       m.Type,
			FileName:   m.FileName,
			MimeType:   m.MimeType,
			BlobBase64: DataURL(m.MimeType, m.Blob),
		})
	}

	f := file{
		Meta:             &Meta{Version: Version, ExportedAt: exportedAt.UTC().Format(exportedAtLayout)},
		Schools:          nonNil(snap.Schools),
		Media:            &media,
		Classes:          nonNil(snap.Classes),
		MarksheetSchemas: nonNil(snap.MarksheetSchemas),
		Students:         nonNil(snap.Students),
		Marks:            nonNil(snap.Marks),
	}
	return json.MarshalIndent(f, "", "  ")
}

// Decode parses an export file into a snapshot ready to be stored.
func Decode(data []byte) (*model.Snapshot, *Meta, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	if f.Meta == nil {
		return nil, nil, fmt.Errorf("%w: meta is missing", ErrFormat)
	}
	if f.Meta.Version != Version {
		return nil, nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, f.Meta.Version)
	}

	missing := []string{}
	if f.Schools == nil {
		missing = append(missing, "schools")
	}
	if f.Media == nil {
		missing = append(missing, "media")
	}
	if f.Classes == nil {
		missing = append(missing, "classes")
	}
	if f.MarksheetSchemas == nil {
		missing = append(missing, "marksheetSchemas")
	}
	if f.Students == nil {
		missing = append(missing, "students")
	}
	if f.Marks == nil {
		missing = append(missing, "marks")
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: missing %s", ErrFormat, strings.Join(missing, ", "))
	}

	for i, sc := range *f.MarksheetSchemas {
		if err := sc.SchemaJSON.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%w: marksheetSchemas[%d] (id %d): %v", ErrFormat, i, sc.ID, err)
		}
	}

	media, err := decodeMedia(*f.Media)
	if err != nil {
		return nil, nil, err
	}

	snap := &model.Snapshot{
		Schools:          *f.Schools,
		Media:            media,
		Classes:          *f.Classes,
		MarksheetSchemas: *f.MarksheetSchemas,
		Students:         *f.Students,
		Marks:            *f.Marks,
	}
	return snap, f.Meta, nil
}

func decodeMedia(records []MediaRecord) ([]model.Media, error) {
	media := make([]model.Media, len(records))

	var g errgroup.Group
	g.SetLimit(decodeWorkers)
	for i, rec := range records {
		g.Go(func() error {
			if rec.ID == "" {
				return fmt.Errorf("%w: media[%d]: id is required", ErrFormat, i)
			}
			mime, blob, err := ParseDataURL(rec.BlobBase64)
			if err != nil {
				return fmt.Errorf("%w: media %q: %v", ErrFormat, rec.ID, err)
			}
			if rec.MimeType != "" {
				mime = rec.MimeType
			}
			media[i] = model.Media{
				ID:       rec.ID,
				Type:     rec.Type,
				Blob:     blob,
				FileName: rec.FileName,
				MimeType: mime,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return media, nil
}

// DataURL renders blob as a base64 data URL.
func DataURL(mime string, blob []byte) string {
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(blob)
}

// ParseDataURL splits a base64 data URL into its MIME type and payload.
func ParseDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, errors.New("not a data URL")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("data URL has no payload")
	}
	mime, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, errors.New("data URL is not base64 encoded")
	}
	blob, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode payload: %w", err)
	}
	return mime, blob, nil
}

func nonNil[T any](s []T) *[]T {
	if s == nil {
		s = []T{}
	}
	return &s
}
