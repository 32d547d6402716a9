package backup

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stemsi/reportcard-backend/internal/marksheet"
	"github.com/stemsi/reportcard-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG.
var pngPixel, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

func sampleSnapshot() *model.Snapshot {
	logo := "logo_abc"
	roll := "7"
	active := 1
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &model.Snapshot{
		Schools: []model.School{{ID: 1, Name: "Sunrise Academy", Address: "Lalitpur", LogoBlobID: &logo}},
		Media: []model.Media{{
			ID: logo, Type: model.MediaTypeLogo, Blob: pngPixel, FileName: "logo.png", MimeType: "image/png",
		}},
		Classes: []model.SchoolClass{{ID: 1, SchoolID: 1, Name: "Grade 5", ActiveMarksheetSchemaID: &active}},
		MarksheetSchemas: []model.MarksheetSchema{{
			ID: 1, ClassID: 1, Name: "Annual",
			SchemaJSON: marksheet.Document{
				Fields: []marksheet.FieldDef{{Label: "Name", Key: "name", Type: marksheet.FieldString, Required: true}},
				Exams: []marksheet.ExamGroup{{Term: "Final", Subjects: []marksheet.Subject{
					{Name: "Math", MaxMarks: 100},
				}}},
			},
			UISchemaJSON: json.RawMessage(`{"name":{"ui:autofocus":true}}`),
		}},
		Students: []model.Student{{
			ID: 1, ClassID: 1, Name: "Asha", RollNumber: &roll,
			AdditionalInfo: map[string]string{"guardian": "Ram"}, CreatedAt: created,
		}},
		Marks: []model.Mark{{
			ID: 1, StudentID: 1, SchemaID: 1,
			Entries: map[string]float64{"marks_Final_Math": 80}, TotalScore: 80, Percentage: 80, CreatedAt: created,
		}},
	}
}

func TestEncodeWritesEnvelope(t *testing.T) {
	data, err := Encode(sampleSnapshot(), time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"meta", "schools", "media", "classes", "marksheetSchemas", "students", "marks"} {
		assert.Contains(t, raw, key)
	}

	var meta Meta
	require.NoError(t, json.Unmarshal(raw["meta"], &meta))
	assert.Equal(t, Version, meta.Version)
	assert.Equal(t, "2024-05-02T08:30:00.000Z", meta.ExportedAt)

	var media []map[string]any
	require.NoError(t, json.Unmarshal(raw["media"], &media))
	require.Len(t, media, 1)
	assert.NotContains(t, media[0], "blob")
	assert.Equal(t, DataURL("image/png", pngPixel), media[0]["blobBase64"])
}

func TestEncodeEmptySnapshotWritesEmptyArrays(t *testing.T) {
	data, err := Encode(&model.Snapshot{}, time.Now())
	require.NoError(t, err)

	snap, _, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, snap.Schools)
	assert.Empty(t, snap.Marks)
}

func TestRoundTrip(t *testing.T) {
	exportedAt := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
	first, err := Encode(sampleSnapshot(), exportedAt)
	require.NoError(t, err)

	snap, meta, err := Decode(first)
	require.NoError(t, err)
	assert.Equal(t, Version, meta.Version)
	assert.Equal(t, pngPixel, snap.Media[0].Blob)
	assert.Equal(t, "Asha", snap.Students[0].Name)
	assert.Equal(t, 80.0, snap.Marks[0].Entries["marks_Final_Math"])

	second, err := Encode(snap, exportedAt)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestDecodePNGMedia(t *testing.T) {
	doc := `{
		"meta": {"version": 2, "exportedAt": "2024-05-02T08:30:00.000Z"},
		"schools": [{"id": 1, "name": "Sunrise", "address": "", "logoBlobId": "logo_1"}],
		"media": [{"id": "logo_1", "type": "logo", "fileName": "a.png", "mimeType": "image/png",
		           "blobBase64": "` + DataURL("image/png", pngPixel) + `"}],
		"classes": [], "marksheetSchemas": [], "students": [], "marks": []
	}`

	snap, _, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.Len(t, snap.Media, 1)
	assert.Equal(t, pngPixel, snap.Media[0].Blob)
	assert.Equal(t, "image/png", snap.Media[0].MimeType)
}

func TestDecodeRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `{"meta":`},
		{name: "array", doc: `[]`},
		{name: "missing meta", doc: `{"schools":[],"media":[],"classes":[],"marksheetSchemas":[],"students":[],"marks":[]}`},
		{name: "old version", doc: `{"meta":{"version":1},"schools":[],"media":[],"classes":[],"marksheetSchemas":[],"students":[],"marks":[]}`},
		{name: "missing schools", doc: `{"meta":{"version":2},"media":[],"classes":[],"marksheetSchemas":[],"students":[],"marks":[]}`},
		{name: "null media", doc: `{"meta":{"version":2},"schools":[],"media":null,"classes":[],"marksheetSchemas":[],"students":[],"marks":[]}`},
		{name: "missing marks", doc: `{"meta":{"version":2},"schools":[],"media":[],"classes":[],"marksheetSchemas":[],"students":[]}`},
		{name: "wrong type", doc: `{"meta":{"version":2},"schools":{},"media":[],"classes":[],"marksheetSchemas":[],"students":[],"marks":[]}`},
		{name: "bad data url", doc: `{"meta":{"version":2},"schools":[],"media":[{"id":"x","blobBase64":"hello"}],"classes":[],"marksheetSchemas":[],"students":[],"marks":[]}`},
		{name: "colliding schema keys", doc: `{"meta":{"version":2},"schools":[],"media":[],"classes":[],"marksheetSchemas":[{"id":1,"classId":1,"name":"Annual","schemaJson":{"exams":[{"term":"A!","subjects":[{"subjectName":"X","maxMarks":10}]},{"term":"A?","subjects":[{"subjectName":"X","maxMarks":10}]}]}}],"students":[],"marks":[]}`},
		{name: "zero max marks", doc: `{"meta":{"version":2},"schools":[],"media":[],"classes":[],"marksheetSchemas":[{"id":1,"classId":1,"name":"Annual","schemaJson":{"exams":[{"term":"Final","subjects":[{"subjectName":"Math","maxMarks":0}]}]}}],"students":[],"marks":[]}`},
		{name: "bad base64", doc: `{"meta":{"version":2},"schools":[],"media":[{"id":"x","blobBase64":"data:image/png;base64,!!"}],"classes":[],"marksheetSchemas":[],"students":[],"marks":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat), "got %v", err)
		})
	}
}

func TestParseDataURL(t *testing.T) {
	mime, blob, err := ParseDataURL("data:text/plain;base64,aGk=")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mime)
	assert.Equal(t, []byte("hi"), blob)

	_, _, err = ParseDataURL("data:text/plain,hi")
	assert.Error(t, err)
}
