package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stemsi/reportcard-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngPixel, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

func TestStoreLogoIsContentAddressed(t *testing.T) {
	repo := &fakeMediaStore{}
	svc := NewMediaService(repo, 1024)

	first, err := svc.StoreLogo(context.Background(), Upload{FileName: "a.png", Body: bytes.NewReader(pngPixel)})
	require.NoError(t, err)
	second, err := svc.StoreLogo(context.Background(), Upload{FileName: "b.png", Body: bytes.NewReader(pngPixel)})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, strings.HasPrefix(first.ID, "logo_"))
	assert.Len(t, first.ID, len("logo_")+32)
	assert.Equal(t, "image/png", first.MimeType)
	assert.Len(t, repo.byID, 1)

	got, err := svc.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, pngPixel, got.Blob)
}

func TestStoreLogoRejectsNonImages(t *testing.T) {
	svc := NewMediaService(&fakeMediaStore{}, 1024)
	_, err := svc.StoreLogo(context.Background(), Upload{FileName: "x.txt", Body: strings.NewReader("just text")})
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestStoreLogoRejectsLargeFiles(t *testing.T) {
	svc := NewMediaService(&fakeMediaStore{}, 10)
	_, err := svc.StoreLogo(context.Background(), Upload{FileName: "a.png", Body: bytes.NewReader(pngPixel)})
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestMediaIDDependsOnContent(t *testing.T) {
	assert.NotEqual(t, MediaID(model.MediaTypeLogo, []byte("a")), MediaID(model.MediaTypeLogo, []byte("b")))
	assert.Equal(t, MediaID(model.MediaTypeLogo, []byte("a")), MediaID(model.MediaTypeLogo, []byte("a")))
}
