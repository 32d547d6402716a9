package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("MAX_IMPORT_SIZE_MB", "")
	t.Setenv("DRAFT_TTL_MINUTES", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, int64(64*1024*1024), cfg.MaxImportBytes)
	assert.Equal(t, 12*time.Hour, cfg.DraftTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "2")
	t.Setenv("FORM_CACHE_TTL_MINUTES", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, int64(2*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, time.Hour, cfg.FormCacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "marksheet:schema:4:form", CacheKey.SchemaFormKey(4))
	assert.Equal(t, "marksheet:schema:4:draft:abc", CacheKey.SchemaDraftKey(4, "abc"))
	assert.Equal(t, "marksheet:schema:4:entries", CacheKey.SchemaEntriesChannel(4))
}
