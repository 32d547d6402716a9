package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SchemaFormKey returns the cache key for a schema's compiled form
func (r *CacheKeyStruct) SchemaFormKey(schemaID int) string {
	return fmt.Sprintf("marksheet:schema:%d:form", schemaID)
}

// SchemaDraftKey returns the cache key for a marksheet being filled in
func (r *CacheKeyStruct) SchemaDraftKey(schemaID int, draftID string) string {
	return fmt.Sprintf("marksheet:schema:%d:draft:%s", schemaID, draftID)
}

// SchemaEntriesChannel returns the Redis PubSub channel name for new entries of a schema
func (r *CacheKeyStruct) SchemaEntriesChannel(schemaID int) string {
	return fmt.Sprintf("marksheet:schema:%d:entries", schemaID)
}

// MarksheetPattern matches every cached marksheet key
func (r *CacheKeyStruct) MarksheetPattern() string {
	return "marksheet:*"
}

var CacheKey = NewCacheKeyStruct()
