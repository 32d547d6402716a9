package service

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors shared by the services.
var (
	ErrSchemaNotInClass    = errors.New("marksheet schema does not belong to class")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// ValidationError lists the marksheet values that failed their rules.
// Nothing is written when a submission returns it.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "invalid marksheet values: " + strings.Join(parts, "; ")
}
