package model

import (
	"encoding/json"

	"github.com/stemsi/reportcard-backend/internal/marksheet"
)

// MarksheetSchema is a user-authored marksheet layout of a class.
type MarksheetSchema struct {
	ID           int                `json:"id"`
	ClassID      int                `json:"classId"`
	Name         string             `json:"name"`
	SchemaJSON   marksheet.Document `json:"schemaJson"`
	UISchemaJSON json.RawMessage    `json:"uiSchemaJson,omitempty"`
}

// CreateSchemaRequest is the payload for saving a new marksheet schema.
type CreateSchemaRequest struct {
	Name         string             `json:"name" binding:"required,min=1,max=200"`
	SchemaJSON   marksheet.Document `json:"schemaJson"`
	UISchemaJSON json.RawMessage    `json:"uiSchemaJson"`
}

// SchemaWithForm is a schema together with its compiled entry form.
type SchemaWithForm struct {
	Schema        *MarksheetSchema          `json:"schema"`
	Form          *marksheet.Form           `json:"form"`
	InitialValues map[string]string         `json:"initialValues"`
	Rules         map[string]marksheet.Rule `json:"rules"`
}
