package model

// SchoolClass is a class (section) of a school. ActiveMarksheetSchemaID
// points at the schema currently used for entering marks.
type SchoolClass struct {
	ID                      int     `json:"id"`
	SchoolID                int     `json:"schoolId"`
	Name                    string  `json:"name"`
	Stream                  *string `json:"stream,omitempty"`
	ActiveMarksheetSchemaID *int    `json:"activeMarksheetSchemaId,omitempty"`
}

// CreateClassRequest is the payload for adding a class to a school.
type CreateClassRequest struct {
	Name   string  `json:"name" binding:"required,min=1,max=100"`
	Stream *string `json:"stream" binding:"omitempty,max=100"`
}

// SetActiveSchemaRequest selects the schema a class enters marks with.
type SetActiveSchemaRequest struct {
	SchemaID int `json:"schemaId" binding:"required,min=1"`
}
