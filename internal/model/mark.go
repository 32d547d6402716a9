package model

import "time"

// Mark holds one student's scores for one schema, keyed by sanitized
// composite key (see marksheet.MarkKey).
type Mark struct {
	ID         int                `json:"id"`
	StudentID  int                `json:"studentId"`
	SchemaID   int                `json:"schemaId"`
	Entries    map[string]float64 `json:"entries"`
	TotalScore float64            `json:"totalScore"`
	Percentage float64            `json:"percentage"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// MarkEntry is a mark joined with its student, as listed per schema.
type MarkEntry struct {
	Mark
	Student *Student `json:"student"`
}

// SubmitMarksheetRequest carries the raw values of a filled-in marksheet.
type SubmitMarksheetRequest struct {
	Values map[string]string `json:"values" binding:"required"`
}

// SubmissionSummary is returned right after a submission so the caller can
// display it without reading it back.
type SubmissionSummary struct {
	StudentID      int                `json:"studentId"`
	MarkID         int                `json:"markId"`
	SchemaID       int                `json:"schemaId"`
	Name           string             `json:"name"`
	RollNumber     *string            `json:"rollNumber,omitempty"`
	AdditionalInfo map[string]string  `json:"additionalInfo"`
	Entries        map[string]float64 `json:"entries"`
	TotalScore     float64            `json:"totalScore"`
	TotalPossible  float64            `json:"totalPossible"`
	Percentage     float64            `json:"percentage"`
	CreatedAt      time.Time          `json:"createdAt"`
}
