package model

import "time"

// Student is created from the student-info part of a marksheet submission.
type Student struct {
	ID             int               `json:"id"`
	ClassID        int               `json:"classId"`
	Name           string            `json:"name"`
	RollNumber     *string           `json:"rollNumber,omitempty"`
	AdditionalInfo map[string]string `json:"additionalInfo"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// Field keys of a marksheet schema that fill dedicated Student columns
// instead of AdditionalInfo.
const (
	StudentNameKey       = "name"
	StudentRollNumberKey = "rollNumber"
)
