// Package marksheet interprets user-authored marksheet schemas.
//
// A Document is what the user saves for a class: header and footer text,
// the student-info fields to collect and the exam groups with their
// subjects. Compile validates a Document once and returns a Form, which
// knows the initial values of every input, the rule each input must pass
// and how to tally the marks.
//
// Unfilled marks follow the BlankScoresZero policy: a blank or non-numeric
// mark contributes nothing to the obtained total while its subject's
// maximum still counts toward the possible total, so a missing mark lowers
// the percentage instead of being left out of it.
package marksheet

import (
	"fmt"
	"math"
	"strings"
)

// FieldType is the input type of a student-info field.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
)

// FieldDef describes one student-info input (name, roll number, guardian...).
type FieldDef struct {
	Label    string    `json:"label"`
	Key      string    `json:"fieldKey"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
}

// Subject is one markable subject inside an exam group.
type Subject struct {
	Name     string  `json:"subjectName"`
	MaxMarks float64 `json:"maxMarks"`
}

// ExamGroup is an exam term and the subjects examined in it.
type ExamGroup struct {
	Term     string    `json:"term"`
	Subjects []Subject `json:"subjects"`
}

// Document is the stored marksheet layout of a class.
type Document struct {
	Header string      `json:"header,omitempty"`
	Footer string      `json:"footer,omitempty"`
	Fields []FieldDef  `json:"fields"`
	Exams  []ExamGroup `json:"exams"`
}

// Validate checks the document's structure and rejects any two inputs that
// would end up under the same key.
func (d Document) Validate() error {
	var problems []string

	for i, f := range d.Fields {
		if strings.TrimSpace(f.Key) == "" {
			problems = append(problems, fmt.Sprintf("fields[%d]: fieldKey is required", i))
		}
		switch f.Type {
		case FieldString, FieldNumber, FieldDate:
		default:
			problems = append(problems, fmt.Sprintf("fields[%d]: unknown type %q", i, f.Type))
		}
	}

	for ei, exam := range d.Exams {
		if strings.TrimSpace(exam.Term) == "" {
			problems = append(problems, fmt.Sprintf("exams[%d]: term is required", ei))
		}
		for si, sub := range exam.Subjects {
			if strings.TrimSpace(sub.Name) == "" {
				problems = append(problems, fmt.Sprintf("exams[%d].subjects[%d]: subjectName is required", ei, si))
			}
			if math.IsNaN(sub.MaxMarks) || math.IsInf(sub.MaxMarks, 0) || sub.MaxMarks <= 0 {
				problems = append(problems, fmt.Sprintf("exams[%d].subjects[%d]: maxMarks must be positive", ei, si))
			}
		}
	}

	if len(problems) > 0 {
		return &DocumentError{Problems: problems}
	}

	owners := make(map[string]string)
	claim := func(key, owner string) error {
		if prev, ok := owners[key]; ok {
			return &DuplicateKeyError{Key: key, First: prev, Second: owner}
		}
		owners[key] = owner
		return nil
	}

	for _, f := range d.Fields {
		if err := claim(f.Key, fmt.Sprintf("field %q", f.Key)); err != nil {
			return err
		}
	}
	for _, exam := range d.Exams {
		for _, sub := range exam.Subjects {
			owner := fmt.Sprintf("%q/%q", exam.Term, sub.Name)
			if err := claim(MarkKey(exam.Term, sub.Name), owner); err != nil {
				return err
			}
		}
	}
	return nil
}

// SanitizeKey replaces every character outside [A-Za-z0-9] with '_'.
func SanitizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// MarkKey returns the composite key under which the mark for subject in
// term is entered and stored.
func MarkKey(term, subject string) string {
	return "marks_" + SanitizeKey(term) + "_" + SanitizeKey(subject)
}
