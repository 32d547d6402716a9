package marksheet

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// scores applies the same numeric grammar as submission validation.
var scores = validator.New()

// MarkSlot is one (exam term, subject) input of a compiled form.
type MarkSlot struct {
	Key          string  `json:"key"`
	Term         string  `json:"term"`
	Subject      string  `json:"subject"`
	MaxMarks     float64 `json:"maxMarks"`
	ExamIndex    int     `json:"examIndex"`
	SubjectIndex int     `json:"subjectIndex"`
}

// Form is a validated Document flattened into a driveable key space.
type Form struct {
	Header   string     `json:"header,omitempty"`
	Footer   string     `json:"footer,omitempty"`
	Fields   []FieldDef `json:"fields"`
	Marks    []MarkSlot `json:"marks"`
	Possible float64    `json:"possible"`
}

// Rule is the check applied to one form value. Min and Max only apply to
// numeric rules.
type Rule struct {
	Required bool    `json:"required"`
	Numeric  bool    `json:"numeric"`
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
}

// Tally is the running or final result of a marksheet.
type Tally struct {
	Obtained   float64            `json:"obtained"`
	Possible   float64            `json:"possible"`
	Percentage *float64           `json:"percentage"`
	Entries    map[string]float64 `json:"entries"`
	Unfilled   []string           `json:"unfilled,omitempty"`
}

// Compile validates doc and builds its form.
func Compile(doc Document) (*Form, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	f := &Form{
		Header: doc.Header,
		Footer: doc.Footer,
		Fields: append([]FieldDef{}, doc.Fields...),
		Marks:  []MarkSlot{},
	}
	for ei, exam := range doc.Exams {
		for si, sub := range exam.Subjects {
			f.Marks = append(f.Marks, MarkSlot{
				Key:          MarkKey(exam.Term, sub.Name),
				Term:         exam.Term,
				Subject:      sub.Name,
				MaxMarks:     sub.MaxMarks,
				ExamIndex:    ei,
				SubjectIndex: si,
			})
			f.Possible += sub.MaxMarks
		}
	}
	return f, nil
}

// InitialValues returns an empty value for every input of the form.
func (f *Form) InitialValues() map[string]string {
	values := make(map[string]string, len(f.Fields)+len(f.Marks))
	for _, fd := range f.Fields {
		values[fd.Key] = ""
	}
	for _, m := range f.Marks {
		values[m.Key] = ""
	}
	return values
}

// Rules returns the validation rule of every input, keyed like InitialValues.
func (f *Form) Rules() map[string]Rule {
	rules := make(map[string]Rule, len(f.Fields)+len(f.Marks))
	for _, fd := range f.Fields {
		rules[fd.Key] = Rule{Required: fd.Required}
	}
	for _, m := range f.Marks {
		rules[m.Key] = Rule{Required: true, Numeric: true, Min: 0, Max: m.MaxMarks}
	}
	return rules
}

// HasKey reports whether key names an input of the form.
func (f *Form) HasKey(key string) bool {
	for _, fd := range f.Fields {
		if fd.Key == key {
			return true
		}
	}
	for _, m := range f.Marks {
		if m.Key == key {
			return true
		}
	}
	return false
}

// StudentInfo extracts the trimmed student-info values from values.
// Missing fields are left out.
func (f *Form) StudentInfo(values map[string]string) map[string]string {
	info := make(map[string]string, len(f.Fields))
	for _, fd := range f.Fields {
		if v, ok := values[fd.Key]; ok {
			info[fd.Key] = strings.TrimSpace(v)
		}
	}
	return info
}

// Tally totals the marks found in values under the BlankScoresZero policy.
// The denominator is always the sum of every subject's maximum. It never
// fails; Percentage stays nil when the form has no subjects.
func (f *Form) Tally(values map[string]string) Tally {
	t := Tally{
		Possible: f.Possible,
		Entries:  make(map[string]float64, len(f.Marks)),
	}
	for _, m := range f.Marks {
		score, ok := ParseScore(values[m.Key])
		if !ok {
			t.Unfilled = append(t.Unfilled, m.Key)
			continue
		}
		t.Entries[m.Key] = score
		t.Obtained += score
	}
	if t.Possible > 0 {
		p := Percent(t.Obtained, t.Possible)
		t.Percentage = &p
	}
	return t
}

// ParseScore coerces a raw form value to a score. Surrounding space is
// ignored and only plain decimals ("80", "-3", "72.5") count; blanks,
// exponents and hex are rejected, as submission validation rejects them.
func ParseScore(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || scores.Var(raw, "numeric") != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Percent returns 100*obtained/possible rounded to two decimal places, or 0
// when nothing is possible.
func Percent(obtained, possible float64) float64 {
	if possible <= 0 {
		return 0
	}
	return math.Round(100*obtained/possible*100) / 100
}
