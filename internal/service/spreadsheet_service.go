package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/stemsi/reportcard-backend/internal/marksheet"
	"github.com/stemsi/reportcard-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName      = "Marksheet"
	entryPageSize  = 500
	tableHeaderRow = 3
)

// SpreadsheetService renders the entries of a schema as a print-ready
// workbook.
type SpreadsheetService struct {
	schemas schemaLoader
	entries entryLister
}

// NewSpreadsheetService creates a new SpreadsheetService.
func NewSpreadsheetService(schemas schemaLoader, entries entryLister) *SpreadsheetService {
	return &SpreadsheetService{schemas: schemas, entries: entries}
}

// Marksheet builds the workbook of a schema: header text, one row per entry
// with every student field, every mark, the total and the percentage, then
// the footer text.
func (s *SpreadsheetService) Marksheet(ctx context.Context, schemaID int) (*bytes.Buffer, error) {
	sf, err := s.schemas.Load(ctx, schemaID)
	if err != nil {
		return nil, err
	}
	entries, err := s.allEntries(ctx, schemaID)
	if err != nil {
		return nil, err
	}
	return renderMarksheet(sf.Form, entries)
}

func (s *SpreadsheetService) allEntries(ctx context.Context, schemaID int) ([]model.MarkEntry, error) {
	var all []model.MarkEntry
	for offset := 0; ; offset += entryPageSize {
		page, total, err := s.entries.ListBySchema(ctx, schemaID, entryPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

func renderMarksheet(form *marksheet.Form, entries []model.MarkEntry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	columns := []any{}
	for _, fd := range form.Fields {
		columns = append(columns, fd.Label)
	}
	for _, m := range form.Marks {
		columns = append(columns, fmt.Sprintf("%s - %s (%g)", m.Term, m.Subject, m.MaxMarks))
	}
	columns = append(columns, fmt.Sprintf("Total (%g)", form.Possible), "Percentage")

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	if form.Header != "" {
		if err := f.SetCellValue(sheetName, "A1", form.Header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, "A1", "A1", bold); err != nil {
			return nil, err
		}
	}

	headerCell, _ := excelize.CoordinatesToCellName(1, tableHeaderRow)
	if err := f.SetSheetRow(sheetName, headerCell, &columns); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(columns), tableHeaderRow)
	if err := f.SetCellStyle(sheetName, headerCell, lastCol, bold); err != nil {
		return nil, err
	}

	row := tableHeaderRow + 1
	for _, e := range entries {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := entryRow(form, e)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	if form.Footer != "" {
		cell, _ := excelize.CoordinatesToCellName(1, row+1)
		if err := f.SetCellValue(sheetName, cell, form.Footer); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}

func entryRow(form *marksheet.Form, e model.MarkEntry) []any {
	values := make([]any, 0, len(form.Fields)+len(form.Marks)+2)
	for _, fd := range form.Fields {
		values = append(values, studentValue(e.Student, fd.Key))
	}
	for _, m := range form.Marks {
		if v, ok := e.Entries[m.Key]; ok {
			values = append(values, v)
		} else {
			values = append(values, "")
		}
	}
	return append(values, e.TotalScore, e.Percentage)
}

func studentValue(st *model.Student, key string) string {
	if st == nil {
		return ""
	}
	switch key {
	case model.StudentNameKey:
		return st.Name
	case model.StudentRollNumberKey:
		if st.RollNumber != nil {
			return *st.RollNumber
		}
		return ""
	default:
		return st.AdditionalInfo[key]
	}
}
