package service

import (
	"context"
	"testing"

	"github.com/stemsi/reportcard-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestMarksheetWorkbook(t *testing.T) {
	roll := "12"
	entries := &fakeEntries{entries: []model.MarkEntry{{
		Mark: model.Mark{
			Entries:    map[string]float64{"marks_Final_Math": 80, "marks_Final_Science": 40},
			TotalScore: 120,
			Percentage: 80,
		},
		Student: &model.Student{Name: "Asha", RollNumber: &roll, AdditionalInfo: map[string]string{"guardian": "Ram"}},
	}}}
	svc := NewSpreadsheetService(&fakeSchemaLoader{sf: annualSchema(1, 5)}, entries)

	buf, err := svc.Marksheet(context.Background(), 1)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	assert.Equal(t, "Annual Report", rows[0][0])
	assert.Equal(t, []string{"Name", "Roll No", "Guardian", "Final - Math (100)", "Final - Science (50)", "Total (150)", "Percentage"}, rows[2])
	assert.Equal(t, []string{"Asha", "12", "Ram", "80", "40", "120", "80"}, rows[3])
	assert.Equal(t, "Principal", rows[5][0])
}
