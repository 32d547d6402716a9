package repository

import (
	"context"

	"github.com/stemsi/reportcard-backend/internal/model"
)

// DashboardRepository handles dashboard data access.
type DashboardRepository struct {
	db DBTX
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(db DBTX) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// GetCounts retrieves the number of rows of every table.
func (r *DashboardRepository) GetCounts(ctx context.Context) (*model.DashboardCounts, error) {
	c := &model.DashboardCounts{}
	err := r.db.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM schools),
			(SELECT COUNT(*) FROM media),
			(SELECT COUNT(*) FROM classes),
			(SELECT COUNT(*) FROM marksheet_schemas),
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM marks)`,
	).Scan(&c.Schools, &c.Media, &c.Classes, &c.MarksheetSchemas, &c.Students, &c.Marks)
	if err != nil {
		return nil, err
	}
	return c, nil
}
