package service

import (
	"context"

	"github.com/stemsi/reportcard-backend/internal/model"
)

type countReader interface {
	Counts(ctx context.Context) (*model.DashboardCounts, error)
}

// DashboardService handles dashboard business logic.
type DashboardService struct {
	repo countReader
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo countReader) *DashboardService {
	return &DashboardService{repo: repo}
}

// GetCounts returns the number of records of every kind.
func (s *DashboardService) GetCounts(ctx context.Context) (*model.DashboardCounts, error) {
	return s.repo.Counts(ctx)
}
