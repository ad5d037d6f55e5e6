package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TimeGridRepository reads per-institution grids and period catalogs.
type TimeGridRepository struct {
	db *sqlx.DB
}

// NewTimeGridRepository constructs repository.
func NewTimeGridRepository(db *sqlx.DB) *TimeGridRepository {
	return &TimeGridRepository{db: db}
}

// FindByInstitution loads the grid. sql.ErrNoRows when none is stored.
func (r *TimeGridRepository) FindByInstitution(ctx context.Context, institutionID string) (*models.TimeGridSetting, error) {
	const query = `SELECT institution_id, working_days, periods_per_day, break_periods, updated_at FROM time_grids WHERE institution_id = $1`
	var grid models.TimeGridSetting
	if err := r.db.GetContext(ctx, &grid, query, institutionID); err != nil {
		return nil, err
	}
	return &grid, nil
}

// ListPeriods returns the period catalog ordered by period.
func (r *TimeGridRepository) ListPeriods(ctx context.Context, institutionID string) ([]models.PeriodDefinition, error) {
	const query = `SELECT institution_id, period, start_time, end_time FROM period_definitions WHERE institution_id = $1 ORDER BY period`
	var periods []models.PeriodDefinition
	if err := r.db.SelectContext(ctx, &periods, query, institutionID); err != nil {
		return nil, fmt.Errorf("list period definitions: %w", err)
	}
	return periods, nil
}
