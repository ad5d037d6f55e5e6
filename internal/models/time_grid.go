package models

import (
	"time"

	"github.com/lib/pq"
)

// TimeGridSetting stores an institution's weekly grid. Day codes follow time.Weekday.
type TimeGridSetting struct {
	InstitutionID string        `db:"institution_id" json:"institution_id"`
	WorkingDays   pq.Int64Array `db:"working_days" json:"working_days"`
	PeriodsPerDay int           `db:"periods_per_day" json:"periods_per_day"`
	BreakPeriods  pq.Int64Array `db:"break_periods" json:"break_periods"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// PeriodDefinition stores the clock window of one period.
type PeriodDefinition struct {
	InstitutionID string `db:"institution_id" json:"institution_id"`
	Period        int    `db:"period" json:"period"`
	StartTime     string `db:"start_time" json:"start_time"`
	EndTime       string `db:"end_time" json:"end_time"`
}
