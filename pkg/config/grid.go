package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PeriodPreset is one period window in a grid preset file.
type PeriodPreset struct {
	Period    int    `yaml:"period"`
	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time"`
}

// GridPreset is the fallback time grid used for institutions without a stored grid.
type GridPreset struct {
	WorkingDays   []int          `yaml:"working_days"`
	PeriodsPerDay int            `yaml:"periods_per_day"`
	BreakPeriods  []int          `yaml:"break_periods"`
	Periods       []PeriodPreset `yaml:"periods"`
}

// DefaultGridPreset is a Monday-Friday, eight period day with breaks after the third
// and sixth lessons.
func DefaultGridPreset() GridPreset {
	return GridPreset{
		WorkingDays:   []int{1, 2, 3, 4, 5},
		PeriodsPerDay: 8,
		BreakPeriods:  []int{4, 7},
		Periods: []PeriodPreset{
			{Period: 1, StartTime: "07:00", EndTime: "07:45"},
			{Period: 2, StartTime: "07:45", EndTime: "08:30"},
			{Period: 3, StartTime: "08:30", EndTime: "09:15"},
			{Period: 4, StartTime: "09:15", EndTime: "09:30"},
			{Period: 5, StartTime: "09:30", EndTime: "10:15"},
			{Period: 6, StartTime: "10:15", EndTime: "11:00"},
			{Period: 7, StartTime: "11:00", EndTime: "11:30"},
			{Period: 8, StartTime: "11:30", EndTime: "12:15"},
		},
	}
}

// LoadGridPreset reads a YAML preset. An empty path yields DefaultGridPreset.
func LoadGridPreset(path string) (GridPreset, error) {
	if path == "" {
		return DefaultGridPreset(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return GridPreset{}, fmt.Errorf("read grid preset %s: %w", path, err)
	}
	var preset GridPreset
	if err := yaml.Unmarshal(raw, &preset); err != nil {
		return GridPreset{}, fmt.Errorf("decode grid preset %s: %w", path, err)
	}
	if preset.PeriodsPerDay <= 0 || len(preset.WorkingDays) == 0 {
		return GridPreset{}, fmt.Errorf("grid preset %s: working_days and periods_per_day are required", path)
	}
	return preset, nil
}
