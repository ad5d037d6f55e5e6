// Package timetable allocates teaching obligations onto a weekly time grid, audits
// slot sets for resource collisions and governs the lifecycle of a stored schedule.
// Everything here is pure computation over caller supplied snapshots.
package timetable

import (
	"fmt"
	"sort"
	"time"

	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

const clockLayout = "15:04"

// TimeGrid describes the schedulable universe for one institution.
type TimeGrid struct {
	WorkingDays   []time.Weekday `json:"workingDays" yaml:"working_days"`
	PeriodsPerDay int            `json:"periodsPerDay" yaml:"periods_per_day"`
	BreakPeriods  []int          `json:"breakPeriods" yaml:"break_periods"`
}

// Validate checks the grid invariants.
func (g TimeGrid) Validate() error {
	if len(g.WorkingDays) == 0 {
		return appErrors.Clone(appErrors.ErrInvalidGrid, "workingDays must contain at least one day")
	}
	seen := make(map[time.Weekday]bool, len(g.WorkingDays))
	for _, day := range g.WorkingDays {
		if day < time.Sunday || day > time.Saturday {
			return appErrors.Clone(appErrors.ErrInvalidGrid, fmt.Sprintf("day code %d outside 0-6", day))
		}
		if seen[day] {
			return appErrors.Clone(appErrors.ErrInvalidGrid, fmt.Sprintf("day code %d listed twice", day))
		}
		seen[day] = true
	}
	if g.PeriodsPerDay < 1 {
		return appErrors.Clone(appErrors.ErrInvalidGrid, "periodsPerDay must be at least 1")
	}
	for _, period := range g.BreakPeriods {
		if period < 1 || period > g.PeriodsPerDay {
			return appErrors.Clone(appErrors.ErrInvalidGrid, fmt.Sprintf("break period %d outside 1-%d", period, g.PeriodsPerDay))
		}
	}
	return nil
}

// IsBreak reports whether the period index is non-teaching.
func (g TimeGrid) IsBreak(period int) bool {
	for _, p := range g.BreakPeriods {
		if p == period {
			return true
		}
	}
	return false
}

// CheckSlot rejects a day or period the grid does not schedule: a non-working day, a
// period outside 1..PeriodsPerDay or a break.
func (g TimeGrid) CheckSlot(day time.Weekday, period int) error {
	working := false
	for _, d := range g.WorkingDays {
		if d == day {
			working = true
			break
		}
	}
	switch {
	case !working:
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("day %d is not a working day", day))
	case period < 1 || period > g.PeriodsPerDay:
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("period %d outside 1-%d", period, g.PeriodsPerDay))
	case g.IsBreak(period):
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("period %d is a break", period))
	}
	return nil
}

// TeachingPeriods returns the number of non-break periods in a single day.
func (g TimeGrid) TeachingPeriods() int {
	breaks := g.breakSet()
	count := 0
	for p := 1; p <= g.PeriodsPerDay; p++ {
		if !breaks[p] {
			count++
		}
	}
	return count
}

// WeeklyCapacity is the number of teaching periods a single teacher can cover per week.
func (g TimeGrid) WeeklyCapacity() int {
	return g.TeachingPeriods() * len(g.WorkingDays)
}

func (g TimeGrid) breakSet() map[int]bool {
	set := make(map[int]bool, len(g.BreakPeriods))
	for _, p := range g.BreakPeriods {
		set[p] = true
	}
	return set
}

// TimeSlotDefinition is the wall-clock window of one period index.
type TimeSlotDefinition struct {
	Period    int    `json:"period" yaml:"period"`
	StartTime string `json:"startTime" yaml:"start_time"`
	EndTime   string `json:"endTime" yaml:"end_time"`
}

// PeriodCatalog resolves a period index to its time window.
type PeriodCatalog map[int]TimeSlotDefinition

// NewPeriodCatalog validates the definitions against the grid. Every period in
// 1..PeriodsPerDay must be defined once, start before end, without overlapping the
// previous period.
func NewPeriodCatalog(definitions []TimeSlotDefinition, grid TimeGrid) (PeriodCatalog, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	catalog := make(PeriodCatalog, len(definitions))
	for _, def := range definitions {
		if def.Period < 1 || def.Period > grid.PeriodsPerDay {
			return nil, appErrors.Clone(appErrors.ErrInvalidGrid, fmt.Sprintf("time slot period %d outside 1-%d", def.Period, grid.PeriodsPerDay))
		}
		if _, dup := catalog[def.Period]; dup {
			return nil, appErrors.Clone(appErrors.ErrInvalidGrid, fmt.Sprintf("time slot period %d defined twice", def.Period))
		}
		catalog[def.Period] = def
	}

	periods := make([]int, 0, len(catalog))
	for p := range catalog {
		periods = append(periods, p)
	}
	sort.Ints(periods)
	if len(periods) != grid.PeriodsPerDay {
		return nil, appErrors.Clone(appErrors.ErrInvalidGrid, fmt.Sprintf("time slots cover %d of %d periods", len(periods), grid.PeriodsPerDay))
	}

	var prevEnd time.Time
	for i, p := range periods {
		def := catalog[p]
		start, err := time.Parse(clockLayout, def.StartTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidGrid.Code, appErrors.ErrInvalidGrid.Status, fmt.Sprintf("period %d start time must be HH:MM", p))
		}
		end, err := time.Parse(clockLayout, def.EndTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidGrid.Code, appErrors.ErrInvalidGrid.Status, fmt.Sprintf("period %d end time must be HH:MM", p))
		}
		if !start.Before(end) {
			return nil, appErrors.Clone(appErrors.ErrInvalidGrid, fmt.Sprintf("period %d must start before it ends", p))
		}
		if i > 0 && start.Before(prevEnd) {
			return nil, appErrors.Clone(appErrors.ErrInvalidGrid, fmt.Sprintf("period %d overlaps period %d", p, periods[i-1]))
		}
		prevEnd = end
	}
	return catalog, nil
}
