package timetable

import (
	"fmt"
	"time"

	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

// DayLoad is the number of periods planned for one day.
type DayLoad struct {
	Day     time.Weekday `json:"day"`
	Periods int          `json:"periods"`
}

// Distribution is an ordered day -> period count plan.
type Distribution []DayLoad

// Total sums the planned periods.
func (d Distribution) Total() int {
	total := 0
	for _, load := range d {
		total += load.Periods
	}
	return total
}

// For returns the periods planned for the day, zero when the day is not part of the plan.
func (d Distribution) For(day time.Weekday) int {
	for _, load := range d {
		if load.Day == day {
			return load.Periods
		}
	}
	return 0
}

// Distribute spreads weeklyHours over workingDays as evenly as possible. The first
// weeklyHours%len(workingDays) days, in the given order, carry one extra period.
func Distribute(weeklyHours int, workingDays []time.Weekday) (Distribution, error) {
	if len(workingDays) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidDistribution, "working days must not be empty")
	}
	if weeklyHours < 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidDistribution, fmt.Sprintf("weekly hours must not be negative, got %d", weeklyHours))
	}
	seen := make(map[time.Weekday]bool, len(workingDays))
	for _, day := range workingDays {
		if day < time.Sunday || day > time.Saturday {
			return nil, appErrors.Clone(appErrors.ErrInvalidDistribution, fmt.Sprintf("day code %d outside 0-6", day))
		}
		if seen[day] {
			return nil, appErrors.Clone(appErrors.ErrInvalidDistribution, fmt.Sprintf("day code %d listed twice", day))
		}
		seen[day] = true
	}

	base := weeklyHours / len(workingDays)
	remainder := weeklyHours % len(workingDays)
	plan := make(Distribution, len(workingDays))
	for i, day := range workingDays {
		periods := base
		if i < remainder {
			periods++
		}
		plan[i] = DayLoad{Day: day, Periods: periods}
	}
	return plan, nil
}
