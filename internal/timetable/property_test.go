package timetable

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// dayPrefix picks the first n weekdays starting at Sunday, n in 1..7.
func dayPrefix(n int) []time.Weekday {
	days := make([]time.Weekday, n)
	for i := range days {
		days[i] = time.Weekday(i)
	}
	return days
}

func TestDistributionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("distribution conserves weekly hours", prop.ForAll(
		func(hours, numDays int) bool {
			plan, err := Distribute(hours, dayPrefix(numDays))
			if err != nil {
				return false
			}
			return plan.Total() == hours
		},
		gen.IntRange(0, 80),
		gen.IntRange(1, 7),
	))

	properties.Property("per-day counts differ by at most one", prop.ForAll(
		func(hours, numDays int) bool {
			plan, err := Distribute(hours, dayPrefix(numDays))
			if err != nil {
				return false
			}
			lo, hi := plan[0].Periods, plan[0].Periods
			for _, load := range plan {
				if load.Periods < lo {
					lo = load.Periods
				}
				if load.Periods > hi {
					hi = load.Periods
				}
			}
			return hi-lo <= 1
		},
		gen.IntRange(0, 80),
		gen.IntRange(1, 7),
	))

	properties.TestingRun(t)
}

func TestGenerateAndAuditProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	grid := TimeGrid{WorkingDays: weekdays, PeriodsPerDay: 6, BreakPeriods: []int{3}}
	defs := periodDefinitions(6)

	build := func(hours []int) []TeachingObligation {
		teachers := []string{"T1", "T2", "T3"}
		classes := []string{"C1", "C2"}
		obligations := make([]TeachingObligation, 0, len(hours))
		for i, h := range hours {
			obligations = append(obligations, TeachingObligation{
				TeacherID:   teachers[i%len(teachers)],
				ClassID:     classes[i%len(classes)],
				SubjectID:   "S",
				WeeklyHours: h,
			})
		}
		return obligations
	}

	properties.Property("generation is deterministic", prop.ForAll(
		func(hours []int) bool {
			obligations := build(hours)
			a, errA := Generate(obligations, grid, defs, GenerateOptions{})
			b, errB := Generate(obligations, grid, defs, GenerateOptions{})
			return errA == nil && errB == nil && reflect.DeepEqual(a, b)
		},
		gen.SliceOfN(6, gen.IntRange(0, 30)),
	))

	properties.Property("placed plus shortfall equals requested", prop.ForAll(
		func(hours []int) bool {
			result, err := Generate(build(hours), grid, defs, GenerateOptions{})
			if err != nil {
				return false
			}
			for _, p := range result.Placements {
				if p.Placed+p.Shortfall != p.Requested {
					return false
				}
			}
			return len(result.Slots) == result.Placed
		},
		gen.SliceOfN(6, gen.IntRange(0, 30)),
	))

	properties.Property("audit is idempotent", prop.ForAll(
		func(hours []int) bool {
			result, err := Generate(build(hours), grid, defs, GenerateOptions{})
			if err != nil {
				return false
			}
			return reflect.DeepEqual(Audit(result.Slots), Audit(result.Slots))
		},
		gen.SliceOfN(6, gen.IntRange(0, 30)),
	))

	properties.TestingRun(t)
}
