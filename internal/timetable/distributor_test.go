package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

func TestDistributeEvenSplit(t *testing.T) {
	plan, err := Distribute(5, weekdays)
	require.NoError(t, err)
	require.Len(t, plan, 5)
	for _, load := range plan {
		assert.Equal(t, 1, load.Periods, "day %s", load.Day)
	}
}

func TestDistributeRemainderGoesToFirstDays(t *testing.T) {
	plan, err := Distribute(7, weekdays)
	require.NoError(t, err)
	assert.Equal(t, Distribution{
		{Day: time.Monday, Periods: 2},
		{Day: time.Tuesday, Periods: 2},
		{Day: time.Wednesday, Periods: 1},
		{Day: time.Thursday, Periods: 1},
		{Day: time.Friday, Periods: 1},
	}, plan)
	assert.Equal(t, 7, plan.Total())
	assert.Equal(t, 2, plan.For(time.Tuesday))
	assert.Equal(t, 0, plan.For(time.Saturday))
}

func TestDistributeFollowsGivenDayOrder(t *testing.T) {
	plan, err := Distribute(4, []time.Weekday{time.Friday, time.Monday, time.Wednesday})
	require.NoError(t, err)
	assert.Equal(t, 2, plan.For(time.Friday))
	assert.Equal(t, 1, plan.For(time.Monday))
	assert.Equal(t, 1, plan.For(time.Wednesday))
}

func TestDistributeZeroHours(t *testing.T) {
	plan, err := Distribute(0, weekdays)
	require.NoError(t, err)
	assert.Equal(t, 0, plan.Total())
	assert.Len(t, plan, 5)
}

func TestDistributeRejectsInvalidInput(t *testing.T) {
	cases := map[string]struct {
		hours int
		days  []time.Weekday
	}{
		"empty days":     {hours: 3, days: nil},
		"negative hours": {hours: -1, days: weekdays},
		"duplicate day":  {hours: 3, days: []time.Weekday{time.Monday, time.Monday}},
		"unknown day":    {hours: 3, days: []time.Weekday{time.Weekday(9)}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Distribute(tc.hours, tc.days)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrInvalidDistribution.Code, appErrors.FromError(err).Code)
		})
	}
}
