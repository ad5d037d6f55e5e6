package timetable

import "time"

type teacherPeriodKey struct {
	teacherID string
	day       time.Weekday
	period    int
}

// Occupancy indexes which (teacher, day, period) positions are already taken.
type Occupancy map[teacherPeriodKey]struct{}

// NewOccupancy indexes the provided slots.
func NewOccupancy(slots []ScheduleSlot) Occupancy {
	occ := make(Occupancy, len(slots))
	for _, slot := range slots {
		occ.Add(slot)
	}
	return occ
}

// Add marks the slot's teacher position as taken.
func (o Occupancy) Add(slot ScheduleSlot) {
	o[teacherPeriodKey{teacherID: slot.TeacherID, day: slot.Day, period: slot.Period}] = struct{}{}
}

// Has reports whether the teacher is already placed at day/period.
func (o Occupancy) Has(teacherID string, day time.Weekday, period int) bool {
	_, ok := o[teacherPeriodKey{teacherID: teacherID, day: day, period: period}]
	return ok
}

// ForTeacher copies the entries belonging to one teacher.
func (o Occupancy) ForTeacher(teacherID string) Occupancy {
	out := make(Occupancy)
	for key := range o {
		if key.teacherID == teacherID {
			out[key] = struct{}{}
		}
	}
	return out
}

// FindOpenPeriod returns the lowest non-break period on day where the teacher is free.
// The boolean is false when the teacher has no open period left that day.
func FindOpenPeriod(occupied Occupancy, teacherID string, day time.Weekday, grid TimeGrid) (int, bool) {
	breaks := grid.breakSet()
	for period := 1; period <= grid.PeriodsPerDay; period++ {
		if breaks[period] {
			continue
		}
		if occupied.Has(teacherID, day, period) {
			continue
		}
		return period, true
	}
	return 0, false
}

// FindOpenPeriodInSlots is FindOpenPeriod over a plain slot list.
func FindOpenPeriodInSlots(existing []ScheduleSlot, teacherID string, day time.Weekday, grid TimeGrid) (int, bool) {
	return FindOpenPeriod(NewOccupancy(existing), teacherID, day, grid)
}
