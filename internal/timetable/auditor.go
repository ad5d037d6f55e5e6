package timetable

import (
	"fmt"
	"strings"
	"time"
)

// ConflictKind names the resource that collided.
type ConflictKind string

const (
	ConflictTeacherDoubleBooking ConflictKind = "teacher_double_booking"
	ConflictRoom                 ConflictKind = "room_conflict"
)

// Severity ranks a conflict.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

const (
	teacherRemediation = "Redistribute the teaching load: move one lesson to a free period or assign another teacher."
	roomRemediation    = "Assign a different room to one of the lessons."
)

// Conflict is a derived report of two slots competing for the same resource.
type Conflict struct {
	Kind        ConflictKind   `json:"kind"`
	Severity    Severity       `json:"severity"`
	Day         time.Weekday   `json:"day"`
	Period      int            `json:"period"`
	TeacherID   string         `json:"teacherId,omitempty"`
	Room        string         `json:"room,omitempty"`
	Description string         `json:"description"`
	Slots       []ScheduleSlot `json:"slots"`
	Remediation string         `json:"remediation"`
}

// ConflictSummary counts conflicts per kind and severity.
type ConflictSummary struct {
	Total      int                  `json:"total"`
	ByKind     map[ConflictKind]int `json:"byKind"`
	BySeverity map[Severity]int     `json:"bySeverity"`
}

// HasCritical reports whether any critical conflict was found.
func (s ConflictSummary) HasCritical() bool {
	return s.BySeverity[SeverityCritical] > 0
}

type roomPeriodKey struct {
	room   string
	day    time.Weekday
	period int
}

// Audit reports every teacher double booking and every room collision in slots.
// The first slot seen for a key is the reference; each later slot sharing the key
// yields one conflict naming both. Slots without a room are skipped by the room
// pass. The input is never modified.
func Audit(slots []ScheduleSlot) []Conflict {
	conflicts := make([]Conflict, 0)

	firstByTeacher := make(map[teacherPeriodKey]int, len(slots))
	for i, slot := range slots {
		key := teacherPeriodKey{teacherID: slot.TeacherID, day: slot.Day, period: slot.Period}
		first, seen := firstByTeacher[key]
		if !seen {
			firstByTeacher[key] = i
			continue
		}
		ref := slots[first]
		conflicts = append(conflicts, Conflict{
			Kind:      ConflictTeacherDoubleBooking,
			Severity:  SeverityCritical,
			Day:       slot.Day,
			Period:    slot.Period,
			TeacherID: slot.TeacherID,
			Description: fmt.Sprintf("teacher %s is booked for class %s (%s) and class %s (%s) on %s period %d",
				slot.TeacherID, ref.ClassID, ref.SubjectID, slot.ClassID, slot.SubjectID, slot.Day, slot.Period),
			Slots:       []ScheduleSlot{ref, slot},
			Remediation: teacherRemediation,
		})
	}

	firstByRoom := make(map[roomPeriodKey]int, len(slots))
	for i, slot := range slots {
		if !slot.HasRoom() {
			continue
		}
		key := roomPeriodKey{room: normalizeRoom(slot.Room), day: slot.Day, period: slot.Period}
		first, seen := firstByRoom[key]
		if !seen {
			firstByRoom[key] = i
			continue
		}
		ref := slots[first]
		conflicts = append(conflicts, Conflict{
			Kind:     ConflictRoom,
			Severity: SeverityWarning,
			Day:      slot.Day,
			Period:   slot.Period,
			Room:     strings.TrimSpace(slot.Room),
			Description: fmt.Sprintf("room %s is used by class %s and class %s on %s period %d",
				strings.TrimSpace(slot.Room), ref.ClassID, slot.ClassID, slot.Day, slot.Period),
			Slots:       []ScheduleSlot{ref, slot},
			Remediation: roomRemediation,
		})
	}
	return conflicts
}

// Summarize counts conflicts.
func Summarize(conflicts []Conflict) ConflictSummary {
	summary := ConflictSummary{
		Total:      len(conflicts),
		ByKind:     make(map[ConflictKind]int),
		BySeverity: make(map[Severity]int),
	}
	for _, c := range conflicts {
		summary.ByKind[c.Kind]++
		summary.BySeverity[c.Severity]++
	}
	return summary
}

// room identity is the value itself; only surrounding whitespace is ignored
func normalizeRoom(room string) string {
	return strings.TrimSpace(room)
}
