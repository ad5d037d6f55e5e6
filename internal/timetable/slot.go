package timetable

import (
	"fmt"
	"strings"
	"time"
)

// SlotKind classifies a placement.
type SlotKind string

const (
	SlotKindRegular SlotKind = "regular"
	SlotKindExam    SlotKind = "exam"
	SlotKindSpecial SlotKind = "special"
)

// Valid reports whether the kind is one of the known values.
func (k SlotKind) Valid() bool {
	switch k {
	case SlotKindRegular, SlotKindExam, SlotKindSpecial:
		return true
	}
	return false
}

// TeachingObligation is one teacher x class x subject weekly requirement.
type TeachingObligation struct {
	TeacherID   string `json:"teacherId"`
	ClassID     string `json:"classId"`
	SubjectID   string `json:"subjectId"`
	WeeklyHours int    `json:"weeklyHours"`
	RoomHint    string `json:"roomHint,omitempty"`
}

// ScheduleSlot places one unit of an obligation on a day and period.
type ScheduleSlot struct {
	TeacherID string       `json:"teacherId"`
	ClassID   string       `json:"classId"`
	SubjectID string       `json:"subjectId"`
	Day       time.Weekday `json:"day"`
	Period    int          `json:"period"`
	StartTime string       `json:"startTime"`
	EndTime   string       `json:"endTime"`
	Room      string       `json:"room,omitempty"`
	Kind      SlotKind     `json:"kind"`
}

// HasRoom reports whether the slot carries a room for room-conflict auditing.
func (s ScheduleSlot) HasRoom() bool {
	return strings.TrimSpace(s.Room) != ""
}

func (s ScheduleSlot) String() string {
	return fmt.Sprintf("%s/%s/%s@%s#%d", s.TeacherID, s.ClassID, s.SubjectID, s.Day, s.Period)
}

// ClassRoom is the room identifier synthesized for obligations without a room hint.
func ClassRoom(classID string) string {
	return "class:" + classID
}
