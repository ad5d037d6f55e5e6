package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditEmpty(t *testing.T) {
	conflicts := Audit(nil)
	assert.NotNil(t, conflicts)
	assert.Empty(t, conflicts)
	assert.Empty(t, Audit([]ScheduleSlot{}))
}

func TestAuditTeacherDoubleBooking(t *testing.T) {
	slots := []ScheduleSlot{
		{TeacherID: "T1", ClassID: "C1", SubjectID: "MATH", Day: time.Monday, Period: 1},
		{TeacherID: "T1", ClassID: "C1", SubjectID: "MATH", Day: time.Monday, Period: 2},
		{TeacherID: "T1", ClassID: "C2", SubjectID: "MATH", Day: time.Monday, Period: 1},
	}
	conflicts := Audit(slots)
	require.Len(t, conflicts, 1)
	c := conflicts[0]
	assert.Equal(t, ConflictTeacherDoubleBooking, c.Kind)
	assert.Equal(t, SeverityCritical, c.Severity)
	assert.Equal(t, []ScheduleSlot{slots[0], slots[2]}, c.Slots)
	assert.Contains(t, c.Description, "T1")
	assert.Contains(t, c.Remediation, "Redistribute")
}

func TestAuditEverySubsequentDuplicateIsReported(t *testing.T) {
	slots := []ScheduleSlot{
		{TeacherID: "T1", ClassID: "C1", Day: time.Monday, Period: 1},
		{TeacherID: "T1", ClassID: "C2", Day: time.Monday, Period: 1},
		{TeacherID: "T1", ClassID: "C3", Day: time.Monday, Period: 1},
	}
	conflicts := Audit(slots)
	require.Len(t, conflicts, 2)
	assert.Equal(t, slots[0], conflicts[0].Slots[0])
	assert.Equal(t, slots[1], conflicts[0].Slots[1])
	assert.Equal(t, slots[0], conflicts[1].Slots[0])
	assert.Equal(t, slots[2], conflicts[1].Slots[1])
}

func TestAuditRoomConflictOnlyWithRoom(t *testing.T) {
	slots := []ScheduleSlot{
		{TeacherID: "T1", ClassID: "C1", Day: time.Tuesday, Period: 2, Room: "Lab A"},
		{TeacherID: "T2", ClassID: "C2", Day: time.Tuesday, Period: 2, Room: " Lab A "},
		{TeacherID: "T3", ClassID: "C3", Day: time.Tuesday, Period: 2},
		{TeacherID: "T4", ClassID: "C4", Day: time.Tuesday, Period: 2, Room: "   "},
	}
	conflicts := Audit(slots)
	require.Len(t, conflicts, 1)
	assert.Equal(t, ConflictRoom, conflicts[0].Kind)
	assert.Equal(t, SeverityWarning, conflicts[0].Severity)
	assert.Equal(t, "Lab A", conflicts[0].Room)
	assert.Contains(t, conflicts[0].Remediation, "different room")
}

func TestAuditRoomsDifferingInCaseAreDistinct(t *testing.T) {
	slots := []ScheduleSlot{
		{TeacherID: "T1", ClassID: "C1", Day: time.Friday, Period: 3, Room: "Lab"},
		{TeacherID: "T2", ClassID: "C2", Day: time.Friday, Period: 3, Room: "lab"},
	}
	assert.Empty(t, Audit(slots))
}

func TestAuditTeacherAndRoomConflictsStayIndependent(t *testing.T) {
	slots := []ScheduleSlot{
		{TeacherID: "T1", ClassID: "C1", Day: time.Monday, Period: 1, Room: "R1"},
		{TeacherID: "T1", ClassID: "C2", Day: time.Monday, Period: 1, Room: "R2"},
		{TeacherID: "T2", ClassID: "C3", Day: time.Wednesday, Period: 4, Room: "R9"},
		{TeacherID: "T3", ClassID: "C4", Day: time.Wednesday, Period: 4, Room: "R9"},
	}
	conflicts := Audit(slots)
	require.Len(t, conflicts, 2)
	assert.Equal(t, ConflictTeacherDoubleBooking, conflicts[0].Kind)
	assert.Equal(t, ConflictRoom, conflicts[1].Kind)

	summary := Summarize(conflicts)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.ByKind[ConflictTeacherDoubleBooking])
	assert.Equal(t, 1, summary.ByKind[ConflictRoom])
	assert.True(t, summary.HasCritical())
}

func TestAuditSameSlotCanHitBothPasses(t *testing.T) {
	slots := []ScheduleSlot{
		{TeacherID: "T1", ClassID: "C1", Day: time.Monday, Period: 1, Room: "R1"},
		{TeacherID: "T1", ClassID: "C2", Day: time.Monday, Period: 1, Room: "R1"},
	}
	conflicts := Audit(slots)
	require.Len(t, conflicts, 2)
	assert.Equal(t, ConflictTeacherDoubleBooking, conflicts[0].Kind)
	assert.Equal(t, ConflictRoom, conflicts[1].Kind)
}

func TestAuditIsIdempotentAndDoesNotMutate(t *testing.T) {
	slots := []ScheduleSlot{
		{TeacherID: "T1", ClassID: "C1", Day: time.Monday, Period: 1, Room: "R1"},
		{TeacherID: "T1", ClassID: "C2", Day: time.Monday, Period: 1, Room: "R1"},
		{TeacherID: "T2", ClassID: "C3", Day: time.Monday, Period: 1, Room: "R1"},
	}
	snapshot := append([]ScheduleSlot(nil), slots...)
	assert.Equal(t, Audit(slots), Audit(slots))
	assert.Equal(t, snapshot, slots)

	summary := Summarize(nil)
	assert.Zero(t, summary.Total)
	assert.False(t, summary.HasCritical())
}
