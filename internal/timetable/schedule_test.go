package timetable

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

var approvalTime = time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)

func newDraft(t *testing.T) *Schedule {
	t.Helper()
	s, err := NewSchedule(ScheduleDraft{
		ID:             "sched-1",
		Name:           "Semester 1 weekly",
		InstitutionID:  "inst-1",
		AcademicYearID: "2025",
		EffectiveFrom:  time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC),
		EffectiveTo:    time.Date(2025, 12, 19, 0, 0, 0, 0, time.UTC),
		CreatedBy:      "admin-1",
		Slots:          []ScheduleSlot{{TeacherID: "T1", ClassID: "C1", Day: time.Monday, Period: 1}},
	})
	require.NoError(t, err)
	return s
}

func TestNewScheduleDefaultsAndValidation(t *testing.T) {
	s := newDraft(t)
	assert.Equal(t, StatusDraft, s.Status)
	assert.Equal(t, ScheduleTypeWeekly, s.Type)
	assert.Equal(t, 1, s.Version)

	_, err := NewSchedule(ScheduleDraft{Name: "x", InstitutionID: "i", AcademicYearID: "y",
		EffectiveFrom: time.Now(), EffectiveTo: time.Now().AddDate(0, 0, -1)})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = NewSchedule(ScheduleDraft{Name: "x", Type: "monthly", InstitutionID: "i", AcademicYearID: "y",
		EffectiveFrom: time.Now(), EffectiveTo: time.Now()})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestScheduleApproveFromDraft(t *testing.T) {
	s := newDraft(t)
	require.NoError(t, s.Approve("principal-1", approvalTime))
	assert.Equal(t, StatusApproved, s.Status)
	assert.Equal(t, "principal-1", s.ApprovedBy)
	require.NotNil(t, s.ApprovedAt)
	assert.Equal(t, approvalTime, *s.ApprovedAt)

	err := s.Approve("principal-1", approvalTime)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))
}

func TestApprovedScheduleRejectsSlotMutation(t *testing.T) {
	s := newDraft(t)
	require.NoError(t, s.Approve("principal-1", approvalTime))
	before := append([]ScheduleSlot(nil), s.Slots...)
	version := s.Version

	err := s.ReplaceSlots(nil)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))
	err = s.AddSlots(ScheduleSlot{TeacherID: "T9", Day: time.Friday, Period: 6})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))

	assert.Equal(t, before, s.Slots)
	assert.Equal(t, version, s.Version)
}

func TestDraftSlotMutation(t *testing.T) {
	s := newDraft(t)
	input := []ScheduleSlot{{TeacherID: "T2", Day: time.Tuesday, Period: 2}}
	require.NoError(t, s.ReplaceSlots(input))
	input[0].TeacherID = "changed"
	assert.Equal(t, "T2", s.Slots[0].TeacherID, "slots are copied")

	require.NoError(t, s.AddSlots(ScheduleSlot{TeacherID: "T3", Day: time.Wednesday, Period: 1}))
	assert.Len(t, s.Slots, 2)
	assert.Equal(t, 3, s.Version)
}

func TestScheduleRejectRequiresSubmission(t *testing.T) {
	s := newDraft(t)
	err := s.Reject("principal-1", "wrong teacher", approvalTime)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))

	require.NoError(t, s.Submit("admin-1", approvalTime))
	assert.True(t, s.AwaitingApproval())
	assert.True(t, errors.Is(s.Submit("admin-1", approvalTime), appErrors.ErrInvalidTransition))

	err = s.Reject("principal-1", "  ", approvalTime)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.True(t, s.AwaitingApproval(), "failed reject leaves state untouched")

	require.NoError(t, s.Reject("principal-1", "T1 overloaded on Monday", approvalTime))
	assert.Equal(t, StatusDraft, s.Status)
	assert.False(t, s.AwaitingApproval())
	assert.Equal(t, "T1 overloaded on Monday", s.RejectionReason)
	assert.Equal(t, "principal-1", s.RejectedBy)
	assert.Len(t, s.Slots, 1, "rejection keeps slots")

	require.NoError(t, s.Submit("admin-1", approvalTime))
	require.NoError(t, s.Approve("principal-1", approvalTime))
	assert.Empty(t, s.RejectionReason)
}

func TestScheduleExternalPromotions(t *testing.T) {
	s := newDraft(t)
	assert.True(t, errors.Is(s.Activate(s.EffectiveFrom), appErrors.ErrInvalidTransition))
	require.NoError(t, s.Approve("principal-1", approvalTime))

	early := s.EffectiveFrom.Add(-time.Hour)
	assert.True(t, errors.Is(s.Activate(early), appErrors.ErrInvalidTransition))
	assert.Equal(t, StatusApproved, s.Status)

	lastDay := s.EffectiveTo.Add(15 * time.Hour)
	require.NoError(t, s.Activate(lastDay))
	assert.Equal(t, StatusActive, s.Status)

	err := s.CanDelete()
	assert.True(t, errors.Is(err, appErrors.ErrScheduleLocked))

	require.NoError(t, s.Complete())
	assert.Equal(t, StatusCompleted, s.Status)
	assert.NoError(t, s.CanDelete())
	assert.True(t, errors.Is(s.Cancel(), appErrors.ErrInvalidTransition))
}

func TestScheduleCancel(t *testing.T) {
	s := newDraft(t)
	assert.True(t, errors.Is(s.Cancel(), appErrors.ErrInvalidTransition))
	assert.True(t, errors.Is(s.Complete(), appErrors.ErrInvalidTransition))
	assert.NoError(t, s.CanDelete())

	require.NoError(t, s.Approve("principal-1", approvalTime))
	require.NoError(t, s.Cancel())
	assert.Equal(t, StatusCancelled, s.Status)
}

func TestScheduleLifecycleRequiresActor(t *testing.T) {
	s := newDraft(t)
	assert.True(t, errors.Is(s.Approve("", approvalTime), appErrors.ErrValidation))
	assert.True(t, errors.Is(s.Submit("", approvalTime), appErrors.ErrValidation))
	assert.Equal(t, StatusDraft, s.Status)
	assert.Equal(t, 1, s.Version)
}
