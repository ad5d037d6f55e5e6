package timetable

import (
	"fmt"
	"strings"
	"time"

	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

// ScheduleType categorises a schedule.
type ScheduleType string

const (
	ScheduleTypeWeekly  ScheduleType = "weekly"
	ScheduleTypeDaily   ScheduleType = "daily"
	ScheduleTypeExam    ScheduleType = "exam"
	ScheduleTypeSpecial ScheduleType = "special"
)

// Valid reports whether the type is known.
func (t ScheduleType) Valid() bool {
	switch t {
	case ScheduleTypeWeekly, ScheduleTypeDaily, ScheduleTypeExam, ScheduleTypeSpecial:
		return true
	}
	return false
}

// Status is the lifecycle phase of a schedule.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusApproved  Status = "approved"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Schedule is the lifecycle-managed aggregate of slots for an institution and
// academic year. Every method checks its precondition before touching state, so a
// failed call leaves the schedule exactly as it was. Version grows with each
// applied change and backs optimistic concurrency in storage.
type Schedule struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Type            ScheduleType   `json:"type"`
	InstitutionID   string         `json:"institutionId"`
	AcademicYearID  string         `json:"academicYearId"`
	EffectiveFrom   time.Time      `json:"effectiveFrom"`
	EffectiveTo     time.Time      `json:"effectiveTo"`
	Status          Status         `json:"status"`
	Slots           []ScheduleSlot `json:"slots"`
	CreatedBy       string         `json:"createdBy"`
	SubmittedAt     *time.Time     `json:"submittedAt,omitempty"`
	ApprovedBy      string         `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time     `json:"approvedAt,omitempty"`
	RejectedBy      string         `json:"rejectedBy,omitempty"`
	RejectedAt      *time.Time     `json:"rejectedAt,omitempty"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	Version         int            `json:"version"`
}

// ScheduleDraft carries the fields needed to open a new schedule.
type ScheduleDraft struct {
	ID             string
	Name           string
	Type           ScheduleType
	InstitutionID  string
	AcademicYearID string
	EffectiveFrom  time.Time
	EffectiveTo    time.Time
	CreatedBy      string
	Notes          string
	Slots          []ScheduleSlot
}

// NewSchedule opens a schedule in draft.
func NewSchedule(d ScheduleDraft) (*Schedule, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schedule name is required")
	}
	if d.Type == "" {
		d.Type = ScheduleTypeWeekly
	}
	if !d.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown schedule type %q", d.Type))
	}
	if d.InstitutionID == "" || d.AcademicYearID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "institution and academic year are required")
	}
	if d.EffectiveFrom.IsZero() || d.EffectiveTo.IsZero() || d.EffectiveTo.Before(d.EffectiveFrom) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "effective date range is invalid")
	}
	return &Schedule{
		ID:             d.ID,
		Name:           strings.TrimSpace(d.Name),
		Type:           d.Type,
		InstitutionID:  d.InstitutionID,
		AcademicYearID: d.AcademicYearID,
		EffectiveFrom:  d.EffectiveFrom,
		EffectiveTo:    d.EffectiveTo,
		Status:         StatusDraft,
		Slots:          copySlots(d.Slots),
		CreatedBy:      d.CreatedBy,
		Notes:          d.Notes,
		Version:        1,
	}, nil
}

// CanEditSlots reports whether the slot collection may change.
func (s *Schedule) CanEditSlots() bool {
	return s.Status == StatusDraft
}

// ReplaceSlots swaps the whole slot collection. Draft only.
func (s *Schedule) ReplaceSlots(slots []ScheduleSlot) error {
	if !s.CanEditSlots() {
		return s.transitionError("edit slots of")
	}
	s.Slots = copySlots(slots)
	s.Version++
	return nil
}

// AddSlots appends slots. Draft only.
func (s *Schedule) AddSlots(slots ...ScheduleSlot) error {
	if !s.CanEditSlots() {
		return s.transitionError("edit slots of")
	}
	s.Slots = append(copySlots(s.Slots), slots...)
	s.Version++
	return nil
}

// AwaitingApproval reports whether the draft was submitted and not yet decided.
func (s *Schedule) AwaitingApproval() bool {
	return s.Status == StatusDraft && s.SubmittedAt != nil
}

// Submit marks a draft as awaiting approval.
func (s *Schedule) Submit(actorID string, at time.Time) error {
	if actorID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "actor is required")
	}
	if s.Status != StatusDraft {
		return s.transitionError("submit")
	}
	if s.SubmittedAt != nil {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "schedule is already awaiting approval")
	}
	ts := at.UTC()
	s.SubmittedAt = &ts
	s.Version++
	return nil
}

// Approve moves a draft to approved, recording who approved it and when.
func (s *Schedule) Approve(approverID string, at time.Time) error {
	if approverID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "approver is required")
	}
	if s.Status != StatusDraft {
		return s.transitionError("approve")
	}
	ts := at.UTC()
	s.Status = StatusApproved
	s.ApprovedBy = approverID
	s.ApprovedAt = &ts
	s.RejectionReason = ""
	s.Version++
	return nil
}

// Reject sends a submitted draft back to its author. Slots are kept.
func (s *Schedule) Reject(approverID, reason string, at time.Time) error {
	if approverID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "approver is required")
	}
	if strings.TrimSpace(reason) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "rejection reason is required")
	}
	if s.Status != StatusDraft {
		return s.transitionError("reject")
	}
	if s.SubmittedAt == nil {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "cannot reject a draft that was not submitted for approval")
	}
	ts := at.UTC()
	s.SubmittedAt = nil
	s.RejectedBy = approverID
	s.RejectedAt = &ts
	s.RejectionReason = strings.TrimSpace(reason)
	s.Version++
	return nil
}

// InEffect reports whether at falls inside the effective window. EffectiveTo is
// inclusive of its whole calendar day.
func (s *Schedule) InEffect(at time.Time) bool {
	end := s.EffectiveTo.AddDate(0, 0, 1)
	return !at.Before(s.EffectiveFrom) && at.Before(end)
}

// Activate puts an approved schedule into effect once its window has opened.
func (s *Schedule) Activate(at time.Time) error {
	if s.Status != StatusApproved {
		return s.transitionError("activate")
	}
	if !s.InEffect(at) {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "schedule effective window is not open")
	}
	s.Status = StatusActive
	s.Version++
	return nil
}

// Complete closes an active schedule.
func (s *Schedule) Complete() error {
	if s.Status != StatusActive {
		return s.transitionError("complete")
	}
	s.Status = StatusCompleted
	s.Version++
	return nil
}

// Cancel withdraws an approved or active schedule.
func (s *Schedule) Cancel() error {
	if s.Status != StatusApproved && s.Status != StatusActive {
		return s.transitionError("cancel")
	}
	s.Status = StatusCancelled
	s.Version++
	return nil
}

// CanDelete fails with a locked error while the schedule is in effect.
func (s *Schedule) CanDelete() error {
	if s.Status == StatusActive {
		return appErrors.Clone(appErrors.ErrScheduleLocked, "active schedules cannot be deleted; deactivate it first")
	}
	return nil
}

func (s *Schedule) transitionError(action string) error {
	return appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot %s a schedule in status %s", action, s.Status))
}

func copySlots(slots []ScheduleSlot) []ScheduleSlot {
	out := make([]ScheduleSlot, len(slots))
	copy(out, slots)
	return out
}
