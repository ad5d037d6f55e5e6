package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Timetable is the persisted header of a lifecycle-managed schedule.
type Timetable struct {
	ID              string         `db:"id" json:"id"`
	Name            string         `db:"name" json:"name"`
	Type            string         `db:"type" json:"type"`
	InstitutionID   string         `db:"institution_id" json:"institution_id"`
	AcademicYearID  string         `db:"academic_year_id" json:"academic_year_id"`
	EffectiveFrom   time.Time      `db:"effective_from" json:"effective_from"`
	EffectiveTo     time.Time      `db:"effective_to" json:"effective_to"`
	Status          string         `db:"status" json:"status"`
	CreatedBy       string         `db:"created_by" json:"created_by"`
	SubmittedAt     *time.Time     `db:"submitted_at" json:"submitted_at,omitempty"`
	ApprovedBy      *string        `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time     `db:"approved_at" json:"approved_at,omitempty"`
	RejectedBy      *string        `db:"rejected_by" json:"rejected_by,omitempty"`
	RejectedAt      *time.Time     `db:"rejected_at" json:"rejected_at,omitempty"`
	RejectionReason string         `db:"rejection_reason" json:"rejection_reason,omitempty"`
	Notes           string         `db:"notes" json:"notes,omitempty"`
	ProposalID      *string        `db:"proposal_id" json:"proposal_id,omitempty"`
	Meta            types.JSONText `db:"meta" json:"meta"`
	Version         int            `db:"version" json:"version"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// TimetableSlot is one persisted lesson of a timetable.
type TimetableSlot struct {
	ID          string  `db:"id" json:"id"`
	TimetableID string  `db:"timetable_id" json:"timetable_id"`
	TeacherID   string  `db:"teacher_id" json:"teacher_id"`
	ClassID     string  `db:"class_id" json:"class_id"`
	SubjectID   string  `db:"subject_id" json:"subject_id"`
	DayOfWeek   int     `db:"day_of_week" json:"day_of_week"`
	Period      int     `db:"period" json:"period"`
	StartTime   string  `db:"start_time" json:"start_time"`
	EndTime     string  `db:"end_time" json:"end_time"`
	Room        *string `db:"room" json:"room,omitempty"`
	Kind        string  `db:"kind" json:"kind"`
}

// TimetableFilter narrows timetable listings.
type TimetableFilter struct {
	InstitutionID  string
	AcademicYearID string
	Status         string
	Page           int
	PageSize       int
}
