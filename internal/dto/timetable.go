package dto

import (
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/timetable"
)

// ObligationRequest is one teaching obligation supplied inline with a generate call.
type ObligationRequest struct {
	TeacherID   string `json:"teacherId" validate:"required"`
	ClassID     string `json:"classId" validate:"required"`
	SubjectID   string `json:"subjectId" validate:"required"`
	WeeklyHours int    `json:"weeklyHours" validate:"min=0,max=60"`
	RoomHint    string `json:"roomHint"`
}

// GridRequest overrides the stored grid for one run.
type GridRequest struct {
	WorkingDays   []int `json:"workingDays" validate:"required,min=1,max=7,dive,min=0,max=6"`
	PeriodsPerDay int   `json:"periodsPerDay" validate:"required,min=1,max=24"`
	BreakPeriods  []int `json:"breakPeriods" validate:"omitempty,dive,min=1"`
}

// PeriodRequest is the clock window of one period.
type PeriodRequest struct {
	Period    int    `json:"period" validate:"required,min=1"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

// GenerateTimetableRequest asks for a proposal. Obligations, grid and periods fall back to
// the institution's stored data when omitted.
type GenerateTimetableRequest struct {
	InstitutionID  string              `json:"institutionId" validate:"required"`
	AcademicYearID string              `json:"academicYearId" validate:"required"`
	Obligations    []ObligationRequest `json:"obligations" validate:"omitempty,dive"`
	Grid           *GridRequest        `json:"grid" validate:"omitempty"`
	Periods        []PeriodRequest     `json:"periods" validate:"omitempty,dive"`
	Kind           string              `json:"kind" validate:"omitempty,oneof=regular exam special"`
	// RespectCommitted blocks periods already used by approved or active timetables of the year.
	RespectCommitted bool   `json:"respectCommitted"`
	ReplacingID      string `json:"replacingId"`
}

// ProposalStatus tracks an async generation.
type ProposalStatus string

const (
	ProposalPending ProposalStatus = "pending"
	ProposalReady   ProposalStatus = "ready"
	ProposalFailed  ProposalStatus = "failed"
)

// TimetableProposal is a cached generation result awaiting a save.
type TimetableProposal struct {
	ID             string                      `json:"proposalId"`
	Status         ProposalStatus              `json:"status"`
	InstitutionID  string                      `json:"institutionId"`
	AcademicYearID string                      `json:"academicYearId"`
	Grid           timetable.TimeGrid          `json:"grid"`
	Result         *timetable.GenerationResult `json:"result,omitempty"`
	Conflicts      []timetable.Conflict        `json:"conflicts"`
	Summary        timetable.ConflictSummary   `json:"summary"`
	Error          string                      `json:"error,omitempty"`
	GeneratedBy    string                      `json:"generatedBy"`
	GeneratedAt    time.Time                   `json:"generatedAt"`
	ExpiresAt      time.Time                   `json:"expiresAt"`
}

// AuditRequest submits an arbitrary slot list for conflict detection.
type AuditRequest struct {
	Slots []timetable.ScheduleSlot `json:"slots" validate:"required"`
}

// AuditResponse lists the conflicts found.
type AuditResponse struct {
	Conflicts []timetable.Conflict      `json:"conflicts"`
	Summary   timetable.ConflictSummary `json:"summary"`
}

// CreateTimetableRequest stores a draft from a proposal or from manual slots.
type CreateTimetableRequest struct {
	ProposalID     string                   `json:"proposalId"`
	Name           string                   `json:"name" validate:"required,max=200"`
	Type           string                   `json:"type" validate:"omitempty,oneof=weekly daily exam special"`
	InstitutionID  string                   `json:"institutionId" validate:"required_without=ProposalID"`
	AcademicYearID string                   `json:"academicYearId" validate:"required_without=ProposalID"`
	EffectiveFrom  time.Time                `json:"effectiveFrom" validate:"required"`
	EffectiveTo    time.Time                `json:"effectiveTo" validate:"required"`
	Notes          string                   `json:"notes"`
	Slots          []timetable.ScheduleSlot `json:"slots"`
}

// ReplaceSlotsRequest swaps the slots of a draft.
type ReplaceSlotsRequest struct {
	Version int                      `json:"version" validate:"required,min=1"`
	Slots   []timetable.ScheduleSlot `json:"slots"`
}

// TransitionRequest drives a lifecycle step. Reason is required for rejections.
type TransitionRequest struct {
	Version int    `json:"version" validate:"required,min=1"`
	Reason  string `json:"reason"`
}

// TimetableQuery filters timetable listings.
type TimetableQuery struct {
	InstitutionID  string `form:"institutionId"`
	AcademicYearID string `form:"academicYearId"`
	Status         string `form:"status" validate:"omitempty,oneof=draft approved active completed cancelled"`
	Page           int    `form:"page" validate:"omitempty,min=1"`
	PageSize       int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// TimetableSummary is a list entry without slots.
type TimetableSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	InstitutionID  string    `json:"institutionId"`
	AcademicYearID string    `json:"academicYearId"`
	Status         string    `json:"status"`
	EffectiveFrom  time.Time `json:"effectiveFrom"`
	EffectiveTo    time.Time `json:"effectiveTo"`
	Version        int       `json:"version"`
}
