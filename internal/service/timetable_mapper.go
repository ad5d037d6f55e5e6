package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func obligationsFromRequest(items []dto.ObligationRequest) []timetable.TeachingObligation {
	out := make([]timetable.TeachingObligation, 0, len(items))
	for _, item := range items {
		out = append(out, timetable.TeachingObligation{
			TeacherID:   item.TeacherID,
			ClassID:     item.ClassID,
			SubjectID:   item.SubjectID,
			WeeklyHours: item.WeeklyHours,
			RoomHint:    item.RoomHint,
		})
	}
	return out
}

func obligationsFromLoads(loads []models.TeachingLoad) []timetable.TeachingObligation {
	out := make([]timetable.TeachingObligation, 0, len(loads))
	for _, load := range loads {
		ob := timetable.TeachingObligation{
			TeacherID:   load.TeacherID,
			ClassID:     load.ClassID,
			SubjectID:   load.SubjectID,
			WeeklyHours: load.WeeklyHours,
		}
		if load.RoomHint != nil {
			ob.RoomHint = *load.RoomHint
		}
		out = append(out, ob)
	}
	return out
}

func gridFromRequest(req *dto.GridRequest) timetable.TimeGrid {
	days := make([]time.Weekday, 0, len(req.WorkingDays))
	for _, d := range req.WorkingDays {
		days = append(days, time.Weekday(d))
	}
	return timetable.TimeGrid{
		WorkingDays:   days,
		PeriodsPerDay: req.PeriodsPerDay,
		BreakPeriods:  append([]int(nil), req.BreakPeriods...),
	}
}

func gridFromSetting(setting *models.TimeGridSetting) timetable.TimeGrid {
	days := make([]time.Weekday, 0, len(setting.WorkingDays))
	for _, d := range setting.WorkingDays {
		days = append(days, time.Weekday(d))
	}
	breaks := make([]int, 0, len(setting.BreakPeriods))
	for _, b := range setting.BreakPeriods {
		breaks = append(breaks, int(b))
	}
	return timetable.TimeGrid{WorkingDays: days, PeriodsPerDay: setting.PeriodsPerDay, BreakPeriods: breaks}
}

func gridFromPreset(preset config.GridPreset) (timetable.TimeGrid, []timetable.TimeSlotDefinition) {
	days := make([]time.Weekday, 0, len(preset.WorkingDays))
	for _, d := range preset.WorkingDays {
		days = append(days, time.Weekday(d))
	}
	defs := make([]timetable.TimeSlotDefinition, 0, len(preset.Periods))
	for _, p := range preset.Periods {
		defs = append(defs, timetable.TimeSlotDefinition{Period: p.Period, StartTime: p.StartTime, EndTime: p.EndTime})
	}
	grid := timetable.TimeGrid{
		WorkingDays:   days,
		PeriodsPerDay: preset.PeriodsPerDay,
		BreakPeriods:  append([]int(nil), preset.BreakPeriods...),
	}
	return grid, defs
}

func periodsFromRequest(items []dto.PeriodRequest) []timetable.TimeSlotDefinition {
	out := make([]timetable.TimeSlotDefinition, 0, len(items))
	for _, p := range items {
		out = append(out, timetable.TimeSlotDefinition{Period: p.Period, StartTime: p.StartTime, EndTime: p.EndTime})
	}
	return out
}

func periodsFromModels(items []models.PeriodDefinition) []timetable.TimeSlotDefinition {
	out := make([]timetable.TimeSlotDefinition, 0, len(items))
	for _, p := range items {
		out = append(out, timetable.TimeSlotDefinition{Period: p.Period, StartTime: p.StartTime, EndTime: p.EndTime})
	}
	return out
}

func slotFromModel(row models.TimetableSlot) timetable.ScheduleSlot {
	slot := timetable.ScheduleSlot{
		TeacherID: row.TeacherID,
		ClassID:   row.ClassID,
		SubjectID: row.SubjectID,
		Day:       time.Weekday(row.DayOfWeek),
		Period:    row.Period,
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		Kind:      timetable.SlotKind(row.Kind),
	}
	if row.Room != nil {
		slot.Room = *row.Room
	}
	return slot
}

func slotsFromModels(rows []models.TimetableSlot) []timetable.ScheduleSlot {
	out := make([]timetable.ScheduleSlot, 0, len(rows))
	for _, row := range rows {
		out = append(out, slotFromModel(row))
	}
	return out
}

func slotModels(slots []timetable.ScheduleSlot) []models.TimetableSlot {
	out := make([]models.TimetableSlot, 0, len(slots))
	for _, slot := range slots {
		row := models.TimetableSlot{
			TeacherID: slot.TeacherID,
			ClassID:   slot.ClassID,
			SubjectID: slot.SubjectID,
			DayOfWeek: int(slot.Day),
			Period:    slot.Period,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Kind:      string(slot.Kind),
		}
		if row.Kind == "" {
			row.Kind = string(timetable.SlotKindRegular)
		}
		if room := strings.TrimSpace(slot.Room); room != "" {
			row.Room = &room
		}
		out = append(out, row)
	}
	return out
}

// scheduleFromModel rebuilds the aggregate from its stored header and slots.
func scheduleFromModel(row *models.Timetable, slots []models.TimetableSlot) *timetable.Schedule {
	s := &timetable.Schedule{
		ID:              row.ID,
		Name:            row.Name,
		Type:            timetable.ScheduleType(row.Type),
		InstitutionID:   row.InstitutionID,
		AcademicYearID:  row.AcademicYearID,
		EffectiveFrom:   row.EffectiveFrom,
		EffectiveTo:     row.EffectiveTo,
		Status:          timetable.Status(row.Status),
		Slots:           slotsFromModels(slots),
		CreatedBy:       row.CreatedBy,
		SubmittedAt:     row.SubmittedAt,
		ApprovedAt:      row.ApprovedAt,
		RejectedAt:      row.RejectedAt,
		RejectionReason: row.RejectionReason,
		Notes:           row.Notes,
		Version:         row.Version,
	}
	if row.ApprovedBy != nil {
		s.ApprovedBy = *row.ApprovedBy
	}
	if row.RejectedBy != nil {
		s.RejectedBy = *row.RejectedBy
	}
	return s
}

// applyScheduleToModel copies the mutable aggregate state back onto the row.
func applyScheduleToModel(s *timetable.Schedule, row *models.Timetable) {
	row.Name = s.Name
	row.Status = string(s.Status)
	row.SubmittedAt = s.SubmittedAt
	row.ApprovedBy = optionalString(s.ApprovedBy)
	row.ApprovedAt = s.ApprovedAt
	row.RejectedBy = optionalString(s.RejectedBy)
	row.RejectedAt = s.RejectedAt
	row.RejectionReason = s.RejectionReason
	row.Notes = s.Notes
	row.Version = s.Version
}

func modelFromSchedule(s *timetable.Schedule) *models.Timetable {
	row := &models.Timetable{
		ID:             s.ID,
		Type:           string(s.Type),
		InstitutionID:  s.InstitutionID,
		AcademicYearID: s.AcademicYearID,
		EffectiveFrom:  s.EffectiveFrom,
		EffectiveTo:    s.EffectiveTo,
		CreatedBy:      s.CreatedBy,
	}
	applyScheduleToModel(s, row)
	return row
}

func summaryFromModel(row models.Timetable) dto.TimetableSummary {
	return dto.TimetableSummary{
		ID:             row.ID,
		Name:           row.Name,
		Type:           row.Type,
		InstitutionID:  row.InstitutionID,
		AcademicYearID: row.AcademicYearID,
		Status:         row.Status,
		EffectiveFrom:  row.EffectiveFrom,
		EffectiveTo:    row.EffectiveTo,
		Version:        row.Version,
	}
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// validateSlots checks the fields a stored slot needs. Collisions are left to the auditor.
func validateSlots(slots []timetable.ScheduleSlot) error {
	for i, slot := range slots {
		switch {
		case slot.TeacherID == "" || slot.ClassID == "" || slot.SubjectID == "":
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %d: teacher, class and subject are required", i))
		case slot.Day < time.Sunday || slot.Day > time.Saturday:
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %d: day %d is out of range", i, slot.Day))
		case slot.Period < 1:
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %d: period must be positive", i))
		case slot.Kind != "" && !slot.Kind.Valid():
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %d: unknown kind %q", i, slot.Kind))
		}
	}
	return nil
}
