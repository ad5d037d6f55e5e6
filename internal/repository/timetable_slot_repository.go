package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

const slotColumns = `id, timetable_id, teacher_id, class_id, subject_id, day_of_week, period, start_time, end_time, room, kind`

// TimetableSlotRepository persists timetable lessons.
type TimetableSlotRepository struct {
	db *sqlx.DB
}

// NewTimetableSlotRepository constructs repository.
func NewTimetableSlotRepository(db *sqlx.DB) *TimetableSlotRepository {
	return &TimetableSlotRepository{db: db}
}

func (r *TimetableSlotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ReplaceForTimetable drops the stored slots of a timetable and writes the given ones.
func (r *TimetableSlotRepository) ReplaceForTimetable(ctx context.Context, exec sqlx.ExtContext, timetableID string, slots []models.TimetableSlot) error {
	target := r.exec(exec)
	if _, err := target.ExecContext(ctx, `DELETE FROM timetable_slots WHERE timetable_id = $1`, timetableID); err != nil {
		return fmt.Errorf("clear timetable slots: %w", err)
	}

	const insertQuery = `
INSERT INTO timetable_slots (id, timetable_id, teacher_id, class_id, subject_id, day_of_week, period, start_time, end_time, room, kind)
VALUES (:id, :timetable_id, :teacher_id, :class_id, :subject_id, :day_of_week, :period, :start_time, :end_time, :room, :kind)`
	for i := range slots {
		slot := &slots[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		slot.TimetableID = timetableID
		if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, slot); err != nil {
			return fmt.Errorf("insert timetable slot: %w", err)
		}
	}
	return nil
}

// ListByTimetable returns slots ordered by day, period and teacher.
func (r *TimetableSlotRepository) ListByTimetable(ctx context.Context, timetableID string) ([]models.TimetableSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM timetable_slots WHERE timetable_id = $1 ORDER BY day_of_week, period, teacher_id`
	var slots []models.TimetableSlot
	if err := r.db.SelectContext(ctx, &slots, query, timetableID); err != nil {
		return nil, fmt.Errorf("list timetable slots: %w", err)
	}
	return slots, nil
}

// ListCommitted returns slots of approved or active timetables in an academic year for the
// given teachers, skipping excludeTimetableID. They block periods for new generation runs.
func (r *TimetableSlotRepository) ListCommitted(ctx context.Context, academicYearID string, teacherIDs []string, excludeTimetableID string) ([]models.TimetableSlot, error) {
	if len(teacherIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
SELECT s.id, s.timetable_id, s.teacher_id, s.class_id, s.subject_id, s.day_of_week, s.period, s.start_time, s.end_time, s.room, s.kind
FROM timetable_slots s
JOIN timetables t ON t.id = s.timetable_id
WHERE t.academic_year_id = ? AND t.status IN ('approved', 'active') AND t.id <> ? AND s.teacher_id IN (?)
ORDER BY s.teacher_id, s.day_of_week, s.period`, academicYearID, excludeTimetableID, teacherIDs)
	if err != nil {
		return nil, fmt.Errorf("build committed slots query: %w", err)
	}
	var slots []models.TimetableSlot
	if err := r.db.SelectContext(ctx, &slots, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list committed slots: %w", err)
	}
	return slots, nil
}
