package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TeachingLoadRepository reads stored obligations.
type TeachingLoadRepository struct {
	db *sqlx.DB
}

// NewTeachingLoadRepository constructs repository.
func NewTeachingLoadRepository(db *sqlx.DB) *TeachingLoadRepository {
	return &TeachingLoadRepository{db: db}
}

// ListByInstitution returns loads with a stable order so generation stays deterministic.
func (r *TeachingLoadRepository) ListByInstitution(ctx context.Context, institutionID, academicYearID string) ([]models.TeachingLoad, error) {
	const query = `SELECT id, institution_id, academic_year_id, teacher_id, class_id, subject_id, weekly_hours, room_hint
FROM teaching_loads WHERE institution_id = $1 AND academic_year_id = $2
ORDER BY teacher_id, class_id, subject_id, id`
	var loads []models.TeachingLoad
	if err := r.db.SelectContext(ctx, &loads, query, institutionID, academicYearID); err != nil {
		return nil, fmt.Errorf("list teaching loads: %w", err)
	}
	return loads, nil
}
