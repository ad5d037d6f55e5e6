package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

var (
	// ErrStaleVersion is returned when a write races with another writer.
	ErrStaleVersion = errors.New("timetable version is stale")
	// ErrTimetableLocked is returned when deleting a timetable that is in effect.
	ErrTimetableLocked = errors.New("timetable is active")
)

const timetableColumns = `id, name, type, institution_id, academic_year_id, effective_from, effective_to, status,
created_by, submitted_at, approved_by, approved_at, rejected_by, rejected_at, rejection_reason, notes,
proposal_id, meta, version, created_at, updated_at`

// TimetableRepository persists timetable headers.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a new timetable header.
func (r *TimetableRepository) Create(ctx context.Context, exec sqlx.ExtContext, timetable *models.Timetable) error {
	if timetable == nil {
		return fmt.Errorf("timetable payload is nil")
	}
	if timetable.ID == "" {
		timetable.ID = uuid.NewString()
	}
	if len(timetable.Meta) == 0 {
		timetable.Meta = types.JSONText(`{}`)
	}
	if timetable.Version == 0 {
		timetable.Version = 1
	}
	now := time.Now().UTC()
	if timetable.CreatedAt.IsZero() {
		timetable.CreatedAt = now
	}
	timetable.UpdatedAt = now

	const query = `
INSERT INTO timetables (id, name, type, institution_id, academic_year_id, effective_from, effective_to, status,
	created_by, submitted_at, approved_by, approved_at, rejected_by, rejected_at, rejection_reason, notes,
	proposal_id, meta, version, created_at, updated_at)
VALUES (:id, :name, :type, :institution_id, :academic_year_id, :effective_from, :effective_to, :status,
	:created_by, :submitted_at, :approved_by, :approved_at, :rejected_by, :rejected_at, :rejection_reason, :notes,
	:proposal_id, :meta, :version, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, timetable); err != nil {
		return fmt.Errorf("insert timetable: %w", err)
	}
	return nil
}

// FindByID loads a timetable header.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	query := `SELECT ` + timetableColumns + ` FROM timetables WHERE id = $1`
	var timetable models.Timetable
	if err := r.db.GetContext(ctx, &timetable, query, id); err != nil {
		return nil, err
	}
	return &timetable, nil
}

// List returns a page of timetables and the total count matching the filter.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.Timetable, int, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.InstitutionID != "" {
		args = append(args, filter.InstitutionID)
		conditions = append(conditions, fmt.Sprintf("institution_id = $%d", len(args)))
	}
	if filter.AcademicYearID != "" {
		args = append(args, filter.AcademicYearID)
		conditions = append(conditions, fmt.Sprintf("academic_year_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM timetables`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count timetables: %w", err)
	}

	page, size := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	args = append(args, size, (page-1)*size)
	query := fmt.Sprintf(`SELECT %s FROM timetables%s ORDER BY effective_from DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		timetableColumns, where, len(args)-1, len(args))

	var timetables []models.Timetable
	if err := r.db.SelectContext(ctx, &timetables, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list timetables: %w", err)
	}
	return timetables, total, nil
}

// Update writes the mutable columns when the stored version still equals expectedVersion.
// sql.ErrNoRows is returned for a missing row and ErrStaleVersion for a lost race.
func (r *TimetableRepository) Update(ctx context.Context, exec sqlx.ExtContext, timetable *models.Timetable, expectedVersion int) error {
	target := r.exec(exec)
	timetable.UpdatedAt = time.Now().UTC()

	const query = `
UPDATE timetables SET name = $1, status = $2, submitted_at = $3, approved_by = $4, approved_at = $5,
	rejected_by = $6, rejected_at = $7, rejection_reason = $8, notes = $9, version = $10, updated_at = $11
WHERE id = $12 AND version = $13`
	result, err := target.ExecContext(ctx, query,
		timetable.Name, timetable.Status, timetable.SubmittedAt, timetable.ApprovedBy, timetable.ApprovedAt,
		timetable.RejectedBy, timetable.RejectedAt, timetable.RejectionReason, timetable.Notes, timetable.Version,
		timetable.UpdatedAt, timetable.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update timetable: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	if err := sqlx.GetContext(ctx, target, &exists, `SELECT EXISTS(SELECT 1 FROM timetables WHERE id = $1)`, timetable.ID); err != nil {
		return fmt.Errorf("check timetable existence: %w", err)
	}
	if !exists {
		return sql.ErrNoRows
	}
	return ErrStaleVersion
}

// Delete removes a timetable at expectedVersion unless it is active; slots cascade.
// On a miss it reports sql.ErrNoRows, ErrTimetableLocked or ErrStaleVersion.
func (r *TimetableRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string, expectedVersion int) error {
	target := r.exec(exec)
	result, err := target.ExecContext(ctx,
		`DELETE FROM timetables WHERE id = $1 AND version = $2 AND status <> 'active'`, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("delete timetable: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var status string
	if err := sqlx.GetContext(ctx, target, &status, `SELECT status FROM timetables WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("check timetable status: %w", err)
	}
	if status == "active" {
		return ErrTimetableLocked
	}
	return ErrStaleVersion
}
