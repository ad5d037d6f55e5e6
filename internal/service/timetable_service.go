package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type timetableRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, timetable *models.Timetable) error
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
	List(ctx context.Context, filter models.TimetableFilter) ([]models.Timetable, int, error)
	Update(ctx context.Context, exec sqlx.ExtContext, timetable *models.Timetable, expectedVersion int) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id string, expectedVersion int) error
}

type timetableSlotRepository interface {
	ReplaceForTimetable(ctx context.Context, exec sqlx.ExtContext, timetableID string, slots []models.TimetableSlot) error
	ListByTimetable(ctx context.Context, timetableID string) ([]models.TimetableSlot, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// Lifecycle actions accepted by Transition.
const (
	ActionSubmit   = "submit"
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionActivate = "activate"
	ActionComplete = "complete"
	ActionCancel   = "cancel"
)

// TimetableService persists schedules and drives their lifecycle. Each write checks the
// stored version so concurrent editors cannot overwrite each other.
type TimetableService struct {
	timetables timetableRepository
	slots      timetableSlotRepository
	proposals  ProposalStore
	tx         txProvider
	grids      timeGridReader
	preset     config.GridPreset
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewTimetableService wires lifecycle dependencies. A nil clock defaults to time.Now.
func NewTimetableService(
	timetables timetableRepository,
	slots timetableSlotRepository,
	proposals ProposalStore,
	tx txProvider,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	clock func() time.Time,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}
	return &TimetableService{
		timetables: timetables,
		slots:      slots,
		proposals:  proposals,
		tx:         tx,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		now:        clock,
		preset:     config.DefaultGridPreset(),
	}
}

// UseGrids sets where manual slots are checked against: the institution's stored grid,
// falling back to preset when none is stored.
func (s *TimetableService) UseGrids(grids timeGridReader, preset config.GridPreset) {
	s.grids = grids
	if preset.PeriodsPerDay > 0 {
		s.preset = preset
	}
}

// Create stores a draft built from a ready proposal or from manual slots.
func (s *TimetableService) Create(ctx context.Context, req dto.CreateTimetableRequest, actorID string) (*timetable.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}

	draft := timetable.ScheduleDraft{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Type:           timetable.ScheduleType(req.Type),
		InstitutionID:  req.InstitutionID,
		AcademicYearID: req.AcademicYearID,
		EffectiveFrom:  req.EffectiveFrom,
		EffectiveTo:    req.EffectiveTo,
		CreatedBy:      actorID,
		Notes:          req.Notes,
		Slots:          req.Slots,
	}
	meta := map[string]any{"source": "manual"}

	var proposal *dto.TimetableProposal
	if req.ProposalID != "" {
		if s.proposals == nil {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "proposal storage unavailable")
		}
		var err error
		proposal, err = s.proposals.Get(ctx, req.ProposalID)
		if err != nil {
			return nil, err
		}
		if proposal.Status != dto.ProposalReady || proposal.Result == nil {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "proposal is not ready")
		}
		draft.InstitutionID = proposal.InstitutionID
		draft.AcademicYearID = proposal.AcademicYearID
		draft.Slots = proposal.Result.Slots
		meta = map[string]any{
			"source":      "generator",
			"proposalId":  proposal.ID,
			"requested":   proposal.Result.Requested,
			"placed":      proposal.Result.Placed,
			"shortfall":   proposal.Result.Shortfall(),
			"conflicts":   proposal.Summary,
			"grid":        proposal.Grid,
			"generatedAt": proposal.GeneratedAt,
		}
	}

	if err := validateSlots(draft.Slots); err != nil {
		return nil, err
	}
	if proposal == nil {
		if err := s.checkOnGrid(ctx, draft.InstitutionID, draft.Slots); err != nil {
			return nil, err
		}
	}
	schedule, err := timetable.NewSchedule(draft)
	if err != nil {
		return nil, err
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode timetable metadata")
	}
	record := modelFromSchedule(schedule)
	record.Meta = types.JSONText(metaBytes)
	if proposal != nil {
		record.ProposalID = &proposal.ID
	}

	if err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.timetables.Create(ctx, tx, record); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable")
		}
		if err := s.slots.ReplaceForTimetable(ctx, tx, record.ID, slotModels(schedule.Slots)); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable slots")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if proposal != nil {
		if err := s.proposals.Delete(ctx, proposal.ID); err != nil {
			s.logger.Warn("failed to drop saved proposal", zap.String("proposal_id", proposal.ID), zap.Error(err))
		}
	}
	s.logger.Info("timetable created",
		zap.String("timetable_id", schedule.ID),
		zap.String("institution_id", schedule.InstitutionID),
		zap.Int("slots", len(schedule.Slots)),
		zap.String("actor_id", actorID))
	return schedule, nil
}

// Get loads a schedule with its slots.
func (s *TimetableService) Get(ctx context.Context, id string) (*timetable.Schedule, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.slots.ListByTimetable(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable slots")
	}
	return scheduleFromModel(record, rows), nil
}

// List returns timetable summaries.
func (s *TimetableService) List(ctx context.Context, query dto.TimetableQuery) ([]dto.TimetableSummary, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable query")
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}
	rows, total, err := s.timetables.List(ctx, models.TimetableFilter{
		InstitutionID:  query.InstitutionID,
		AcademicYearID: query.AcademicYearID,
		Status:         query.Status,
		Page:           query.Page,
		PageSize:       query.PageSize,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}
	items := make([]dto.TimetableSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, summaryFromModel(row))
	}
	return items, &models.Pagination{Page: query.Page, PageSize: query.PageSize, TotalCount: total}, nil
}

// Conflicts audits the stored slots of a timetable.
func (s *TimetableService) Conflicts(ctx context.Context, id string) (*dto.AuditResponse, error) {
	schedule, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	conflicts := timetable.Audit(schedule.Slots)
	return &dto.AuditResponse{Conflicts: conflicts, Summary: timetable.Summarize(conflicts)}, nil
}

// ReplaceSlots swaps the slots of a draft.
func (s *TimetableService) ReplaceSlots(ctx context.Context, id string, req dto.ReplaceSlotsRequest, actorID string) (*timetable.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	if err := validateSlots(req.Slots); err != nil {
		return nil, err
	}
	schedule, record, err := s.loadForWrite(ctx, id, req.Version)
	if err != nil {
		return nil, err
	}
	if err := s.checkOnGrid(ctx, record.InstitutionID, req.Slots); err != nil {
		return nil, err
	}
	if err := schedule.ReplaceSlots(req.Slots); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, schedule, record, req.Version, true); err != nil {
		return nil, err
	}
	s.logger.Info("timetable slots replaced",
		zap.String("timetable_id", id),
		zap.Int("slots", len(schedule.Slots)),
		zap.String("actor_id", actorID))
	return schedule, nil
}

// Transition applies a lifecycle action on behalf of actorID.
func (s *TimetableService) Transition(ctx context.Context, id, action string, req dto.TransitionRequest, actorID string) (*timetable.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transition payload")
	}
	schedule, record, err := s.loadForWrite(ctx, id, req.Version)
	if err != nil {
		return nil, err
	}

	at := s.now()
	switch action {
	case ActionSubmit:
		err = schedule.Submit(actorID, at)
	case ActionApprove:
		if critical := criticalConflicts(schedule.Slots); critical > 0 {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("timetable has %d unresolved critical conflicts", critical))
		}
		err = schedule.Approve(actorID, at)
	case ActionReject:
		err = schedule.Reject(actorID, req.Reason, at)
	case ActionActivate:
		err = schedule.Activate(at)
	case ActionComplete:
		err = schedule.Complete()
	case ActionCancel:
		err = schedule.Cancel()
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown action %q", action))
	}
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, schedule, record, req.Version, false); err != nil {
		return nil, err
	}
	s.metrics.ObserveTransition(action)
	s.logger.Info("timetable transitioned",
		zap.String("timetable_id", id),
		zap.String("action", action),
		zap.String("status", string(schedule.Status)),
		zap.Int("version", schedule.Version),
		zap.String("actor_id", actorID))
	return schedule, nil
}

// Delete removes a timetable that is not in effect. The storage layer re-checks status and
// version, so an activation racing with the delete still wins.
func (s *TimetableService) Delete(ctx context.Context, id string, version int, actorID string) error {
	if version < 1 {
		return appErrors.Clone(appErrors.ErrValidation, "version is required")
	}
	record, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	schedule := scheduleFromModel(record, nil)
	if err := schedule.CanDelete(); err != nil {
		return err
	}
	if record.Version != version {
		return staleVersionError(record.Version)
	}
	if err := s.timetables.Delete(ctx, nil, id, version); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		case errors.Is(err, repository.ErrTimetableLocked):
			return appErrors.Clone(appErrors.ErrScheduleLocked, "active schedules cannot be deleted; deactivate it first")
		case errors.Is(err, repository.ErrStaleVersion):
			return staleVersionError(version)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable")
	}
	s.logger.Info("timetable deleted", zap.String("timetable_id", id), zap.Int("version", version), zap.String("actor_id", actorID))
	return nil
}

// checkOnGrid rejects slots on a non-working day, outside the day's periods or on a break.
func (s *TimetableService) checkOnGrid(ctx context.Context, institutionID string, slots []timetable.ScheduleSlot) error {
	grid, _ := gridFromPreset(s.preset)
	if s.grids != nil {
		setting, err := s.grids.FindByInstitution(ctx, institutionID)
		switch {
		case err == nil:
			grid = gridFromSetting(setting)
		case !errors.Is(err, sql.ErrNoRows):
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time grid")
		}
	}
	for i, slot := range slots {
		if err := grid.CheckSlot(slot.Day, slot.Period); err != nil {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %d: %s", i, appErrors.FromError(err).Message))
		}
	}
	return nil
}

func (s *TimetableService) load(ctx context.Context, id string) (*models.Timetable, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "timetable id is required")
	}
	record, err := s.timetables.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return record, nil
}

func (s *TimetableService) loadForWrite(ctx context.Context, id string, version int) (*timetable.Schedule, *models.Timetable, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if record.Version != version {
		return nil, nil, staleVersionError(record.Version)
	}
	rows, err := s.slots.ListByTimetable(ctx, id)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable slots")
	}
	return scheduleFromModel(record, rows), record, nil
}

func (s *TimetableService) persist(ctx context.Context, schedule *timetable.Schedule, record *models.Timetable, expectedVersion int, withSlots bool) error {
	applyScheduleToModel(schedule, record)
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.timetables.Update(ctx, tx, record, expectedVersion); err != nil {
			switch {
			case errors.Is(err, repository.ErrStaleVersion):
				return staleVersionError(expectedVersion)
			case errors.Is(err, sql.ErrNoRows):
				return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable")
		}
		if withSlots {
			if err := s.slots.ReplaceForTimetable(ctx, tx, record.ID, slotModels(schedule.Slots)); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable slots")
			}
		}
		return nil
	})
}

func (s *TimetableService) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable transaction")
	}
	return nil
}

func staleVersionError(version int) error {
	return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("timetable was modified concurrently; reload (version %d) and retry", version))
}

func criticalConflicts(slots []timetable.ScheduleSlot) int {
	return timetable.Summarize(timetable.Audit(slots)).BySeverity[timetable.SeverityCritical]
}
