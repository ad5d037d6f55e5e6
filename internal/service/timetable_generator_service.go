package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/jobs"
)

// JobTypeGenerate identifies async generation jobs on the queue.
const JobTypeGenerate = "timetable.generate"

type teachingLoadReader interface {
	ListByInstitution(ctx context.Context, institutionID, academicYearID string) ([]models.TeachingLoad, error)
}

type timeGridReader interface {
	FindByInstitution(ctx context.Context, institutionID string) (*models.TimeGridSetting, error)
	ListPeriods(ctx context.Context, institutionID string) ([]models.PeriodDefinition, error)
}

type committedSlotReader interface {
	ListCommitted(ctx context.Context, academicYearID string, teacherIDs []string, excludeTimetableID string) ([]models.TimetableSlot, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// TimetableGeneratorConfig governs generator behaviour.
type TimetableGeneratorConfig struct {
	ProposalTTL time.Duration
	GridPreset  config.GridPreset
}

// TimetableGeneratorService turns obligations into cached proposals and audits slot lists.
type TimetableGeneratorService struct {
	loads     teachingLoadReader
	grids     timeGridReader
	committed committedSlotReader
	store     ProposalStore
	queue     jobEnqueuer
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TimetableGeneratorConfig
	now       func() time.Time
}

// NewTimetableGeneratorService wires generator dependencies. loads, grids and committed may
// be nil, in which case requests must carry their own obligations and grid.
func NewTimetableGeneratorService(
	loads teachingLoadReader,
	grids timeGridReader,
	committed committedSlotReader,
	store ProposalStore,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableGeneratorConfig,
) *TimetableGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	if cfg.GridPreset.PeriodsPerDay == 0 {
		cfg.GridPreset = config.DefaultGridPreset()
	}
	if store == nil {
		store = newMemoryProposalStore(cfg.ProposalTTL, time.Now)
	}
	return &TimetableGeneratorService{
		loads:     loads,
		grids:     grids,
		committed: committed,
		store:     store,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// UseQueue attaches the worker queue used by GenerateAsync.
func (s *TimetableGeneratorService) UseQueue(queue jobEnqueuer) {
	s.queue = queue
}

type generationInput struct {
	obligations []timetable.TeachingObligation
	grid        timetable.TimeGrid
	periods     []timetable.TimeSlotDefinition
	booked      []timetable.ScheduleSlot
	kind        timetable.SlotKind
}

type generateJobPayload struct {
	ProposalID string                       `json:"proposalId"`
	ActorID    string                       `json:"actorId"`
	Request    dto.GenerateTimetableRequest `json:"request"`
}

// Generate builds a proposal synchronously, audits it and caches it for a later save.
func (s *TimetableGeneratorService) Generate(ctx context.Context, req dto.GenerateTimetableRequest, actorID string) (*dto.TimetableProposal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}
	proposal := s.newProposal(req, actorID)
	if err := s.run(ctx, req, proposal, "sync"); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

// GenerateAsync stores a pending proposal and queues the run.
func (s *TimetableGeneratorService) GenerateAsync(ctx context.Context, req dto.GenerateTimetableRequest, actorID string) (*dto.TimetableProposal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "async generation is not available")
	}
	proposal := s.newProposal(req, actorID)
	proposal.Status = dto.ProposalPending
	if err := s.store.Save(ctx, proposal); err != nil {
		return nil, err
	}
	job := jobs.Job{
		ID:      proposal.ID,
		Type:    JobTypeGenerate,
		Payload: generateJobPayload{ProposalID: proposal.ID, ActorID: actorID, Request: req},
	}
	if err := s.queue.Enqueue(job); err != nil {
		_ = s.store.Delete(ctx, proposal.ID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue generation")
	}
	s.logger.Info("timetable generation queued",
		zap.String("proposal_id", proposal.ID),
		zap.String("institution_id", req.InstitutionID))
	return proposal, nil
}

// HandleJob is the queue handler for JobTypeGenerate. Input errors mark the proposal failed
// without a retry; infrastructure errors are returned so the queue retries.
func (s *TimetableGeneratorService) HandleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(generateJobPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.ID)
	}
	proposal, err := s.store.Get(ctx, payload.ProposalID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			s.logger.Warn("dropping generation for expired proposal", zap.String("proposal_id", payload.ProposalID))
			return nil
		}
		return err
	}

	if err := s.run(ctx, payload.Request, proposal, "async"); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Status < 500 {
			proposal.Status = dto.ProposalFailed
			proposal.Error = appErr.Message
			return s.store.Save(ctx, proposal)
		}
		return err
	}
	return s.store.Save(ctx, proposal)
}

// MarkFailed records a job that exhausted its retries. Matches jobs.GiveUpFunc.
func (s *TimetableGeneratorService) MarkFailed(job jobs.Job, cause error) {
	payload, ok := job.Payload.(generateJobPayload)
	if !ok {
		return
	}
	ctx := context.Background()
	proposal, err := s.store.Get(ctx, payload.ProposalID)
	if err != nil {
		return
	}
	proposal.Status = dto.ProposalFailed
	proposal.Error = cause.Error()
	if err := s.store.Save(ctx, proposal); err != nil {
		s.logger.Error("failed to mark proposal failed", zap.String("proposal_id", payload.ProposalID), zap.Error(err))
	}
}

// GetProposal returns a cached proposal.
func (s *TimetableGeneratorService) GetProposal(ctx context.Context, id string) (*dto.TimetableProposal, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "proposal id is required")
	}
	return s.store.Get(ctx, id)
}

// Audit reports conflicts in an arbitrary slot list.
func (s *TimetableGeneratorService) Audit(ctx context.Context, req dto.AuditRequest) (*dto.AuditResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid audit payload")
	}
	conflicts := timetable.Audit(req.Slots)
	summary := timetable.Summarize(conflicts)
	s.metrics.ObserveConflicts(summary)
	return &dto.AuditResponse{Conflicts: conflicts, Summary: summary}, nil
}

func (s *TimetableGeneratorService) newProposal(req dto.GenerateTimetableRequest, actorID string) *dto.TimetableProposal {
	now := s.now().UTC()
	return &dto.TimetableProposal{
		ID:             uuid.NewString(),
		Status:         dto.ProposalReady,
		InstitutionID:  req.InstitutionID,
		AcademicYearID: req.AcademicYearID,
		Conflicts:      []timetable.Conflict{},
		GeneratedBy:    actorID,
		GeneratedAt:    now,
		ExpiresAt:      now.Add(s.cfg.ProposalTTL),
	}
}

func (s *TimetableGeneratorService) run(ctx context.Context, req dto.GenerateTimetableRequest, proposal *dto.TimetableProposal, mode string) error {
	input, err := s.resolveInput(ctx, req)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := timetable.Generate(input.obligations, input.grid, input.periods, timetable.GenerateOptions{
		Booked: input.booked,
		Kind:   input.kind,
	})
	if err != nil {
		return err
	}
	conflicts := timetable.Audit(result.Slots)
	summary := timetable.Summarize(conflicts)
	elapsed := time.Since(start)

	s.metrics.ObserveGeneration(mode, result, elapsed)
	s.metrics.ObserveConflicts(summary)

	proposal.Status = dto.ProposalReady
	proposal.Error = ""
	proposal.Grid = input.grid
	proposal.Result = result
	proposal.Conflicts = conflicts
	proposal.Summary = summary

	s.logger.Info("timetable generated",
		zap.String("proposal_id", proposal.ID),
		zap.String("institution_id", req.InstitutionID),
		zap.String("mode", mode),
		zap.Int("obligations", len(input.obligations)),
		zap.Int("booked", len(input.booked)),
		zap.Int("slots", len(result.Slots)),
		zap.Int("shortfall", result.Shortfall()),
		zap.Int("conflicts", summary.Total),
		zap.Duration("elapsed", elapsed))
	return nil
}

func (s *TimetableGeneratorService) resolveInput(ctx context.Context, req dto.GenerateTimetableRequest) (*generationInput, error) {
	input := &generationInput{kind: timetable.SlotKind(req.Kind)}

	switch {
	case len(req.Obligations) > 0:
		input.obligations = obligationsFromRequest(req.Obligations)
	case s.loads != nil:
		loads, err := s.loads.ListByInstitution(ctx, req.InstitutionID, req.AcademicYearID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teaching loads")
		}
		input.obligations = obligationsFromLoads(loads)
	}
	if len(input.obligations) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no teaching obligations defined for this institution and academic year")
	}

	grid, periods, err := s.resolveGrid(ctx, req)
	if err != nil {
		return nil, err
	}
	input.grid = grid
	input.periods = periods

	if req.RespectCommitted && s.committed != nil {
		rows, err := s.committed.ListCommitted(ctx, req.AcademicYearID, teacherIDs(input.obligations), req.ReplacingID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committed slots")
		}
		input.booked = slotsFromModels(rows)
	}
	return input, nil
}

// resolveGrid prefers the request, then the stored grid, then the configured preset.
func (s *TimetableGeneratorService) resolveGrid(ctx context.Context, req dto.GenerateTimetableRequest) (timetable.TimeGrid, []timetable.TimeSlotDefinition, error) {
	if req.Grid != nil {
		grid := gridFromRequest(req.Grid)
		if len(req.Periods) == 0 {
			return grid, nil, appErrors.Clone(appErrors.ErrValidation, "periods are required when a grid is supplied")
		}
		return grid, periodsFromRequest(req.Periods), nil
	}

	if s.grids != nil {
		setting, err := s.grids.FindByInstitution(ctx, req.InstitutionID)
		switch {
		case err == nil:
			grid := gridFromSetting(setting)
			if len(req.Periods) > 0 {
				return grid, periodsFromRequest(req.Periods), nil
			}
			rows, err := s.grids.ListPeriods(ctx, req.InstitutionID)
			if err != nil {
				return grid, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period definitions")
			}
			return grid, periodsFromModels(rows), nil
		case !errors.Is(err, sql.ErrNoRows):
			return timetable.TimeGrid{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time grid")
		}
	}

	grid, periods := gridFromPreset(s.cfg.GridPreset)
	if len(req.Periods) > 0 {
		periods = periodsFromRequest(req.Periods)
	}
	return grid, periods, nil
}

func teacherIDs(obligations []timetable.TeachingObligation) []string {
	seen := make(map[string]struct{}, len(obligations))
	ids := make([]string, 0, len(obligations))
	for _, ob := range obligations {
		if _, ok := seen[ob.TeacherID]; ok {
			continue
		}
		seen[ob.TeacherID] = struct{}{}
		ids = append(ids, ob.TeacherID)
	}
	sort.Strings(ids)
	return ids
}

