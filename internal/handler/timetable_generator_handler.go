package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

const maxObligations = 2048

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest, actorID string) (*dto.TimetableProposal, error)
	GenerateAsync(ctx context.Context, req dto.GenerateTimetableRequest, actorID string) (*dto.TimetableProposal, error)
	GetProposal(ctx context.Context, id string) (*dto.TimetableProposal, error)
	Audit(ctx context.Context, req dto.AuditRequest) (*dto.AuditResponse, error)
}

// TimetableGeneratorHandler exposes proposal generation and ad-hoc audits.
type TimetableGeneratorHandler struct {
	service timetableGenerator
}

// NewTimetableGeneratorHandler constructs the handler.
func NewTimetableGeneratorHandler(svc *service.TimetableGeneratorService) *TimetableGeneratorHandler {
	return &TimetableGeneratorHandler{service: svc}
}

// Generate godoc
// @Summary Generate a timetable proposal
// @Description Runs the generator synchronously. The proposal is cached until it is saved or expires.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation input"
// @Success 200 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableGeneratorHandler) Generate(c *gin.Context) {
	req, ok := bindGenerateRequest(c)
	if !ok {
		return
	}
	proposal, err := h.service.Generate(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposal, nil, proposalMeta(proposal))
}

// GenerateAsync godoc
// @Summary Queue a timetable generation
// @Description Returns a pending proposal immediately. Poll the proposal endpoint for the result.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation input"
// @Success 202 {object} response.Envelope
// @Router /timetables/generate/async [post]
func (h *TimetableGeneratorHandler) GenerateAsync(c *gin.Context) {
	req, ok := bindGenerateRequest(c)
	if !ok {
		return
	}
	proposal, err := h.service.GenerateAsync(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, proposal)
}

// GetProposal godoc
// @Summary Fetch a cached proposal
// @Tags Timetables
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/proposals/{id} [get]
func (h *TimetableGeneratorHandler) GetProposal(c *gin.Context) {
	proposal, err := h.service.GetProposal(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposal, nil, proposalMeta(proposal))
}

// Audit godoc
// @Summary Detect conflicts in a slot list
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.AuditRequest true "Slots to audit"
// @Success 200 {object} response.Envelope
// @Router /timetables/audit [post]
func (h *TimetableGeneratorHandler) Audit(c *gin.Context) {
	var req dto.AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid audit payload"))
		return
	}
	result, err := h.service.Audit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func bindGenerateRequest(c *gin.Context) (dto.GenerateTimetableRequest, bool) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return req, false
	}
	if len(req.Obligations) > maxObligations {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "too many obligations in one request"))
		return req, false
	}
	return req, true
}

func proposalMeta(p *dto.TimetableProposal) map[string]interface{} {
	if p == nil || p.Result == nil {
		return nil
	}
	return map[string]interface{}{
		"requested":   p.Result.Requested,
		"placed":      p.Result.Placed,
		"shortfall":   p.Result.Shortfall(),
		"conflicts":   p.Summary.Total,
		"hasCritical": p.Summary.HasCritical(),
	}
}
