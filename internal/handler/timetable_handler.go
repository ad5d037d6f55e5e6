package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type timetableManager interface {
	Create(ctx context.Context, req dto.CreateTimetableRequest, actorID string) (*timetable.Schedule, error)
	Get(ctx context.Context, id string) (*timetable.Schedule, error)
	List(ctx context.Context, query dto.TimetableQuery) ([]dto.TimetableSummary, *models.Pagination, error)
	Conflicts(ctx context.Context, id string) (*dto.AuditResponse, error)
	ReplaceSlots(ctx context.Context, id string, req dto.ReplaceSlotsRequest, actorID string) (*timetable.Schedule, error)
	Transition(ctx context.Context, id, action string, req dto.TransitionRequest, actorID string) (*timetable.Schedule, error)
	Delete(ctx context.Context, id string, version int, actorID string) error
}

// TimetableHandler exposes stored timetables and their lifecycle.
type TimetableHandler struct {
	service timetableManager
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Create godoc
// @Summary Save a draft timetable
// @Description Stores a draft from a ready proposal (proposalId) or from manual slots.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.CreateTimetableRequest true "Timetable payload"
// @Success 201 {object} response.Envelope
// @Router /timetables [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req dto.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable payload"))
		return
	}
	schedule, err := h.service.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	setVersionTag(c, schedule)
	response.Created(c, schedule)
}

// List godoc
// @Summary List timetables
// @Tags Timetables
// @Produce json
// @Param institutionId query string false "Institution ID"
// @Param academicYearId query string false "Academic year ID"
// @Param status query string false "Status"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get a timetable with its slots
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	schedule, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	setVersionTag(c, schedule)
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Conflicts godoc
// @Summary Audit a stored timetable
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/conflicts [get]
func (h *TimetableHandler) Conflicts(c *gin.Context) {
	result, err := h.service.Conflicts(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ReplaceSlots godoc
// @Summary Replace the slots of a draft
// @Tags Timetables
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.ReplaceSlotsRequest true "Slots with the expected version"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/slots [put]
func (h *TimetableHandler) ReplaceSlots(c *gin.Context) {
	var req dto.ReplaceSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slots payload"))
		return
	}
	schedule, err := h.service.ReplaceSlots(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	setVersionTag(c, schedule)
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Transition returns a handler applying one lifecycle action. The action is fixed
// per route: submit, approve, reject, activate, complete or cancel.
// @Summary Apply a lifecycle action
// @Tags Timetables
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.TransitionRequest true "Expected version and optional reason"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/submit [post]
// @Router /timetables/{id}/approve [post]
// @Router /timetables/{id}/reject [post]
// @Router /timetables/{id}/activate [post]
// @Router /timetables/{id}/complete [post]
// @Router /timetables/{id}/cancel [post]
func (h *TimetableHandler) Transition(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.TransitionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid transition payload"))
			return
		}
		schedule, err := h.service.Transition(c.Request.Context(), c.Param("id"), action, req, actorID(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		setVersionTag(c, schedule)
		response.JSON(c, http.StatusOK, schedule, nil)
	}
}

// Delete godoc
// @Summary Delete a timetable
// @Description Active timetables are locked and must be completed or cancelled first. The expected
// @Description version comes from the If-Match header or the version query parameter.
// @Tags Timetables
// @Param id path string true "Timetable ID"
// @Param If-Match header string false "Expected version"
// @Param version query int false "Expected version"
// @Success 204
// @Router /timetables/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	version, err := expectedVersion(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), version, actorID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// setVersionTag exposes the row version as an ETag so clients can echo it in If-Match.
func setVersionTag(c *gin.Context, schedule *timetable.Schedule) {
	if schedule != nil && schedule.Version > 0 {
		c.Header("ETag", strconv.Quote(strconv.Itoa(schedule.Version)))
	}
}

// expectedVersion reads If-Match (quoted or bare) and falls back to ?version=.
func expectedVersion(c *gin.Context) (int, error) {
	raw := strings.Trim(strings.TrimPrefix(strings.TrimSpace(c.GetHeader("If-Match")), "W/"), `"`)
	if raw == "" {
		raw = c.Query("version")
	}
	if raw == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "version is required (If-Match header or version query)")
	}
	version, err := strconv.Atoi(raw)
	if err != nil || version < 1 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "version must be a positive integer")
	}
	return version, nil
}
