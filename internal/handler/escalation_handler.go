package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/agri-gov-api/internal/dto"
	"github.com/noah-isme/agri-gov-api/internal/service"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
	"github.com/noah-isme/agri-gov-api/pkg/response"
)

// EscalationHandler exposes escalation lifecycle endpoints.
type EscalationHandler struct {
	escalations *service.EscalationService
}

// NewEscalationHandler constructs EscalationHandler.
func NewEscalationHandler(escalations *service.EscalationService) *EscalationHandler {
	return &EscalationHandler{escalations: escalations}
}

// Create godoc
// @Summary Raise escalation
// @Tags Escalations
// @Accept json
// @Produce json
// @Param payload body dto.CreateEscalationRequest true "Escalation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /escalations [post]
func (h *EscalationHandler) Create(c *gin.Context) {
	var req dto.CreateEscalationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid escalation payload"))
		return
	}

	esc, err := h.escalations.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, esc)
}

// List godoc
// @Summary List escalations
// @Tags Escalations
// @Produce json
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param assignee_id query string false "Filter by assignee"
// @Param creator_id query string false "Filter by creator"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /escalations [get]
func (h *EscalationHandler) List(c *gin.Context) {
	var query dto.EscalationQuery
	query.Status = c.Query("status")
	query.Priority = c.Query("priority")
	query.AssigneeID = c.Query("assignee_id")
	query.CreatorID = c.Query("creator_id")
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	query.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	escalations, err := h.escalations.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, escalations, &response.Pagination{Limit: query.Limit, Offset: query.Offset})
}

// Get godoc
// @Summary Get escalation detail
// @Tags Escalations
// @Produce json
// @Param id path string true "Escalation ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /escalations/{id} [get]
func (h *EscalationHandler) Get(c *gin.Context) {
	esc, err := h.escalations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, esc, nil)
}

// Assign godoc
// @Summary Assign escalation
// @Tags Escalations
// @Accept json
// @Produce json
// @Param id path string true "Escalation ID"
// @Param payload body dto.AssignEscalationRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /escalations/{id}/assign [post]
func (h *EscalationHandler) Assign(c *gin.Context) {
	var req dto.AssignEscalationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	esc, err := h.escalations.Assign(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, esc, nil)
}

// Escalate godoc
// @Summary Escalate one level further
// @Description Bump the level. The original due date is kept.
// @Tags Escalations
// @Produce json
// @Param id path string true "Escalation ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /escalations/{id}/escalate [post]
func (h *EscalationHandler) Escalate(c *gin.Context) {
	esc, err := h.escalations.Escalate(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, esc, nil)
}

// Resolve godoc
// @Summary Resolve escalation
// @Tags Escalations
// @Produce json
// @Param id path string true "Escalation ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /escalations/{id}/resolve [post]
func (h *EscalationHandler) Resolve(c *gin.Context) {
	esc, err := h.escalations.Resolve(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, esc, nil)
}

// Reject godoc
// @Summary Reject escalation
// @Tags Escalations
// @Produce json
// @Param id path string true "Escalation ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /escalations/{id}/reject [post]
func (h *EscalationHandler) Reject(c *gin.Context) {
	esc, err := h.escalations.Reject(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, esc, nil)
}
