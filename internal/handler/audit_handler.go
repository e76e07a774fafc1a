package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/agri-gov-api/internal/dto"
	"github.com/noah-isme/agri-gov-api/internal/service"
	"github.com/noah-isme/agri-gov-api/pkg/response"
)

// AuditHandler exposes read and export endpoints over the action ledger.
type AuditHandler struct {
	audits *service.AuditService
}

// NewAuditHandler constructs AuditHandler.
func NewAuditHandler(audits *service.AuditService) *AuditHandler {
	return &AuditHandler{audits: audits}
}

// Trail godoc
// @Summary Audit trail for one entity
// @Tags Audit
// @Produce json
// @Param entity_type path string true "Entity type"
// @Param entity_id path string true "Entity ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /audit/{entity_type}/{entity_id} [get]
func (h *AuditHandler) Trail(c *gin.Context) {
	query := h.bindQuery(c)
	entries, err := h.audits.TrailFor(c.Request.Context(), c.Param("entity_type"), c.Param("entity_id"), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, &response.Pagination{Limit: query.Limit, Offset: query.Offset})
}

// ByActor godoc
// @Summary Actions performed by one administrator
// @Tags Audit
// @Produce json
// @Param actor_id path string true "Actor ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /audit/actors/{actor_id} [get]
func (h *AuditHandler) ByActor(c *gin.Context) {
	query := h.bindQuery(c)
	entries, err := h.audits.TrailByActor(c.Request.Context(), c.Param("actor_id"), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, &response.Pagination{Limit: query.Limit, Offset: query.Offset})
}

// Export godoc
// @Summary Export an entity's audit trail
// @Tags Audit
// @Produce text/csv
// @Produce application/pdf
// @Param entity_type path string true "Entity type"
// @Param entity_id path string true "Entity ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /audit/{entity_type}/{entity_id}/export [get]
func (h *AuditHandler) Export(c *gin.Context) {
	var query dto.AuditExportQuery
	query.Format = c.DefaultQuery("format", "csv")
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "1000"))
	query.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	raw, contentType, err := h.audits.Export(c.Request.Context(), c.Param("entity_type"), c.Param("entity_id"), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "csv"
	if contentType == "application/pdf" {
		ext = "pdf"
	}
	filename := fmt.Sprintf("audit-%s-%s.%s", c.Param("entity_type"), c.Param("entity_id"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, raw)
}

func (h *AuditHandler) bindQuery(c *gin.Context) dto.AuditQuery {
	var query dto.AuditQuery
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	query.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return query
}
