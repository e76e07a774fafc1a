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

// ProcurementHandler exposes procurement submission endpoints.
type ProcurementHandler struct {
	procurements *service.ProcurementService
}

// NewProcurementHandler constructs ProcurementHandler.
func NewProcurementHandler(procurements *service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{procurements: procurements}
}

// Create godoc
// @Summary Submit procurement offer
// @Tags Procurements
// @Accept json
// @Produce json
// @Param payload body dto.CreateProcurementRequest true "Submission payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /procurements [post]
func (h *ProcurementHandler) Create(c *gin.Context) {
	var req dto.CreateProcurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}

	submission, err := h.procurements.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, submission)
}

// List godoc
// @Summary List procurement submissions
// @Tags Procurements
// @Produce json
// @Param status query string false "Filter by status"
// @Param seller_id query string false "Filter by seller"
// @Param product_code query string false "Filter by product"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /procurements [get]
func (h *ProcurementHandler) List(c *gin.Context) {
	var query dto.ProcurementQuery
	query.Status = c.Query("status")
	query.SellerID = c.Query("seller_id")
	query.ProductCode = c.Query("product_code")
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	query.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	submissions, err := h.procurements.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submissions, &response.Pagination{Limit: query.Limit, Offset: query.Offset})
}

// Get godoc
// @Summary Get procurement submission detail
// @Tags Procurements
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /procurements/{id} [get]
func (h *ProcurementHandler) Get(c *gin.Context) {
	submission, err := h.procurements.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}

// Approve godoc
// @Summary Approve procurement submission
// @Description Accept the offer and book the quantity into a new inventory lot
// @Tags Procurements
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body dto.ApproveProcurementRequest true "Accepted terms"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /procurements/{id}/approve [post]
func (h *ProcurementHandler) Approve(c *gin.Context) {
	var req dto.ApproveProcurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approval payload"))
		return
	}

	submission, err := h.procurements.Approve(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}

// Reject godoc
// @Summary Reject procurement submission
// @Tags Procurements
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body dto.RejectProcurementRequest true "Rejection payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /procurements/{id}/reject [post]
func (h *ProcurementHandler) Reject(c *gin.Context) {
	var req dto.RejectProcurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rejection payload"))
		return
	}

	submission, err := h.procurements.Reject(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}
