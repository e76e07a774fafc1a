package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/agri-gov-api/internal/dto"
	"github.com/noah-isme/agri-gov-api/internal/models"
	"github.com/noah-isme/agri-gov-api/internal/service"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
	"github.com/noah-isme/agri-gov-api/pkg/response"
)

// PriceCaseHandler exposes price compliance case endpoints.
type PriceCaseHandler struct {
	cases *service.PriceCaseService
}

// NewPriceCaseHandler constructs PriceCaseHandler.
func NewPriceCaseHandler(cases *service.PriceCaseService) *PriceCaseHandler {
	return &PriceCaseHandler{cases: cases}
}

// Open godoc
// @Summary Open price compliance case
// @Tags PriceCases
// @Accept json
// @Produce json
// @Param payload body dto.OpenPriceCaseRequest true "Case payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /price-cases [post]
func (h *PriceCaseHandler) Open(c *gin.Context) {
	var req dto.OpenPriceCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid case payload"))
		return
	}

	pc, err := h.cases.Open(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pc)
}

// List godoc
// @Summary List price compliance cases
// @Tags PriceCases
// @Produce json
// @Param seller_id query string false "Filter by seller"
// @Param product_code query string false "Filter by product"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /price-cases [get]
func (h *PriceCaseHandler) List(c *gin.Context) {
	var query dto.PriceCaseQuery
	query.SellerID = c.Query("seller_id")
	query.ProductCode = c.Query("product_code")
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	query.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	cases, err := h.cases.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cases, &response.Pagination{Limit: query.Limit, Offset: query.Offset})
}

// Get godoc
// @Summary Get price compliance case detail
// @Tags PriceCases
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /price-cases/{id} [get]
func (h *PriceCaseHandler) Get(c *gin.Context) {
	pc, err := h.cases.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pc, nil)
}

// Warn godoc
// @Summary Record a warning on a case
// @Tags PriceCases
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param payload body dto.PriceCaseActionRequest false "Action context"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /price-cases/{id}/warn [post]
func (h *PriceCaseHandler) Warn(c *gin.Context) {
	h.act(c, h.cases.Warn)
}

// ForceAdjust godoc
// @Summary Force a price adjustment on a case
// @Tags PriceCases
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param payload body dto.PriceCaseActionRequest false "Action context"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /price-cases/{id}/force-adjust [post]
func (h *PriceCaseHandler) ForceAdjust(c *gin.Context) {
	h.act(c, h.cases.ForceAdjust)
}

// SuspendSeller godoc
// @Summary Suspend the seller behind a case
// @Tags PriceCases
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param payload body dto.PriceCaseActionRequest false "Action context"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /price-cases/{id}/suspend-seller [post]
func (h *PriceCaseHandler) SuspendSeller(c *gin.Context) {
	h.act(c, h.cases.SuspendSeller)
}

type priceCaseAction func(ctx context.Context, id string, req dto.PriceCaseActionRequest, actor *models.AdminClaims) (*models.PriceComplianceCase, error)

func (h *PriceCaseHandler) act(c *gin.Context, fn priceCaseAction) {
	var req dto.PriceCaseActionRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid action payload"))
			return
		}
	}

	pc, err := fn(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pc, nil)
}
