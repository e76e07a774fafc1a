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

// SellerHandler exposes seller application review endpoints.
type SellerHandler struct {
	sellers *service.SellerService
}

// NewSellerHandler constructs SellerHandler.
func NewSellerHandler(sellers *service.SellerService) *SellerHandler {
	return &SellerHandler{sellers: sellers}
}

// Create godoc
// @Summary Register seller application
// @Tags Sellers
// @Accept json
// @Produce json
// @Param payload body dto.CreateSellerApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sellers [post]
func (h *SellerHandler) Create(c *gin.Context) {
	var req dto.CreateSellerApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}

	application, err := h.sellers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, application)
}

// List godoc
// @Summary List seller applications
// @Tags Sellers
// @Produce json
// @Param status query string false "Filter by status"
// @Param region query string false "Filter by region"
// @Param search query string false "Search by business or owner name"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /sellers [get]
func (h *SellerHandler) List(c *gin.Context) {
	var query dto.SellerQuery
	query.Status = c.Query("status")
	query.Region = c.Query("region")
	query.Search = c.Query("search")
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	query.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	applications, err := h.sellers.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, applications, &response.Pagination{Limit: query.Limit, Offset: query.Offset})
}

// Get godoc
// @Summary Get seller application detail
// @Tags Sellers
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sellers/{id} [get]
func (h *SellerHandler) Get(c *gin.Context) {
	application, err := h.sellers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, application, nil)
}

// Approve godoc
// @Summary Approve seller application
// @Tags Sellers
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sellers/{id}/approve [post]
func (h *SellerHandler) Approve(c *gin.Context) {
	application, err := h.sellers.Approve(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, application, nil)
}

// Reject godoc
// @Summary Reject seller application
// @Tags Sellers
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.RejectSellerRequest true "Rejection payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sellers/{id}/reject [post]
func (h *SellerHandler) Reject(c *gin.Context) {
	var req dto.RejectSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rejection payload"))
		return
	}

	application, err := h.sellers.Reject(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, application, nil)
}

// Suspend godoc
// @Summary Suspend approved seller
// @Tags Sellers
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.SuspendSellerRequest true "Suspension payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sellers/{id}/suspend [post]
func (h *SellerHandler) Suspend(c *gin.Context) {
	var req dto.SuspendSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid suspension payload"))
		return
	}

	application, err := h.sellers.Suspend(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, application, nil)
}

// Reactivate godoc
// @Summary Reactivate suspended seller
// @Tags Sellers
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sellers/{id}/reactivate [post]
func (h *SellerHandler) Reactivate(c *gin.Context) {
	application, err := h.sellers.Reactivate(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, application, nil)
}
