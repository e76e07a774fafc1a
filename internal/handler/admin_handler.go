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

// AdminHandler exposes administrator account endpoints.
type AdminHandler struct {
	admins *service.AdminService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(admins *service.AdminService) *AdminHandler {
	return &AdminHandler{admins: admins}
}

// Create godoc
// @Summary Onboard administrator
// @Tags Admins
// @Accept json
// @Produce json
// @Param payload body dto.CreateAdminRequest true "Account payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admins [post]
func (h *AdminHandler) Create(c *gin.Context) {
	var req dto.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid account payload"))
		return
	}

	account, err := h.admins.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, account)
}

// List godoc
// @Summary List administrators
// @Tags Admins
// @Produce json
// @Param role query string false "Filter by role"
// @Param active query bool false "Filter by active state"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /admins [get]
func (h *AdminHandler) List(c *gin.Context) {
	var query dto.AdminQuery
	query.Role = c.Query("role")
	if active := c.Query("active"); active != "" {
		v := active == "true"
		query.Active = &v
	}
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	query.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	accounts, err := h.admins.List(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, accounts, &response.Pagination{Limit: query.Limit, Offset: query.Offset})
}

// Get godoc
// @Summary Get administrator detail
// @Tags Admins
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admins/{id} [get]
func (h *AdminHandler) Get(c *gin.Context) {
	account, err := h.admins.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, account, nil)
}

// Deactivate godoc
// @Summary Deactivate administrator
// @Tags Admins
// @Produce json
// @Param id path string true "Account ID"
// @Success 204 {object} nil
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admins/{id}/deactivate [patch]
func (h *AdminHandler) Deactivate(c *gin.Context) {
	if err := h.admins.Deactivate(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
