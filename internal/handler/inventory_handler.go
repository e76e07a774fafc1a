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

// InventoryHandler exposes FIFO stock endpoints.
type InventoryHandler struct {
	inventory *service.InventoryService
}

// NewInventoryHandler constructs InventoryHandler.
func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// Receive godoc
// @Summary Receive stock into a new lot
// @Tags Inventory
// @Accept json
// @Produce json
// @Param payload body dto.ReceiveStockRequest true "Receipt payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /inventory/receive [post]
func (h *InventoryHandler) Receive(c *gin.Context) {
	var req dto.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid receipt payload"))
		return
	}

	lot, err := h.inventory.Receive(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lot)
}

// Consume godoc
// @Summary Consume stock FIFO across lots
// @Tags Inventory
// @Accept json
// @Produce json
// @Param payload body dto.ConsumeStockRequest true "Withdrawal payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /inventory/consume [post]
func (h *InventoryHandler) Consume(c *gin.Context) {
	var req dto.ConsumeStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid withdrawal payload"))
		return
	}

	taken, err := h.inventory.Consume(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, taken, nil)
}

// Stock godoc
// @Summary Product stock summary
// @Tags Inventory
// @Produce json
// @Param product_code path string true "Product code"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /inventory/stock/{product_code} [get]
func (h *InventoryHandler) Stock(c *gin.Context) {
	summary, err := h.inventory.Stock(c.Request.Context(), c.Param("product_code"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ListLots godoc
// @Summary List lots in FIFO order
// @Tags Inventory
// @Produce json
// @Param product_code query string false "Filter by product"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /inventory/lots [get]
func (h *InventoryHandler) ListLots(c *gin.Context) {
	query := h.bindQuery(c)
	lots, err := h.inventory.ListLots(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lots, &response.Pagination{Limit: query.Limit, Offset: query.Offset})
}

// ListTransactions godoc
// @Summary List stock movements
// @Tags Inventory
// @Produce json
// @Param product_code query string false "Filter by product"
// @Param direction query string false "IN or OUT"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	query := h.bindQuery(c)
	txns, err := h.inventory.ListTransactions(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, txns, &response.Pagination{Limit: query.Limit, Offset: query.Offset})
}

func (h *InventoryHandler) bindQuery(c *gin.Context) dto.InventoryQuery {
	var query dto.InventoryQuery
	query.ProductCode = c.Query("product_code")
	query.Direction = c.Query("direction")
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	query.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return query
}
