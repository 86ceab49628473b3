package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"stockadmin/internal/usecase"
)

// /inventory のAPI
type InventoryHandler struct {
	uc *usecase.InventoryUsecase
}

// DI
func NewInventoryHandler(uc *usecase.InventoryUsecase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

func (h *InventoryHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/inventory/restock", h.restock)
	e.POST("/inventory/adjust", h.adjust)
	e.GET("/inventory/logs", h.logs)
}

type restockRequest struct {
	ProductID     int64   `json:"product_id"`
	QuantityAdded int64   `json:"quantity_added"`
	Notes         *string `json:"notes"`
}

func (h *InventoryHandler) restock(c echo.Context) error {
	var req restockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Restock(c.Request().Context(), usecase.RestockInput{
		ProductID:     req.ProductID,
		QuantityAdded: req.QuantityAdded,
		Notes:         req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

type adjustRequest struct {
	ProductID int64   `json:"product_id"`
	Delta     int64   `json:"delta"`
	Notes     *string `json:"notes"`
}

func (h *InventoryHandler) adjust(c echo.Context) error {
	var req adjustRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AdjustQuantity(c.Request().Context(), usecase.AdjustQuantityInput{
		ProductID: req.ProductID,
		Delta:     req.Delta,
		Notes:     req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) logs(c echo.Context) error {
	productID, err := strconv.ParseInt(c.QueryParam("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	page, ok := queryInt(c, "page", 1)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	out, err := h.uc.ListLogs(c.Request().Context(), productID, page, limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
