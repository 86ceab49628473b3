package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"stockadmin/internal/domain/model"
	"stockadmin/internal/usecase"
)

// /orders のAPI
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/orders", h.create)
	e.GET("/orders", h.list)
	e.GET("/orders/:id", h.detail)
	e.PATCH("/orders/:id/status", h.updateStatus)
	e.DELETE("/orders/:id", h.remove)
	e.GET("/orders/stats/revenue-summary", h.revenueSummary)
}

type orderLineRequest struct {
	ProductID    int64            `json:"product_id"`
	Quantity     int64            `json:"quantity"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit"`
}

type createOrderRequest struct {
	Status *string            `json:"status"`
	Items  []orderLineRequest `json:"items"`
}

func (h *OrderHandler) create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := usecase.PlaceOrderInput{}
	if req.Status != nil {
		s := model.OrderStatus(*req.Status)
		in.Status = &s
	}
	for _, line := range req.Items {
		in.Items = append(in.Items, usecase.OrderLineInput{
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			PricePerUnit: line.PricePerUnit,
		})
	}

	o, err := h.uc.PlaceOrder(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) list(c echo.Context) error {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	from, ok := queryDate(c, "start_date")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_date"})
	}
	to, ok := queryDateExclusiveEnd(c, "end_date")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end_date"})
	}

	out, err := h.uc.ListOrders(c.Request().Context(), usecase.ListOrdersInput{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
		From:   from,
		To:     to,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	o, err := h.uc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, o)
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	o, err := h.uc.UpdateStatus(c.Request().Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) remove(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteOrder(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHandler) revenueSummary(c echo.Context) error {
	period := c.QueryParam("period")
	if period == "" {
		period = "daily"
	}

	from, ok := queryDate(c, "start_date")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_date"})
	}
	to, ok := queryDateExclusiveEnd(c, "end_date")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end_date"})
	}

	points, err := h.uc.RevenueSummary(c.Request().Context(), period, from, to)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, points)
}

// YYYY-MM-DD
func queryDate(c echo.Context, name string) (*time.Time, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// 終了日は「その日いっぱい」を含めるため翌日0時を排他的上限にする
func queryDateExclusiveEnd(c echo.Context, name string) (*time.Time, bool) {
	t, ok := queryDate(c, name)
	if !ok || t == nil {
		return t, ok
	}
	end := t.AddDate(0, 0, 1)
	return &end, true
}
