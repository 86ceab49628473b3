package server

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"stockadmin/internal/handler"
)

type Handlers struct {
	Products   *handler.ProductHandler
	Categories *handler.CategoryHandler
	Orders     *handler.OrderHandler
	Inventory  *handler.InventoryHandler
}

// echoインスタンスを組み立てる。起動は呼び出し側で e.Start する。
func New(logger *zap.Logger, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}))

	h.Products.RegisterRoutes(e)
	h.Categories.RegisterRoutes(e)
	h.Orders.RegisterRoutes(e)
	h.Inventory.RegisterRoutes(e)

	return e
}
