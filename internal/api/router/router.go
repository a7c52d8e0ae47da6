package router

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wb-go/wbf/ginext"

	"github.com/monui/notification-service/internal/api/handlers/notification"
)

func New(handler *notification.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	api := e.Group("/notifications")

	api.POST("", handler.Create)
	api.GET("", handler.GetAll)
	api.GET("/stats/:userId", handler.Stats)
	api.GET("/recipients", handler.Recipients)
	api.GET("/:id", handler.GetByID)
	api.PUT("/:id", handler.Update)
	api.DELETE("/:id", handler.Delete)

	e.GET("/metrics", func(c *ginext.Context) {
		promhttp.Handler().ServeHTTP(c.Writer, c.Request)
	})

	return e
}
