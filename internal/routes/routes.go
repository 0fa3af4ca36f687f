package routes

import (
	"fieldserve_backend/internal/handlers"
	"fieldserve_backend/internal/logger"
	"fieldserve_backend/internal/middleware"
	"fieldserve_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all HTTP and WebSocket routes.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	previewHandler *ws.PreviewHandler,
	serveLocalFiles bool,
) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.ClientHandler.RegisterRoutes(api)
		appHandlers.EquipmentHandler.RegisterRoutes(api)
		appHandlers.ServiceOrderHandler.RegisterRoutes(api)
		appHandlers.AttachmentHandler.RegisterRoutes(api)
	}

	if serveLocalFiles {
		appHandlers.FileHandler.RegisterRoutes(ginRouter)
	}

	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(middleware.AuthMiddleware())
	{
		wsGroup.GET("/preview", previewHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws/preview registered")
}
