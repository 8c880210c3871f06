package router

import (
	"autobot/controllers"
	"autobot/logger"
	"autobot/middleware"

	"github.com/gin-gonic/gin"
)

// Initialize wires all routes and middlewares: public surfaces first,
// then the API-key protected dashboard group.
func Initialize(r *gin.Engine, log *logger.Logger) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(RequestLogger(log))

	api := r.Group("/api")

	// Meta webhook (verification handshake + inbound events)
	api.GET("/webhooks/meta", controllers.WebhookVerify)
	api.POST("/webhooks/meta", controllers.WebhookReceive)

	// Public chat widget (no auth, tenant resolved by path id)
	api.GET("/chat/public-info/:tenantId", controllers.PublicBotInfo)
	api.POST("/chat/public/:tenantId", controllers.PublicChat)

	// Tenant-authenticated surface
	auth := api.Group("")
	auth.Use(controllers.APIKeyRequired())

	auth.POST("/chat/completions", controllers.ChatCompletion)
	auth.GET("/chat/history", controllers.GetChatHistory)
	auth.GET("/chat/history/:id/messages", controllers.GetConversationMessages)

	auth.GET("/bot/config", controllers.GetBotConfig)
	auth.POST("/bot/config", controllers.SaveBotConfig)

	auth.GET("/social/settings", controllers.GetSocialSettings)
	auth.POST("/social/settings", controllers.UpdateSocialSettings)

	auth.GET("/leads", controllers.GetLeads)

	log.Info("routes initialized")
}
