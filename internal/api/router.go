// internal/api/router.go
package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/junglecut/storyarc/internal/logging"
	"github.com/junglecut/storyarc/internal/utils"
)

// SetupRouter builds the gin engine with all routes and middleware attached.
func SetupRouter(h *Handler, hub *NotificationHub, logger *logging.Logger, metrics *utils.EngineMetrics, debugMode bool) *gin.Engine {
	if debugMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(CORSMiddleware())
	r.Use(LoggingMiddleware(logger, metrics))

	apiGroup := r.Group("/api")
	{
		blocks := apiGroup.Group("/blocks")
		{
			blocks.GET("", h.GetBlocks)
			blocks.POST("", h.CreateBlock)
			blocks.GET("/:id", h.GetBlock)
			blocks.PATCH("/:id", h.UpdateBlock)
			blocks.DELETE("/:id", h.DeleteBlock)
			blocks.POST("/:id/order", h.OrderBlock)
			blocks.POST("/:id/arc", h.SetArcMembership)
		}

		storyarc := apiGroup.Group("/storyarc")
		{
			storyarc.GET("", h.GetStoryArc)
			storyarc.GET("/metrics", h.GetStoryMetrics)
			storyarc.GET("/insights", h.GetInsights)
			storyarc.POST("/insights", h.RunInsights)
			storyarc.GET("/suggestions", h.GetSuggestionStatus)
			storyarc.POST("/suggestions", h.RunSuggestions)
		}

		drag := apiGroup.Group("/drag")
		{
			drag.GET("", h.DragStatus)
			drag.POST("/start", h.DragStart)
			drag.POST("/hover", h.DragHover)
			drag.POST("/leave", h.DragLeave)
			drag.POST("/drop", h.DragDrop)
			drag.POST("/timeline-drop", h.DragTimelineDrop)
			drag.POST("/cancel", h.DragCancel)
		}

		apiGroup.GET("/timeline/layout", h.GetTimelineLayout)

		apiGroup.GET("/structures", h.GetStructures)
		apiGroup.GET("/structures/:type", h.GetStructure)
		apiGroup.PUT("/structure", h.SelectStructure)
		apiGroup.GET("/block-types", h.GetBlockTypes)

		// AI endpoints fan out to paid providers, so they get a rate limit.
		ai := apiGroup.Group("")
		ai.Use(RateLimitMiddleware(30, time.Minute))
		{
			ai.POST("/chat", h.Chat)
		}

		apiGroup.GET("/settings/llm", h.GetLLMSettings)
		apiGroup.PUT("/settings/llm", h.UpdateLLMSettings)

		apiGroup.GET("/notifications", h.GetNotifications)
		apiGroup.GET("/stats", h.GetStats)
		apiGroup.GET("/metrics", h.GetEngineMetrics)
		apiGroup.GET("/health", h.Health)
	}

	r.GET("/ws/notifications", hub.Handle)

	return r
}
