package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pong_web/internal/api/handlers"
	"pong_web/internal/middleware"
	"pong_web/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.User)
	gameHandler := handlers.NewGameHandler(services.Game, services.User)
	wsHandler := handlers.NewWebSocketHandler(services.WebSocket, services.Game)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 公開路由
	{
		// 用戶認證相關
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// 需要驗證的路由
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		// 比賽相關
		games := authorized.Group("/games")
		{
			games.POST("", gameHandler.CreateGame)          // 建立比賽
			games.GET("/:id", gameHandler.GetGame)          // 查詢比賽即時狀態
			games.DELETE("/:id", gameHandler.RemoveGame)    // 外部移除比賽
			games.GET("/:id/ws", wsHandler.HandleWebSocket) // WebSocket 連接點
		}

		// 個人歷史戰績與單筆明細
		authorized.GET("/logs", gameHandler.GetGameLogs)
		authorized.GET("/logs/:id", gameHandler.GetGameLog)
	}
}
