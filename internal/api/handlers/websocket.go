package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"pong_web/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 注意：在生產環境中，應該檢查 origin
	},
}

// WebSocketHandler 處理 WebSocket 連接
type WebSocketHandler struct {
	wsManager   *service.WebSocketManager
	gameService *service.GameService
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例
func NewWebSocketHandler(wsManager *service.WebSocketManager, gameService *service.GameService) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		gameService: gameService,
	}
}

// HandleWebSocket 處理 WebSocket 連接請求。
// 參賽者由此送出球拍指令並接收比賽事件，其他人連上後只觀戰
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	roomID := c.Param("id")

	// 升級前先確認比賽存在
	if _, _, err := h.gameService.GetGame(roomID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "比賽不存在"})
		return
	}

	// 從上下文中獲取用戶 ID
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	// 升級 HTTP 連接為 WebSocket 連接
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	// 處理客戶端連接，阻塞直到斷線
	h.wsManager.HandleConnection(conn, roomID, userID.(uint))
}
