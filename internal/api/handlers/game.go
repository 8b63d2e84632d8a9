package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pong_web/internal/game"
	"pong_web/internal/service"
)

// GameHandler 處理與比賽相關的請求
type GameHandler struct {
	gameService *service.GameService
	userService *service.UserService
}

// NewGameHandler 創建一個新的 GameHandler 實例
func NewGameHandler(gameService *service.GameService, userService *service.UserService) *GameHandler {
	return &GameHandler{gameService: gameService, userService: userService}
}

// CreateGameInput 定義建立比賽請求的結構。
// 發起人是上方玩家，規則欄位留零值時採用預設規則
type CreateGameInput struct {
	RoomID     string `json:"room_id"`
	OpponentID uint   `json:"opponent_id" binding:"required"`
	IsRankGame bool   `json:"is_rank_game"`
	PaddleSize uint8  `json:"paddle_size"`
	BallSpeed  uint8  `json:"ball_speed"`
	MatchScore uint8  `json:"match_score"`
}

// CreateGame 處理建立比賽的請求
func (h *GameHandler) CreateGame(c *gin.Context) {
	var input CreateGameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	creator, err := h.userService.GetUserByID(userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "找不到發起人"})
		return
	}
	opponent, err := h.userService.GetUserByID(input.OpponentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "找不到對手"})
		return
	}

	rule := game.DefaultRuleData()
	if input.PaddleSize != 0 {
		rule.PaddleSize = input.PaddleSize
	}
	if input.BallSpeed != 0 {
		rule.BallSpeed = input.BallSpeed
	}
	if input.MatchScore != 0 {
		rule.MatchScore = input.MatchScore
	}

	meta := game.MetaData{
		RoomID:       input.RoomID,
		PlayerTop:    game.PlayerInfo{UserID: creator.ID, UserName: displayName(creator.Nickname, creator.Username)},
		PlayerBottom: game.PlayerInfo{UserID: opponent.ID, UserName: displayName(opponent.Nickname, opponent.Username)},
		IsRankGame:   input.IsRankGame,
	}

	roomID, err := h.gameService.CreateGame(meta, rule)
	if err != nil {
		if errors.Is(err, game.ErrDuplicateRoom) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "建立比賽失敗"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"room_id": roomID})
}

// GetGame 處理查詢比賽即時狀態的請求
func (h *GameHandler) GetGame(c *gin.Context) {
	roomID := c.Param("id")

	meta, live, err := h.gameService.GetGame(roomID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "比賽不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meta_data":    meta,
		"in_game_data": live,
		"online":       h.gameService.OnlineCount(roomID),
	})
}

// RemoveGame 處理外部移除比賽的請求（例如雙方同意中止）
func (h *GameHandler) RemoveGame(c *gin.Context) {
	h.gameService.RemoveGame(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "比賽已移除"})
}

// GetGameLogs 查詢自己的歷史戰績
func (h *GameHandler) GetGameLogs(c *gin.Context) {
	userID, _ := c.Get("userID")

	logs, err := h.gameService.GetGameLogsByUser(userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法搜尋戰績紀錄"})
		return
	}

	c.JSON(http.StatusOK, logs)
}

// GetGameLog 查詢單筆戰績明細
func (h *GameHandler) GetGameLog(c *gin.Context) {
	logID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的戰績編號"})
		return
	}

	gameLog, err := h.gameService.GetGameLog(uint(logID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "找不到該戰績"})
		return
	}

	c.JSON(http.StatusOK, gameLog)
}

func displayName(nickname, username string) string {
	if nickname != "" {
		return nickname
	}
	return username
}
