package service

import (
	"context"
	"log"

	"pong_web/internal/game"
	"pong_web/internal/models"
	"pong_web/internal/repository"
)

// GameService 銜接比賽引擎與外部協作者：建立比賽時向戰績
// 收尾方要一筆草稿，結束事件發生時補上結果並把比賽移出註冊表
type GameService struct {
	registry    *game.Registry
	bus         *game.EventBus
	gameLogRepo repository.GameLogRepository
	wsManager   *WebSocketManager
}

// NewGameService 創建一個新的 GameService 實例
func NewGameService(registry *game.Registry, bus *game.EventBus, gameLogRepo repository.GameLogRepository, wsManager *WebSocketManager) *GameService {
	return &GameService{
		registry:    registry,
		bus:         bus,
		gameLogRepo: gameLogRepo,
		wsManager:   wsManager,
	}
}

// CreateGame 建立一場比賽並申請戰績草稿。
// 草稿寫入失敗只記錄，不影響記憶體中的比賽
func (s *GameService) CreateGame(meta game.MetaData, rule game.RuleData) (string, error) {
	roomID, err := s.registry.Create(meta, rule)
	if err != nil {
		return "", err
	}

	g, err := s.registry.Get(roomID)
	if err != nil {
		return "", err
	}

	draft := &models.GameLog{
		RoomID:         roomID,
		IsRankGame:     meta.IsRankGame,
		TopUserID:      meta.PlayerTop.UserID,
		TopUserName:    meta.PlayerTop.UserName,
		BottomUserID:   meta.PlayerBottom.UserID,
		BottomUserName: meta.PlayerBottom.UserName,
		PaddleSize:     rule.PaddleSize,
		BallSpeed:      rule.BallSpeed,
		MatchScore:     rule.MatchScore,
	}
	if err := s.gameLogRepo.CreateDraft(draft); err != nil {
		// 收尾方之後對帳，這裡不回滾比賽
		log.Printf("game: failed to create game log draft, room=%s: %v", roomID, err)
	} else {
		g.SetGameLogID(draft.ID)
	}

	return roomID, nil
}

// GetGame 回傳一場比賽的元資料與即時狀態快照
func (s *GameService) GetGame(roomID string) (game.MetaData, game.InGameData, error) {
	g, err := s.registry.Get(roomID)
	if err != nil {
		return game.MetaData{}, game.InGameData{}, err
	}
	return g.Meta(), g.Snapshot(), nil
}

// SetPaddleDirection 轉交球拍方向指令給註冊表
func (s *GameService) SetPaddleDirection(roomID string, userID uint, direction game.PaddleDirective) error {
	return s.registry.SetPaddleDirection(roomID, userID, direction)
}

// RemoveGame 以外部理由（例如玩家斷線）移除一場比賽，可重複呼叫
func (s *GameService) RemoveGame(roomID string) {
	s.registry.Remove(roomID)
}

// GetGameLogsByUser 查詢某位玩家的歷史戰績
func (s *GameService) GetGameLogsByUser(userID uint) ([]models.GameLog, error) {
	return s.gameLogRepo.FindByUserID(userID)
}

// GetGameLog 查詢單筆戰績明細
func (s *GameService) GetGameLog(logID uint) (*models.GameLog, error) {
	return s.gameLogRepo.FindByID(logID)
}

// OnlineCount 回傳房間目前的在線客戶端數量
func (s *GameService) OnlineCount(roomID string) int {
	return s.wsManager.GetRoomClients(roomID)
}

// HandleDisconnect 處理客戶端斷線：參賽者離開時整場比賽移除，
// 觀戰者離開不影響比賽
func (s *GameService) HandleDisconnect(roomID string, userID uint) {
	g, err := s.registry.Get(roomID)
	if err != nil {
		return
	}

	meta := g.Meta()
	if meta.PlayerTop.UserID == userID || meta.PlayerBottom.UserID == userID {
		log.Printf("game: player %d disconnected, removing room=%s", userID, roomID)
		s.registry.Remove(roomID)
	}
}

// Run 消費事件匯流排：一般事件轉發給房間內的客戶端，
// end 事件另外負責戰績收尾與比賽移出註冊表。
// 阻塞直到 ctx 被取消
func (s *GameService) Run(ctx context.Context) {
	events := s.bus.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			s.handleEvent(ev)
		}
	}
}

func (s *GameService) handleEvent(ev game.Event) {
	switch ev.Topic {
	case game.TopicStart:
		s.wsManager.BroadcastEvent(ev.RoomID, "start", nil)
	case game.TopicRender:
		s.wsManager.BroadcastEvent(ev.RoomID, "render", ev.Render)
	case game.TopicScore:
		s.wsManager.BroadcastEvent(ev.RoomID, "score", ev.Score)
	case game.TopicEnd:
		s.handleEnd(ev)
	}
}

// handleEnd 用事件自帶的最終快照收尾，不回頭查註冊表，
// 因此即使比賽已被外部移除也能完成戰績寫入
func (s *GameService) handleEnd(ev game.Event) {
	final := ev.Final
	if final == nil {
		return
	}

	if logID := final.MetaData.GameLogID; logID != 0 {
		err := s.gameLogRepo.Finalize(
			logID,
			final.InGameData.WinnerID,
			final.InGameData.ScoreTop,
			final.InGameData.ScoreBottom,
		)
		if err != nil {
			log.Printf("game: failed to finalize game log %d, room=%s: %v", logID, ev.RoomID, err)
		}
	}

	s.wsManager.BroadcastEvent(ev.RoomID, "end", final)
	s.registry.Remove(ev.RoomID)
}
