package service

import (
	"time"

	"pong_web/internal/game"
	"pong_web/internal/repository"
)

type Services struct {
	User      *UserService
	Game      *GameService
	WebSocket *WebSocketManager
	Scheduler *game.Scheduler
}

func NewServices(repos *repository.Repositories, tickInterval time.Duration, readyDelay uint64) *Services {
	registry := game.NewRegistry()
	bus := game.NewEventBus()
	scheduler := game.NewScheduler(registry, bus, tickInterval, readyDelay)

	wsManager := NewWebSocketManager()
	gameService := NewGameService(registry, bus, repos.GameLog, wsManager)

	// 指令與斷線都從 WebSocket 進來，接回服務層
	wsManager.OnPaddle = func(roomID string, userID uint, direction game.PaddleDirective) {
		// 房間不存在多半是比賽剛結束，指令直接丟棄
		_ = gameService.SetPaddleDirection(roomID, userID, direction)
	}
	wsManager.OnDisconnect = gameService.HandleDisconnect

	userService := NewUserService(repos.User)
	return &Services{
		User:      userService,
		Game:      gameService,
		WebSocket: wsManager,
		Scheduler: scheduler,
	}
}
