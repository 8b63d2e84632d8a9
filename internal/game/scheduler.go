package game

import (
	"log"
	"time"
)

// 預設的 tick 週期與開賽前的暖身幀數
const (
	DefaultTickInterval = 17 * time.Millisecond
	DefaultReadyDelay   = 800
)

// Scheduler 以固定週期推進註冊表中的每一場比賽。
// 每場比賽在單一 tick 內的處理順序固定；
// 不同比賽之間彼此獨立，走訪順序不影響結果
type Scheduler struct {
	registry   *Registry
	bus        *EventBus
	interval   time.Duration
	readyDelay uint64
	quit       chan struct{}
}

// NewScheduler 建立排程器。interval 或 readyDelay 傳入零值時使用預設
func NewScheduler(registry *Registry, bus *EventBus, interval time.Duration, readyDelay uint64) *Scheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if readyDelay == 0 {
		readyDelay = DefaultReadyDelay
	}
	return &Scheduler{
		registry:   registry,
		bus:        bus,
		interval:   interval,
		readyDelay: readyDelay,
		quit:       make(chan struct{}),
	}
}

// Run 啟動排程迴圈，直到 Stop 被呼叫
func (s *Scheduler) Run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Stop 結束排程迴圈
func (s *Scheduler) Stop() {
	close(s.quit)
}

// Tick 把所有比賽推進一個 tick。測試可以直接呼叫它來
// 取得確定性的推進，不必依賴真實時間
func (s *Scheduler) Tick() {
	s.registry.ForEach(s.tickGame)
}

// tickGame 推進單場比賽的狀態機。整個 tick 持有該場比賽的鎖，
// 球拍指令會與這裡序列化，不會在 tick 中途插入
func (s *Scheduler) tickGame(roomID string, g *GameData) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.faulted {
		return
	}

	d := &g.InGameData
	switch d.Status {
	case StatusReady:
		d.Frame++
		if d.Frame > s.readyDelay {
			d.Status = StatusPlaying
			s.bus.Publish(Event{Topic: TopicStart, RoomID: roomID})
		}

	case StatusPlaying:
		d.Frame++

		// 球拍位移
		d.PaddleTop.Position.Y += PaddleDisplacement(d.PaddleTop, g.RuleData.PaddleSize)
		d.PaddleBottom.Position.Y += PaddleDisplacement(d.PaddleBottom, g.RuleData.PaddleSize)

		// 球位移
		dx, dy := BallDisplacement(d.Ball, g.RuleData.BallSpeed)
		d.Ball.Position.X += dx
		d.Ball.Position.Y += dy

		s.bus.Publish(Event{Topic: TopicRender, RoomID: roomID, Render: &RenderSnapshot{
			Frame:         d.Frame,
			Ball:          d.Ball.Position,
			PaddleTopY:    d.PaddleTop.Position.Y,
			PaddleBottomY: d.PaddleBottom.Position.Y,
		}})

		// 牆面反彈
		if CheckWallCollision(d.Ball) {
			d.Ball.Velocity.Y *= -1
		}
		// 球拍反彈
		if CheckPaddleCollision(d.Ball, d.PaddleTop, d.PaddleBottom, g.RuleData.PaddleSize) {
			d.Ball.Velocity.X *= -1
		}

		// 計分
		scored := CheckScorePosition(d.Ball)
		if scored != ScoreNone {
			if scored == ScoreTopWin {
				d.ScoreTop++
			} else {
				d.ScoreBottom++
			}
			s.bus.Publish(Event{Topic: TopicScore, RoomID: roomID, Score: &ScoreSnapshot{
				ScoreTop:    d.ScoreTop,
				ScoreBottom: d.ScoreBottom,
			}})
			ResetBallAndPaddle(d, g.rng, scored)
		}

		// 終局判定
		switch CheckEndOfGame(*d, g.RuleData) {
		case ResultTopWin:
			d.Status = StatusEnded
			d.WinnerID = g.MetaData.PlayerTop.UserID
		case ResultBottomWin:
			d.Status = StatusEnded
			d.WinnerID = g.MetaData.PlayerBottom.UserID
		}

	case StatusEnded:
		// end 只發一次，之後這場比賽等待消費端將它移出註冊表
		if !g.endSent {
			g.endSent = true
			s.bus.Publish(Event{Topic: TopicEnd, RoomID: roomID, Final: &FinalSnapshot{
				MetaData:   g.MetaData,
				InGameData: g.InGameData,
			}})
		}

	default:
		// 狀態毀損：隔離這場比賽，其它比賽照常推進
		log.Printf("scheduler: %v: room=%s status=%d", ErrUnknownStatus, roomID, d.Status)
		g.faulted = true
	}
}
