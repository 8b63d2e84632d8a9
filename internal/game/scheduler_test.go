package game

import (
	"testing"
)

// newTestEngine 建立一組註冊表、排程器與事件訂閱，
// 測試直接呼叫 Tick 來取得確定性的推進
func newTestEngine(readyDelay uint64) (*Registry, *Scheduler, <-chan Event) {
	registry := NewRegistry()
	bus := NewEventBus()
	scheduler := NewScheduler(registry, bus, DefaultTickInterval, readyDelay)
	return registry, scheduler, bus.Subscribe()
}

func drainEvents(ch <-chan Event) []Event {
	var out []Event
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func countTopic(events []Event, topic Topic) int {
	n := 0
	for _, ev := range events {
		if ev.Topic == topic {
			n++
		}
	}
	return n
}

// setBall 直接覆寫球的狀態，用來驅動碰撞與計分的情境
func setBall(g *GameData, pos, vel Vector) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.InGameData.Ball.Position = pos
	g.InGameData.Ball.Velocity = vel
}

func TestReadyToPlayingAtExactWarmup(t *testing.T) {
	registry, scheduler, events := newTestEngine(3)
	roomID, _ := registry.Create(testMeta(""), DefaultRuleData())
	g, _ := registry.Get(roomID)

	for i := 0; i < 3; i++ {
		scheduler.Tick()
		if d := g.Snapshot(); d.Status != StatusReady {
			t.Fatalf("tick %d: status = %v, want ready", i+1, d.Status)
		}
	}

	scheduler.Tick()
	d := g.Snapshot()
	if d.Status != StatusPlaying {
		t.Fatalf("status = %v after warm-up, want playing", d.Status)
	}
	if d.Frame != 4 {
		t.Fatalf("frame = %d, want 4", d.Frame)
	}

	evs := drainEvents(events)
	if n := countTopic(evs, TopicStart); n != 1 {
		t.Fatalf("start events = %d, want 1", n)
	}
	// 暖身期間不做物理，也不廣播畫面
	if n := countTopic(evs, TopicRender); n != 0 {
		t.Fatalf("render events during warm-up = %d, want 0", n)
	}
}

// reachPlaying 以最短暖身把比賽推進到 Playing
func reachPlaying(t *testing.T, registry *Registry, scheduler *Scheduler) (string, *GameData) {
	t.Helper()
	roomID, err := registry.Create(testMeta(""), RuleData{PaddleSize: 2, BallSpeed: 2, MatchScore: 3})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	g, _ := registry.Get(roomID)

	scheduler.Tick() // frame 1，仍在暖身
	scheduler.Tick() // frame 2 > 1，進入 Playing
	if d := g.Snapshot(); d.Status != StatusPlaying {
		t.Fatalf("status = %v, want playing", d.Status)
	}
	return roomID, g
}

func TestPaddleCommandAppliesAtNextTick(t *testing.T) {
	registry, scheduler, _ := newTestEngine(1)
	roomID, g := reachPlaying(t, registry, scheduler)

	before := g.Snapshot().PaddleTop.Position.Y

	// tick 之間送出的指令，在該 tick 不得回溯生效
	if err := registry.SetPaddleDirection(roomID, 1, DirectiveDown); err != nil {
		t.Fatalf("SetPaddleDirection: %v", err)
	}
	if y := g.Snapshot().PaddleTop.Position.Y; y != before {
		t.Fatalf("paddle moved before next tick: %f -> %f", before, y)
	}

	scheduler.Tick()
	after := g.Snapshot().PaddleTop.Position.Y
	if after != before+PaddleSpeed {
		t.Fatalf("paddle y = %f after tick, want %f", after, before+PaddleSpeed)
	}
}

func TestWallBounceInvertsOnlyVerticalVelocity(t *testing.T) {
	registry, scheduler, _ := newTestEngine(1)
	_, g := reachPlaying(t, registry, scheduler)

	// 下一個 tick 的位移會讓球越過上牆
	setBall(g, Vector{X: FieldWidth / 2, Y: 1}, Vector{X: 0.5, Y: -0.5})
	scheduler.Tick()

	d := g.Snapshot()
	if d.Ball.Velocity.Y != 0.5 {
		t.Fatalf("velocity y = %f, want 0.5", d.Ball.Velocity.Y)
	}
	if d.Ball.Velocity.X != 0.5 {
		t.Fatalf("velocity x = %f, want unchanged 0.5", d.Ball.Velocity.X)
	}
}

func TestPaddleBounceInvertsOnlyHorizontalVelocity(t *testing.T) {
	registry, scheduler, _ := newTestEngine(1)
	_, g := reachPlaying(t, registry, scheduler)

	// 朝上方球拍推進，位移後進入碰撞窗口
	setBall(g, Vector{X: PaddleDepth + 2, Y: FieldHeight / 2}, Vector{X: -1, Y: 0})
	scheduler.Tick()

	d := g.Snapshot()
	if d.Ball.Velocity.X != 1 {
		t.Fatalf("velocity x = %f, want 1", d.Ball.Velocity.X)
	}
	if d.Ball.Velocity.Y != 0 {
		t.Fatalf("velocity y = %f, want unchanged 0", d.Ball.Velocity.Y)
	}
}

func TestScoringIncrementsAndResetsRally(t *testing.T) {
	registry, scheduler, events := newTestEngine(1)
	_, g := reachPlaying(t, registry, scheduler)
	drainEvents(events)

	setBall(g, Vector{X: -10, Y: FieldHeight / 2}, Vector{X: -1, Y: 0})
	scheduler.Tick()

	d := g.Snapshot()
	if d.ScoreBottom != 1 || d.ScoreTop != 0 {
		t.Fatalf("score = %d:%d, want 0:1", d.ScoreTop, d.ScoreBottom)
	}
	if d.Ball.Position.X != FieldWidth/2 || d.Ball.Position.Y != FieldHeight/2 {
		t.Fatalf("ball not reset to center: %+v", d.Ball.Position)
	}
	if d.Ball.Velocity.X == 0 {
		t.Fatal("reset ball must not be frozen")
	}

	evs := drainEvents(events)
	if n := countTopic(evs, TopicScore); n != 1 {
		t.Fatalf("score events = %d, want 1", n)
	}
}

func TestMatchEndsAtMatchScore(t *testing.T) {
	registry, scheduler, events := newTestEngine(1)
	roomID, g := reachPlaying(t, registry, scheduler)

	// 連續三次把球推過右邊界，上方玩家得滿 3 分
	for i := 0; i < 3; i++ {
		setBall(g, Vector{X: FieldWidth + 10, Y: FieldHeight / 2}, Vector{X: 1, Y: 0})
		scheduler.Tick()
	}

	d := g.Snapshot()
	if d.Status != StatusEnded {
		t.Fatalf("status = %v, want ended", d.Status)
	}
	if d.ScoreTop != 3 {
		t.Fatalf("score top = %d, want 3", d.ScoreTop)
	}
	if want := g.Meta().PlayerTop.UserID; d.WinnerID != want {
		t.Fatalf("winner = %d, want %d", d.WinnerID, want)
	}

	// Ended 之後 end 事件只發一次
	scheduler.Tick()
	scheduler.Tick()
	scheduler.Tick()

	evs := drainEvents(events)
	if n := countTopic(evs, TopicEnd); n != 1 {
		t.Fatalf("end events = %d, want exactly 1", n)
	}
	var final Event
	for _, ev := range evs {
		if ev.Topic == TopicEnd {
			final = ev
		}
	}
	if final.Final == nil || final.Final.InGameData.WinnerID != d.WinnerID {
		t.Fatalf("final snapshot winner mismatch: %+v", final.Final)
	}
	if final.RoomID != roomID {
		t.Fatalf("final room = %s, want %s", final.RoomID, roomID)
	}
}

func TestWinnerNotSetBeforeEnd(t *testing.T) {
	registry, scheduler, _ := newTestEngine(1)
	_, g := reachPlaying(t, registry, scheduler)

	setBall(g, Vector{X: FieldWidth + 10, Y: FieldHeight / 2}, Vector{X: 1, Y: 0})
	scheduler.Tick()

	d := g.Snapshot()
	if d.Status != StatusPlaying {
		t.Fatalf("status = %v after 1 of 3 points, want playing", d.Status)
	}
	if d.WinnerID != 0 {
		t.Fatalf("winner = %d before end, want 0", d.WinnerID)
	}
}

func TestSessionsTickIndependently(t *testing.T) {
	registry, scheduler, _ := newTestEngine(100)
	roomA, _ := registry.Create(testMeta("room-a"), DefaultRuleData())
	roomB, _ := registry.Create(testMeta("room-b"), DefaultRuleData())

	scheduler.Tick()

	ga, _ := registry.Get(roomA)
	gb, _ := registry.Get(roomB)
	da, db := ga.Snapshot(), gb.Snapshot()
	if da.Frame != 1 || db.Frame != 1 {
		t.Fatalf("frames = %d, %d, want 1, 1", da.Frame, db.Frame)
	}
	if da.ScoreTop != 0 || db.ScoreTop != 0 || da.ScoreBottom != 0 || db.ScoreBottom != 0 {
		t.Fatal("cross-session mutation detected")
	}
}

func TestUnknownStatusIsolatesSession(t *testing.T) {
	registry, scheduler, _ := newTestEngine(100)
	corrupted, _ := registry.Create(testMeta("room-bad"), DefaultRuleData())
	healthy, _ := registry.Create(testMeta("room-ok"), DefaultRuleData())

	gBad, _ := registry.Get(corrupted)
	gBad.mu.Lock()
	gBad.InGameData.Status = GameStatus(99)
	gBad.mu.Unlock()

	scheduler.Tick()
	scheduler.Tick()

	if !gBad.Faulted() {
		t.Fatal("corrupted session should be flagged")
	}
	if d := gBad.Snapshot(); d.Frame != 0 {
		t.Fatalf("corrupted session frame = %d, want 0 (not advanced)", d.Frame)
	}

	gOK, _ := registry.Get(healthy)
	if d := gOK.Snapshot(); d.Frame != 2 {
		t.Fatalf("healthy session frame = %d, want 2", d.Frame)
	}
}
