package game

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func testMeta(roomID string) MetaData {
	return MetaData{
		RoomID:       roomID,
		PlayerTop:    PlayerInfo{UserID: 1, UserName: "top"},
		PlayerBottom: PlayerInfo{UserID: 2, UserName: "bottom"},
	}
}

func TestCreateInitialState(t *testing.T) {
	r := NewRegistry()

	roomID, err := r.Create(testMeta(""), DefaultRuleData())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if roomID == "" {
		t.Fatal("expected generated room id")
	}

	g, err := r.Get(roomID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	d := g.Snapshot()
	if d.Status != StatusReady {
		t.Fatalf("status = %v, want ready", d.Status)
	}
	if d.Frame != 0 {
		t.Fatalf("frame = %d, want 0", d.Frame)
	}
	if d.ScoreTop != 0 || d.ScoreBottom != 0 {
		t.Fatalf("score = %d:%d, want 0:0", d.ScoreTop, d.ScoreBottom)
	}
	if d.Ball.Position.X != FieldWidth/2 || d.Ball.Position.Y != FieldHeight/2 {
		t.Fatalf("ball not centered: %+v", d.Ball.Position)
	}
	if d.Ball.Velocity.X == 0 {
		t.Fatal("initial serve velocity must not be zero")
	}
}

func TestCreateDuplicateRoom(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Create(testMeta("room-1"), DefaultRuleData()); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := r.Create(testMeta("room-1"), DefaultRuleData())
	if !errors.Is(err, ErrDuplicateRoom) {
		t.Fatalf("err = %v, want ErrDuplicateRoom", err)
	}
}

func TestGetMissingRoom(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nope")
	if !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	roomID, _ := r.Create(testMeta(""), DefaultRuleData())

	r.Remove(roomID)
	if r.Len() != 0 {
		t.Fatalf("len = %d after remove, want 0", r.Len())
	}

	// 第二次移除是 no-op
	r.Remove(roomID)
	if r.Len() != 0 {
		t.Fatalf("len = %d after second remove, want 0", r.Len())
	}
}

func TestSetPaddleDirection(t *testing.T) {
	r := NewRegistry()
	roomID, _ := r.Create(testMeta(""), DefaultRuleData())

	if err := r.SetPaddleDirection(roomID, 1, DirectiveDown); err != nil {
		t.Fatalf("SetPaddleDirection: %v", err)
	}
	g, _ := r.Get(roomID)
	d := g.Snapshot()
	if d.PaddleTop.Velocity.Y != float64(DirectiveDown) {
		t.Fatalf("top paddle velocity = %f, want %d", d.PaddleTop.Velocity.Y, DirectiveDown)
	}
	if d.PaddleBottom.Velocity.Y != 0 {
		t.Fatalf("bottom paddle velocity = %f, want 0", d.PaddleBottom.Velocity.Y)
	}

	// 指令採 last-write-wins
	if err := r.SetPaddleDirection(roomID, 1, DirectiveUp); err != nil {
		t.Fatalf("SetPaddleDirection: %v", err)
	}
	if d := g.Snapshot(); d.PaddleTop.Velocity.Y != float64(DirectiveUp) {
		t.Fatalf("top paddle velocity = %f, want %d", d.PaddleTop.Velocity.Y, DirectiveUp)
	}
}

func TestSetPaddleDirectionStrangerIsNoop(t *testing.T) {
	r := NewRegistry()
	roomID, _ := r.Create(testMeta(""), DefaultRuleData())

	// 不是參賽者：靜默忽略，不是錯誤
	if err := r.SetPaddleDirection(roomID, 99, DirectiveDown); err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	g, _ := r.Get(roomID)
	d := g.Snapshot()
	if d.PaddleTop.Velocity.Y != 0 || d.PaddleBottom.Velocity.Y != 0 {
		t.Fatal("stranger directive must not move any paddle")
	}
}

func TestSetPaddleDirectionMissingRoom(t *testing.T) {
	r := NewRegistry()
	err := r.SetPaddleDirection("nope", 1, DirectiveDown)
	if !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestConcurrentCreateAndRemove(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			roomID := fmt.Sprintf("room-%d", i)
			if _, err := r.Create(testMeta(roomID), DefaultRuleData()); err != nil {
				t.Errorf("Create %s: %v", roomID, err)
				return
			}
			if _, err := r.Get(roomID); err != nil {
				t.Errorf("Get %s: %v", roomID, err)
			}
			if i%2 == 0 {
				r.Remove(roomID)
			}
		}(i)
	}
	wg.Wait()

	if r.Len() != 25 {
		t.Fatalf("len = %d, want 25", r.Len())
	}
}
