package game

import "testing"

func TestSubscribeReceivesTypedPayload(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe()

	bus.Publish(Event{Topic: TopicScore, RoomID: "room-1", Score: &ScoreSnapshot{ScoreTop: 2, ScoreBottom: 1}})

	select {
	case ev := <-ch:
		if ev.Topic != TopicScore || ev.RoomID != "room-1" {
			t.Fatalf("unexpected event: %+v", ev)
		}
		if ev.Score == nil || ev.Score.ScoreTop != 2 || ev.Score.ScoreBottom != 1 {
			t.Fatalf("unexpected payload: %+v", ev.Score)
		}
	default:
		t.Fatal("expected event in subscriber buffer")
	}
}

func TestPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe()

	// 塞爆訂閱者的緩衝，多出來的事件被丟棄而不是卡住發布端
	for i := 0; i < subscriberBuffer+10; i++ {
		bus.Publish(Event{Topic: TopicRender, RoomID: "room-1"})
	}

	if len(ch) != subscriberBuffer {
		t.Fatalf("buffered events = %d, want %d", len(ch), subscriberBuffer)
	}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := NewEventBus()
	a := bus.Subscribe()
	b := bus.Subscribe()

	bus.Publish(Event{Topic: TopicStart, RoomID: "room-1"})

	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("subscriber buffers = %d, %d, want 1, 1", len(a), len(b))
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewEventBus()
	// 沒有訂閱者時發布不得出錯或阻塞
	bus.Publish(Event{Topic: TopicEnd, RoomID: "room-1"})
}
