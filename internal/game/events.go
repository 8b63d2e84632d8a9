package game

import "sync"

// Topic 是事件匯流排上的固定主題
type Topic uint8

const (
	TopicStart Topic = iota
	TopicRender
	TopicScore
	TopicEnd
)

func (t Topic) String() string {
	switch t {
	case TopicStart:
		return "game:start"
	case TopicRender:
		return "game:render"
	case TopicScore:
		return "game:score"
	case TopicEnd:
		return "game:end"
	default:
		return "game:unknown"
	}
}

// Event 是一則帶型別負載的事件，依主題只會填入對應的欄位
type Event struct {
	Topic  Topic
	RoomID string
	Render *RenderSnapshot
	Score  *ScoreSnapshot
	Final  *FinalSnapshot
}

// subscriberBuffer 是每個訂閱者的通道緩衝大小
const subscriberBuffer = 256

// EventBus 把排程器與下游消費者解耦。發布端 fire-and-forget：
// 訂閱者的緩衝滿了就丟棄事件，絕不阻塞 tick
type EventBus struct {
	mu   sync.RWMutex
	subs []chan Event
}

// NewEventBus 建立事件匯流排
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe 註冊一個訂閱者，回傳接收事件的通道
func (b *EventBus) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Publish 將事件發給所有訂閱者，永不阻塞
func (b *EventBus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// 訂閱者來不及消化，丟棄這則事件
		}
	}
}
