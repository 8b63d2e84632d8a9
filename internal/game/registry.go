package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry 管理所有進行中的比賽，是比賽生命週期的唯一擁有者。
// map 由讀寫鎖保護，不同房間的操作互不阻塞；
// 單場比賽內部的欄位則由各自的 mutex 序列化
type Registry struct {
	mu    sync.RWMutex
	games map[string]*GameData
}

// NewRegistry 建立一個空的比賽註冊表
func NewRegistry() *Registry {
	return &Registry{
		games: make(map[string]*GameData),
	}
}

// Create 建立一場新比賽並放入註冊表。
// meta.RoomID 留空時會自動產生一組 UUID；
// 呼叫端自行指定 ID 而發生衝突時回傳 ErrDuplicateRoom
func (r *Registry) Create(meta MetaData, rule RuleData) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if meta.RoomID == "" {
		meta.RoomID = uuid.NewString()
	} else if _, exists := r.games[meta.RoomID]; exists {
		return "", ErrDuplicateRoom
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	g := &GameData{
		MetaData:   meta,
		RuleData:   rule,
		InGameData: newInGameData(rng),
		rng:        rng,
	}
	r.games[meta.RoomID] = g
	return meta.RoomID, nil
}

// Get 取得指定房間的比賽，不存在時回傳 ErrRoomNotFound
func (r *Registry) Get(roomID string) (*GameData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.games[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return g, nil
}

// SetPaddleDirection 變更指定玩家的球拍方向。
// userID 不屬於任何一方時靜默忽略；指令採 last-write-wins，
// 從下一個 tick 開始生效
func (r *Registry) SetPaddleDirection(roomID string, userID uint, direction PaddleDirective) error {
	g, err := r.Get(roomID)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.MetaData.PlayerTop.UserID == userID {
		g.InGameData.PaddleTop.Velocity.Y = float64(direction)
	}
	if g.MetaData.PlayerBottom.UserID == userID {
		g.InGameData.PaddleBottom.Velocity.Y = float64(direction)
	}
	return nil
}

// Remove 將比賽移出註冊表。移除不存在的房間是 no-op，不是錯誤
func (r *Registry) Remove(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, roomID)
}

// ForEach 以當下的快照走訪所有比賽。先在讀鎖內複製清單，
// 走訪期間不持有註冊表的鎖，指令路徑不會被整輪 tick 卡住
func (r *Registry) ForEach(fn func(roomID string, g *GameData)) {
	r.mu.RLock()
	snapshot := make(map[string]*GameData, len(r.games))
	for id, g := range r.games {
		snapshot[id] = g
	}
	r.mu.RUnlock()

	for id, g := range snapshot {
		fn(id, g)
	}
}

// Len 回傳進行中的比賽數量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
