package game

import (
	"math/rand"
	"sync"
)

// 場地與物理的基本參數，皆以「每 tick」為時間單位
const (
	FieldWidth  = 480.0 // 場地寬度（x 軸，計分方向）
	FieldHeight = 270.0 // 場地高度（y 軸，球拍移動方向）

	// PaddleDepth 是球拍距離自己防守邊緣的深度，
	// 球進入這個窗口且落在球拍範圍內才算碰撞
	PaddleDepth = 12.0

	// PaddleHalfUnit 是每單位 paddleSize 對應的球拍半長
	PaddleHalfUnit = 15.0

	// PaddleSpeed 是球拍每 tick 的移動距離
	PaddleSpeed = 3.0

	// BallUnitSpeed 是每單位 ballSpeed 對應的球速
	BallUnitSpeed = 2.0
)

// GameStatus 定義一場比賽的狀態，只會單向前進：Ready -> Playing -> Ended
type GameStatus uint8

const (
	StatusReady GameStatus = iota
	StatusPlaying
	StatusEnded
)

func (s GameStatus) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusPlaying:
		return "playing"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// PaddleDirective 是玩家對球拍下的方向指令
type PaddleDirective int8

const (
	DirectiveUp   PaddleDirective = -1
	DirectiveStop PaddleDirective = 0
	DirectiveDown PaddleDirective = 1
)

// ScorePosition 表示這個 tick 球是否越過了計分邊界
type ScorePosition uint8

const (
	ScoreNone ScorePosition = iota
	ScoreTopWin
	ScoreBottomWin
)

// GameResult 表示是否已有一方達到獲勝分數
type GameResult uint8

const (
	ResultNone GameResult = iota
	ResultTopWin
	ResultBottomWin
)

// Vector 是一個二維向量，同時用於位置與速度
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Ball 表示球的位置與速度。速度的 X 分量是單位方向（±1），
// Y 分量是相對於球速的比例，實際位移由物理函數乘上規則中的球速
type Ball struct {
	Position Vector `json:"position"`
	Velocity Vector `json:"velocity"`
}

// Paddle 表示一支球拍。X 座標固定在自己防守的邊，
// 只有 Y 座標會隨指令移動
type Paddle struct {
	Position Vector `json:"position"`
	Velocity Vector `json:"velocity"`
}

// PlayerInfo 是參賽者的身份快照
type PlayerInfo struct {
	UserID   uint   `json:"userId"`
	UserName string `json:"userName"`
}

// MetaData 是一場比賽的元資料。上方玩家防守 x=0 那一邊，
// 下方玩家防守 x=FieldWidth 那一邊
type MetaData struct {
	RoomID       string     `json:"roomId"`
	PlayerTop    PlayerInfo `json:"playerTop"`
	PlayerBottom PlayerInfo `json:"playerBottom"`
	IsRankGame   bool       `json:"isRankGame"`
	GameLogID    uint       `json:"gameLogId"`
}

// RuleData 是比賽規則，建立後不可變更
type RuleData struct {
	PaddleSize uint8 `json:"paddleSize"`
	BallSpeed  uint8 `json:"ballSpeed"`
	MatchScore uint8 `json:"matchScore"`
}

// DefaultRuleData 回傳預設規則
func DefaultRuleData() RuleData {
	return RuleData{
		PaddleSize: 2,
		BallSpeed:  2,
		MatchScore: 5,
	}
}

// InGameData 是比賽進行中的即時狀態，只有排程器會在 tick 中修改它
type InGameData struct {
	Frame        uint64     `json:"frame"`
	Status       GameStatus `json:"status"`
	Ball         Ball       `json:"ball"`
	PaddleTop    Paddle     `json:"paddleTop"`
	PaddleBottom Paddle     `json:"paddleBottom"`
	ScoreTop     uint8      `json:"scoreTop"`
	ScoreBottom  uint8      `json:"scoreBottom"`
	WinnerID     uint       `json:"winnerId"`
}

// GameData 是一場比賽的完整狀態。欄位的讀寫必須透過 mu 保護：
// 指令路徑只改球拍速度，排程器在 tick 中改其餘即時欄位
type GameData struct {
	MetaData   MetaData
	RuleData   RuleData
	InGameData InGameData

	mu      sync.Mutex
	rng     *rand.Rand
	faulted bool // 狀態機遇到未知狀態後被隔離
	endSent bool // end 事件只發送一次
}

// Meta 回傳元資料的快照
func (g *GameData) Meta() MetaData {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.MetaData
}

// Snapshot 回傳即時狀態的快照
func (g *GameData) Snapshot() InGameData {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.InGameData
}

// Faulted 回報這場比賽是否因狀態毀損而被排程器隔離，
// 供營運端檢視
func (g *GameData) Faulted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faulted
}

// SetGameLogID 寫入戰績紀錄的外鍵，在草稿建立之後由服務層呼叫
func (g *GameData) SetGameLogID(id uint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.MetaData.GameLogID = id
}

// RenderSnapshot 是每個 tick 廣播給客戶端的畫面資料
type RenderSnapshot struct {
	Frame         uint64  `json:"frame"`
	Ball          Vector  `json:"ball"`
	PaddleTopY    float64 `json:"paddleTopY"`
	PaddleBottomY float64 `json:"paddleBottomY"`
}

// ScoreSnapshot 是得分發生時廣播的比分
type ScoreSnapshot struct {
	ScoreTop    uint8 `json:"scoreTop"`
	ScoreBottom uint8 `json:"scoreBottom"`
}

// FinalSnapshot 是比賽結束時的完整快照
type FinalSnapshot struct {
	MetaData   MetaData   `json:"metaData"`
	InGameData InGameData `json:"inGameData"`
}
