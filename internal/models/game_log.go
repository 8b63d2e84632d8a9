package models

import (
	"gorm.io/gorm"
)

// GameLog 表示一場比賽的戰績紀錄。比賽開始時以草稿建立，
// 結束時補上勝者與最終比分
type GameLog struct {
	gorm.Model
	RoomID         string        `gorm:"index" json:"room_id"`
	IsRankGame     bool          `json:"is_rank_game"`
	TopUserID      uint          `gorm:"index" json:"top_user_id"`
	TopUserName    string        `json:"top_user_name"`
	BottomUserID   uint          `gorm:"index" json:"bottom_user_id"`
	BottomUserName string        `json:"bottom_user_name"`
	PaddleSize     uint8         `json:"paddle_size"`
	BallSpeed      uint8         `json:"ball_speed"`
	MatchScore     uint8         `json:"match_score"`
	WinnerID       uint          `json:"winner_id"`
	ScoreTop       uint8         `json:"score_top"`
	ScoreBottom    uint8         `json:"score_bottom"`
	Status         GameLogStatus `gorm:"type:varchar(20)" json:"status"`
}

// GameLogStatus 定義戰績紀錄的狀態
type GameLogStatus string

const (
	GameLogDraft    GameLogStatus = "draft"    // 比賽開始時的草稿
	GameLogFinished GameLogStatus = "finished" // 已寫入最終結果
)
