package repository

import (
	"pong_web/internal/models"
	"pong_web/internal/storage"
)

// GameLogRepository 是戰績紀錄的持久化接口。
// 引擎把它當作 fire-and-forget 的收尾方：寫入失敗由呼叫端
// 記錄並另行對帳，不會回滾記憶體中的比賽狀態
type GameLogRepository interface {
	CreateDraft(log *models.GameLog) error
	Finalize(logID uint, winnerID uint, scoreTop, scoreBottom uint8) error
	FindByID(id uint) (*models.GameLog, error)
	FindByUserID(userID uint) ([]models.GameLog, error)
}

type gameLogRepository struct {
	db *storage.PostgresDB
}

func NewGameLogRepository(db *storage.PostgresDB) GameLogRepository {
	return &gameLogRepository{db: db}
}

// CreateDraft 在比賽開始時建立草稿紀錄
func (r *gameLogRepository) CreateDraft(log *models.GameLog) error {
	log.Status = models.GameLogDraft
	return r.db.Create(log).Error
}

// Finalize 在比賽結束時補上勝者與最終比分
func (r *gameLogRepository) Finalize(logID uint, winnerID uint, scoreTop, scoreBottom uint8) error {
	return r.db.Model(&models.GameLog{}).Where("id = ?", logID).Updates(map[string]interface{}{
		"winner_id":    winnerID,
		"score_top":    scoreTop,
		"score_bottom": scoreBottom,
		"status":       models.GameLogFinished,
	}).Error
}

func (r *gameLogRepository) FindByID(id uint) (*models.GameLog, error) {
	var log models.GameLog
	err := r.db.First(&log, id).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// FindByUserID 查詢某位玩家參與過的所有比賽，新的在前
func (r *gameLogRepository) FindByUserID(userID uint) ([]models.GameLog, error) {
	var logs []models.GameLog
	err := r.db.Where("top_user_id = ? OR bottom_user_id = ?", userID, userID).
		Order("created_at DESC").Find(&logs).Error
	return logs, err
}
