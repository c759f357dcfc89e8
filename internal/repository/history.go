package repository

import (
	"time"

	"github.com/user/radiodex/internal/model"
	"gorm.io/gorm"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Add 追加一条收听记录
func (r *HistoryRepository) Add(userID, stationID int) (*model.PlayHistory, error) {
	h := &model.PlayHistory{
		UserID:    userID,
		StationID: stationID,
		PlayedAt:  time.Now(),
	}
	if err := r.db.Create(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}

// ListByUser 分页获取用户收听历史（最新的在前，附带电台信息）
func (r *HistoryRepository) ListByUser(userID int, p model.Pagination) ([]model.PlayHistory, int64, error) {
	var total int64
	if err := r.db.Model(&model.PlayHistory{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var histories []model.PlayHistory
	err := preloadTags(r.db.Preload("Station"), "Station.").
		Where("user_id = ?", userID).
		Order("played_at DESC").
		Order("id DESC").
		Limit(p.PerPage).
		Offset(p.Offset()).
		Find(&histories).Error
	return histories, total, err
}

// CountByUser 统计用户收听历史数量
func (r *HistoryRepository) CountByUser(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.PlayHistory{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

// Delete 删除用户自己的一条记录，返回是否删除成功
func (r *HistoryRepository) Delete(userID int, id int) (bool, error) {
	result := r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&model.PlayHistory{})
	return result.RowsAffected > 0, result.Error
}

// DeleteOlderThan 清理早于指定时间的记录
func (r *HistoryRepository) DeleteOlderThan(before time.Time) (int64, error) {
	result := r.db.Where("played_at < ?", before).Delete(&model.PlayHistory{})
	return result.RowsAffected, result.Error
}
