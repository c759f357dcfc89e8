package repository

import (
	"time"

	"github.com/user/radiodex/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository struct {
	db       *gorm.DB
	stations *StationRepository
}

func NewFavoriteRepository(db *gorm.DB, stations *StationRepository) *FavoriteRepository {
	return &FavoriteRepository{db: db, stations: stations}
}

// Add 添加收藏，返回是否新增（已收藏时不重复插入）
func (r *FavoriteRepository) Add(userID, stationID int) (bool, error) {
	favorite := &model.Favorite{
		UserID:    userID,
		StationID: stationID,
		CreatedAt: time.Now(),
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(favorite)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Remove 取消收藏，返回是否有记录被删除
func (r *FavoriteRepository) Remove(userID, stationID int) (bool, error) {
	result := r.db.Where("user_id = ? AND station_id = ?", userID, stationID).Delete(&model.Favorite{})
	return result.RowsAffected > 0, result.Error
}

// ListStations 获取用户收藏的电台，最近收藏的在前
func (r *FavoriteRepository) ListStations(userID int) ([]model.Station, error) {
	var ids []int
	err := r.db.Model(&model.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("station_id DESC").
		Pluck("station_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return r.stations.FindByIDs(ids)
}

// CountByUser 统计用户收藏数量
func (r *FavoriteRepository) CountByUser(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.Favorite{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}
