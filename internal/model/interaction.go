package model

import (
	"time"
)

// Favorite 收藏
type Favorite struct {
	UserID    int       `json:"user_id" db:"user_id" gorm:"primaryKey;autoIncrement:false"`
	StationID int       `json:"station_id" db:"station_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Station   *Station  `json:"station,omitempty" gorm:"foreignKey:StationID"` // 关联查询时填充
}

func (Favorite) TableName() string {
	return "user_favorites"
}

// PlayHistory 收听历史，只追加
type PlayHistory struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id" gorm:"not null;index"`
	StationID int       `json:"station_id" db:"station_id" gorm:"not null;index"`
	PlayedAt  time.Time `json:"played_at" db:"played_at" gorm:"index"`
	Station   *Station  `json:"station,omitempty" gorm:"foreignKey:StationID"`
}
