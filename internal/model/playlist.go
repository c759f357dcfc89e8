package model

import "time"

// Playlist 用户歌单
type Playlist struct {
	ID          int            `json:"id" db:"id"`
	Name        string         `json:"name" db:"name" gorm:"size:120;not null"`
	Description string         `json:"description" db:"description" gorm:"type:text"`
	IsPublic    bool           `json:"is_public" db:"is_public" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at" gorm:"index"`
	UserID      int            `json:"user_id" db:"user_id" gorm:"not null;index"`
	Owner       *PlaylistOwner `json:"owner,omitempty" gorm:"foreignKey:UserID"`
	Stations    []Station      `json:"stations" gorm:"-"` // 按加入顺序填充
}

// PlaylistOwner 歌单所有者，只暴露公开字段
type PlaylistOwner struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

func (PlaylistOwner) TableName() string {
	return "users"
}

// PlaylistStation 歌单与电台的关联
type PlaylistStation struct {
	PlaylistID int       `json:"playlist_id" db:"playlist_id" gorm:"primaryKey;autoIncrement:false"`
	StationID  int       `json:"station_id" db:"station_id" gorm:"primaryKey;autoIncrement:false"`
	AddedAt    time.Time `json:"added_at" db:"added_at"`
}

func (PlaylistStation) TableName() string {
	return "playlist_stations"
}

// PlaylistUpdate 歌单局部更新，nil 表示不修改
type PlaylistUpdate struct {
	Name        *string
	Description *string
	IsPublic    *bool
}
