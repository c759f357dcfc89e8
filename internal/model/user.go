package model

import (
	"time"
)

// User 用户模型
type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username" gorm:"size:80;uniqueIndex;not null"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"size:128;not null"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Profile 个人资料（带统计）
type Profile struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	CreatedAt      time.Time `json:"created_at"`
	FavoritesCount int       `json:"favorites_count"`
	PlaylistsCount int       `json:"playlists_count"`
	HistoryCount   int       `json:"history_count"`
}
