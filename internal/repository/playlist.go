package repository

import (
	"errors"
	"time"

	"github.com/user/radiodex/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaylistRepository struct {
	db       *gorm.DB
	stations *StationRepository
}

func NewPlaylistRepository(db *gorm.DB, stations *StationRepository) *PlaylistRepository {
	return &PlaylistRepository{db: db, stations: stations}
}

// Create 创建歌单
func (r *PlaylistRepository) Create(p *model.Playlist) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if err := r.db.Omit("Owner").Create(p).Error; err != nil {
		return err
	}
	return r.attach([]*model.Playlist{p})
}

// FindByID 根据 ID 查找歌单（含所有者与电台）
func (r *PlaylistRepository) FindByID(id int) (*model.Playlist, error) {
	var p model.Playlist
	err := r.db.Preload("Owner").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.attach([]*model.Playlist{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPublic 分页获取公开歌单，最新的在前
func (r *PlaylistRepository) ListPublic(p model.Pagination) ([]model.Playlist, int64, error) {
	var total int64
	if err := r.db.Model(&model.Playlist{}).Where("is_public = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var playlists []model.Playlist
	err := r.db.Preload("Owner").
		Where("is_public = ?", true).
		Order("created_at DESC").
		Order("id DESC").
		Limit(p.PerPage).
		Offset(p.Offset()).
		Find(&playlists).Error
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachAll(playlists); err != nil {
		return nil, 0, err
	}
	return playlists, total, nil
}

// ListByUser 获取用户的全部歌单（含私有）
func (r *PlaylistRepository) ListByUser(userID int) ([]model.Playlist, error) {
	var playlists []model.Playlist
	err := r.db.Preload("Owner").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&playlists).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachAll(playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// CountByUser 统计用户歌单数量
func (r *PlaylistRepository) CountByUser(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.Playlist{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

// Update 局部更新歌单
func (r *PlaylistRepository) Update(p *model.Playlist, upd model.PlaylistUpdate) error {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
		p.Description = *upd.Description
	}
	if upd.IsPublic != nil {
		fields["is_public"] = *upd.IsPublic
		p.IsPublic = *upd.IsPublic
	}
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&model.Playlist{}).Where("id = ?", p.ID).Updates(fields).Error
}

// Delete 删除歌单及其电台关联
func (r *PlaylistRepository) Delete(id int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistStation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Playlist{}, id).Error
	})
}

// HasStation 电台是否已在歌单中
func (r *PlaylistRepository) HasStation(playlistID, stationID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.PlaylistStation{}).
		Where("playlist_id = ? AND station_id = ?", playlistID, stationID).
		Count(&count).Error
	return count > 0, err
}

// AddStation 加入电台，返回是否新增
func (r *PlaylistRepository) AddStation(playlistID, stationID int) (bool, error) {
	ps := &model.PlaylistStation{
		PlaylistID: playlistID,
		StationID:  stationID,
		AddedAt:    time.Now(),
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(ps)
	return result.RowsAffected > 0, result.Error
}

// RemoveStation 移除电台，返回是否有记录被删除
func (r *PlaylistRepository) RemoveStation(playlistID, stationID int) (bool, error) {
	result := r.db.Where("playlist_id = ? AND station_id = ?", playlistID, stationID).Delete(&model.PlaylistStation{})
	return result.RowsAffected > 0, result.Error
}

func (r *PlaylistRepository) attachAll(playlists []model.Playlist) error {
	ptrs := make([]*model.Playlist, len(playlists))
	for i := range playlists {
		ptrs[i] = &playlists[i]
	}
	return r.attach(ptrs)
}

// attach 按加入顺序填充歌单中的电台
func (r *PlaylistRepository) attach(playlists []*model.Playlist) error {
	if len(playlists) == 0 {
		return nil
	}

	ids := make([]int, len(playlists))
	for i, p := range playlists {
		ids[i] = p.ID
		p.Stations = []model.Station{}
	}

	var links []model.PlaylistStation
	err := r.db.Where("playlist_id IN ?", ids).
		Order("added_at ASC").
		Order("station_id ASC").
		Find(&links).Error
	if err != nil {
		return err
	}

	// 一次查出所有涉及的电台
	stationIDs := make([]int, 0, len(links))
	seen := make(map[int]bool)
	for _, l := range links {
		if !seen[l.StationID] {
			seen[l.StationID] = true
			stationIDs = append(stationIDs, l.StationID)
		}
	}
	stations, err := r.stations.FindByIDs(stationIDs)
	if err != nil {
		return err
	}
	byID := make(map[int]model.Station, len(stations))
	for _, s := range stations {
		byID[s.ID] = s
	}

	index := make(map[int]*model.Playlist, len(playlists))
	for _, p := range playlists {
		index[p.ID] = p
	}
	for _, l := range links {
		if p, ok := index[l.PlaylistID]; ok {
			if s, ok := byID[l.StationID]; ok {
				p.Stations = append(p.Stations, s)
			}
		}
	}
	return nil
}
