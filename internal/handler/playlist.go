package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/user/radiodex/internal/apperror"
	"github.com/user/radiodex/internal/middleware"
	"github.com/user/radiodex/internal/model"
	"github.com/user/radiodex/internal/utils"
)

const (
	defaultPlaylistsPerPage = 10
	playlistNotFound        = "Playlist not found"
)

// playlistRequest 创建/更新歌单，nil 表示未提供
type playlistRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=120"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

// bindPlaylist 解析请求体；JSON 本身非法时返回 400
func bindPlaylist(c *gin.Context) (*playlistRequest, bool) {
	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, apperror.NewValidationError(utils.BindingMessage(err)))
		return nil, false
	}
	return &req, true
}

// CreatePlaylist 创建歌单，默认公开
func (h *Handler) CreatePlaylist(c *gin.Context) {
	req, ok := bindPlaylist(c)
	if !ok {
		return
	}
	if req.Name == nil || *req.Name == "" {
		utils.RespondError(c, apperror.NewBadRequestError("Missing playlist name"))
		return
	}
	name := strings.TrimSpace(*req.Name)
	if name == "" {
		utils.RespondError(c, apperror.NewBadRequestError("Playlist name cannot be empty"))
		return
	}

	playlist := &model.Playlist{
		Name:     name,
		IsPublic: true,
		UserID:   middleware.GetUserID(c),
	}
	if req.Description != nil {
		playlist.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsPublic != nil {
		playlist.IsPublic = *req.IsPublic
	}

	if err := h.Repos.Playlist.Create(playlist); err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to create playlist", err))
		return
	}

	created, err := h.Repos.Playlist.FindByID(playlist.ID)
	if err != nil || created == nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to reload playlist", err))
		return
	}
	log.Info().Int("playlist_id", created.ID).Int("user_id", created.UserID).Msg("playlist created")
	utils.Created(c, created)
}

// ListPublicPlaylists 公开歌单（最新的在前）
func (h *Handler) ListPublicPlaylists(c *gin.Context) {
	p := queryPagination(c, defaultPlaylistsPerPage)

	playlists, total, err := h.Repos.Playlist.ListPublic(p)
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to list playlists", err))
		return
	}
	utils.Success(c, model.NewPageResult(playlists, total, p))
}

// MyPlaylists 当前用户的全部歌单
func (h *Handler) MyPlaylists(c *gin.Context) {
	playlists, err := h.Repos.Playlist.ListByUser(middleware.GetUserID(c))
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to list playlists", err))
		return
	}
	utils.Success(c, playlists)
}

// GetPlaylist 公开歌单任何人可见，私有歌单只有所有者可见
func (h *Handler) GetPlaylist(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	playlist, err := h.Repos.Playlist.FindByID(id)
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to load playlist", err))
		return
	}
	// 私有歌单对他人一律表现为不存在
	if playlist == nil || (!playlist.IsPublic && playlist.UserID != middleware.GetUserID(c)) {
		utils.RespondError(c, apperror.NewNotFoundError(playlistNotFound))
		return
	}
	utils.Success(c, playlist)
}

// loadOwnedPlaylist 加载歌单并校验所有权
func (h *Handler) loadOwnedPlaylist(c *gin.Context) (*model.Playlist, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	playlist, err := h.Repos.Playlist.FindByID(id)
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to load playlist", err))
		return nil, false
	}
	if playlist == nil {
		utils.RespondError(c, apperror.NewNotFoundError(playlistNotFound))
		return nil, false
	}
	if playlist.UserID != middleware.GetUserID(c) {
		if h.Config.OwnershipAsForbidden {
			utils.RespondError(c, apperror.NewForbiddenError("You do not own this playlist"))
		} else {
			utils.RespondError(c, apperror.NewNotFoundError(playlistNotFound))
		}
		return nil, false
	}
	return playlist, true
}

// UpdatePlaylist 局部更新
func (h *Handler) UpdatePlaylist(c *gin.Context) {
	playlist, ok := h.loadOwnedPlaylist(c)
	if !ok {
		return
	}
	req, ok := bindPlaylist(c)
	if !ok {
		return
	}
	if req.Name == nil && req.Description == nil && req.IsPublic == nil {
		utils.RespondError(c, apperror.NewBadRequestError("Missing playlist data"))
		return
	}

	upd := model.PlaylistUpdate{IsPublic: req.IsPublic}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			utils.RespondError(c, apperror.NewBadRequestError("Playlist name cannot be empty"))
			return
		}
		upd.Name = &name
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		upd.Description = &desc
	}

	if err := h.Repos.Playlist.Update(playlist, upd); err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to update playlist", err))
		return
	}
	utils.Success(c, playlist)
}

// DeletePlaylist 删除歌单
func (h *Handler) DeletePlaylist(c *gin.Context) {
	playlist, ok := h.loadOwnedPlaylist(c)
	if !ok {
		return
	}

	if err := h.Repos.Playlist.Delete(playlist.ID); err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to delete playlist", err))
		return
	}
	log.Info().Int("playlist_id", playlist.ID).Msg("playlist deleted")
	c.Status(http.StatusNoContent)
}

// AddPlaylistStation 向歌单加入电台
func (h *Handler) AddPlaylistStation(c *gin.Context) {
	playlist, ok := h.loadOwnedPlaylist(c)
	if !ok {
		return
	}
	stationID, ok := bindStationID(c, "Missing station_id in request body")
	if !ok {
		return
	}
	station, ok := h.requireStation(c, stationID)
	if !ok {
		return
	}

	exists, err := h.Repos.Playlist.HasStation(playlist.ID, station.ID)
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to check playlist station", err))
		return
	}
	if exists {
		utils.RespondError(c, apperror.NewBadRequestError("Station already added"))
		return
	}

	// 并发加入时由主键冲突兜底
	added, err := h.Repos.Playlist.AddStation(playlist.ID, station.ID)
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to add station to playlist", err))
		return
	}
	if !added {
		utils.RespondError(c, apperror.NewBadRequestError("Station already added"))
		return
	}
	utils.Message(c, http.StatusCreated, fmt.Sprintf("Station '%s' added to playlist '%s'", station.Name, playlist.Name))
}

// RemovePlaylistStation 从歌单移除电台
func (h *Handler) RemovePlaylistStation(c *gin.Context) {
	playlist, ok := h.loadOwnedPlaylist(c)
	if !ok {
		return
	}
	stationID, ok := paramID(c, "station_id")
	if !ok {
		return
	}
	station, ok := h.requireStation(c, stationID)
	if !ok {
		return
	}

	removed, err := h.Repos.Playlist.RemoveStation(playlist.ID, station.ID)
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to remove station from playlist", err))
		return
	}
	if !removed {
		utils.RespondError(c, apperror.NewBadRequestError("Station not in this playlist"))
		return
	}
	utils.Message(c, http.StatusOK, fmt.Sprintf("Station '%s' removed from playlist '%s'", station.Name, playlist.Name))
}
