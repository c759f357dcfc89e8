package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/radiodex/internal/apperror"
	"github.com/user/radiodex/internal/middleware"
	"github.com/user/radiodex/internal/model"
	"github.com/user/radiodex/internal/utils"
)

const defaultHistoryPerPage = 30

// ==================== 收藏 ====================

// ListFavorites 我的收藏（最近收藏的在前）
func (h *Handler) ListFavorites(c *gin.Context) {
	stations, err := h.Repos.Favorite.ListStations(middleware.GetUserID(c))
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to list favorites", err))
		return
	}
	utils.Success(c, stations)
}

// AddFavorite 添加收藏，重复添加不报错
func (h *Handler) AddFavorite(c *gin.Context) {
	stationID, ok := bindStationID(c, "Missing station_id")
	if !ok {
		return
	}
	if _, ok := h.requireStation(c, stationID); !ok {
		return
	}

	created, err := h.Repos.Favorite.Add(middleware.GetUserID(c), stationID)
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to add favorite", err))
		return
	}
	if !created {
		utils.Message(c, http.StatusOK, "Station already in favorites")
		return
	}
	utils.Message(c, http.StatusCreated, "Station added to favorites")
}

// RemoveFavorite 取消收藏
func (h *Handler) RemoveFavorite(c *gin.Context) {
	stationID, ok := paramID(c, "station_id")
	if !ok {
		return
	}
	if _, ok := h.requireStation(c, stationID); !ok {
		return
	}

	removed, err := h.Repos.Favorite.Remove(middleware.GetUserID(c), stationID)
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to remove favorite", err))
		return
	}
	if !removed {
		utils.RespondError(c, apperror.NewBadRequestError("Station not in favorites"))
		return
	}
	utils.Message(c, http.StatusOK, "Station removed from favorites")
}

// ==================== 收听历史 ====================

// RecordPlay 记录一次收听
func (h *Handler) RecordPlay(c *gin.Context) {
	stationID, ok := bindStationID(c, "Missing station_id")
	if !ok {
		return
	}
	if _, ok := h.requireStation(c, stationID); !ok {
		return
	}

	if _, err := h.Repos.History.Add(middleware.GetUserID(c), stationID); err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to record playback", err))
		return
	}
	utils.Message(c, http.StatusCreated, "Playback recorded")
}

// ListHistory 分页获取收听历史
func (h *Handler) ListHistory(c *gin.Context) {
	p := queryPagination(c, defaultHistoryPerPage)

	entries, total, err := h.Repos.History.ListByUser(middleware.GetUserID(c), p)
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to list history", err))
		return
	}
	utils.Success(c, model.NewPageResult(entries, total, p))
}

// RemoveHistory 删除自己的一条收听记录
func (h *Handler) RemoveHistory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	removed, err := h.Repos.History.Delete(middleware.GetUserID(c), id)
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to delete history entry", err))
		return
	}
	if !removed {
		utils.RespondError(c, apperror.NewNotFoundError("History entry not found"))
		return
	}
	c.Status(http.StatusNoContent)
}
