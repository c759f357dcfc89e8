package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/radiodex/internal/apperror"
	"github.com/user/radiodex/internal/config"
	"github.com/user/radiodex/internal/model"
	"github.com/user/radiodex/internal/repository"
	"github.com/user/radiodex/internal/service"
	"github.com/user/radiodex/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Repos      *repository.Repositories
	Config     *config.Config
	Similarity *service.SimilarityService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	utils.RegisterJSONFieldNames()

	return &Handler{
		Repos:      repos,
		Config:     cfg,
		Similarity: service.NewSimilarityService(repos.Station, cfg.SimilarCacheSize, cfg.SimilarCacheTTL),
	}
}

// Health 健康检查（含数据库连通性）
func (h *Handler) Health(c *gin.Context) {
	if err := h.Repos.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// stationIDRequest 请求体中的 station_id，指针用于区分缺失与 0
type stationIDRequest struct {
	StationID *int `json:"station_id"`
}

// paramID 解析路径中的数字 ID，非法时直接返回 400
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		utils.RespondError(c, apperror.NewBadRequestError("Invalid "+name))
		return 0, false
	}
	return id, true
}

// queryPagination 解析 page / per_page
func queryPagination(c *gin.Context, defaultPerPage int) model.Pagination {
	return model.NewPagination(
		utils.ParseInt(c.Query("page"), 1),
		utils.ParseInt(c.Query("per_page"), defaultPerPage),
		defaultPerPage,
	)
}

// bindStationID 读取请求体中的 station_id
func bindStationID(c *gin.Context, missingMsg string) (int, bool) {
	var req stationIDRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StationID == nil {
		utils.RespondError(c, apperror.NewBadRequestError(missingMsg))
		return 0, false
	}
	return *req.StationID, true
}

// requireStation 电台不存在时返回 404
func (h *Handler) requireStation(c *gin.Context, stationID int) (*model.Station, bool) {
	station, err := h.Repos.Station.FindByID(stationID)
	if err != nil {
		utils.RespondError(c, err)
		return nil, false
	}
	if station == nil {
		utils.RespondError(c, apperror.NewNotFoundError("Station not found"))
		return nil, false
	}
	return station, true
}
