package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/radiodex/internal/apperror"
	"github.com/user/radiodex/internal/model"
	"github.com/user/radiodex/internal/service"
	"github.com/user/radiodex/internal/utils"
)

const defaultStationsPerPage = 20

// ListStations 搜索/过滤电台
// search 按名称模糊匹配；genre/decade/topic/lang/mood/countrycode 为逗号分隔列表
func (h *Handler) ListStations(c *gin.Context) {
	p := queryPagination(c, defaultStationsPerPage)

	filter := model.StationFilter{
		Search:       strings.TrimSpace(c.Query("search")),
		Tags:         make(map[string][]string, len(model.TagCategories)),
		CountryCodes: utils.SplitList(c.Query("countrycode")),
	}
	for _, cat := range model.TagCategories {
		if values := utils.SplitList(c.Query(cat.Key)); len(values) > 0 {
			filter.Tags[cat.Key] = values
		}
	}

	stations, total, err := h.Repos.Station.Search(filter, p)
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to search stations", err))
		return
	}

	utils.Success(c, model.NewPageResult(stations, total, p))
}

// GetStation 电台详情
func (h *Handler) GetStation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	station, ok := h.requireStation(c, id)
	if !ok {
		return
	}
	utils.Success(c, station)
}

// SimilarStations 相似电台
func (h *Handler) SimilarStations(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	limit := utils.ParseInt(c.Query("limit"), service.DefaultSimilarLimit)

	similar, err := h.Similarity.FindSimilar(c.Request.Context(), id, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, similar)
}
