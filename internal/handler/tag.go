package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/radiodex/internal/apperror"
	"github.com/user/radiodex/internal/model"
	"github.com/user/radiodex/internal/utils"
)

const tagCacheTTL = 10 * time.Minute

// TagCategories 所有标签维度
func (h *Handler) TagCategories(c *gin.Context) {
	utils.Success(c, model.TagCategoryNames())
}

// ListTags 某个维度下的全部标签名，维度可用展示名或参数名
func (h *Handler) ListTags(c *gin.Context) {
	cat, ok := model.FindTagCategory(c.Param("category"))
	if !ok {
		utils.RespondError(c, apperror.NewNotFoundError("Category not found"))
		return
	}

	cacheKey := "tags:" + cat.Key
	if cached, found := utils.CacheGet(cacheKey); found {
		utils.Success(c, cached)
		return
	}

	names, err := h.Repos.Tag.ListNames(cat)
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to list tags", err))
		return
	}

	utils.CacheSet(cacheKey, names, tagCacheTTL)
	utils.Success(c, names)
}
