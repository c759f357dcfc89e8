package repository

import (
	"github.com/user/radiodex/internal/model"
	"gorm.io/gorm"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// ListNames 获取某个维度下的全部标签名（按名称升序）
func (r *TagRepository) ListNames(cat model.TagCategory) ([]string, error) {
	names := []string{}
	err := r.db.Table(cat.Table).Order("name ASC").Pluck("name", &names).Error
	return names, err
}
