package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/user/radiodex/internal/model"
	"gorm.io/gorm"
)

var tagAssociations = []string{"MusicGenres", "Decades", "Topics", "Langs", "Moods"}

// preloadTags 预加载五个维度的标签，prefix 用于嵌套关联（如 "Station."）
func preloadTags(db *gorm.DB, prefix string) *gorm.DB {
	for _, assoc := range tagAssociations {
		db = db.Preload(prefix+assoc, func(tx *gorm.DB) *gorm.DB {
			return tx.Order("name ASC")
		})
	}
	return db
}

type StationRepository struct {
	db *gorm.DB
}

func NewStationRepository(db *gorm.DB) *StationRepository {
	return &StationRepository{db: db}
}

// FindByID 根据 ID 查找电台（含标签）
func (r *StationRepository) FindByID(id int) (*model.Station, error) {
	var station model.Station
	err := preloadTags(r.db, "").First(&station, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &station, nil
}

// FindByIDs 批量查找电台，按传入顺序返回，不存在的 ID 被忽略
func (r *StationRepository) FindByIDs(ids []int) ([]model.Station, error) {
	if len(ids) == 0 {
		return []model.Station{}, nil
	}

	var stations []model.Station
	if err := preloadTags(r.db, "").Where("id IN ?", ids).Find(&stations).Error; err != nil {
		return nil, err
	}

	byID := make(map[int]model.Station, len(stations))
	for _, s := range stations {
		byID[s.ID] = s
	}
	result := make([]model.Station, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			result = append(result, s)
		}
	}
	return result, nil
}

// Search 分页搜索电台
func (r *StationRepository) Search(f model.StationFilter, p model.Pagination) ([]model.Station, int64, error) {
	q := r.db.Model(&model.Station{})

	if f.Search != "" {
		q = q.Where("LOWER(stations.name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	// 每个维度独立过滤，用子查询避免一台电台命中多个值时重复
	for _, cat := range model.TagCategories {
		values := f.Tags[cat.Key]
		if len(values) == 0 {
			continue
		}
		sub := r.db.Table(cat.JoinTable+" AS j").
			Select("j.station_id").
			Joins(fmt.Sprintf("JOIN %s AS t ON t.id = j.%s", cat.Table, cat.JoinColumn)).
			Where("t.name IN ?", values)
		q = q.Where("stations.id IN (?)", sub)
	}

	if len(f.CountryCodes) > 0 {
		q = q.Where("stations.countrycode IN ?", f.CountryCodes)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计电台数量失败: %w", err)
	}

	var stations []model.Station
	err := preloadTags(q, "").
		Order("stations.id ASC").
		Limit(p.PerPage).
		Offset(p.Offset()).
		Find(&stations).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询电台失败: %w", err)
	}

	return stations, total, nil
}

// similarityRow 相似度聚合结果
type similarityRow struct {
	StationID int
	Score     int
}

// FindSimilar 按标签重合加权打分查找相似电台
// score = Σ 维度权重 × 共享标签数，只保留 score > 0，按得分降序
func (r *StationRepository) FindSimilar(stationID, limit int) ([]model.SimilarStation, error) {
	parts := make([]string, 0, len(model.TagCategories))
	args := make([]interface{}, 0, len(model.TagCategories)*2+1)

	// 每个共享标签产生一行，权重即该维度的权重
	for _, cat := range model.TagCategories {
		parts = append(parts, fmt.Sprintf(
			"SELECT o.station_id AS station_id, %d AS weight FROM %s o "+
				"WHERE o.station_id <> ? AND o.%s IN (SELECT s.%s FROM %s s WHERE s.station_id = ?)",
			cat.Weight, cat.JoinTable, cat.JoinColumn, cat.JoinColumn, cat.JoinTable))
		args = append(args, stationID, stationID)
	}
	args = append(args, limit)

	query := "SELECT shared.station_id AS station_id, SUM(shared.weight) AS score FROM (" +
		strings.Join(parts, " UNION ALL ") +
		") shared GROUP BY shared.station_id HAVING SUM(shared.weight) > 0 " +
		"ORDER BY score DESC, shared.station_id ASC LIMIT ?"

	var rows []similarityRow
	if err := r.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("计算相似度失败: %w", err)
	}

	ids := make([]int, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.StationID)
	}
	stations, err := r.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]model.Station, len(stations))
	for _, s := range stations {
		byID[s.ID] = s
	}
	result := make([]model.SimilarStation, 0, len(rows))
	for _, row := range rows {
		if s, ok := byID[row.StationID]; ok {
			result = append(result, model.SimilarStation{Station: s, Score: row.Score})
		}
	}
	return result, nil
}

// Count 电台总数
func (r *StationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Station{}).Count(&count).Error
	return count, err
}
