package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/user/radiodex/internal/model"
	"github.com/user/radiodex/internal/utils"
	"gorm.io/gorm"
)

// resetTables 重置目录时按依赖顺序清空的表（用户表保留）
var resetTables = []string{
	"playlist_stations",
	"user_favorites",
	"play_histories",
	"station_musicgenres",
	"station_decades",
	"station_topics",
	"station_langs",
	"station_moods",
	"stations",
	"music_genres",
	"decades",
	"topics",
	"langs",
	"moods",
}

// ImportOptions 导入选项
type ImportOptions struct {
	Reset     bool // 导入前清空电台目录
	BatchSize int
}

// ImportResult 导入结果
type ImportResult struct {
	Stations int            `json:"stations"`
	Skipped  int            `json:"skipped"`
	Tags     map[string]int `json:"tags"` // 每个维度涉及的标签数
}

// StationImporter 从 CSV 导入电台目录
// 列：name,url,url_resolved,homepage,favicon,country,countrycode,state,codec,bitrate,geo_lat,geo_long
// 以及标签列 "Music Genre",Decade,Topic,Lang,Mood（逗号分隔）
type StationImporter struct {
	db *gorm.DB
}

func NewStationImporter(db *gorm.DB) *StationImporter {
	return &StationImporter{db: db}
}

type csvRow struct {
	line    int
	station model.Station
	tags    map[string][]string // key 为 TagCategory.Key
}

// Import 解析并写入，整个导入在一个事务中完成
func (imp *StationImporter) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 200
	}

	rows, skipped, err := parseStationsCSV(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Skipped: skipped, Tags: map[string]int{}}

	err = imp.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Reset {
			if err := resetCatalog(tx); err != nil {
				return err
			}
		}

		// 1. 收集并创建所有标签
		ids := make(map[string]map[string]int, len(model.TagCategories))
		for _, cat := range model.TagCategories {
			var names []string
			seen := map[string]bool{}
			for _, row := range rows {
				for _, n := range row.tags[cat.Key] {
					if !seen[n] {
						seen[n] = true
						names = append(names, n)
					}
				}
			}
			m, err := ensureTags(tx, cat, names)
			if err != nil {
				return err
			}
			ids[cat.Key] = m
			result.Tags[cat.Name] = len(names)
		}

		// 2. 写入电台及其标签关联
		stations := make([]model.Station, 0, len(rows))
		for _, row := range rows {
			s := row.station
			attachTags(&s, row.tags, ids)
			stations = append(stations, s)
		}
		if len(stations) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&stations, opts.BatchSize).Error; err != nil {
			return fmt.Errorf("写入电台失败: %w", err)
		}
		result.Stations = len(stations)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("stations", result.Stations).
		Int("skipped", result.Skipped).
		Bool("reset", opts.Reset).
		Msg("station import finished")
	return result, nil
}

// parseStationsCSV 解析 CSV，缺少 name 的行计入 skipped
func parseStationsCSV(r io.Reader) ([]csvRow, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, fmt.Errorf("CSV 文件为空")
	}
	if err != nil {
		return nil, 0, fmt.Errorf("读取 CSV 表头失败: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, 0, fmt.Errorf("CSV 缺少 name 列")
	}

	field := func(record []string, name string) string {
		i, ok := cols[strings.ToLower(name)]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []csvRow
	skipped := 0
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, 0, fmt.Errorf("第 %d 行解析失败: %w", line, err)
		}

		name := field(record, "name")
		if name == "" {
			skipped++
			continue
		}

		row := csvRow{
			line: line,
			station: model.Station{
				Name:        name,
				URL:         field(record, "url"),
				URLResolved: field(record, "url_resolved"),
				Homepage:    field(record, "homepage"),
				Favicon:     field(record, "favicon"),
				Country:     field(record, "country"),
				CountryCode: field(record, "countrycode"),
				State:       field(record, "state"),
				Codec:       field(record, "codec"),
				Bitrate:     utils.ParseOptionalInt(field(record, "bitrate")),
				GeoLat:      utils.ParseOptionalFloat(field(record, "geo_lat")),
				GeoLong:     utils.ParseOptionalFloat(field(record, "geo_long")),
			},
			tags: make(map[string][]string, len(model.TagCategories)),
		}
		for _, cat := range model.TagCategories {
			if names := utils.SplitList(field(record, cat.Name)); len(names) > 0 {
				row.tags[cat.Key] = dedupe(names)
			}
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

// ensureTags 确保标签存在，返回 name -> id
func ensureTags(tx *gorm.DB, cat model.TagCategory, names []string) (map[string]int, error) {
	ids := make(map[string]int, len(names))
	if len(names) == 0 {
		return ids, nil
	}

	type tagRow struct {
		ID   int
		Name string
	}
	load := func() error {
		var existing []tagRow
		if err := tx.Table(cat.Table).Select("id", "name").Where("name IN ?", names).Scan(&existing).Error; err != nil {
			return fmt.Errorf("查询标签 %s 失败: %w", cat.Table, err)
		}
		for _, t := range existing {
			ids[t.Name] = t.ID
		}
		return nil
	}

	if err := load(); err != nil {
		return nil, err
	}
	insert := fmt.Sprintf("INSERT INTO %s (name) VALUES (?)", pq.QuoteIdentifier(cat.Table))
	missing := 0
	for _, n := range names {
		if _, ok := ids[n]; ok {
			continue
		}
		if err := tx.Exec(insert, n).Error; err != nil {
			return nil, fmt.Errorf("创建标签 %s/%s 失败: %w", cat.Table, n, err)
		}
		missing++
	}
	if missing > 0 {
		if err := load(); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func attachTags(s *model.Station, tags map[string][]string, ids map[string]map[string]int) {
	for _, n := range tags["genre"] {
		s.MusicGenres = append(s.MusicGenres, model.MusicGenre{ID: ids["genre"][n], Name: n})
	}
	for _, n := range tags["decade"] {
		s.Decades = append(s.Decades, model.Decade{ID: ids["decade"][n], Name: n})
	}
	for _, n := range tags["topic"] {
		s.Topics = append(s.Topics, model.Topic{ID: ids["topic"][n], Name: n})
	}
	for _, n := range tags["lang"] {
		s.Langs = append(s.Langs, model.Lang{ID: ids["lang"][n], Name: n})
	}
	for _, n := range tags["mood"] {
		s.Moods = append(s.Moods, model.Mood{ID: ids["mood"][n], Name: n})
	}
}

// resetCatalog 清空电台目录及依赖它的用户数据，用户账号保留
func resetCatalog(tx *gorm.DB) error {
	if tx.Dialector.Name() == "postgres" {
		quoted := make([]string, len(resetTables))
		for i, t := range resetTables {
			quoted[i] = pq.QuoteIdentifier(t)
		}
		stmt := "TRUNCATE TABLE " + strings.Join(quoted, ", ") + " RESTART IDENTITY CASCADE"
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("清空目录失败: %w", err)
		}
		return nil
	}

	// 歌单本身保留，只清掉其中的电台
	for _, t := range resetTables {
		if err := tx.Exec("DELETE FROM " + pq.QuoteIdentifier(t)).Error; err != nil {
			return fmt.Errorf("清空表 %s 失败: %w", t, err)
		}
	}
	return nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
