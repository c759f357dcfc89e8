package model

// MusicGenre 音乐流派
type MusicGenre struct {
	ID   int    `json:"-" db:"id"`
	Name string `json:"name" db:"name" gorm:"size:100;uniqueIndex;not null"`
}

// Decade 年代
type Decade struct {
	ID   int    `json:"-" db:"id"`
	Name string `json:"name" db:"name" gorm:"size:50;uniqueIndex;not null"`
}

// Topic 主题
type Topic struct {
	ID   int    `json:"-" db:"id"`
	Name string `json:"name" db:"name" gorm:"size:100;uniqueIndex;not null"`
}

// Lang 语言
type Lang struct {
	ID   int    `json:"-" db:"id"`
	Name string `json:"name" db:"name" gorm:"size:100;uniqueIndex;not null"`
}

// Mood 情绪
type Mood struct {
	ID   int    `json:"-" db:"id"`
	Name string `json:"name" db:"name" gorm:"size:100;uniqueIndex;not null"`
}

// TagCategory 标签维度描述
type TagCategory struct {
	Name       string // 对外展示名，如 "Music Genre"
	Key        string // 查询参数名，如 "genre"
	Table      string // 标签表
	JoinTable  string // 电台-标签关联表
	JoinColumn string // 关联表中的标签外键
	Weight     int    // 相似度权重
}

// TagCategories 五个标签维度，顺序即 /tags/categories 的返回顺序
var TagCategories = []TagCategory{
	{Name: "Music Genre", Key: "genre", Table: "music_genres", JoinTable: "station_musicgenres", JoinColumn: "music_genre_id", Weight: 5},
	{Name: "Decade", Key: "decade", Table: "decades", JoinTable: "station_decades", JoinColumn: "decade_id", Weight: 3},
	{Name: "Topic", Key: "topic", Table: "topics", JoinTable: "station_topics", JoinColumn: "topic_id", Weight: 2},
	{Name: "Lang", Key: "lang", Table: "langs", JoinTable: "station_langs", JoinColumn: "lang_id", Weight: 4},
	{Name: "Mood", Key: "mood", Table: "moods", JoinTable: "station_moods", JoinColumn: "mood_id", Weight: 1},
}

// FindTagCategory 按展示名或参数名查找维度
func FindTagCategory(name string) (TagCategory, bool) {
	for _, c := range TagCategories {
		if c.Name == name || c.Key == name {
			return c, true
		}
	}
	return TagCategory{}, false
}

// TagCategoryNames 所有维度的展示名
func TagCategoryNames() []string {
	names := make([]string, 0, len(TagCategories))
	for _, c := range TagCategories {
		names = append(names, c.Name)
	}
	return names
}
