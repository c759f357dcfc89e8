package model

// Station 电台
type Station struct {
	ID          int      `json:"id" db:"id"`
	Name        string   `json:"name" db:"name" gorm:"type:text;not null;index"`
	URL         string   `json:"url" db:"url" gorm:"type:text"`
	URLResolved string   `json:"url_resolved" db:"url_resolved" gorm:"type:text"`
	Homepage    string   `json:"homepage" db:"homepage" gorm:"type:text"`
	Favicon     string   `json:"favicon" db:"favicon" gorm:"type:text"`
	Country     string   `json:"country" db:"country" gorm:"type:text;index"`
	CountryCode string   `json:"countrycode" db:"countrycode" gorm:"column:countrycode;size:10;index"`
	State       string   `json:"state" db:"state" gorm:"type:text"`
	Codec       string   `json:"codec" db:"codec" gorm:"size:20"`
	Bitrate     *int     `json:"bitrate" db:"bitrate"`
	GeoLat      *float64 `json:"geo_lat" db:"geo_lat"`
	GeoLong     *float64 `json:"geo_long" db:"geo_long"`

	MusicGenres []MusicGenre `json:"music_genres" gorm:"many2many:station_musicgenres;"`
	Decades     []Decade     `json:"decades" gorm:"many2many:station_decades;"`
	Topics      []Topic      `json:"topics" gorm:"many2many:station_topics;"`
	Langs       []Lang       `json:"langs" gorm:"many2many:station_langs;"`
	Moods       []Mood       `json:"moods" gorm:"many2many:station_moods;"`
}

// TagCount 电台标签总数
func (s *Station) TagCount() int {
	return len(s.MusicGenres) + len(s.Decades) + len(s.Topics) + len(s.Langs) + len(s.Moods)
}

// SimilarStation 相似电台（附带相似度得分）
type SimilarStation struct {
	Station
	Score int `json:"similarity_score"`
}

// StationFilter 电台搜索条件，同一维度内任一值命中即可，不同维度之间为 AND
type StationFilter struct {
	Search       string
	Tags         map[string][]string // key 为 TagCategory.Key
	CountryCodes []string
}
