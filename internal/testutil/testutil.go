// Package testutil 测试公共工具：内存数据库与数据构造
package testutil

import (
	"testing"

	"github.com/user/radiodex/internal/model"
	"github.com/user/radiodex/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tags 构造电台时使用的标签
type Tags struct {
	Genres  []string
	Decades []string
	Topics  []string
	Langs   []string
	Moods   []string
}

// NewTestDB 创建已迁移的内存 SQLite 数据库
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := repository.InitDB("sqlite", ":memory:", logger.Silent)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SeedStation 创建带标签的电台，标签不存在时自动创建
func SeedStation(t *testing.T, db *gorm.DB, name string, tags Tags) model.Station {
	t.Helper()

	s := model.Station{Name: name, CountryCode: "IT"}
	for _, n := range tags.Genres {
		g := model.MusicGenre{Name: n}
		mustFirstOrCreate(t, db, &g, model.MusicGenre{Name: n})
		s.MusicGenres = append(s.MusicGenres, g)
	}
	for _, n := range tags.Decades {
		d := model.Decade{Name: n}
		mustFirstOrCreate(t, db, &d, model.Decade{Name: n})
		s.Decades = append(s.Decades, d)
	}
	for _, n := range tags.Topics {
		tp := model.Topic{Name: n}
		mustFirstOrCreate(t, db, &tp, model.Topic{Name: n})
		s.Topics = append(s.Topics, tp)
	}
	for _, n := range tags.Langs {
		l := model.Lang{Name: n}
		mustFirstOrCreate(t, db, &l, model.Lang{Name: n})
		s.Langs = append(s.Langs, l)
	}
	for _, n := range tags.Moods {
		m := model.Mood{Name: n}
		mustFirstOrCreate(t, db, &m, model.Mood{Name: n})
		s.Moods = append(s.Moods, m)
	}

	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("failed to create station %q: %v", name, err)
	}
	return s
}

// SeedUser 创建用户
func SeedUser(t *testing.T, db *gorm.DB, username, password string) *model.User {
	t.Helper()

	user, err := repository.NewUserRepository(db).Create(username, password)
	if err != nil {
		t.Fatalf("failed to create user %q: %v", username, err)
	}
	return user
}

func mustFirstOrCreate(t *testing.T, db *gorm.DB, dest interface{}, where interface{}) {
	t.Helper()
	if err := db.Where(where).FirstOrCreate(dest).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
}
