package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/user/radiodex/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接
// driver 为 postgres 时 dsn 是连接串，为 sqlite 时 dsn 是文件路径（或 :memory:）
func InitDB(driver, dsn string, logLevel logger.LogLevel) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	}

	switch driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(sqliteDSN(dsn)), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("无法打开 sqlite 数据库: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// 内存库每个连接都是独立的库，只能用单连接
		if dsn == ":memory:" {
			sqlDB.SetMaxOpenConns(1)
		}
		return db, nil

	case "postgres", "":
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("无法连接数据库: %w", err)
		}

		// 测试连接
		if err := sqlDB.Ping(); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("数据库 ping 失败: %w", err)
		}

		// 设置连接池
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)

		return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)

	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", driver)
	}
}

// sqliteDSN 外键约束通过连接参数开启，连接池中每个新连接都会生效
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// Migrate 自动迁移所有表（包括 many2many 关联表）
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.MusicGenre{},
		&model.Decade{},
		&model.Topic{},
		&model.Lang{},
		&model.Mood{},
		&model.Station{},
		&model.Favorite{},
		&model.PlayHistory{},
		&model.Playlist{},
		&model.PlaylistStation{},
	)
}

// isDuplicateKey 判断是否为唯一约束冲突
// sqlite 由 gorm 翻译为 ErrDuplicatedKey，postgres 走 lib/pq 需要看错误码
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Repositories 仓库集合
type Repositories struct {
	DB       *gorm.DB
	User     *UserRepository
	Station  *StationRepository
	Tag      *TagRepository
	Favorite *FavoriteRepository
	History  *HistoryRepository
	Playlist *PlaylistRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	stations := NewStationRepository(db)
	return &Repositories{
		DB:       db,
		User:     NewUserRepository(db),
		Station:  stations,
		Tag:      NewTagRepository(db),
		Favorite: NewFavoriteRepository(db, stations),
		History:  NewHistoryRepository(db),
		Playlist: NewPlaylistRepository(db, stations),
	}
}

// Ping 检查数据库连接
func (r *Repositories) Ping() error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
