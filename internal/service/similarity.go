package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/user/radiodex/internal/apperror"
	"github.com/user/radiodex/internal/metrics"
	"github.com/user/radiodex/internal/model"
	"github.com/user/radiodex/internal/repository"
	"github.com/user/radiodex/internal/utils"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultSimilarLimit = 10
	MaxSimilarLimit     = 50
)

// SimilarityService 相似电台推荐
type SimilarityService struct {
	stations *repository.StationRepository
	cache    *utils.TTLCache[[]model.SimilarStation]
	sf       singleflight.Group
}

// NewSimilarityService cacheSize<=0 时不缓存
func NewSimilarityService(stations *repository.StationRepository, cacheSize int, cacheTTL time.Duration) *SimilarityService {
	s := &SimilarityService{stations: stations}
	if cacheSize > 0 && cacheTTL > 0 {
		s.cache = utils.NewTTLCache[[]model.SimilarStation](cacheSize, cacheTTL)
	}
	return s
}

// NormalizeLimit 默认 10，最大 50
func NormalizeLimit(limit int) int {
	if limit < 1 {
		return DefaultSimilarLimit
	}
	if limit > MaxSimilarLimit {
		return MaxSimilarLimit
	}
	return limit
}

// FindSimilar 查找与指定电台最相似的电台
// 1. 源电台不存在返回 NotFound
// 2. 源电台没有任何标签时直接返回空列表
// 3. 结果按 (电台, limit) 缓存，并发的相同请求只算一次
func (s *SimilarityService) FindSimilar(ctx context.Context, stationID, limit int) ([]model.SimilarStation, error) {
	limit = NormalizeLimit(limit)
	key := fmt.Sprintf("%d:%d", stationID, limit)

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			metrics.RecordSimilarCache(true)
			return cached, nil
		}
		metrics.RecordSimilarCache(false)
	}

	ch := s.sf.DoChan(key, func() (interface{}, error) {
		return s.compute(stationID, limit)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		result := res.Val.([]model.SimilarStation)
		if s.cache != nil {
			s.cache.Set(key, result)
		}
		return result, nil
	}
}

func (s *SimilarityService) compute(stationID, limit int) ([]model.SimilarStation, error) {
	source, err := s.stations.FindByID(stationID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load station", err)
	}
	if source == nil {
		return nil, apperror.NewNotFoundError("Station not found")
	}
	if source.TagCount() == 0 {
		return []model.SimilarStation{}, nil
	}

	start := time.Now()
	similar, err := s.stations.FindSimilar(stationID, limit)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to compute similar stations", err)
	}
	log.Debug().
		Int("station_id", stationID).
		Int("limit", limit).
		Int("results", len(similar)).
		Dur("elapsed", time.Since(start)).
		Msg("similar stations computed")

	return similar, nil
}

// Invalidate 清空缓存（目录变更后调用），返回丢弃的条目数
func (s *SimilarityService) Invalidate() int {
	if s.cache == nil {
		return 0
	}
	n := s.cache.Len()
	s.cache.Clear()
	log.Info().Int("entries", n).Msg("similar stations cache cleared")
	return n
}
