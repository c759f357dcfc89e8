package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/user/radiodex/internal/metrics"
	"github.com/user/radiodex/internal/repository"
)

// CleanupService 定时清理过期的收听历史
type CleanupService struct {
	repos     *repository.Repositories
	retention time.Duration
	interval  time.Duration
}

// NewCleanupService retentionDays<=0 表示保留全部历史
func NewCleanupService(repos *repository.Repositories, retentionDays int) *CleanupService {
	return &CleanupService{
		repos:     repos,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		interval:  24 * time.Hour,
	}
}

// Enabled 是否开启了清理
func (s *CleanupService) Enabled() bool {
	return s.retention > 0
}

// Start 启动定时清理任务，ctx 取消后退出
func (s *CleanupService) Start(ctx context.Context) {
	if !s.Enabled() {
		log.Info().Msg("history retention disabled")
		return
	}

	go func() {
		// 启动时先运行一次
		s.RunOnce()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce()
			}
		}
	}()
}

// RunOnce 执行一次清理，返回删除条数
func (s *CleanupService) RunOnce() int64 {
	if !s.Enabled() {
		return 0
	}

	cutoff := time.Now().Add(-s.retention)
	affected, err := s.repos.History.DeleteOlderThan(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to prune play history")
		return 0
	}
	if affected > 0 {
		metrics.HistoryPruned.Add(float64(affected))
		log.Info().Int64("rows", affected).Time("cutoff", cutoff).Msg("pruned play history")
	}
	return affected
}
