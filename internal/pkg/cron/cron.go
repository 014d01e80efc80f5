package cron

import (
	"context"
	"sync"
	"time"

	"github.com/qs3c/criptex_server/internal/pkg/logging"
)

// SessionStore 过期会话的统计与删除
type SessionStore interface {
	CountExpired(before time.Time) (int64, error)
	DeleteExpired(before time.Time) (int64, error)
}

// Service 定期清理过期会话。过期会话本身已无法通过认证，这里只回收存储
type Service struct {
	sessions  SessionStore
	retention time.Duration
	interval  time.Duration
	dryRun    bool
	logger    logging.Logger
	now       func() time.Time

	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// NewService retention 为过期后保留的时长，interval 为执行间隔
func NewService(sessions SessionStore, retention, interval time.Duration, dryRun bool, logger logging.Logger) *Service {
	return &Service{
		sessions:  sessions,
		retention: retention,
		interval:  interval,
		dryRun:    dryRun,
		logger:    logger.With("component", "session_purge"),
		now:       time.Now,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// PurgeOnce 执行一次清理，dry-run 时只统计数量
func (s *Service) PurgeOnce(ctx context.Context) (int64, error) {
	before := s.now().UTC().Add(-s.retention)

	if s.dryRun {
		count, err := s.sessions.CountExpired(before)
		if err != nil {
			return 0, err
		}
		s.logger.Info(ctx, "expired sessions found (dry run)", "count", count, "before", before)
		return count, nil
	}

	deleted, err := s.sessions.DeleteExpired(before)
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "expired sessions deleted", "count", deleted, "before", before)
	return deleted, nil
}

// Start 启动定时任务，立即执行一次
func (s *Service) Start(ctx context.Context) {
	go s.run(ctx)
	s.logger.Info(ctx, "session purge started", "interval", s.interval.String())
}

// Stop 停止定时任务并等待当前一轮结束
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	<-s.done
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.PurgeOnce(ctx); err != nil {
			s.logger.Error(ctx, "session purge failed", "err", err)
		}

		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
