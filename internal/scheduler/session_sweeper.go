// Package scheduler runs background maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"foodtruck/internal/infra/metrics"
	"foodtruck/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// 1回の掃除に使う時間の上限
const sweepTimeout = 30 * time.Second

// SessionSweeper deletes expired sessions on a cron schedule.
type SessionSweeper struct {
	mu sync.Mutex

	sessions repository.SessionRepository
	spec     string
	now      func() time.Time
	log      *logrus.Logger

	jobs    []job
	cron    *cron.Cron
	running bool
}

// 掃除と同じcronに乗せる追加ジョブ
type job struct {
	name string
	spec string
	fn   func()
}

func NewSessionSweeper(sessions repository.SessionRepository, spec string, now func() time.Time, log *logrus.Logger) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		spec:     spec,
		now:      now,
		log:      log,
	}
}

// AddJob はStart前に登録したものだけ動く
func (s *SessionSweeper) AddJob(name, spec string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job{name: name, spec: spec, fn: fn})
}

// Start は起動時に1回掃除してからスケジュールに乗せる
func (s *SessionSweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("session sweeper already running")
	}

	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(s.spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.spec, err)
	}
	for _, j := range s.jobs {
		if _, err := c.AddFunc(j.spec, j.fn); err != nil {
			return fmt.Errorf("invalid schedule %q for %s: %w", j.spec, j.name, err)
		}
	}

	s.RunOnce(context.Background())

	c.Start()
	s.cron = c
	s.running = true
	s.log.WithField("schedule", s.spec).Info("session sweeper started")
	return nil
}

// Stop は実行中の掃除が終わるかctxが切れるまで待つ
func (s *SessionSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	done := s.cron.Stop()
	s.running = false
	s.mu.Unlock()

	select {
	case <-done.Done():
		s.log.Info("session sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce は期限切れを消す。失敗はログとメトリクスだけ（呼び出し元に返さない）
func (s *SessionSweeper) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	deleted, err := s.sessions.DeleteExpired(ctx, s.now())
	metrics.RecordSweep(deleted, err)
	if err != nil {
		s.log.WithError(err).Error("expired session sweep failed")
		return 0
	}

	if deleted > 0 {
		s.log.WithField("deleted", deleted).Info("expired sessions removed")
	}
	return deleted
}
