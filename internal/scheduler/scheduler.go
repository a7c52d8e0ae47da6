// Package scheduler drives the delivery engine on a fixed interval.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/monui/notification-service/internal/metrics"
)

//go:generate mockgen -source=scheduler.go -destination=../mocks/scheduler/mock.go -package=mocks

// Engine is the delivery entry point invoked on every tick.
type Engine interface {
	ProcessDueNotifications(ctx context.Context) error
}

// Scheduler invokes the delivery engine once per interval. Ticks are not
// re-entrant: if a scan is still running when the next tick fires, the tick
// is skipped. Engine errors are logged and the next tick proceeds normally.
type Scheduler struct {
	engine   Engine
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func New(engine Engine, interval time.Duration) *Scheduler {
	return &Scheduler{
		engine:   engine,
		interval: interval,
	}
}

// Start launches the ticker loop. It is a no-op if the scheduler is already
// running.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.running = true

	go s.loop(ctx)

	zlog.Logger.Info().Dur("interval", s.interval).Msg("delivery scheduler started")
}

// Stop cancels the ticker loop and waits for an in-flight scan to drain.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done

	zlog.Logger.Info().Msg("delivery scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	var scanning atomic.Bool

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case <-ticker.C:
			if !scanning.CompareAndSwap(false, true) {
				metrics.SchedulerTicksSkippedTotal.Inc()
				zlog.Logger.Debug().Msg("delivery scan still running, skipping tick")
				continue
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer scanning.Store(false)

				if err := s.engine.ProcessDueNotifications(ctx); err != nil {
					zlog.Logger.Error().Err(err).Msg("delivery scan failed")
				}
			}()
		}
	}
}
