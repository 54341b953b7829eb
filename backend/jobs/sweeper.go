// Package jobs holds background work that runs beside the HTTP server.
package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/adhocore/gronx"

	"crowdfund/backend/storage"
)

const DefaultSweepSchedule = "*/2 * * * *"

// ExpirationSweeper closes open ideas whose funding deadline has passed.
type ExpirationSweeper struct {
	ideas    storage.IdeaStore
	schedule string
	logger   *log.Logger
	now      func() time.Time
}

func NewExpirationSweeper(ideas storage.IdeaStore, schedule string, logger *log.Logger) (*ExpirationSweeper, error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	if !gronx.New().IsValid(schedule) {
		return nil, fmt.Errorf("jobs: invalid sweep schedule %q", schedule)
	}
	return &ExpirationSweeper{
		ideas:    ideas,
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// SweepOnce closes every expired idea and reports how many it closed.
// One idea failing to close does not stop the rest.
func (s *ExpirationSweeper) SweepOnce(ctx context.Context) (int, error) {
	now := s.now()
	expired, err := s.ideas.FindExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("find expired ideas: %w", err)
	}

	closed := 0
	for _, idea := range expired {
		if err := idea.Close(); err != nil {
			continue
		}
		if err := s.ideas.SetStatus(ctx, idea.ID, idea.Status); err != nil {
			s.logger.Printf("sweep: close idea %s: %v", idea.ID, err)
			continue
		}
		closed++
	}
	if closed > 0 {
		s.logger.Printf("sweep: closed %d expired idea(s)", closed)
	}
	return closed, nil
}

// Run sweeps immediately, then on every schedule tick until ctx is cancelled.
func (s *ExpirationSweeper) Run(ctx context.Context) {
	s.logger.Printf("sweep: running on schedule %q", s.schedule)
	s.tick(ctx)

	for {
		next, err := gronx.NextTickAfter(s.schedule, s.now(), false)
		if err != nil {
			s.logger.Printf("sweep: next tick: %v", err)
			return
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Println("sweep: stopped")
			return
		case <-timer.C:
			s.tick(ctx)
		}
	}
}

// tick runs one sweep; its failures never end the loop.
func (s *ExpirationSweeper) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("sweep: recovered from panic: %v", r)
		}
	}()
	if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
		s.logger.Printf("sweep: %v", err)
	}
}
