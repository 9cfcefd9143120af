// Package cleanup fails episodes abandoned in the generating status, for
// example by a server that stopped mid-run.
package cleanup

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// StaleEpisodeMarker fails episodes that stopped making progress
type StaleEpisodeMarker interface {
	FailStale(ctx context.Context, before time.Time, message string, at time.Time) (int64, error)
}

// Service periodically sweeps stale episodes
type Service struct {
	repo     StaleEpisodeMarker
	maxAge   time.Duration
	interval time.Duration
	now      func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// NewService creates a sweep that fails episodes generating for longer than maxAge
func NewService(repo StaleEpisodeMarker, maxAge, interval time.Duration) *Service {
	return &Service{
		repo:     repo,
		maxAge:   maxAge,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start runs one sweep immediately, then one per interval until ctx ends or Stop is called
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	s.sweepAndLog(ctx)

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweepAndLog(ctx)
			case <-ctx.Done():
				log.Println("[INFO] Stale episode sweep stopped")
				return
			}
		}
	}()

	log.Printf("[INFO] Stale episode sweep started (interval: %v, max age: %v)", s.interval, s.maxAge)
}

// Stop ends the sweep and waits for it to exit
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Sweep fails every episode whose last update is older than the max age
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	now := s.now()
	message := fmt.Sprintf("interrupted: no progress for %v", s.maxAge)
	return s.repo.FailStale(ctx, now.Add(-s.maxAge), message, now)
}

func (s *Service) sweepAndLog(ctx context.Context) {
	n, err := s.Sweep(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("[ERROR] Stale episode sweep failed: %v", err)
		}
		return
	}
	if n > 0 {
		log.Printf("[WARN] Marked %d stale episode(s) as failed", n)
	}
}
