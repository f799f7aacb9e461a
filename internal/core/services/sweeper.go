package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// DefaultSweepInterval is how often the background sweeper evicts
// expired cache entries.
const DefaultSweepInterval = 15 * time.Minute

// Sweeper periodically evicts expired index cache entries.
// A sweep may race a fresh write; last write wins and the cost is one
// extra rebuild.
type Sweeper struct {
	cache    driven.IndexCache
	interval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewSweeper creates a sweeper over the given cache.
// Intervals below one second fall back to DefaultSweepInterval.
func NewSweeper(cache driven.IndexCache, interval time.Duration) *Sweeper {
	if interval < time.Second {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		cache:    cache,
		interval: interval,
	}
}

// Start launches the sweep loop in the background. Starting a running
// sweeper is a no-op.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop shuts the sweep loop down and waits for an in-flight sweep to
// finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if err := s.cache.Sweep(ctx); err != nil {
				logger.Warn("Cache sweep failed: %v", err)
			}
		}
	}
}
