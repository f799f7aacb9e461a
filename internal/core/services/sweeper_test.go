package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// countingCache counts Sweep calls.
type countingCache struct {
	sweeps int64
}

func (c *countingCache) Fingerprint([]domain.SourceFile) (string, error) { return "", nil }

func (c *countingCache) GetOrBuild(ctx context.Context, _ []domain.SourceFile, _ driven.IndexBuilder, build driven.BuildIndexFunc) (driven.Index, bool, error) {
	ix, err := build(ctx)
	return ix, false, err
}

func (c *countingCache) Sweep(context.Context) error {
	atomic.AddInt64(&c.sweeps, 1)
	return nil
}

func (c *countingCache) Clear(context.Context) error { return nil }

func TestSweeper_RunsPeriodically(t *testing.T) {
	cache := &countingCache{}
	s := NewSweeper(cache, time.Second)
	s.interval = 10 * time.Millisecond

	s.Start(context.Background())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&cache.sweeps) >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestSweeper_StopIsIdempotent(t *testing.T) {
	s := NewSweeper(&countingCache{}, time.Second)

	s.Start(context.Background())
	s.Stop()
	s.Stop()
}

func TestSweeper_StartTwice(t *testing.T) {
	cache := &countingCache{}
	s := NewSweeper(cache, time.Second)
	s.interval = 10 * time.Millisecond

	ctx := context.Background()
	s.Start(ctx)
	s.Start(ctx)
	s.Stop()
}

func TestSweeper_ContextCancelStopsLoop(t *testing.T) {
	cache := &countingCache{}
	s := NewSweeper(cache, time.Second)
	s.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	// The loop exits on its own; Stop still returns promptly.
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep loop did not exit after context cancellation")
	}
}
