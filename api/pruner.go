/*
pruner.go - Saved schedule retention

PURPOSE:
  Periodically deletes saved schedules older than the retention window so
  the store does not grow without bound.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Lists saved schedules and deletes those created before now - Retention
  - A schedule deleted concurrently (404 from the store) is not an error

CONFIGURATION:
  - Retention:     Age after which schedules are deleted (0 disables)
  - CheckInterval: How often to check (default: 1 hour)

USAGE:
  pruner := NewRetentionPruner(store, 30*24*time.Hour)
  pruner.Start()
  // ... later
  pruner.Stop()
*/
package api

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/warp/amortization-engine/amortization"
)

// RetentionPruner deletes expired schedules in the background.
type RetentionPruner struct {
	Store         amortization.Store
	Retention     time.Duration
	CheckInterval time.Duration
	Logger        *log.Logger

	now    func() time.Time
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRetentionPruner creates a pruner with a one hour check interval.
func NewRetentionPruner(store amortization.Store, retention time.Duration) *RetentionPruner {
	return &RetentionPruner{
		Store:         store,
		Retention:     retention,
		CheckInterval: time.Hour,
		Logger:        log.Default(),
		now:           time.Now,
	}
}

// Start begins pruning. It is a no-op when Retention is zero or the pruner
// is already running.
func (p *RetentionPruner) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Retention <= 0 {
		p.Logger.Println("[Pruner] Retention disabled, not starting")
		return
	}
	if p.ticker != nil {
		return
	}

	p.ticker = time.NewTicker(p.CheckInterval)
	p.stop = make(chan struct{})
	p.wg.Add(1)

	go p.run()

	p.Logger.Printf("[Pruner] Started: retention %v, check interval %v", p.Retention, p.CheckInterval)
}

// Stop stops the pruner and waits for a running pass to finish.
func (p *RetentionPruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ticker == nil {
		return
	}
	p.ticker.Stop()
	close(p.stop)
	p.wg.Wait()
	p.ticker = nil
	p.Logger.Println("[Pruner] Stopped")
}

func (p *RetentionPruner) run() {
	defer p.wg.Done()

	// Run immediately on start
	p.Prune(context.Background())

	for {
		select {
		case <-p.ticker.C:
			p.Prune(context.Background())
		case <-p.stop:
			return
		}
	}
}

// Prune runs one pass and returns how many schedules were deleted.
func (p *RetentionPruner) Prune(ctx context.Context) int {
	cutoff := p.now().Add(-p.Retention)

	records, err := p.Store.List(ctx, 0)
	if err != nil {
		p.Logger.Printf("[Pruner] Error listing schedules: %v", err)
		return 0
	}

	deleted := 0
	for _, rec := range records {
		if !rec.CreatedAt.Before(cutoff) {
			continue
		}
		if err := p.Store.Delete(ctx, rec.ID); err != nil {
			if errors.Is(err, amortization.ErrScheduleNotFound) {
				continue
			}
			p.Logger.Printf("[Pruner] Error deleting schedule %s: %v", rec.ID, err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		p.Logger.Printf("[Pruner] Deleted %d schedules created before %s", deleted, cutoff.Format(time.RFC3339))
	}
	return deleted
}
