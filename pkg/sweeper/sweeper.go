package sweeper

import (
	"context"
	"time"

	"github.com/mediadrop/mediadrop/pkg/logging"
	"github.com/mediadrop/mediadrop/pkg/storage"
)

// Sweeper periodically removes files from the store once their age
// exceeds the configured TTL. Every tick is an independent unit of
// work: listing or per-entry failures are logged and isolated, never
// propagated, and the next tick proceeds regardless.
type Sweeper struct {
	store    *storage.Store
	ttl      time.Duration
	interval time.Duration
	logger   *logging.Logger
}

// NewSweeper returns a Sweeper. A non-positive ttl disables it; check
// Enabled before calling Run.
func NewSweeper(store *storage.Store, ttl, interval time.Duration, logger *logging.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
	}
}

// Enabled reports whether retention sweeping is active.
func (s *Sweeper) Enabled() bool {
	return s.ttl > 0
}

// Run blocks, sweeping every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("retention sweeper started", "ttl", s.ttl, "interval", s.interval)

	for {
		select {
		case now := <-ticker.C:
			s.SweepOnce(now)
		case <-ctx.Done():
			s.logger.Debug("retention sweeper stopped")
			return
		}
	}
}

// SweepOnce performs a single sweep tick at the given time. Entries are
// evaluated independently: a stat failure (the file vanished between
// list and stat) or a racing delete is a normal outcome, not an error.
func (s *Sweeper) SweepOnce(now time.Time) {
	names, err := s.store.ListNames()
	if err != nil {
		// Abort this tick only; the next scheduled tick is unaffected.
		s.logger.Error("sweep: failed to list storage directory", "error", err)
		return
	}

	for _, name := range names {
		s.sweepEntry(name, now)
	}
}

func (s *Sweeper) sweepEntry(name string, now time.Time) {
	info, err := s.store.Stat(name)
	if err != nil {
		// Vanished since listing, or unreadable. Either way, skip.
		return
	}
	if !info.Mode().IsRegular() {
		return
	}

	age := now.Sub(info.ModTime())
	if age <= s.ttl {
		return
	}

	// Delete treats an already-vanished file as success.
	if err := s.store.Delete(name); err != nil {
		s.logger.Error("sweep: failed to delete expired file", "name", name, "error", err)
		return
	}
	s.logger.Info("sweep: deleted expired file", "name", name, "age", age)
}
