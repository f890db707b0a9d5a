package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediadrop/mediadrop/pkg/logging"
	"github.com/mediadrop/mediadrop/pkg/storage"
)

func newTestSweeper(t *testing.T, ttl time.Duration) (*Sweeper, *storage.Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store, err := storage.NewStore(fs, "/uploads")
	require.NoError(t, err)
	sw := NewSweeper(store, ttl, 5*time.Minute, logging.NewTestLogger())
	return sw, store, fs
}

func writeFileAt(t *testing.T, fs afero.Fs, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte("x"), 0o644))
	require.NoError(t, fs.Chtimes(path, mtime, mtime))
}

func TestSweepScenarioTenMinuteTTL(t *testing.T) {
	sw, store, fs := newTestSweeper(t, 10*time.Minute)

	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	writeFileAt(t, fs, "/uploads/clip.mp4", t0)

	// Tick at T=5: age 5 < 10, file stays.
	sw.SweepOnce(t0.Add(5 * time.Minute))
	_, err := store.Stat("clip.mp4")
	require.NoError(t, err)

	// Tick at T=15: age 15 > 10, file is removed.
	sw.SweepOnce(t0.Add(15 * time.Minute))
	_, err = store.Stat("clip.mp4")
	assert.Error(t, err)
}

func TestSweepOnlyExpiredEntries(t *testing.T) {
	sw, store, fs := newTestSweeper(t, 10*time.Minute)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	writeFileAt(t, fs, "/uploads/old.mp4", now.Add(-30*time.Minute))
	writeFileAt(t, fs, "/uploads/fresh.mp4", now.Add(-1*time.Minute))
	writeFileAt(t, fs, "/uploads/borderline.mp4", now.Add(-10*time.Minute))

	sw.SweepOnce(now)

	names, err := store.ListNames()
	require.NoError(t, err)
	// Age exactly equal to the TTL is not yet expired.
	assert.ElementsMatch(t, []string{"fresh.mp4", "borderline.mp4"}, names)

	// Post-tick invariant: every survivor's age is <= TTL.
	for _, name := range names {
		info, err := store.Stat(name)
		require.NoError(t, err)
		assert.LessOrEqual(t, now.Sub(info.ModTime()), 10*time.Minute)
	}
}

func TestSweepSkipsDirectories(t *testing.T) {
	sw, _, fs := newTestSweeper(t, 10*time.Minute)

	require.NoError(t, fs.MkdirAll("/uploads/nested", 0o755))
	old := time.Now().Add(-24 * time.Hour)
	require.NoError(t, fs.Chtimes("/uploads/nested", old, old))

	sw.SweepOnce(time.Now())

	exists, err := afero.DirExists(fs, "/uploads/nested")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSweepFractionalMinuteComparison(t *testing.T) {
	sw, store, fs := newTestSweeper(t, 10*time.Minute)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	writeFileAt(t, fs, "/uploads/justover.mp4", now.Add(-10*time.Minute-30*time.Second))

	sw.SweepOnce(now)

	_, err := store.Stat("justover.mp4")
	assert.Error(t, err, "age of 10.5 minutes exceeds a 10 minute TTL")
}

func TestSweeperDisabledByNonPositiveTTL(t *testing.T) {
	sw, _, _ := newTestSweeper(t, 0)
	assert.False(t, sw.Enabled())

	sw, _, _ = newTestSweeper(t, -1*time.Minute)
	assert.False(t, sw.Enabled())

	sw, _, _ = newTestSweeper(t, time.Minute)
	assert.True(t, sw.Enabled())
}

func TestSweepListingFailureAbortsTickOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := storage.NewStore(fs, "/uploads")
	require.NoError(t, err)

	logger, buf := logging.NewTestLoggerWithBuffer()
	sw := NewSweeper(store, 10*time.Minute, 5*time.Minute, logger)

	// Remove the directory out from under the sweeper.
	require.NoError(t, fs.RemoveAll("/uploads"))

	sw.SweepOnce(time.Now())
	assert.Contains(t, buf.String(), "failed to list")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	sw, _, _ := newTestSweeper(t, 10*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}
