package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiranzby/vidtotal/internal/config"
	"github.com/shiranzby/vidtotal/internal/logging"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

// --- Discover tests ---

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "movie.mkv")
	touch(t, dir, "show.mp4")
	touch(t, dir, "music.mp3")
	touch(t, dir, "readme.txt")
	touch(t, dir, "anime.avi")

	files, err := Discover(dir)
	require.NoError(t, err)

	want := []string{"anime.avi", "movie.mkv", "show.mp4"}
	assert.Equal(t, want, basenames(files))
}

func TestDiscover_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "MOVIE.MKV")
	touch(t, dir, "Show.Mp4")

	files, err := Discover(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiscover_RecursiveAndSorted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Show", "Season 01"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Show", "Season 02"), 0o755))
	touch(t, filepath.Join(dir, "Show", "Season 02"), "ep01.mkv")
	touch(t, filepath.Join(dir, "Show", "Season 01"), "ep02.mkv")
	touch(t, filepath.Join(dir, "Show", "Season 01"), "ep01.mkv")

	files, err := Discover(dir)
	require.NoError(t, err)

	require.Len(t, files, 3)
	for i := 1; i < len(files); i++ {
		assert.LessOrEqual(t, files[i-1], files[i], "discovery output must be sorted")
	}
}

func TestDiscover_EmptyDir(t *testing.T) {
	files, err := Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

// --- Scan tests ---

func TestScan_GathersAllResults(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mp4")
	touch(t, dir, "b.mp4")
	touch(t, dir, "c.mp4")
	files, err := Discover(dir)
	require.NoError(t, err)

	fake := func(ctx context.Context, path string) (float64, error) {
		switch filepath.Base(path) {
		case "a.mp4":
			return 10, nil
		case "b.mp4":
			return 20, nil
		default:
			return 30, nil
		}
	}

	results := Scan(context.Background(), files, 2, time.Second, fake, testLogger(t), false)

	require.Len(t, results, 3)
	var total float64
	for _, r := range results {
		require.NoError(t, r.Err)
		total += r.Seconds
		assert.Equal(t, int64(1), r.Bytes)
	}
	assert.Equal(t, 60.0, total)
}

func TestScan_FailedProbeYieldsZeroAndContinues(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "good.mp4")
	touch(t, dir, "corrupt.mp4")
	files, err := Discover(dir)
	require.NoError(t, err)

	probeErr := errors.New("moov atom not found")
	fake := func(ctx context.Context, path string) (float64, error) {
		if strings.Contains(path, "corrupt") {
			return 0, probeErr
		}
		return 42, nil
	}

	results := Scan(context.Background(), files, 4, time.Second, fake, testLogger(t), false)

	require.Len(t, results, 2)
	byName := map[string]Result{}
	for _, r := range results {
		byName[filepath.Base(r.Path)] = r
	}
	assert.ErrorIs(t, byName["corrupt.mp4"].Err, probeErr)
	assert.Equal(t, 0.0, byName["corrupt.mp4"].Seconds)
	require.NoError(t, byName["good.mp4"].Err)
	assert.Equal(t, 42.0, byName["good.mp4"].Seconds)
}

func TestScan_BoundedConcurrency(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4", "f.mp4"} {
		touch(t, dir, n)
	}
	files, err := Discover(dir)
	require.NoError(t, err)

	const workers = 2
	var mu sync.Mutex
	var active, peak int
	fake := func(ctx context.Context, path string) (float64, error) {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		return 1, nil
	}

	results := Scan(context.Background(), files, workers, time.Second, fake, testLogger(t), false)

	require.Len(t, results, len(files))
	assert.LessOrEqual(t, peak, workers, "pool must not exceed the worker bound")
	assert.Positive(t, peak)
}

func TestScan_ProbeTimeoutEnforced(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "hung.mp4")
	files, err := Discover(dir)
	require.NoError(t, err)

	hung := func(ctx context.Context, path string) (float64, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}

	start := time.Now()
	results := Scan(context.Background(), files, 1, 50*time.Millisecond, hung, testLogger(t), false)
	elapsed := time.Since(start)

	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.Less(t, elapsed, 5*time.Second, "a hung probe must not block the run past its timeout")
}

// --- Run tests ---

func runConfig(t *testing.T, root string) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.RootDir = root
	cfg.OutputDir = t.TempDir()
	cfg.Workers = 2
	return cfg
}

func TestRun_NoMediaFound(t *testing.T) {
	cfg := runConfig(t, t.TempDir())

	stats, err := Run(context.Background(), &cfg, testLogger(t), nil)

	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	// Pipeline terminates early: no document is exported.
	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_CollapsesSoleChildAndExports(t *testing.T) {
	root := filepath.Join(t.TempDir(), "R")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	touch(t, root, "a.mp4")
	touch(t, filepath.Join(root, "sub"), "b.mp4")

	fake := func(ctx context.Context, path string) (float64, error) {
		if filepath.Base(path) == "a.mp4" {
			return 10, nil
		}
		return 20, nil
	}

	cfg := runConfig(t, root)
	stats, err := Run(context.Background(), &cfg, testLogger(t), fake)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Probed)
	assert.Equal(t, 30.0, stats.TotalSeconds)

	b, err := os.ReadFile(filepath.Join(cfg.OutputDir, "R-duration-stats.md"))
	require.NoError(t, err)
	// "sub" is the sole duration-bearing child of R, so only the root
	// heading survives, carrying the combined total.
	assert.Equal(t, "# R  0h 30s\n", string(b))
}

func TestRun_TwoSubdirsBothSurvive(t *testing.T) {
	root := filepath.Join(t.TempDir(), "R")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "s1"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "s2"), 0o755))
	touch(t, filepath.Join(root, "s1"), "a.mp4")
	touch(t, filepath.Join(root, "s2"), "b.mp4")

	fake := func(ctx context.Context, path string) (float64, error) {
		if strings.Contains(path, "s1") {
			return 5, nil
		}
		return 7, nil
	}

	cfg := runConfig(t, root)
	_, err := Run(context.Background(), &cfg, testLogger(t), fake)
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(cfg.OutputDir, "R-duration-stats.md"))
	require.NoError(t, err)
	want := "# R  0h 12s\n\n## s1  0h 5s\n\n## s2  0h 7s\n"
	assert.Equal(t, want, string(b))
}

func TestRun_ProbeFailureDoesNotBlockSiblings(t *testing.T) {
	root := filepath.Join(t.TempDir(), "R")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "s1"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "s2"), 0o755))
	touch(t, filepath.Join(root, "s1"), "corrupt.mp4")
	touch(t, filepath.Join(root, "s2"), "ok.mp4")

	fake := func(ctx context.Context, path string) (float64, error) {
		if strings.Contains(path, "corrupt") {
			return 0, errors.New("unreadable")
		}
		return 8, nil
	}

	cfg := runConfig(t, root)
	stats, err := Run(context.Background(), &cfg, testLogger(t), fake)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Probed)
	assert.Equal(t, 8.0, stats.TotalSeconds)

	b, err := os.ReadFile(filepath.Join(cfg.OutputDir, "R-duration-stats.md"))
	require.NoError(t, err)
	content := string(b)
	// s2 holds the only positive duration, so it folds into the root;
	// the failed directory still appears with the zero token.
	assert.Contains(t, content, "# R  0h 8s")
	assert.Contains(t, content, "## s1  0h")
	assert.NotContains(t, content, "## s2")
}

func TestRun_NoExportFlag(t *testing.T) {
	root := filepath.Join(t.TempDir(), "R")
	require.NoError(t, os.MkdirAll(root, 0o755))
	touch(t, root, "a.mp4")

	fake := func(ctx context.Context, path string) (float64, error) { return 1, nil }

	cfg := runConfig(t, root)
	cfg.NoExport = true
	_, err := Run(context.Background(), &cfg, testLogger(t), fake)
	require.NoError(t, err)

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_CancelledContext(t *testing.T) {
	root := filepath.Join(t.TempDir(), "R")
	require.NoError(t, os.MkdirAll(root, 0o755))
	touch(t, root, "a.mp4")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := func(ctx context.Context, path string) (float64, error) { return 1, nil }

	cfg := runConfig(t, root)
	_, err := Run(ctx, &cfg, testLogger(t), fake)

	assert.ErrorIs(t, err, context.Canceled)
	entries, readErr := os.ReadDir(cfg.OutputDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "an interrupted run must not render or export")
}
