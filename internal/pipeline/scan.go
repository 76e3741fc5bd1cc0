package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/shiranzby/vidtotal/internal/logging"
)

// ProbeFunc extracts a media file's duration in seconds. It is the only
// boundary the scanner has to the actual probing tool, which keeps the
// scatter-gather logic testable without ffprobe installed.
type ProbeFunc func(ctx context.Context, path string) (float64, error)

// Result is one gathered probe outcome. A failed probe keeps its path with
// Seconds 0 and a non-nil Err so ancestors are still credited and the
// failure can be reported once.
type Result struct {
	Path    string
	Seconds float64
	Bytes   int64
	Err     error
}

// Scan probes every file concurrently through a semaphore-bounded worker
// pool and gathers the results. Workers <= 0 selects GOMAXPROCS*2. Each
// probe runs under its own timeout so a single hung file degrades
// throughput without deadlocking the run. Scan returns only after every
// worker has finished; the caller may aggregate immediately.
func Scan(ctx context.Context, files []string, workers int, timeout time.Duration, probe ProbeFunc, log *logging.Logger, verbose bool) []Result {
	if workers <= 0 {
		workers = defaultWorkers()
	}

	results := make([]Result, len(files))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, path := range files {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()

			res := Result{Path: path}
			defer func() { results[idx] = res }()

			if fi, err := os.Stat(path); err == nil {
				res.Bytes = fi.Size()
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				res.Err = ctx.Err()
				return
			}
			defer func() { <-sem }()

			pctx, cancel := context.WithTimeout(ctx, timeout)
			seconds, err := probe(pctx, path)
			cancel()
			if err != nil {
				log.Warn("Cannot probe %s: %v", filepath.Base(path), err)
				res.Err = err
				return
			}

			res.Seconds = seconds
			log.Debug(verbose, "Probed %s: %.2fs", path, seconds)
		}(i, path)
	}

	wg.Wait()
	return results
}

// defaultWorkers is the pool size when the user does not set one. Probing
// is I/O-bound, so oversubscribe the CPUs a little.
func defaultWorkers() int {
	return runtime.GOMAXPROCS(0) * 2
}
