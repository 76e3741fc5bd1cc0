package pipeline

// RunStats tracks aggregate counters across one scan run.
type RunStats struct {
	Total        int     // Media files discovered.
	Probed       int     // Files probed successfully.
	Failed       int     // Files whose probe failed (counted as 0s).
	TotalSeconds float64 // Sum of all probed durations.
	TotalBytes   int64   // Sum of discovered file sizes.
}
