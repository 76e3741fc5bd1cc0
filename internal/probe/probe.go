// Package probe extracts a media file's playback duration via a single
// ffprobe JSON call. The pipeline treats it as a black box: path in,
// seconds out, error on anything unreadable.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Duration runs one ffprobe JSON call against path and returns the
// container-level duration in seconds. The caller's context bounds the
// ffprobe process; a cancelled or expired context kills it.
func Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a duration in seconds.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (float64, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	d, err := parseSeconds(raw.Format.Duration)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: %w", raw.Format.Duration, err)
	}
	return d, nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format ffprobeFormat `json:"format"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

// parseSeconds parses ffprobe's duration field (a decimal string). A missing
// or negative duration is an error so the caller can report the file rather
// than silently folding garbage into directory totals.
func parseSeconds(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing duration field")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, fmt.Errorf("negative duration")
	}
	return f, nil
}
