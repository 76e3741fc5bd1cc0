// Package check provides system diagnostics (--check mode) and pre-scan
// dependency validation for ffprobe.
package check

import (
	"errors"
	"os/exec"
	"strings"
)

// ErrFfprobeNotFound is returned by CheckDeps when ffprobe is missing.
var ErrFfprobeNotFound = errors.New("ffprobe not found on PATH (install ffmpeg)")

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the --check flow: prints ffprobe availability and version,
// plus the optional ffmpeg install alongside it. Returns false when ffprobe
// is unusable, since no scan can work without it.
func RunCheck(log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkFfprobe(log)
	checkFfmpeg(log)
	return ok
}

// CheckDeps fails fast before a scan when ffprobe is unavailable.
func CheckDeps() error {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	return nil
}

// checkFfprobe verifies ffprobe is on PATH and logs its version string.
func checkFfprobe(log Logger) bool {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		log.Error("ffprobe not found")
		return false
	}
	if v := versionLine("ffprobe"); v != "" {
		log.Success("ffprobe: %s", v)
	} else {
		log.Warn("ffprobe found but -version failed")
	}
	return true
}

// checkFfmpeg reports the sibling ffmpeg install; informational only.
func checkFfmpeg(log Logger) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Info("ffmpeg not found (not required for scanning)")
		return
	}
	if v := versionLine("ffmpeg"); v != "" {
		log.Info("ffmpeg: %s", v)
	}
}

// versionLine returns the first line of "<tool> -version" output.
func versionLine(tool string) string {
	out, err := exec.Command(tool, "-version").Output()
	if err != nil {
		return ""
	}
	line := strings.TrimSpace(string(out))
	if idx := strings.Index(line, "\n"); idx > 0 {
		line = line[:idx]
	}
	return line
}
