package display

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExportMarkdown writes the rendered heading lines to
// "<root base name>-duration-stats.md" inside outDir, joined by blank
// lines so each heading is its own Markdown block. An existing file is
// overwritten. Returns the absolute path of the written document.
func ExportMarkdown(lines []string, root, outDir string) (string, error) {
	name := fmt.Sprintf("%s-duration-stats.md", filepath.Base(filepath.Clean(root)))
	path := filepath.Join(outDir, name)

	var buf []byte
	for i, line := range lines {
		if i > 0 {
			buf = append(buf, '\n', '\n')
		}
		buf = append(buf, line...)
	}
	buf = append(buf, '\n')

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("write %q: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
