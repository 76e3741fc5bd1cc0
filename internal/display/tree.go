// Package display renders the aggregated directory tree: heading lines for
// the console, the exported Markdown document, and the shared duration and
// size formatting.
package display

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shiranzby/vidtotal/internal/aggregate"
)

// RenderTree walks the collapsed mapping depth-first from root and returns
// one heading line per directory: "#" repeated depth+1 times, the base
// name, and the formatted duration. Children are visited in ascending
// ordinal order by base name. The traversal is iterative so untrusted
// directory depth cannot exhaust the call stack.
func RenderTree(totals aggregate.Totals, tree aggregate.Tree, root string) []string {
	type frame struct {
		path  string
		depth int
	}

	var lines []string
	stack := []frame{{path: root, depth: 0}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		lines = append(lines, fmt.Sprintf("%s %s  %s",
			strings.Repeat("#", cur.depth+1),
			filepath.Base(cur.path),
			FormatDuration(totals[cur.path]),
		))

		children := sortedChildren(tree, cur.path)
		// Push in reverse so the lexicographically first child pops first.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{path: children[i], depth: cur.depth + 1})
		}
	}
	return lines
}

// PrintTree writes the heading lines to stdout, one per line.
func PrintTree(lines []string) {
	for _, line := range lines {
		fmt.Fprintln(os.Stdout, line)
	}
}

// sortedChildren returns the node's children ordered by base name using
// ordinal comparison, matching the rendered heading text order.
func sortedChildren(tree aggregate.Tree, path string) []string {
	children := append([]string(nil), tree[path]...)
	sort.Slice(children, func(i, j int) bool {
		return filepath.Base(children[i]) < filepath.Base(children[j])
	})
	return children
}
