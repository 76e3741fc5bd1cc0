// Package aggregate turns per-file probe results into per-directory
// duration totals: upward accumulation to the scan root, a pass-through
// collapse of sole duration-bearing children, and reconstruction of the
// directory tree from the surviving flat mapping.
package aggregate

import (
	"path/filepath"
	"sort"
	"strings"
)

// FileDuration is one probed media file. Seconds is 0 for files whose
// probe failed; they still credit their ancestors so the directory shows
// up in the mapping.
type FileDuration struct {
	Path    string
	Seconds float64
}

// Totals is the flat mapping from directory path to the summed duration of
// every media file underneath it, inclusive of subdirectories.
type Totals map[string]float64

// Tree maps each directory to its immediate children present in the
// mapping. Directories with no present descendants have no entry.
type Tree map[string][]string

// Accumulate credits each file's duration to every ancestor directory from
// the file's parent up to and including root. Ascent stops at root, or
// defensively when a directory is its own parent (filesystem root), which
// only happens when root is not an ancestor of the file.
func Accumulate(files []FileDuration, root string) Totals {
	root = filepath.Clean(root)
	totals := make(Totals)
	for _, f := range files {
		dir := filepath.Dir(f.Path)
		for {
			totals[dir] += f.Seconds
			if filepath.Clean(dir) == root {
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return totals
}

// Collapse removes each directory that is the sole duration-bearing child
// of a parent also present in the mapping. The parent's total already
// includes the child's contribution, so no totals change. Decisions are
// made against the pre-collapse mapping in a single pass; re-running
// Collapse on its own output removes nothing further.
func Collapse(totals Totals) Totals {
	children := make(map[string][]string)
	for dir := range totals {
		parent := filepath.Dir(dir)
		if parent == dir {
			// The filesystem root is its own parent; indexing it under
			// itself could mark it as its own sole child.
			continue
		}
		children[parent] = append(children[parent], dir)
	}

	collapsed := make(Totals, len(totals))
	for k, v := range totals {
		collapsed[k] = v
	}

	for parent, kids := range children {
		// A parent above the scan root is not in the mapping; skipping it
		// guarantees the scan root itself is never removed.
		if _, ok := totals[parent]; !ok {
			continue
		}
		var positive []string
		for _, c := range kids {
			if totals[c] > 0 {
				positive = append(positive, c)
			}
		}
		if len(positive) == 1 {
			delete(collapsed, positive[0])
		}
	}
	return collapsed
}

// BuildTree derives parent→children adjacency from the mapping's keys.
// Keys are visited shallow-first (separator count ascending, then
// lexicographic) so child slices come out deterministic; every key other
// than root attaches to its immediate parent.
func BuildTree(totals Totals, root string) Tree {
	root = filepath.Clean(root)
	sep := string(filepath.Separator)

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		di, dj := strings.Count(keys[i], sep), strings.Count(keys[j], sep)
		if di != dj {
			return di < dj
		}
		return keys[i] < keys[j]
	})

	tree := make(Tree)
	for _, k := range keys {
		if filepath.Clean(k) == root {
			continue
		}
		parent := filepath.Dir(k)
		tree[parent] = append(tree[parent], k)
	}
	return tree
}
