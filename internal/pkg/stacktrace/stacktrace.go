// Package stacktrace trims goroutine dumps down to this module's frames.
package stacktrace

import "strings"

const marker = "/internal/"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for each frame of a
// debug.Stack dump that points into this module.
func InternalPaths(stack []byte) []string {
	var paths []string

	for line := range strings.Lines(string(stack)) {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, ".go:") {
			continue
		}

		idx := strings.Index(line, marker)
		if idx < 0 {
			continue
		}

		loc, _, _ := strings.Cut(line[idx+1:], " ")
		paths = append(paths, loc)
	}

	return paths
}
