package stacktrace

import "strings"

// InternalFrames returns the "internal/<pkg>/<file>.go:<line>" locations of a
// runtime/debug.Stack dump, innermost first.
func InternalFrames(stack []byte) []string {
	var frames []string

	for line := range strings.Lines(string(stack)) {
		location, _, _ := strings.Cut(strings.TrimSpace(line), " +0x")
		_, rel, ok := strings.Cut(location, "/internal/")
		if !ok || !strings.Contains(rel, ".go:") {
			continue
		}
		frames = append(frames, "internal/"+rel)
	}

	return frames
}
