package cli

import (
	"bytes"
	"strings"
	"testing"
)

// captureStdout redirects command output for the duration of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		glyphs, connections int
		cached              bool
		want                []string
		absent              []string
	}{
		{3, 1, false, []string{"3 glyphs", "1 connection", "fresh"}, []string{"connections"}},
		{1, 0, true, []string{"1 glyph", "cached"}, []string{"connection"}},
		{0, 0, false, []string{"fresh"}, []string{"glyph"}},
	}
	for _, tt := range tests {
		out := captureStdout(t)
		printStats(tt.glyphs, tt.connections, tt.cached)
		for _, w := range tt.want {
			if !strings.Contains(out.String(), w) {
				t.Errorf("printStats(%d, %d, %v) = %q, missing %q", tt.glyphs, tt.connections, tt.cached, out, w)
			}
		}
		for _, a := range tt.absent {
			if strings.Contains(out.String(), a) {
				t.Errorf("printStats(%d, %d, %v) = %q, should not contain %q", tt.glyphs, tt.connections, tt.cached, out, a)
			}
		}
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 glyphs"},
		{1, "1 glyph"},
		{2, "2 glyphs"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, "glyph"); got != tt.want {
			t.Errorf("plural(%d, glyph) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
