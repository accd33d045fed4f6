package render

import (
	"strings"
	"testing"
)

func TestWrapLines(t *testing.T) {
	got := wrapLines([]string{"so much depends upon", "", "abcdefghij"}, 8)
	want := []string{"so much", "depends", "upon", "", "abcdefgh", "ij"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("wrapLines = %q, want %q", got, want)
	}
}

func TestLayoutFallsBackToNativeSize(t *testing.T) {
	r := NewTextRenderer(DefaultOptions(), nil)
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "line"
	}
	img := r.layout(lines)
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 480 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}
