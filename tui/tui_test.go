package tui

import (
	"strings"
	"testing"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"[h1] Ask about the ruins.", kindOption},
		{"|> take lantern", kindLog},
		{"| You take the lantern.", kindLog},
		{"A cramped cottage.", kindNarrative},
		{"You see: lantern, cloak.", kindNarrative},
		{"", kindNarrative},
	}
	for _, tt := range tests {
		if got := classifyLine(tt.line); got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory(3)
	h.Push("look")
	h.Push("take lantern")
	h.Push("take lantern") // duplicate collapsed
	h.Push("go forest")
	h.ResetCursor()

	if prev, ok := h.Prev(); !ok || prev != "go forest" {
		t.Errorf("Prev = %q %v", prev, ok)
	}
	if prev, ok := h.Prev(); !ok || prev != "take lantern" {
		t.Errorf("Prev = %q %v", prev, ok)
	}
	if next, ok := h.Next(); !ok || next != "go forest" {
		t.Errorf("Next = %q %v", next, ok)
	}
	if _, ok := h.Next(); ok {
		t.Error("Next past the newest entry")
	}

	// Eviction at capacity.
	h.Push("a")
	h.Push("b")
	h.ResetCursor()
	for i := 0; i < 3; i++ {
		h.Prev()
	}
	if prev, _ := h.Prev(); prev == "look" {
		t.Error("oldest entry not evicted")
	}
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(); ok {
		t.Error("Prev on empty history")
	}
	if _, ok := h.Next(); ok {
		t.Error("Next on empty history")
	}
}

func TestWordWrap(t *testing.T) {
	got := wordWrap("the quick brown fox jumps over the lazy dog", 10)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 10 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if strings.Join(strings.Fields(got), " ") != "the quick brown fox jumps over the lazy dog" {
		t.Errorf("words lost in wrap: %q", got)
	}

	if got := wordWrap("short", 80); got != "short" {
		t.Errorf("wordWrap(short) = %q", got)
	}
	if got := wordWrap("unbreakable", 0); got != "unbreakable" {
		t.Errorf("wordWrap width 0 = %q", got)
	}
}
