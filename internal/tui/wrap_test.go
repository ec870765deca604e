package tui

import "testing"

func TestWrapLine(t *testing.T) {
	got := wrapLine("one two three four", 9)
	want := []string{"one two", "three", "four"}
	if len(got) != len(want) {
		t.Fatalf("lines = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWrapLineNoWidth(t *testing.T) {
	got := wrapLine("unchanged text", 0)
	if len(got) != 1 || got[0] != "unchanged text" {
		t.Fatalf("got %v", got)
	}
}

func TestWrapLineLongWord(t *testing.T) {
	got := wrapLine("ab accommodation", 5)
	if len(got) != 2 || got[0] != "ab" || got[1] != "accommodation" {
		t.Fatalf("got %v", got)
	}
}

func TestWrapLineEmpty(t *testing.T) {
	got := wrapLine("", 10)
	if len(got) != 1 || got[0] != "" {
		t.Fatalf("got %v", got)
	}
}
