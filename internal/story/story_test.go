package story

import (
	"os"
	"path/filepath"
	"testing"
)

func writeStory(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write story: %v", err)
	}
}

func TestLoadWithHeaders(t *testing.T) {
	dir := t.TempDir()
	writeStory(t, dir, "kahani.txt", `# title: पहली कहानी
# target: 90

एक गाँव में एक किसान रहता था।
उसके पास एक छोटा खेत था।
`)
	st, err := Load(filepath.Join(dir, "kahani.txt"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.ID != "kahani" {
		t.Errorf("id = %q", st.ID)
	}
	if st.Title != "पहली कहानी" {
		t.Errorf("title = %q", st.Title)
	}
	if st.TargetSeconds != 90 {
		t.Errorf("target = %d, want 90", st.TargetSeconds)
	}
	if len(st.Lines) != 2 {
		t.Errorf("lines = %d, want 2", len(st.Lines))
	}
}

func TestLoadWithoutHeaders(t *testing.T) {
	dir := t.TempDir()
	writeStory(t, dir, "plain.txt", "सिर्फ एक पंक्ति।\n")
	st, err := Load(filepath.Join(dir, "plain.txt"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Title != "plain" {
		t.Errorf("title fallback = %q, want id", st.Title)
	}
	if st.TargetSeconds != 0 {
		t.Errorf("open-ended story has target %d", st.TargetSeconds)
	}
}

func TestLoadEmptyStory(t *testing.T) {
	dir := t.TempDir()
	writeStory(t, dir, "empty.txt", "# title: खाली\n")
	if _, err := Load(filepath.Join(dir, "empty.txt")); err == nil {
		t.Fatal("empty story accepted")
	}
}

func TestLoadDirSorted(t *testing.T) {
	dir := t.TempDir()
	writeStory(t, dir, "b.txt", "दूसरी।\n")
	writeStory(t, dir, "a.txt", "पहली।\n")
	writeStory(t, dir, "notes.md", "ignored\n")

	stories, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(stories) != 2 {
		t.Fatalf("stories = %d, want 2", len(stories))
	}
	if stories[0].ID != "a" || stories[1].ID != "b" {
		t.Errorf("order wrong: %s, %s", stories[0].ID, stories[1].ID)
	}
}

func TestFindMissing(t *testing.T) {
	if _, err := Find(t.TempDir(), "nahi"); err == nil {
		t.Fatal("missing story found")
	}
}
