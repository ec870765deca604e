// Package story loads story texts from files.
//
// A story is a plain text file named <id>.txt. Leading lines of the
// form "# title: ..." and "# target: <seconds>" are metadata; the
// remaining non-empty lines are the story body, addressable by index
// for line bookmarks. A story without a target is open-ended and gets
// no star rating.
package story

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Story is one loaded story text.
type Story struct {
	ID            string
	Title         string
	TargetSeconds int
	Lines         []string
}

// Load reads a single story file.
func Load(path string) (Story, error) {
	file, err := os.Open(path)
	if err != nil {
		return Story{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only story file.
			_ = cerr
		}
	}()

	st := Story{ID: strings.TrimSuffix(filepath.Base(path), ".txt")}
	st.Title = st.ID

	scanner := bufio.NewScanner(file)
	inHeader := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if inHeader && strings.HasPrefix(line, "#") {
			parseHeader(&st, strings.TrimSpace(strings.TrimPrefix(line, "#")))
			continue
		}
		inHeader = false
		st.Lines = append(st.Lines, line)
	}
	if err := scanner.Err(); err != nil {
		return Story{}, err
	}
	if len(st.Lines) == 0 {
		return Story{}, fmt.Errorf("story %s is empty", st.ID)
	}
	return st, nil
}

func parseHeader(st *Story, header string) {
	key, value, ok := strings.Cut(header, ":")
	if !ok {
		return
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	switch key {
	case "title":
		if value != "" {
			st.Title = value
		}
	case "target":
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			st.TargetSeconds = seconds
		}
	}
}

// LoadDir loads every .txt story in the directory, sorted by id.
func LoadDir(dir string) ([]Story, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var stories []Story
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		st, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to load story %s: %w", entry.Name(), err)
		}
		stories = append(stories, st)
	}
	sort.Slice(stories, func(i, j int) bool {
		return stories[i].ID < stories[j].ID
	})
	return stories, nil
}

// Find returns the story with the given id from the directory.
func Find(dir, id string) (Story, error) {
	path := filepath.Join(dir, id+".txt")
	st, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Story{}, fmt.Errorf("story %q not found (expected %s)", id, path)
		}
		return Story{}, err
	}
	return st, nil
}
