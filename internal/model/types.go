// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Kind discriminates which practice activity a timer or record belongs to.
type Kind string

// Practice kinds.
const (
	KindSound    Kind = "sound"
	KindAlphabet Kind = "alphabet"
	KindStory    Kind = "story"
)

// Valid reports whether the kind is one of the known practice kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSound, KindAlphabet, KindStory:
		return true
	}
	return false
}

// Key identifies one timer instance: a kind plus its parameter.
// Sound keys carry the sound symbol, story keys the story id, and the
// alphabet key has an empty name (it is a singleton).
type Key struct {
	Kind Kind
	Name string
}

// SoundKey builds the key for a sound-drill timer.
func SoundKey(symbol string) Key {
	return Key{Kind: KindSound, Name: symbol}
}

// AlphabetKey returns the singleton alphabet-recitation key.
func AlphabetKey() Key {
	return Key{Kind: KindAlphabet}
}

// StoryKey builds the key for a story-reading timer.
func StoryKey(storyID string) Key {
	return Key{Kind: KindStory, Name: storyID}
}

func (k Key) String() string {
	if k.Name == "" {
		return string(k.Kind)
	}
	return fmt.Sprintf("%s:%s", k.Kind, k.Name)
}

// Lap is one recorded split: the lap ordinal and the elapsed ticks at
// the moment it was captured. Only alphabet recitation records laps.
type Lap struct {
	Index int
	Ticks int
}

// Record is one committed practice session. It is immutable once
// written; the only mutation the store supports is a hard delete.
//
// Kind-specific fields are populated per variant and must be read
// behind a switch on Kind: Symbol and IsNewBest belong to sound
// records, Laps and QualityLabel to alphabet records, StoryID,
// CompletionPct and Stars to story records.
type Record struct {
	ID            string
	Kind          Kind
	Symbol        string
	StoryID       string
	DurationTicks int
	CreatedAt     time.Time

	IsNewBest     bool
	QualityLabel  string
	Laps          []Lap
	CompletionPct int
	Stars         int
}

// KeyOf returns the timer key this record was committed from.
func (r Record) KeyOf() Key {
	switch r.Kind {
	case KindSound:
		return SoundKey(r.Symbol)
	case KindStory:
		return StoryKey(r.StoryID)
	default:
		return AlphabetKey()
	}
}

// Snapshot is the full per-user record state, one list per kind,
// each ordered oldest first.
type Snapshot struct {
	Sounds   []Record
	Alphabet []Record
	Stories  []Record
}

// All returns every record across kinds, preserving per-list order.
func (s Snapshot) All() []Record {
	out := make([]Record, 0, len(s.Sounds)+len(s.Alphabet)+len(s.Stories))
	out = append(out, s.Sounds...)
	out = append(out, s.Alphabet...)
	out = append(out, s.Stories...)
	return out
}

// Count is the total number of records in the snapshot.
func (s Snapshot) Count() int {
	return len(s.Sounds) + len(s.Alphabet) + len(s.Stories)
}

// Bookmarks holds the two independent bookmark sets: whole stories and
// individual lines within a story (line index within the story text).
type Bookmarks struct {
	Stories map[string]struct{}
	Lines   map[string]map[int]struct{}
}

// NewBookmarks returns an empty, non-nil bookmark state.
func NewBookmarks() Bookmarks {
	return Bookmarks{
		Stories: map[string]struct{}{},
		Lines:   map[string]map[int]struct{}{},
	}
}

// Clone deep-copies the bookmark state.
func (b Bookmarks) Clone() Bookmarks {
	out := NewBookmarks()
	for id := range b.Stories {
		out.Stories[id] = struct{}{}
	}
	for id, lines := range b.Lines {
		cp := make(map[int]struct{}, len(lines))
		for idx := range lines {
			cp[idx] = struct{}{}
		}
		out.Lines[id] = cp
	}
	return out
}

// HasStory reports whether the story is bookmarked.
func (b Bookmarks) HasStory(storyID string) bool {
	_, ok := b.Stories[storyID]
	return ok
}

// HasLine reports whether the given line of a story is bookmarked.
func (b Bookmarks) HasLine(storyID string, line int) bool {
	lines, ok := b.Lines[storyID]
	if !ok {
		return false
	}
	_, ok = lines[line]
	return ok
}

// Config defines practice settings.
type Config struct {
	User      string
	Sounds    []string
	DailyGoal int
	StoryDir  string
}
