// Package feed is the record and bookmark sync adapter: a push-based
// subscribe/write surface over the local store. Subscribers get the
// full per-user snapshot on attach and after every change; writes are
// fire-and-forget from the caller's point of view, with failures
// surfaced through the notifier instead of propagating into the UI.
//
// An empty user id degrades every operation to a safe no-op: empty
// snapshots, silent toggles, no writes.
package feed

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"vaani/internal/history"
	"vaani/internal/model"
	"vaani/internal/notify"
	"vaani/internal/practice"
	"vaani/internal/store"
	"vaani/internal/timefmt"
	"vaani/internal/timer"
)

// Feed fans out record and bookmark changes to subscribers.
type Feed struct {
	store    *store.Store
	notifier notify.Notifier
	now      func() time.Time
	newID    func() string

	mu           sync.Mutex
	nextSub      int
	recordSubs   map[int]recordSub
	bookmarkSubs map[int]bookmarkSub
}

type recordSub struct {
	userID string
	fn     func(model.Snapshot)
}

type bookmarkSub struct {
	userID string
	fn     func(model.Bookmarks)
}

// New builds a feed over the store. A nil notifier is replaced with a
// noop so a missing collaborator degrades instead of crashing.
func New(st *store.Store, notifier notify.Notifier) *Feed {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Feed{
		store:        st,
		notifier:     notifier,
		now:          time.Now,
		newID:        uuid.NewString,
		recordSubs:   map[int]recordSub{},
		bookmarkSubs: map[int]bookmarkSub{},
	}
}

// SubscribeRecords registers fn for record snapshots. It is invoked
// once immediately with the current state and again after every
// change for the same user. The returned function cancels delivery.
func (f *Feed) SubscribeRecords(ctx context.Context, userID string, fn func(model.Snapshot)) func() {
	fn(f.loadSnapshot(ctx, userID))

	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.recordSubs[id] = recordSub{userID: userID, fn: fn}
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.recordSubs, id)
		f.mu.Unlock()
	}
}

// SubscribeBookmarks registers fn for bookmark state, delivered once
// on attach and after every change for the same user.
func (f *Feed) SubscribeBookmarks(ctx context.Context, userID string, fn func(model.Bookmarks)) func() {
	fn(f.loadBookmarks(ctx, userID))

	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.bookmarkSubs[id] = bookmarkSub{userID: userID, fn: fn}
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.bookmarkSubs, id)
		f.mu.Unlock()
	}
}

func (f *Feed) loadSnapshot(ctx context.Context, userID string) model.Snapshot {
	if userID == "" {
		return model.Snapshot{}
	}
	snap, err := f.store.ListRecords(ctx, userID)
	if err != nil {
		// A failed load behaves as "no data yet", not stale data.
		f.notifier.Error("load records", err)
		return model.Snapshot{}
	}
	return snap
}

func (f *Feed) loadBookmarks(ctx context.Context, userID string) model.Bookmarks {
	if userID == "" {
		return model.NewBookmarks()
	}
	b, err := f.store.GetBookmarks(ctx, userID)
	if err != nil {
		f.notifier.Error("load bookmarks", err)
		return model.NewBookmarks()
	}
	return b
}

func (f *Feed) broadcastRecords(ctx context.Context, userID string) {
	f.mu.Lock()
	subs := make([]func(model.Snapshot), 0, len(f.recordSubs))
	for _, sub := range f.recordSubs {
		if sub.userID == userID {
			subs = append(subs, sub.fn)
		}
	}
	f.mu.Unlock()
	if len(subs) == 0 {
		return
	}
	snap := f.loadSnapshot(ctx, userID)
	for _, fn := range subs {
		fn(snap)
	}
}

func (f *Feed) broadcastBookmarksState(userID string, b model.Bookmarks) {
	f.mu.Lock()
	subs := make([]func(model.Bookmarks), 0, len(f.bookmarkSubs))
	for _, sub := range f.bookmarkSubs {
		if sub.userID == userID {
			subs = append(subs, sub.fn)
		}
	}
	f.mu.Unlock()
	for _, fn := range subs {
		fn(b.Clone())
	}
}

// Commit turns a timer commit snapshot into a persisted record,
// computing the kind-specific derived fields at commit time: new-best
// for sounds (against this symbol's prior durations), the quality
// label for alphabet recitation, and completion/stars for stories
// when a target duration is configured. Returns nil with no error
// when no user is signed in.
func (f *Feed) Commit(ctx context.Context, userID string, c timer.Commit, storyTargetSeconds int) (*model.Record, error) {
	if userID == "" {
		return nil, nil
	}
	if c.DurationTicks <= 0 {
		return nil, nil
	}

	rec := model.Record{
		ID:            f.newID(),
		Kind:          c.Key.Kind,
		DurationTicks: c.DurationTicks,
		CreatedAt:     f.now(),
	}
	switch c.Key.Kind {
	case model.KindSound:
		rec.Symbol = c.Key.Name
		snap := f.loadSnapshot(ctx, userID)
		prior := history.DurationsForSymbol(snap.Sounds, rec.Symbol)
		rec.IsNewBest = practice.IsNewBest(c.DurationTicks, prior)
	case model.KindAlphabet:
		rec.QualityLabel = practice.QualityLabel(timefmt.Seconds(c.DurationTicks))
		rec.Laps = c.Laps
	case model.KindStory:
		rec.StoryID = c.Key.Name
		if storyTargetSeconds > 0 {
			rec.CompletionPct = practice.CompletionPct(timefmt.Seconds(c.DurationTicks), storyTargetSeconds)
			rec.Stars = practice.Stars(rec.CompletionPct)
		}
	}

	if err := f.store.InsertRecord(ctx, userID, rec); err != nil {
		f.notifier.Error("save session", err)
		return nil, err
	}
	f.broadcastRecords(ctx, userID)
	return &rec, nil
}

// DeleteRecord hard-deletes one record and republishes the snapshot.
func (f *Feed) DeleteRecord(ctx context.Context, userID, id string) error {
	if userID == "" || id == "" {
		return nil
	}
	if err := f.store.DeleteRecord(ctx, userID, id); err != nil {
		f.notifier.Error("delete session", err)
		return err
	}
	f.broadcastRecords(ctx, userID)
	return nil
}

// ToggleStoryBookmark flips a story-level bookmark. The new state is
// published to subscribers before the write lands; on write failure
// the stored truth is republished and the failure reported. With no
// user signed in this is a silent no-op.
func (f *Feed) ToggleStoryBookmark(ctx context.Context, userID, storyID string) {
	if userID == "" || storyID == "" {
		return
	}
	current := f.loadBookmarks(ctx, userID)
	on := !current.HasStory(storyID)

	optimistic := current.Clone()
	if on {
		optimistic.Stories[storyID] = struct{}{}
	} else {
		delete(optimistic.Stories, storyID)
	}
	f.broadcastBookmarksState(userID, optimistic)

	if err := f.store.SetStoryBookmark(ctx, userID, storyID, on); err != nil {
		f.notifier.Error("save bookmark", err)
		f.broadcastBookmarksState(userID, f.loadBookmarks(ctx, userID))
	}
}

// ToggleLineBookmark flips a line-level bookmark with the same
// optimistic publish / revert-on-failure contract as story bookmarks.
func (f *Feed) ToggleLineBookmark(ctx context.Context, userID, storyID string, line int) {
	if userID == "" || storyID == "" || line < 0 {
		return
	}
	current := f.loadBookmarks(ctx, userID)
	on := !current.HasLine(storyID, line)

	optimistic := current.Clone()
	if on {
		if _, ok := optimistic.Lines[storyID]; !ok {
			optimistic.Lines[storyID] = map[int]struct{}{}
		}
		optimistic.Lines[storyID][line] = struct{}{}
	} else {
		delete(optimistic.Lines[storyID], line)
	}
	f.broadcastBookmarksState(userID, optimistic)

	if err := f.store.SetLineBookmark(ctx, userID, storyID, line, on); err != nil {
		f.notifier.Error("save bookmark", err)
		f.broadcastBookmarksState(userID, f.loadBookmarks(ctx, userID))
	}
}

// BookmarkPatch is a partial bookmark update: entries map to set
// (true) or clear (false). Absent entries are untouched.
type BookmarkPatch struct {
	Stories map[string]bool
	Lines   map[string]map[int]bool
}

// SaveBookmarks applies a partial merge of bookmark state. Individual
// failures are reported and do not stop the remaining entries; the
// two bookmark sets persist independently, so a partial failure can
// leave them inconsistent until the next successful write.
func (f *Feed) SaveBookmarks(ctx context.Context, userID string, patch BookmarkPatch) {
	if userID == "" {
		return
	}
	for storyID, on := range patch.Stories {
		if err := f.store.SetStoryBookmark(ctx, userID, storyID, on); err != nil {
			f.notifier.Error("save bookmark", err)
		}
	}
	for storyID, lines := range patch.Lines {
		for line, on := range lines {
			if err := f.store.SetLineBookmark(ctx, userID, storyID, line, on); err != nil {
				f.notifier.Error("save bookmark", err)
			}
		}
	}
	f.broadcastBookmarksState(userID, f.loadBookmarks(ctx, userID))
}
