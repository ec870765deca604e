package feed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"vaani/internal/model"
	"vaani/internal/notify"
	"vaani/internal/store"
	"vaani/internal/timer"
)

func newTestFeed(t *testing.T) *Feed {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "vaani.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return New(st, notify.Noop{})
}

func TestCommitSoundDerivesNewBest(t *testing.T) {
	f := newTestFeed(t)
	ctx := context.Background()
	key := model.SoundKey("आ")

	for _, ticks := range []int{50, 80, 65} {
		rec, err := f.Commit(ctx, "asha", timer.Commit{Key: key, DurationTicks: ticks}, 0)
		if err != nil {
			t.Fatalf("commit %d: %v", ticks, err)
		}
		if rec == nil {
			t.Fatalf("commit %d returned nil record", ticks)
		}
	}

	rec, err := f.Commit(ctx, "asha", timer.Commit{Key: key, DurationTicks: 70}, 0)
	if err != nil {
		t.Fatalf("commit 70: %v", err)
	}
	if rec.IsNewBest {
		t.Error("70 against [50 80 65] marked new best")
	}

	rec, err = f.Commit(ctx, "asha", timer.Commit{Key: key, DurationTicks: 90}, 0)
	if err != nil {
		t.Fatalf("commit 90: %v", err)
	}
	if !rec.IsNewBest {
		t.Error("90 against [50 80 65 70] not marked new best")
	}

	// First record for another symbol is always a best.
	rec, err = f.Commit(ctx, "asha", timer.Commit{Key: model.SoundKey("ई"), DurationTicks: 1}, 0)
	if err != nil {
		t.Fatalf("commit first ई: %v", err)
	}
	if !rec.IsNewBest {
		t.Error("first record for a symbol not marked new best")
	}
}

func TestCommitAlphabetQualityAndLaps(t *testing.T) {
	f := newTestFeed(t)
	ctx := context.Background()
	laps := []model.Lap{{Index: 1, Ticks: 300}, {Index: 2, Ticks: 750}}

	rec, err := f.Commit(ctx, "asha", timer.Commit{
		Key:           model.AlphabetKey(),
		DurationTicks: 950, // 95 seconds
		Laps:          laps,
	}, 0)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if rec.QualityLabel != "Good" {
		t.Errorf("quality = %q, want Good", rec.QualityLabel)
	}
	if len(rec.Laps) != 2 {
		t.Errorf("laps = %d, want 2", len(rec.Laps))
	}

	snap := mustSnapshot(t, f, "asha")
	if len(snap.Alphabet) != 1 || len(snap.Alphabet[0].Laps) != 2 {
		t.Fatalf("persisted alphabet record wrong: %+v", snap.Alphabet)
	}
}

func TestCommitStoryStars(t *testing.T) {
	f := newTestFeed(t)
	ctx := context.Background()

	rec, err := f.Commit(ctx, "asha", timer.Commit{
		Key:           model.StoryKey("kahani"),
		DurationTicks: 720, // 72 seconds
	}, 90)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if rec.CompletionPct != 80 {
		t.Errorf("completion = %d, want 80", rec.CompletionPct)
	}
	if rec.Stars != 4 {
		t.Errorf("stars = %d, want 4", rec.Stars)
	}

	// Open-ended story: no target, no rating.
	rec, err = f.Commit(ctx, "asha", timer.Commit{
		Key:           model.StoryKey("khula"),
		DurationTicks: 300,
	}, 0)
	if err != nil {
		t.Fatalf("commit open-ended: %v", err)
	}
	if rec.Stars != 0 || rec.CompletionPct != 0 {
		t.Errorf("open-ended story rated: %+v", rec)
	}
}

func TestCommitGuards(t *testing.T) {
	f := newTestFeed(t)
	ctx := context.Background()

	rec, err := f.Commit(ctx, "", timer.Commit{Key: model.SoundKey("आ"), DurationTicks: 10}, 0)
	if err != nil || rec != nil {
		t.Fatalf("no-user commit: rec=%v err=%v", rec, err)
	}
	rec, err = f.Commit(ctx, "asha", timer.Commit{Key: model.SoundKey("आ")}, 0)
	if err != nil || rec != nil {
		t.Fatalf("zero-duration commit: rec=%v err=%v", rec, err)
	}
	if got := mustSnapshot(t, f, "asha").Count(); got != 0 {
		t.Fatalf("guarded commits persisted %d records", got)
	}
}

func TestSubscribeRecordsDelivery(t *testing.T) {
	f := newTestFeed(t)
	ctx := context.Background()

	var got []model.Snapshot
	cancel := f.SubscribeRecords(ctx, "asha", func(s model.Snapshot) {
		got = append(got, s)
	})
	if len(got) != 1 || got[0].Count() != 0 {
		t.Fatalf("initial delivery wrong: %+v", got)
	}

	if _, err := f.Commit(ctx, "asha", timer.Commit{Key: model.SoundKey("आ"), DurationTicks: 10}, 0); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(got) != 2 || got[1].Count() != 1 {
		t.Fatalf("post-commit delivery wrong: %d deliveries", len(got))
	}

	// Other users' changes are not delivered.
	if _, err := f.Commit(ctx, "ravi", timer.Commit{Key: model.SoundKey("आ"), DurationTicks: 10}, 0); err != nil {
		t.Fatalf("commit other user: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("foreign commit delivered: %d deliveries", len(got))
	}

	cancel()
	if _, err := f.Commit(ctx, "asha", timer.Commit{Key: model.SoundKey("आ"), DurationTicks: 10}, 0); err != nil {
		t.Fatalf("commit after cancel: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("delivery after cancel: %d deliveries", len(got))
	}
}

func TestSubscribeRecordsNoUser(t *testing.T) {
	f := newTestFeed(t)
	var got []model.Snapshot
	cancel := f.SubscribeRecords(context.Background(), "", func(s model.Snapshot) {
		got = append(got, s)
	})
	defer cancel()
	if len(got) != 1 || got[0].Count() != 0 {
		t.Fatalf("no-user subscription wrong: %+v", got)
	}
}

func TestDeleteRecordBroadcasts(t *testing.T) {
	f := newTestFeed(t)
	ctx := context.Background()

	rec, err := f.Commit(ctx, "asha", timer.Commit{Key: model.SoundKey("आ"), DurationTicks: 10}, 0)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	var last model.Snapshot
	cancel := f.SubscribeRecords(ctx, "asha", func(s model.Snapshot) {
		last = s
	})
	defer cancel()

	if err := f.DeleteRecord(ctx, "asha", rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if last.Count() != 0 {
		t.Fatalf("snapshot after delete: %d records", last.Count())
	}
}

func TestToggleBookmarks(t *testing.T) {
	f := newTestFeed(t)
	ctx := context.Background()

	var last model.Bookmarks
	cancel := f.SubscribeBookmarks(ctx, "asha", func(b model.Bookmarks) {
		last = b
	})
	defer cancel()

	f.ToggleStoryBookmark(ctx, "asha", "kahani")
	if !last.HasStory("kahani") {
		t.Fatal("story bookmark not set")
	}
	f.ToggleStoryBookmark(ctx, "asha", "kahani")
	if last.HasStory("kahani") {
		t.Fatal("story bookmark not cleared")
	}

	f.ToggleLineBookmark(ctx, "asha", "kahani", 2)
	if !last.HasLine("kahani", 2) {
		t.Fatal("line bookmark not set")
	}
	f.ToggleLineBookmark(ctx, "asha", "kahani", 2)
	if last.HasLine("kahani", 2) {
		t.Fatal("line bookmark not cleared")
	}
}

func TestToggleBookmarkNoUserIsSilent(t *testing.T) {
	f := newTestFeed(t)
	ctx := context.Background()

	delivered := 0
	cancel := f.SubscribeBookmarks(ctx, "", func(model.Bookmarks) {
		delivered++
	})
	defer cancel()
	if delivered != 1 {
		t.Fatalf("initial delivery count = %d", delivered)
	}

	f.ToggleStoryBookmark(ctx, "", "kahani")
	f.ToggleLineBookmark(ctx, "", "kahani", 1)
	if delivered != 1 {
		t.Fatalf("no-user toggle broadcast: %d deliveries", delivered)
	}

	// Nothing was written for any user either.
	b := f.loadBookmarks(ctx, "asha")
	if len(b.Stories) != 0 || len(b.Lines) != 0 {
		t.Fatalf("no-user toggle persisted state: %+v", b)
	}
}

func TestSaveBookmarksPartialMerge(t *testing.T) {
	f := newTestFeed(t)
	ctx := context.Background()

	f.ToggleStoryBookmark(ctx, "asha", "purani")
	f.SaveBookmarks(ctx, "asha", BookmarkPatch{
		Stories: map[string]bool{"kahani": true},
		Lines:   map[string]map[int]bool{"kahani": {4: true}},
	})

	b := f.loadBookmarks(ctx, "asha")
	if !b.HasStory("purani") {
		t.Fatal("partial merge clobbered existing bookmark")
	}
	if !b.HasStory("kahani") || !b.HasLine("kahani", 4) {
		t.Fatalf("patch not applied: %+v", b)
	}
}

func mustSnapshot(t *testing.T, f *Feed, userID string) model.Snapshot {
	t.Helper()
	snap := f.loadSnapshot(context.Background(), userID)
	return snap
}

func TestCommitTimestamps(t *testing.T) {
	f := newTestFeed(t)
	fixed := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return fixed }

	rec, err := f.Commit(context.Background(), "asha", timer.Commit{Key: model.SoundKey("आ"), DurationTicks: 10}, 0)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if !rec.CreatedAt.Equal(fixed) {
		t.Fatalf("CreatedAt = %v, want %v", rec.CreatedAt, fixed)
	}
	snap := mustSnapshot(t, f, "asha")
	if !snap.Sounds[0].CreatedAt.Equal(fixed) {
		t.Fatalf("persisted CreatedAt = %v", snap.Sounds[0].CreatedAt)
	}
}
