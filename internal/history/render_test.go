package history

import (
	"strings"
	"testing"
	"time"

	"vaani/internal/model"
)

func TestRenderSummary(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, loc)
	snap := model.Snapshot{
		Sounds: []model.Record{
			soundAt("आ", now.Add(-time.Hour), 50),
			soundAt("आ", now.AddDate(0, 0, -1), 80),
		},
	}

	var b strings.Builder
	if err := RenderSummary(&b, snap, now, loc, 4); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"Sessions: 2",
		"Best sound: 00:08.00",
		"Streak: 2 day(s)",
		"Today's goal: 25%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	// The activity line is the smoothed 14-day series.
	idx := strings.Index(out, "Last 14 days: [")
	if idx < 0 {
		t.Fatalf("summary missing sparkline:\n%s", out)
	}
	spark := out[idx+len("Last 14 days: ["):]
	spark = spark[:strings.Index(spark, "]")]
	if len([]rune(spark)) != 14 {
		t.Errorf("sparkline length = %d, want 14", len([]rune(spark)))
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var b strings.Builder
	if err := RenderSummary(&b, model.Snapshot{}, time.Now(), time.UTC, 4); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(b.String(), "Sessions: 0") {
		t.Errorf("empty summary wrong:\n%s", b.String())
	}
}
