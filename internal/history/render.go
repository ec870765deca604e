package history

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"vaani/internal/model"
	"vaani/internal/timefmt"
)

const dayLayout = "2006-01-02"

// RenderSummary prints the whole-history overview: totals, streak,
// daily goal progress, and a recent-activity sparkline.
func RenderSummary(w io.Writer, snap model.Snapshot, now time.Time, loc *time.Location, dailyGoal int) error {
	totals := Summarize(snap)
	all := snap.All()
	streak := Streak(all, now, loc)
	goal := GoalProgress(all, now, loc, dailyGoal)

	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	lines := []string{
		fmt.Sprintf("Sessions: %d", totals.Sessions),
		fmt.Sprintf("Total time: %s", timefmt.Format(totals.TotalTicks)),
		fmt.Sprintf("Best sound: %s", timefmt.Format(totals.BestSoundTicks)),
		fmt.Sprintf("Streak: %d day(s)", streak),
		fmt.Sprintf("Today's goal: %d%%", goal),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if spark := Sparkline(MovingAverage(DailyTicks(all, now, loc, 14), 3)); spark != "" {
		if _, err := fmt.Fprintf(w, "Last 14 days: [%s]\n", spark); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderRounds prints the per-day round table for sound drills.
// width limits the rendered row length when positive.
func RenderRounds(w io.Writer, sounds []model.Record, loc *time.Location, width int) error {
	days := SoundRounds(sounds, loc)
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "No sound drills recorded yet.")
		return err
	}
	symbols := Symbols(sounds)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	header := table.Row{"Day", "Round"}
	for _, s := range symbols {
		header = append(header, s)
	}
	t.AppendHeader(header)
	for _, day := range days {
		for i, round := range day.Rounds {
			row := table.Row{day.Day.Format(dayLayout), i + 1}
			for _, s := range symbols {
				if rec, ok := round[s]; ok {
					cell := timefmt.Format(rec.DurationTicks)
					if rec.IsNewBest {
						cell += " *"
					}
					row = append(row, cell)
				} else {
					row = append(row, "-")
				}
			}
			t.AppendRow(row)
		}
	}
	t.SetStyle(table.StyleLight)
	if width > 0 {
		t.SetAllowedRowLength(width)
	}
	t.Render()
	return nil
}

// RenderRecords prints every record, newest day first, with the
// kind-specific derived fields.
func RenderRecords(w io.Writer, snap model.Snapshot, loc *time.Location, width int) error {
	days := ByDay(snap.All(), loc)
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded yet.")
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Day", "Time", "Practice", "Duration", "Result"})
	for _, day := range days {
		for _, rec := range day.Records {
			t.AppendRow(table.Row{
				day.Day.Format(dayLayout),
				rec.CreatedAt.In(loc).Format("15:04"),
				describe(rec),
				timefmt.Format(rec.DurationTicks),
				result(rec),
			})
		}
	}
	t.SetStyle(table.StyleLight)
	if width > 0 {
		t.SetAllowedRowLength(width)
	}
	t.Render()
	return nil
}

func describe(r model.Record) string {
	switch r.Kind {
	case model.KindSound:
		return "Sound " + r.Symbol
	case model.KindAlphabet:
		return "Alphabet"
	case model.KindStory:
		return "Story " + r.StoryID
	}
	return string(r.Kind)
}

func result(r model.Record) string {
	switch r.Kind {
	case model.KindSound:
		if r.IsNewBest {
			return "new best"
		}
		return ""
	case model.KindAlphabet:
		return r.QualityLabel
	case model.KindStory:
		if r.Stars > 0 {
			return fmt.Sprintf("%s (%d%%)", strings.Repeat("★", r.Stars), r.CompletionPct)
		}
		return ""
	}
	return ""
}
