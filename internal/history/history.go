// Package history derives display groupings from committed records.
//
// Everything here is recomputed on read from the flat record lists;
// there is no incremental aggregation state. Records with a missing
// or zero CreatedAt are skipped rather than failing the computation.
package history

import (
	"sort"
	"time"

	"vaani/internal/model"
)

// DayKey is a calendar day in the viewer's location, at midnight.
type DayKey = time.Time

func dayOf(t time.Time, loc *time.Location) DayKey {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func usable(r model.Record) bool {
	return !r.CreatedAt.IsZero()
}

// Round maps sound symbol to the record practiced for it within one
// pass through the sounds.
type Round map[string]model.Record

// DayRounds is one calendar day's sound drills, split into rounds.
type DayRounds struct {
	Day    DayKey
	Rounds []Round
}

// SoundRounds reconstructs practice rounds from the flat sound-drill
// list. Within a day records are walked oldest first; re-seeing a
// symbol closes the current round and opens the next. There is no
// stored round identifier, the grouping is inferred entirely from
// timestamp order. Days are returned newest first, rounds within a
// day oldest first.
func SoundRounds(records []model.Record, loc *time.Location) []DayRounds {
	byDay := map[DayKey][]model.Record{}
	for _, r := range records {
		if !usable(r) || r.Kind != model.KindSound {
			continue
		}
		day := dayOf(r.CreatedAt, loc)
		byDay[day] = append(byDay[day], r)
	}

	out := make([]DayRounds, 0, len(byDay))
	for day, recs := range byDay {
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].CreatedAt.Before(recs[j].CreatedAt)
		})
		var rounds []Round
		current := Round{}
		for _, r := range recs {
			if _, seen := current[r.Symbol]; seen {
				rounds = append(rounds, current)
				current = Round{}
			}
			current[r.Symbol] = r
		}
		if len(current) > 0 {
			rounds = append(rounds, current)
		}
		out = append(out, DayRounds{Day: day, Rounds: rounds})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Day.After(out[j].Day)
	})
	return out
}

// DayGroup is one calendar day's records of any kind, oldest first.
type DayGroup struct {
	Day     DayKey
	Records []model.Record
}

// ByDay partitions records into viewer-local calendar days, newest
// day first.
func ByDay(records []model.Record, loc *time.Location) []DayGroup {
	byDay := map[DayKey][]model.Record{}
	for _, r := range records {
		if !usable(r) {
			continue
		}
		day := dayOf(r.CreatedAt, loc)
		byDay[day] = append(byDay[day], r)
	}
	out := make([]DayGroup, 0, len(byDay))
	for day, recs := range byDay {
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].CreatedAt.Before(recs[j].CreatedAt)
		})
		out = append(out, DayGroup{Day: day, Records: recs})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Day.After(out[j].Day)
	})
	return out
}

// Totals are the whole-history aggregate numbers.
type Totals struct {
	Sessions       int
	TotalTicks     int
	BestSoundTicks int
}

// Summarize computes totals across all three record lists.
func Summarize(snap model.Snapshot) Totals {
	var t Totals
	t.Sessions = snap.Count()
	for _, r := range snap.All() {
		t.TotalTicks += r.DurationTicks
	}
	for _, r := range snap.Sounds {
		if r.DurationTicks > t.BestSoundTicks {
			t.BestSoundTicks = r.DurationTicks
		}
	}
	return t
}

// Streak counts consecutive calendar days with at least one record of
// any kind, walking backward from today, or from yesterday when today
// has none yet. Zero records means a zero streak.
func Streak(records []model.Record, now time.Time, loc *time.Location) int {
	days := map[DayKey]struct{}{}
	for _, r := range records {
		if !usable(r) {
			continue
		}
		days[dayOf(r.CreatedAt, loc)] = struct{}{}
	}
	if len(days) == 0 {
		return 0
	}
	cursor := dayOf(now, loc)
	if _, ok := days[cursor]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}
	streak := 0
	for {
		if _, ok := days[cursor]; !ok {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// GoalProgress is today's record count as a percentage of the daily
// goal, capped at 100. A non-positive goal reports 0.
func GoalProgress(records []model.Record, now time.Time, loc *time.Location, dailyGoal int) int {
	if dailyGoal <= 0 {
		return 0
	}
	today := dayOf(now, loc)
	count := 0
	for _, r := range records {
		if !usable(r) {
			continue
		}
		if dayOf(r.CreatedAt, loc).Equal(today) {
			count++
		}
	}
	pct := count * 100 / dailyGoal
	if pct > 100 {
		pct = 100
	}
	return pct
}

// BestBySymbol returns the best (longest) duration per sound symbol.
func BestBySymbol(sounds []model.Record) map[string]int {
	best := map[string]int{}
	for _, r := range sounds {
		if r.DurationTicks > best[r.Symbol] {
			best[r.Symbol] = r.DurationTicks
		}
	}
	return best
}

// DurationsForSymbol collects all committed durations for one symbol,
// in list order.
func DurationsForSymbol(sounds []model.Record, symbol string) []int {
	var out []int
	for _, r := range sounds {
		if r.Symbol == symbol {
			out = append(out, r.DurationTicks)
		}
	}
	return out
}
