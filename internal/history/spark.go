package history

import (
	"math"
	"sort"
	"strings"
	"time"

	"vaani/internal/model"
)

const sparkChars = " .:-=+*#%@"

// DailyTicks returns total practiced ticks per day for the most recent
// days, oldest first, including zero entries for gap days so the
// sparkline shows rest days.
func DailyTicks(records []model.Record, now time.Time, loc *time.Location, days int) []float64 {
	if days <= 0 {
		return nil
	}
	byDay := map[DayKey]int{}
	for _, r := range records {
		if !usable(r) {
			continue
		}
		byDay[dayOf(r.CreatedAt, loc)] += r.DurationTicks
	}
	out := make([]float64, 0, days)
	start := dayOf(now, loc).AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		out = append(out, float64(byDay[start.AddDate(0, 0, i)]))
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Symbols lists the distinct sound symbols present in the records,
// sorted for stable display.
func Symbols(sounds []model.Record) []string {
	seen := map[string]struct{}{}
	for _, r := range sounds {
		seen[r.Symbol] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
