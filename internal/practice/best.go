// Package practice contains scoring rules for committed sessions.
package practice

// IsNewBest reports whether a just-committed sound-drill duration beats
// every prior duration for the same sound. Longer is better: the goal
// of a sound drill is sustaining the sound, so this is deliberately the
// opposite convention from a race clock.
func IsNewBest(durationTicks int, prior []int) bool {
	for _, p := range prior {
		if p >= durationTicks {
			return false
		}
	}
	return true
}

// BestDuration returns the highest duration among the given records'
// durations, or 0 when there are none.
func BestDuration(durations []int) int {
	best := 0
	for _, d := range durations {
		if d > best {
			best = d
		}
	}
	return best
}
