package practice

// Quality labels for alphabet recitation, best first.
const (
	QualityExcellent = "Excellent"
	QualityGood      = "Good"
	QualityFair      = "Fair"
	QualityPractice  = "Keep Practicing"
)

type qualityBand struct {
	minSeconds int
	label      string
}

// Ordered highest threshold first; the zero band always matches.
var qualityBands = []qualityBand{
	{120, QualityExcellent},
	{90, QualityGood},
	{60, QualityFair},
	{0, QualityPractice},
}

// QualityLabel classifies an alphabet-recitation duration in seconds
// into one of the four quality buckets.
func QualityLabel(seconds int) string {
	for _, band := range qualityBands {
		if seconds >= band.minSeconds {
			return band.label
		}
	}
	return QualityPractice
}

type starBand struct {
	minPct int
	stars  int
}

var starBands = []starBand{
	{100, 5},
	{80, 4},
	{60, 3},
	{40, 2},
	{0, 1},
}

// Stars maps a story-reading completion percentage to a 1-5 star
// rating. Percentages above 100 still earn five stars.
func Stars(completionPct int) int {
	for _, band := range starBands {
		if completionPct >= band.minPct {
			return band.stars
		}
	}
	return 1
}

// CompletionPct computes how much of a story's target duration was
// reached, capped at 100. A target of zero means the story is
// open-ended and there is nothing to measure; callers should skip the
// star rating in that case.
func CompletionPct(durationSeconds, targetSeconds int) int {
	if targetSeconds <= 0 || durationSeconds <= 0 {
		return 0
	}
	pct := durationSeconds * 100 / targetSeconds
	if pct > 100 {
		pct = 100
	}
	return pct
}
