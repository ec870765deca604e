package practice

import "testing"

func TestQualityLabel(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, QualityPractice},
		{59, QualityPractice},
		{60, QualityFair},
		{89, QualityFair},
		{90, QualityGood},
		{119, QualityGood},
		{120, QualityExcellent},
		{600, QualityExcellent},
	}
	for _, tc := range cases {
		if got := QualityLabel(tc.seconds); got != tc.want {
			t.Errorf("QualityLabel(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestStars(t *testing.T) {
	cases := []struct {
		pct  int
		want int
	}{
		{0, 1},
		{39, 1},
		{40, 2},
		{60, 3},
		{80, 4},
		{99, 4},
		{100, 5},
	}
	for _, tc := range cases {
		if got := Stars(tc.pct); got != tc.want {
			t.Errorf("Stars(%d) = %d, want %d", tc.pct, got, tc.want)
		}
	}
}

func TestCompletionPct(t *testing.T) {
	cases := []struct {
		duration, target, want int
	}{
		{90, 90, 100},
		{45, 90, 50},
		{200, 90, 100},
		{30, 0, 0},
		{0, 90, 0},
	}
	for _, tc := range cases {
		if got := CompletionPct(tc.duration, tc.target); got != tc.want {
			t.Errorf("CompletionPct(%d, %d) = %d, want %d", tc.duration, tc.target, got, tc.want)
		}
	}
}
