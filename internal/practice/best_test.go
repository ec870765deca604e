package practice

import "testing"

func TestIsNewBest(t *testing.T) {
	prior := []int{50, 80, 65}
	cases := []struct {
		name     string
		duration int
		prior    []int
		want     bool
	}{
		{"below prior max", 70, prior, false},
		{"equal to prior max", 80, prior, false},
		{"above prior max", 90, prior, true},
		{"first record ever", 1, nil, true},
		{"first record empty slice", 1, []int{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsNewBest(tc.duration, tc.prior); got != tc.want {
				t.Errorf("IsNewBest(%d, %v) = %v, want %v", tc.duration, tc.prior, got, tc.want)
			}
		})
	}
}

func TestBestDuration(t *testing.T) {
	if got := BestDuration([]int{50, 80, 65}); got != 80 {
		t.Errorf("BestDuration = %d, want 80", got)
	}
	if got := BestDuration(nil); got != 0 {
		t.Errorf("BestDuration(nil) = %d, want 0", got)
	}
}
