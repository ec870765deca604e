package timefmt

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		ticks int
		want  string
	}{
		{0, "00:00.00"},
		{1, "00:00.10"},
		{9, "00:00.90"},
		{10, "00:01.00"},
		{65, "00:06.50"},
		{600, "01:00.00"},
		{1234, "02:03.40"},
		{36000, "60:00.00"},
		{-5, "00:00.00"},
	}
	for _, tc := range cases {
		if got := Format(tc.ticks); got != tc.want {
			t.Errorf("Format(%d) = %q, want %q", tc.ticks, got, tc.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, ticks := range []int{0, 1, 9, 10, 59, 600, 601, 5999, 36000, 123456} {
		got, err := Parse(Format(ticks))
		if err != nil {
			t.Fatalf("Parse(Format(%d)): %v", ticks, err)
		}
		if got != ticks {
			t.Errorf("round trip %d -> %d", ticks, got)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "0:00.00", "00:60.00", "00:00.05", "00:00", "a0:00.00"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", s)
		}
	}
}

func TestSeconds(t *testing.T) {
	if got := Seconds(1234); got != 123 {
		t.Errorf("Seconds(1234) = %d, want 123", got)
	}
	if got := Seconds(-1); got != 0 {
		t.Errorf("Seconds(-1) = %d, want 0", got)
	}
}
