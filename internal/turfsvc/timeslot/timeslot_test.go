package timeslot

import "testing"

func TestMinutes(t *testing.T) {
	cases := []struct {
		clock   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"06:00", 360, false},
		{"14:30", 870, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:00", 0, true},
		{"09:60", 0, true},
		{"0900", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := Minutes(c.clock)
		if c.wantErr {
			if err == nil {
				t.Errorf("Minutes(%q): expected error, got %d", c.clock, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Minutes(%q): unexpected error %v", c.clock, err)
			continue
		}
		if got != c.want {
			t.Errorf("Minutes(%q) = %d, want %d", c.clock, got, c.want)
		}
	}
}

func TestClockRoundTrip(t *testing.T) {
	for _, clock := range []string{"00:00", "06:30", "15:45", "23:00"} {
		min, err := Minutes(clock)
		if err != nil {
			t.Fatalf("Minutes(%q): %v", clock, err)
		}
		if got := Clock(min); got != clock {
			t.Errorf("Clock(Minutes(%q)) = %q", clock, got)
		}
	}
}

func TestNewRangeRejectsInverted(t *testing.T) {
	if _, err := NewRange("15:00", "14:00"); err == nil {
		t.Fatal("expected error for end before start")
	}
	if _, err := NewRange("15:00", "15:00"); err == nil {
		t.Fatal("expected error for zero-length interval")
	}
}

func TestOverlaps(t *testing.T) {
	r := func(s, e string) Range {
		rng, err := NewRange(s, e)
		if err != nil {
			t.Fatalf("NewRange(%s, %s): %v", s, e, err)
		}
		return rng
	}

	cases := []struct {
		name string
		a, b Range
		want bool
	}{
		{"identical", r("14:00", "15:00"), r("14:00", "15:00"), true},
		{"partial", r("13:30", "14:30"), r("14:00", "15:00"), true},
		{"contained", r("14:00", "16:00"), r("14:30", "15:00"), true},
		{"back to back", r("14:00", "15:00"), r("15:00", "16:00"), false},
		{"disjoint", r("09:00", "10:00"), r("11:00", "12:00"), false},
	}
	for _, c := range cases {
		if got := Overlaps(c.a, c.b); got != c.want {
			t.Errorf("%s: Overlaps = %v, want %v", c.name, got, c.want)
		}
		// overlap is symmetric
		if got := Overlaps(c.b, c.a); got != c.want {
			t.Errorf("%s: Overlaps (swapped) = %v, want %v", c.name, got, c.want)
		}
	}
}
