package catalog

import (
	"testing"
	"time"
)

func TestCatalogHasElevenEvents(t *testing.T) {
	want := []string{
		"Paper Presentation",
		"Poster Presentation",
		"Technical Quiz",
		"Debate Competition",
		"UDYAT",
		"Show Your Talent",
		"Free Fire Tournament",
		"Eat As Possible",
		"Explore The Topic",
		"Content Creation",
		"Fitness Challenge",
	}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEveryDescriptorIsComplete(t *testing.T) {
	for _, d := range All() {
		if d.Key == "" || d.Title == "" || d.Overview == "" {
			t.Errorf("%q: missing key, title or overview", d.Name)
		}
		if len(d.Eligibility) == 0 || len(d.Format) == 0 || len(d.Rules) == 0 || len(d.Judging) == 0 {
			t.Errorf("%q: empty list section", d.Name)
		}
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup("quiz")
	if !ok {
		t.Fatal("quiz not found")
	}
	if d.Name != "Technical Quiz" {
		t.Errorf("name = %q", d.Name)
	}
	if _, ok := Lookup("chess"); ok {
		t.Error("unknown key should not resolve")
	}
	if d2, ok := ByName("Technical Quiz"); !ok || d2.Key != "quiz" {
		t.Errorf("ByName = %+v, %v", d2, ok)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "changed"
	if Names()[0] != "Paper Presentation" {
		t.Error("All exposed internal state")
	}
}

func TestCountdown(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want Remaining
	}{
		{
			name: "days ahead",
			now:  start.Add(-(2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second)),
			want: Remaining{Days: 2, Hours: 3, Minutes: 4, Seconds: 5},
		},
		{name: "at start", now: start, want: Remaining{Started: true}},
		{name: "after start", now: start.Add(time.Hour), want: Remaining{Started: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Countdown(tt.now, start); got != tt.want {
				t.Errorf("Countdown = %+v, want %+v", got, tt.want)
			}
		})
	}
}
